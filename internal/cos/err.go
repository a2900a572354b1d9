// Package cos provides the low-level error type the coordinator raises on
// a work-function agreement violation, adapted from the teacher's
// cmn/cos/err.go error-type conventions (a small named type wrapping
// github.com/pkg/errors rather than a bare fmt.Errorf).
/*
 * Copyright (c) 2024, gridiron-go authors.
 */
package cos

import "github.com/pkg/errors"

// ErrNotOwned is raised when a message arrives during the drain phase for
// a key that is not waiting in the coordinator's seen map — one this peer
// never observed during the current stage, or one whose task has already
// completed — the
// drain-phase failure mode spec.md §4.H step 4 calls out: "dest must be
// present in seen (otherwise fatal)". It means some peer's work function
// disagrees with this one about who owns key.
type ErrNotOwned struct {
	key any
}

func NewErrNotOwned(key any) *ErrNotOwned { return &ErrNotOwned{key} }

func (e *ErrNotOwned) Error() string {
	return errors.Errorf("message received for key %v that is not owned by this peer", e.key).Error()
}
