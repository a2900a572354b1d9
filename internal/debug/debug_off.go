//go:build !debug

// Package debug provides assertions that compile to no-ops unless built
// with the "debug" tag. Internal invariant checks (the pool's worker-index
// bound, the wire probe's read cursor) are expressed through this package
// so they cost nothing in production builds. The coordinator's routing
// violations (non-empty undelivered map, message for a key not in seen)
// and Null-communicator misuse do not go through it: they panic in every
// build.
/*
 * Copyright (c) 2024, gridiron-go authors.
 */
package debug

func ON() bool { return false }

func Assert(_ bool, _ ...any)            {}
func AssertFunc(_ func() bool, _ ...any) {}
func AssertNoErr(_ error)                {}
func Assertf(_ bool, _ string, _ ...any) {}
