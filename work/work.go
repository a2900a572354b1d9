// Package work provides ready-made work-assignment functions: pure
// mappings from a task Key to the rank that owns it. Every peer in a
// stage must use an equivalent function — gridiron-go never exchanges
// routing tables, so disagreement here is a silent protocol violation
// that surfaces later as a "message for unknown key" panic.
/*
 * Copyright (c) 2024, gridiron-go authors.
 */
package work

import (
	"encoding/binary"

	"github.com/OneOfOne/xxhash"

	"github.com/clemson-cal/gridiron-go/coordinate"
)

// Hash builds a work function that buckets an int64 key by rank via
// xxhash, spreading keys roughly evenly across size ranks regardless of
// their numeric distribution — unlike a plain modulo, adjacent keys are
// not guaranteed to land on adjacent ranks, which is a reasonable default
// when no spatial structure informs the assignment.
func Hash(size int) coordinate.Work[int64] {
	return func(key int64) int {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(key))
		h := xxhash.Checksum64(buf[:])
		return int(h % uint64(size))
	}
}

// Modulo builds a work function that assigns an int64 key to rank
// key % size. Adjacent keys land on adjacent ranks, which suits callers
// whose keys already encode spatial or index locality (e.g. a 1-D patch
// index) and want neighboring patches co-located when size permits.
func Modulo(size int) coordinate.Work[int64] {
	return func(key int64) int {
		r := key % int64(size)
		if r < 0 {
			r += int64(size)
		}
		return int(r)
	}
}

// Constant builds a work function that routes every key to the same
// rank. Useful for the degenerate single-peer case and for tests that
// want every task co-located.
func Constant[K comparable](rank int) coordinate.Work[K] {
	return func(K) int { return rank }
}
