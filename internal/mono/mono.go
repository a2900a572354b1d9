//go:build !mono

// Package mono provides a monotonic nanosecond clock for log timestamping
// and stage timing.
/*
 * Copyright (c) 2024, gridiron-go authors.
 */
package mono

import "time"

var start = time.Now()

// NanoTime returns nanoseconds elapsed since process start. It is
// monotonic by construction (time.Since uses the monotonic reading
// embedded in time.Time), unlike time.Now().UnixNano().
func NanoTime() int64 { return int64(time.Since(start)) }
