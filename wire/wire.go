// Package wire provides the framed, length-prefixed byte-stream utilities
// shared by every TCP-based Communicator: blocking reads that loop over
// partial reads, and a non-blocking "is anything here yet" probe suited to
// a poll-style receiver that rotates attention across many accepted
// connections without dedicating a goroutine to each one. comm/tcp uses a
// goroutine per accepted connection and does not call the probe.
//
// Adapted from original_source/src/message/util.rs (read_usize,
// read_usize_non_blocking, read_bytes_into, read_bytes_into_non_blocking).
/*
 * Copyright (c) 2024, gridiron-go authors.
 */
package wire

import (
	"encoding/binary"
	"io"
	"net"
	"time"

	"github.com/clemson-cal/gridiron-go/internal/debug"
)

const uint64Size = 8

// ReadExact fills buf completely, looping over whatever partial reads the
// underlying reader returns. Partial reads are normal here, not an error
// condition; only a read error or EOF before buf is full is fatal.
func ReadExact(r io.Reader, buf []byte) error {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			if m > 0 && err == io.EOF && n == len(buf) {
				break
			}
			return err
		}
	}
	return nil
}

// ReadUint64 reads a little-endian uint64 (the framing fields on the
// wire — length and tag are both encoded this way).
func ReadUint64(r io.Reader) (uint64, error) {
	var buf [uint64Size]byte
	if err := ReadExact(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// WriteUint64 writes v as a little-endian uint64.
func WriteUint64(w io.Writer, v uint64) error {
	var buf [uint64Size]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadUint64NB probes conn for a framing field without blocking
// indefinitely: it attaches a short read deadline and attempts a single
// Read. If zero bytes are available before the deadline, it reports
// absent (ok=false) and leaves the stream untouched from the caller's
// point of view. As soon as any byte has arrived, the read is committed:
// the deadline is cleared and the remainder of the 8 bytes is pulled with
// a blocking ReadExact. The contract is "either fully read 8 bytes, or
// none" — a partial uint64 is never observable by the caller.
func ReadUint64NB(conn net.Conn, pollTimeout time.Duration) (val uint64, ok bool, err error) {
	var buf [uint64Size]byte

	if err = conn.SetReadDeadline(time.Now().Add(pollTimeout)); err != nil {
		return 0, false, err
	}
	n, rerr := conn.Read(buf[:])
	if n == 0 {
		if err = conn.SetReadDeadline(time.Time{}); err != nil {
			return 0, false, err
		}
		if isTimeout(rerr) {
			return 0, false, nil
		}
		return 0, false, rerr
	}

	// Committed: clear the deadline and block until the rest arrives.
	if err = conn.SetReadDeadline(time.Time{}); err != nil {
		return 0, false, err
	}
	if n < uint64Size {
		if err = ReadExact(conn, buf[n:]); err != nil {
			return 0, false, err
		}
	}
	debug.Assert(n <= uint64Size, "short-read cursor overran frame field", n)
	return binary.LittleEndian.Uint64(buf[:]), true, nil
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
