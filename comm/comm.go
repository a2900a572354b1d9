// Package comm defines the point-to-point byte transport abstraction the
// coordinator routes non-local messages through. Concrete transports live
// in sibling packages (comm/tcp, comm/hpc); this package also provides the
// Null implementation used by intra-process executors.
/*
 * Copyright (c) 2024, gridiron-go authors.
 */
package comm

// Communicator is the transport contract a distributed executor drives.
//
// Send is non-blocking and asynchronous with respect to the peer: it must
// not block on network I/O. Ordering is preserved only within a single
// (destination, stamp) pair.
//
// Recv blocks until exactly one payload addressed to this peer, carrying
// the current time stamp, is available; arrival order across senders is
// unspecified.
//
// NextTimeStamp advances the monotonic stage stamp. Sends issued after the
// call carry the new stamp; a Recv call must never surface a message
// carrying a stamp other than the current one — earlier or later stamped
// messages are parked internally until their stamp becomes current.
type Communicator interface {
	Rank() int
	Size() int
	Send(destRank int, payload []byte)
	Recv() []byte
	NextTimeStamp()
}

// Null is the single-peer Communicator used by the Serial and Pooled
// executors, which never leave the local process. Rank is always 0, Size
// is always 1. Calling Send or Recv on it is a programmer error: a work
// function that ever routes a key away from rank 0 while using Null is
// broken, since there is no rank to route it to.
type Null struct{}

func (Null) Rank() int { return 0 }
func (Null) Size() int { return 1 }

func (Null) Send(int, []byte) {
	panic("comm: Null.Send invoked — a single-peer executor must never route off-rank")
}

func (Null) Recv() []byte {
	panic("comm: Null.Recv invoked — a single-peer executor must never block on transport")
}

func (Null) NextTimeStamp() {}
