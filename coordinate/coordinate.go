// Package coordinate implements the single-stage scheduling and message
// routing loop shared by every executor: it drains a sequence of ready
// Automata, routes their outgoing messages either to a co-located peer or
// to the Communicator, and drives remaining tasks to eligibility by
// draining the Communicator until none are left outstanding.
//
// Grounded on original_source/src/automaton.rs's coordinate() function.
/*
 * Copyright (c) 2024, gridiron-go authors.
 */
package coordinate

import (
	"fmt"

	"github.com/clemson-cal/gridiron-go/automaton"
	"github.com/clemson-cal/gridiron-go/coder"
	"github.com/clemson-cal/gridiron-go/comm"
	"github.com/clemson-cal/gridiron-go/internal/cos"
)

// Work maps a Key to the rank of the peer that owns it. It must be a pure
// function, and every peer participating in a stage must agree on its
// result for any given key — the coordinator never exchanges routing
// tables, it only ever calls this function locally.
type Work[K comparable] func(key K) int

// Sink receives the value of each task as it becomes eligible. It is the
// seam executors use to choose serial, pooled, or distributed evaluation:
// Serial calls a.Value() inline, Pooled dispatches it to a worker,
// Distributed may do either.
type Sink[K comparable, M, V any] func(a automaton.Automaton[K, M, V])

// Coordinate runs one stage to completion: it consumes every Automaton
// produced by flow, routes messages, and blocks on comm until every task
// observed this stage — independent or otherwise — has reached
// eligibility and been pushed to sink. It then advances the communicator's
// time stamp and returns.
//
// It panics on any violation of the routing contract: a message that
// reaches the drain phase addressed to a key that is not waiting in seen
// (never observed this stage, or already completed), or an undelivered map
// that is non-empty at the point all locally produced messages have been
// routed. Both indicate a work function disagreement across peers or a
// bug in the Automaton's Messages()/Receive() pair — not a condition a
// caller can recover from mid-stage.
func Coordinate[K comparable, M, V any](
	flow []automaton.Automaton[K, M, V],
	cm comm.Communicator,
	cdr coder.Coder[K, M],
	work Work[K],
	sink Sink[K, M, V],
) {
	seen := make(map[K]automaton.Automaton[K, M, V])
	undelivered := make(map[K][]M)
	rank := cm.Rank()
	guard := newDupGuard()

	push := func(a automaton.Automaton[K, M, V]) {
		guard.markAndPanic(a.Key())
		sink(a)
	}

	deliverLocal := func(dest K, msg M) {
		if a, ok := seen[dest]; ok {
			if a.Receive(msg).IsEligible() {
				delete(seen, dest)
				push(a)
			}
			return
		}
		undelivered[dest] = append(undelivered[dest], msg)
	}

	for _, a := range flow {
		for _, m := range a.Messages() {
			destRank := work(m.Dest)
			if destRank == rank {
				deliverLocal(m.Dest, m.Body)
				continue
			}
			payload, err := cdr.Encode(coder.Pair[K, M]{Key: m.Dest, Msg: m.Body})
			if err != nil {
				panic(fmt.Sprintf("coordinate: encode failed for outgoing message: %v", err))
			}
			cm.Send(destRank, payload)
		}

		key := a.Key()
		eligible := a.Independent()
		if pending, ok := undelivered[key]; ok {
			delete(undelivered, key)
			for _, m := range pending {
				if a.Receive(m).IsEligible() {
					eligible = true
				}
			}
		}

		if eligible {
			push(a)
		} else {
			seen[key] = a
		}
	}

	if len(undelivered) != 0 {
		panic(fmt.Sprintf("coordinate: undelivered non-empty at end of local pass: %v", undelivered))
	}

	for len(seen) > 0 {
		payload := cm.Recv()
		pair, err := cdr.Decode(payload)
		if err != nil {
			panic(fmt.Sprintf("coordinate: decode failed for incoming message: %v", err))
		}
		a, ok := seen[pair.Key]
		if !ok {
			panic(cos.NewErrNotOwned(pair.Key))
		}
		if a.Receive(pair.Msg).IsEligible() {
			delete(seen, pair.Key)
			push(a)
		}
	}

	cm.NextTimeStamp()
}
