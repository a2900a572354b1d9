// Package tcp implements the TCP-based Communicator: a cached duplex
// connection pool keyed by destination address, and tag-based (stage
// stamp) demultiplexing on receive. Wire format per record:
//
//	offset 0..8   len  : uint64 little-endian, body length in bytes
//	offset 8..16  tag  : uint64 little-endian, stage stamp
//	offset 16..   body : len bytes, opaque to this package
//
// Grounded on original_source/src/message/tcp_v3.rs, the final iteration
// the original settled on (tcp_v1/tcp_v2 were earlier drafts kept in the
// pack for history only). The outbound-connection cache pattern mirrors
// the teacher's transport/bundle.StreamBundle, which likewise keys
// persistent outbound streams by destination and never tears one down
// mid-run. Fan-out/fan-in across the sender and acceptor goroutines uses
// golang.org/x/sync/errgroup, the same pattern the teacher uses in
// fs/walkbck.go to run a worker per mountpath and fail the whole group the
// instant any one of them returns an error.
/*
 * Copyright (c) 2024, gridiron-go authors.
 */
package tcp

import (
	"context"
	"fmt"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/clemson-cal/gridiron-go/wire"
)

// SendMode selects how outbound sends are threaded. Both preserve
// per-destination ordering; OnePerDest trades goroutine count for
// eliminating head-of-line blocking between unrelated destinations,
// exactly the tradeoff original_source/src/message/tcp_v3.rs calls out
// via its own SendThreads enum.
type SendMode int

const (
	// SingleSender drains all outbound sends through one goroutine.
	SingleSender SendMode = iota
	// OnePerDest spawns a dedicated sender goroutine per destination
	// address, lazily, on first send to that address.
	OnePerDest
)

// Frame is a demultiplexed inbound record: the stage stamp it was sent
// under, and its opaque payload.
type Frame struct {
	Tag     uint64
	Payload []byte
}

type sendReq struct {
	addr    string
	payload []byte
	tag     uint64
}

// Pool owns the outbound connection cache and the set of accepted inbound
// connections. The outbound map(s) are touched only by their owning
// sender goroutine; the inbound connections are each owned exclusively by
// their own receiver goroutine. Every such goroutine is a member of group,
// so a single I/O error anywhere — dial, write, accept, or read — cancels
// ctx and is visible to every other goroutine and to Recv, instead of
// being logged and silently dropped. Per spec.md §7 a transport failure is
// fatal to the stage; this pool never retries or reconnects.
type Pool struct {
	mode     SendMode
	listener net.Listener

	sendCh chan sendReq
	recvCh chan Frame

	group *errgroup.Group
	ctx   context.Context

	closeOnce sync.Once
	cancel    context.CancelFunc

	failOnce sync.Once
	mu       sync.Mutex
	err      error
}

// NewPool creates a connection pool backed by listener, which must already
// be bound to this peer's address. The listener's accept loop and the
// outbound sender(s) both start immediately.
func NewPool(listener net.Listener, mode SendMode) *Pool {
	parent, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(parent)
	p := &Pool{
		mode:     mode,
		listener: listener,
		sendCh:   make(chan sendReq, 256),
		recvCh:   make(chan Frame, 256),
		group:    group,
		ctx:      ctx,
		cancel:   cancel,
	}
	group.Go(p.runSender)
	group.Go(p.runAcceptor)
	return p
}

// fail records the first transport error the pool has seen (subsequent
// calls are no-ops) and returns it, for use as `return p.fail(err)` at
// every call site that detects an I/O failure. Recording the error here,
// rather than relying on errgroup.Group.Wait (which blocks until every
// goroutine the group owns has returned), lets Recv and Send observe the
// failure the instant it happens.
func (p *Pool) fail(err error) error {
	p.failOnce.Do(func() {
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
	})
	return err
}

// Err returns the first transport failure recorded, or nil if the pool
// has not failed.
func (p *Pool) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Send enqueues payload for asynchronous delivery to addr tagged with tag.
// Never blocks on network I/O. Panics if the pool has already failed or
// been closed: there is no reconnection to retry onto, so a caller still
// trying to send past that point is a programmer error (it means the
// caller kept driving a stage whose transport already died).
func (p *Pool) Send(addr string, payload []byte, tag uint64) {
	select {
	case p.sendCh <- sendReq{addr: addr, payload: payload, tag: tag}:
	case <-p.ctx.Done():
		panic(fmt.Sprintf("tcp: send on a closed/failed pool: %v", p.closedReason()))
	}
}

// Recv blocks until one frame, from any peer, is available, or returns an
// error once the pool has failed or been closed — never silently: a
// dropped message here would otherwise leave coordinate.Coordinate's
// drain loop blocked on Recv forever, waiting on a peer that will never
// become eligible.
func (p *Pool) Recv() (Frame, error) {
	select {
	case f := <-p.recvCh:
		return f, nil
	case <-p.ctx.Done():
		return Frame{}, p.closedReason()
	}
}

func (p *Pool) closedReason() error {
	if err := p.Err(); err != nil {
		return err
	}
	return fmt.Errorf("tcp: pool closed")
}

// Close shuts the pool down: every goroutine it owns observes ctx.Done()
// and unwinds, the listener is closed to unblock the acceptor, and Close
// waits for every goroutine to return before returning itself.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.cancel()
		p.listener.Close()
	})
	p.group.Wait()
}

func (p *Pool) runSender() error {
	switch p.mode {
	case OnePerDest:
		return p.runSenderPerDest()
	default:
		return p.runSenderSingle()
	}
}

// runSenderSingle drains every outbound send through one goroutine, one
// persistent connection per destination. A dial or write failure fails
// the whole pool immediately rather than being logged and the connection
// silently re-dialed on the next send to that address — the original's
// tcp_v3.rs unwraps the equivalent calls, i.e. aborts outright.
func (p *Pool) runSenderSingle() error {
	conns := map[string]net.Conn{}
	defer func() {
		for _, c := range conns {
			c.Close()
		}
	}()
	for {
		select {
		case <-p.ctx.Done():
			return nil
		case req, ok := <-p.sendCh:
			if !ok {
				return nil
			}
			conn, ok := conns[req.addr]
			if !ok {
				var err error
				conn, err = net.Dial("tcp", req.addr)
				if err != nil {
					return p.fail(fmt.Errorf("tcp: dial %s: %w", req.addr, err))
				}
				conns[req.addr] = conn
			}
			if err := writeFrame(conn, req.payload, req.tag); err != nil {
				return p.fail(fmt.Errorf("tcp: write to %s: %w", req.addr, err))
			}
		}
	}
}

// runSenderPerDest fans sends out to one goroutine per destination,
// spawned lazily into the same errgroup: a failure on any one destination
// cancels ctx for all of them (and for the acceptor side), since a single
// dropped message anywhere already dooms the stage.
func (p *Pool) runSenderPerDest() error {
	perDest := map[string]chan sendReq{}
	defer func() {
		for _, ch := range perDest {
			close(ch)
		}
	}()
	for {
		select {
		case <-p.ctx.Done():
			return nil
		case req, ok := <-p.sendCh:
			if !ok {
				return nil
			}
			ch, ok := perDest[req.addr]
			if !ok {
				ch = make(chan sendReq, 64)
				perDest[req.addr] = ch
				addr := req.addr
				p.group.Go(func() error { return p.drainDest(addr, ch) })
			}
			select {
			case ch <- req:
			case <-p.ctx.Done():
				return nil
			}
		}
	}
}

func (p *Pool) drainDest(addr string, ch chan sendReq) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return p.fail(fmt.Errorf("tcp: dial %s: %w", addr, err))
	}
	defer conn.Close()
	for {
		select {
		case <-p.ctx.Done():
			return nil
		case req, ok := <-ch:
			if !ok {
				return nil
			}
			if err := writeFrame(conn, req.payload, req.tag); err != nil {
				return p.fail(fmt.Errorf("tcp: write to %s: %w", addr, err))
			}
		}
	}
}

func (p *Pool) runAcceptor() error {
	for {
		conn, err := p.listener.Accept()
		if err != nil {
			select {
			case <-p.ctx.Done():
				return nil
			default:
				return p.fail(fmt.Errorf("tcp: accept: %w", err))
			}
		}
		p.group.Go(func() error { return p.drainInbound(conn) })
	}
}

func (p *Pool) drainInbound(conn net.Conn) error {
	defer conn.Close()
	stop := context.AfterFunc(p.ctx, func() { conn.Close() })
	defer stop()
	for {
		frame, err := readFrame(conn)
		if err != nil {
			select {
			case <-p.ctx.Done():
				return nil
			default:
				return p.fail(fmt.Errorf("tcp: inbound read: %w", err))
			}
		}
		select {
		case p.recvCh <- frame:
		case <-p.ctx.Done():
			return nil
		}
	}
}

func writeFrame(conn net.Conn, payload []byte, tag uint64) error {
	if err := wire.WriteUint64(conn, uint64(len(payload))); err != nil {
		return err
	}
	if err := wire.WriteUint64(conn, tag); err != nil {
		return err
	}
	_, err := conn.Write(payload)
	return err
}

func readFrame(conn net.Conn) (Frame, error) {
	n, err := wire.ReadUint64(conn)
	if err != nil {
		return Frame{}, err
	}
	tag, err := wire.ReadUint64(conn)
	if err != nil {
		return Frame{}, err
	}
	payload := make([]byte, n)
	if err := wire.ReadExact(conn, payload); err != nil {
		return Frame{}, err
	}
	return Frame{Tag: tag, Payload: payload}, nil
}
