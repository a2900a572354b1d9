package hpc

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/clemson-cal/gridiron-go/comm"
)

// interface guard
var _ comm.Communicator = (*Communicator)(nil)

type frameMsg struct {
	tag     uint64
	payload []byte
}

type sendReq struct {
	tag     uint64
	payload []byte
}

// Communicator is the gRPC-backed Communicator. Mirroring
// original_source/src/message/mpi.rs, every outbound destination gets its
// own dedicated sender goroutine funnelling through a buffered channel —
// so the blocking RPC send (here, stream.SendMsg) never shares a thread
// with the server-side receive loop, and the substrate is exercised from
// more than one goroutine, matching the original's "initialize in
// multi-threaded mode" requirement.
//
// Every long-running goroutine (the server, each outbound sender) is a
// member of group; the instant any one of them hits a transport error,
// fail cancels ctx for all of them and records the error so Recv/Send
// surface it instead of leaving the stage blocked on a message that will
// never arrive. Per spec.md §7 a transport failure is fatal to the stage:
// this Communicator never retries or reconnects.
type Communicator struct {
	rank  int
	peers []string

	server   *grpc.Server
	listener net.Listener

	recvCh chan frameMsg

	mu          sync.Mutex
	stamp       uint64
	undelivered []frameMsg

	sendMu  sync.Mutex
	senders map[int]chan sendReq
	conns   map[int]*grpc.ClientConn

	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc

	failOnce sync.Once
	errMu    sync.Mutex
	err      error
}

// New starts the gRPC server on peers[rank] and prepares (but does not
// yet dial) outbound connections to every other peer.
func New(rank int, peers []string) (*Communicator, error) {
	listener, err := net.Listen("tcp", peers[rank])
	if err != nil {
		return nil, err
	}
	parent, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(parent)
	c := &Communicator{
		rank:     rank,
		peers:    peers,
		listener: listener,
		recvCh:   make(chan frameMsg, 256),
		senders:  make(map[int]chan sendReq),
		conns:    make(map[int]*grpc.ClientConn),
		group:    group,
		ctx:      ctx,
		cancel:   cancel,
	}
	c.server = grpc.NewServer(grpc.ForceServerCodec(rawCodec{}))
	c.server.RegisterService(&serviceDesc, c)
	group.Go(func() error {
		if err := c.server.Serve(listener); err != nil {
			select {
			case <-c.ctx.Done():
				return nil
			default:
				return c.fail(fmt.Errorf("hpc: serve: %w", err))
			}
		}
		return nil
	})
	return c, nil
}

// fail records the first transport or coder failure this Communicator has
// seen and cancels ctx, waking every blocked sender, the Exchange loop,
// and any Recv call. Subsequent calls are no-ops: only the first failure
// is kept.
func (c *Communicator) fail(err error) error {
	c.failOnce.Do(func() {
		c.errMu.Lock()
		c.err = err
		c.errMu.Unlock()
		c.cancel()
	})
	return err
}

// Err returns the first failure recorded, or nil if none has occurred.
func (c *Communicator) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *Communicator) closedReason() error {
	if err := c.Err(); err != nil {
		return err
	}
	return fmt.Errorf("hpc: communicator closed")
}

func (c *Communicator) Rank() int { return c.rank }
func (c *Communicator) Size() int { return len(c.peers) }

// Exchange implements transportServer: the server side of every peer's
// persistent stream to this process. A decode failure is a Coder-level
// protocol violation (spec.md §7: "fatal at the stage"), so it fails the
// whole Communicator exactly like a transport I/O error rather than being
// logged and skipped.
func (c *Communicator) Exchange(stream grpc.ServerStream) error {
	for {
		var raw []byte
		if err := stream.RecvMsg(&raw); err != nil {
			if err == io.EOF {
				return nil
			}
			return c.fail(fmt.Errorf("hpc: stream recv: %w", err))
		}
		tag, payload, err := decodeFrame(raw)
		if err != nil {
			return c.fail(fmt.Errorf("hpc: decode frame: %w", err))
		}
		select {
		case c.recvCh <- frameMsg{tag: tag, payload: payload}:
		case <-c.ctx.Done():
			return nil
		}
	}
}

// Send panics if the Communicator has already failed or been closed:
// there is no reconnection to retry onto, so a caller still trying to
// send past that point means it kept driving a stage whose transport
// already died.
func (c *Communicator) Send(destRank int, payload []byte) {
	c.mu.Lock()
	stamp := c.stamp
	c.mu.Unlock()

	ch := c.senderFor(destRank)
	select {
	case ch <- sendReq{tag: stamp, payload: payload}:
	case <-c.ctx.Done():
		panic(fmt.Sprintf("hpc: send on a closed/failed communicator: %v", c.closedReason()))
	}
}

func (c *Communicator) senderFor(destRank int) chan sendReq {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if ch, ok := c.senders[destRank]; ok {
		return ch
	}
	ch := make(chan sendReq, 64)
	c.senders[destRank] = ch
	c.group.Go(func() error { return c.runSender(destRank, ch) })
	return ch
}

func (c *Communicator) runSender(destRank int, ch chan sendReq) error {
	cc, err := grpc.Dial(c.peers[destRank],
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(rawCodec{})),
	)
	if err != nil {
		return c.fail(fmt.Errorf("hpc: dial rank %d: %w", destRank, err))
	}
	c.sendMu.Lock()
	c.conns[destRank] = cc
	c.sendMu.Unlock()

	stream, err := cc.NewStream(c.ctx, &serviceDesc.Streams[0], exchangeMethod)
	if err != nil {
		return c.fail(fmt.Errorf("hpc: open stream to rank %d: %w", destRank, err))
	}

	for {
		select {
		case <-c.ctx.Done():
			return nil
		case req, ok := <-ch:
			if !ok {
				return nil
			}
			raw := encodeFrame(req.tag, req.payload)
			if err := stream.SendMsg(&raw); err != nil {
				return c.fail(fmt.Errorf("hpc: send to rank %d: %w", destRank, err))
			}
		}
	}
}

// Recv mirrors comm/tcp.Communicator.Recv: scan the undelivered holding
// area for the current stamp first, otherwise park anything tagged for
// another stamp and keep waiting. Panics if the Communicator fails or is
// closed while a Recv is outstanding, rather than blocking forever.
func (c *Communicator) Recv() []byte {
	c.mu.Lock()
	stamp := c.stamp
	for i, f := range c.undelivered {
		if f.tag == stamp {
			c.undelivered = append(c.undelivered[:i], c.undelivered[i+1:]...)
			c.mu.Unlock()
			return f.payload
		}
	}
	c.mu.Unlock()

	for {
		select {
		case f := <-c.recvCh:
			c.mu.Lock()
			stamp = c.stamp
			if f.tag == stamp {
				c.mu.Unlock()
				return f.payload
			}
			c.undelivered = append(c.undelivered, f)
			c.mu.Unlock()
		case <-c.ctx.Done():
			panic(fmt.Sprintf("hpc: %v", c.closedReason()))
		}
	}
}

func (c *Communicator) NextTimeStamp() {
	c.mu.Lock()
	c.stamp++
	c.mu.Unlock()
}

// Close tears down every outbound stream, stops the server, cancels ctx,
// and waits for every goroutine the Communicator owns to return.
func (c *Communicator) Close() {
	c.cancel()
	c.server.GracefulStop()
	c.sendMu.Lock()
	for _, ch := range c.senders {
		close(ch)
	}
	for _, cc := range c.conns {
		cc.Close()
	}
	c.sendMu.Unlock()
	_ = c.group.Wait()
}
