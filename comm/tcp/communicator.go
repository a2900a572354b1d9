package tcp

import (
	"fmt"
	"net"
	"sync"

	"github.com/clemson-cal/gridiron-go/comm"
)

// interface guard
var _ comm.Communicator = (*Communicator)(nil)

// Communicator is the TCP-backed Communicator. It wraps a Pool with this
// peer's rank, the full peer address table, a current-stage stamp, and a
// holding area for frames that arrived tagged for a stage other than the
// current one.
//
// Send and Recv both logically take &self in the original: this struct is
// safe under concurrent Send/Recv only in the sense the spec requires —
// external single ownership per stage, with an internal mutex protecting
// the undelivered slice against the background Pool goroutines handing it
// frames out of band via Recv.
type Communicator struct {
	rank  int
	peers []string
	pool  *Pool

	mu          sync.Mutex
	undelivered []Frame
	stamp       uint64
}

// New binds a listener on peers[rank] and wraps it in a Communicator.
// Every peer must supply the same peers table and agree on rank
// assignment out of band (e.g. via a launcher or config file).
func New(rank int, peers []string, mode SendMode) (*Communicator, error) {
	listener, err := net.Listen("tcp", peers[rank])
	if err != nil {
		return nil, err
	}
	return &Communicator{
		rank:  rank,
		peers: peers,
		pool:  NewPool(listener, mode),
	}, nil
}

func (c *Communicator) Rank() int { return c.rank }
func (c *Communicator) Size() int { return len(c.peers) }

func (c *Communicator) Send(destRank int, payload []byte) {
	c.mu.Lock()
	stamp := c.stamp
	c.mu.Unlock()
	c.pool.Send(c.peers[destRank], payload, stamp)
}

// Recv scans the undelivered holding area first for a frame whose tag
// matches the current stamp. Failing that, it pulls frames from the pool:
// a frame tagged for the current stamp is returned immediately; anything
// else (a future stage's message arriving early over the shared
// connection) is parked in undelivered until its own stamp becomes
// current.
//
// Panics if the pool reports a transport failure (dial, write, accept, or
// read error, or the pool having been closed mid-stage): per spec.md §7 a
// transport error is fatal and unrecoverable, and must never surface as a
// Recv call that blocks forever instead.
func (c *Communicator) Recv() []byte {
	c.mu.Lock()
	stamp := c.stamp
	for i, f := range c.undelivered {
		if f.Tag == stamp {
			c.undelivered = append(c.undelivered[:i], c.undelivered[i+1:]...)
			c.mu.Unlock()
			return f.Payload
		}
	}
	c.mu.Unlock()

	for {
		f, err := c.pool.Recv()
		if err != nil {
			panic(fmt.Sprintf("tcp: %v", err))
		}
		c.mu.Lock()
		stamp = c.stamp
		if f.Tag == stamp {
			c.mu.Unlock()
			return f.Payload
		}
		c.undelivered = append(c.undelivered, f)
		c.mu.Unlock()
	}
}

func (c *Communicator) NextTimeStamp() {
	c.mu.Lock()
	c.stamp++
	c.mu.Unlock()
}

// Close tears down the underlying connection pool. Not part of the
// Communicator interface: callers that built a tcp.Communicator directly
// are responsible for closing it once no more stages will run.
func (c *Communicator) Close() { c.pool.Close() }
