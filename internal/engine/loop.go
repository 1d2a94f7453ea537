package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gyaneshwarpardhi/roomgraph/internal/world"
)

const (
	cmdPending int32 = iota
	cmdRunning
	cmdAbandoned
)

// command is one closure run against the world by the control loop.
type command struct {
	fn    func(w *world.World)
	done  chan struct{}
	state atomic.Int32
}

// claim moves c from pending to running. It fails once the caller has
// abandoned c, and an abandoned command never runs.
func (c *command) claim() bool {
	return c.state.CompareAndSwap(cmdPending, cmdRunning)
}

// abandon marks c as given up on. It fails if c has already started.
func (c *command) abandon() bool {
	return c.state.CompareAndSwap(cmdPending, cmdAbandoned)
}

// loop is a single goroutine draining a bounded command queue. Commands run
// one at a time in submission order.
type loop struct {
	cmds chan *command
	run  func(c *command)
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// newLoop starts a loop with queue capacity depth. It exits when ctx is
// cancelled or the queue is drained.
func newLoop(ctx context.Context, depth int, run func(c *command)) *loop {
	l := &loop{
		cmds: make(chan *command, depth),
		run:  run,
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.serve(ctx)
	}()
	return l
}

func (l *loop) serve(ctx context.Context) {
	for {
		select {
		case c, ok := <-l.cmds:
			if !ok {
				return
			}
			if c.claim() {
				l.run(c)
			}
		case <-ctx.Done():
			l.mu.Lock()
			l.closed = true
			l.mu.Unlock()
			return
		}
	}
}

// Submit enqueues c without blocking (false if full or drained).
func (l *loop) Submit(c *command) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return false
	}
	select {
	case l.cmds <- c:
		return true
	default:
		return false
	}
}

// Drain closes the queue, lets queued commands finish and waits for the loop to exit.
func (l *loop) Drain() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.cmds)
	}
	l.mu.Unlock()
	l.wg.Wait()
}

// QueueLen returns how many commands are waiting.
func (l *loop) QueueLen() int { return len(l.cmds) }

// QueueCap returns the queue capacity.
func (l *loop) QueueCap() int { return cap(l.cmds) }
