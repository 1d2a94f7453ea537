package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/roomgraph/internal/world"
)

func TestLoopRunsInOrder(t *testing.T) {
	var (
		mu  sync.Mutex
		got []int
	)
	l := newLoop(context.Background(), 16, func(c *command) {
		c.fn(nil)
		close(c.done)
	})

	var cmds []*command
	for i := 0; i < 10; i++ {
		i := i
		c := &command{fn: func(*world.World) {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}, done: make(chan struct{})}
		require.True(t, l.Submit(c))
		cmds = append(cmds, c)
	}
	l.Drain()

	for _, c := range cmds {
		<-c.done
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
	assert.False(t, l.Submit(&command{fn: func(*world.World) {}, done: make(chan struct{})}))
}

func TestLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := newLoop(ctx, 1, func(c *command) { close(c.done) })
	assert.Equal(t, 1, l.QueueCap())
	assert.Equal(t, 0, l.QueueLen())

	cancel()
	l.wg.Wait()
	assert.False(t, l.Submit(&command{fn: func(*world.World) {}, done: make(chan struct{})}))
	l.Drain()
}

func TestLoopSkipsAbandoned(t *testing.T) {
	ran := false
	l := newLoop(context.Background(), 4, func(c *command) {
		c.fn(nil)
		close(c.done)
	})

	skipped := &command{fn: func(*world.World) { ran = true }, done: make(chan struct{})}
	require.True(t, skipped.abandon())
	require.True(t, l.Submit(skipped))
	last := &command{fn: func(*world.World) {}, done: make(chan struct{})}
	require.True(t, l.Submit(last))
	<-last.done
	l.Drain()

	assert.False(t, ran)
	assert.False(t, skipped.claim())
	assert.False(t, last.abandon())
}
