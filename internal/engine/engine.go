package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gyaneshwarpardhi/roomgraph/internal/config"
	"github.com/gyaneshwarpardhi/roomgraph/internal/event"
	"github.com/gyaneshwarpardhi/roomgraph/internal/graph"
	"github.com/gyaneshwarpardhi/roomgraph/internal/metrics"
	"github.com/gyaneshwarpardhi/roomgraph/internal/world"
)

var (
	ErrQueueFull = errors.New("command queue full")
	ErrTimeout   = errors.New("command timed out")
)

// Engine owns a World and runs every read and write against it on a single
// goroutine, so callers on any goroutine get exclusive access without locks.
type Engine struct {
	world *world.World // touched only by the control loop
	loop  *loop
	conf  config.EngineConf
}

// New creates an Engine around w and starts its control loop. The loop
// stops when ctx is cancelled or Shutdown is called.
func New(ctx context.Context, w *world.World, conf config.EngineConf) *Engine {
	if conf.QueueDepth <= 0 {
		conf.QueueDepth = 1024
	}
	if conf.CommandTimeoutMs <= 0 {
		conf.CommandTimeoutMs = 2000
	}
	e := &Engine{world: w, conf: conf}
	metrics.ExitSlotsInUse.Set(float64(w.Stats().Exits))

	e.loop = newLoop(ctx, conf.QueueDepth, func(c *command) {
		c.fn(e.world)
		metrics.ExitSlotsInUse.Set(float64(e.world.Stats().Exits))
		close(c.done)
	})
	return e
}

// do runs fn on the control loop and waits for it to finish. A command that
// times out or is cancelled before the loop reaches it never runs.
func (e *Engine) do(ctx context.Context, fn func(w *world.World)) error {
	c := &command{fn: fn, done: make(chan struct{})}
	if !e.loop.Submit(c) {
		metrics.CommandsRejected.Inc()
		return fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.conf.QueueDepth)
	}

	timeout := time.Duration(e.conf.CommandTimeoutMs) * time.Millisecond
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var err error
	select {
	case <-c.done:
		return nil
	case <-timer.C:
		err = fmt.Errorf("%w after %v", ErrTimeout, timeout)
	case <-ctx.Done():
		err = ctx.Err()
	}
	if c.abandon() {
		return err
	}
	// Already running; its effects land, so report them.
	<-c.done
	return nil
}

// Route finds a fewest-hops route between two rooms.
func (e *Engine) Route(ctx context.Context, from, to graph.NodeID) (world.Route, error) {
	var (
		route world.Route
		err   error
	)
	if doErr := e.do(ctx, func(w *world.World) { route, err = w.Route(from, to) }); doErr != nil {
		metrics.RouteQueries.WithLabelValues("error").Inc()
		return world.Route{}, doErr
	}

	metrics.RoomsExpanded.Observe(float64(route.Expanded))
	switch {
	case err == nil:
		metrics.RouteQueries.WithLabelValues("found").Inc()
		metrics.RouteHops.Observe(float64(route.Hops))
	case errors.Is(err, world.ErrNoRoute):
		metrics.RouteQueries.WithLabelValues("no_route").Inc()
	default:
		metrics.RouteQueries.WithLabelValues("error").Inc()
	}
	return route, err
}

// Apply changes the world according to ev.
func (e *Engine) Apply(ctx context.Context, ev *event.Event) error {
	if err := ev.Validate(); err != nil {
		metrics.EventsApplied.WithLabelValues(string(ev.Type), "invalid").Inc()
		return err
	}

	var err error
	if doErr := e.do(ctx, func(w *world.World) { err = applyEvent(w, ev) }); doErr != nil {
		metrics.EventsApplied.WithLabelValues(string(ev.Type), "error").Inc()
		return doErr
	}
	if err != nil {
		metrics.EventsApplied.WithLabelValues(string(ev.Type), "rejected").Inc()
		slog.Debug("event rejected", "event_id", ev.ID, "type", ev.Type, "err", err)
		return err
	}
	metrics.EventsApplied.WithLabelValues(string(ev.Type), "applied").Inc()
	return nil
}

func applyEvent(w *world.World, ev *event.Event) error {
	from, to := graph.NodeID(ev.From), graph.NodeID(ev.To)
	switch ev.Type {
	case event.ExitOpened:
		if err := w.Connect(from, to); err != nil {
			return err
		}
		if ev.TwoWay && from != to {
			if err := w.Connect(to, from); err != nil {
				// Keep the event atomic.
				_ = w.Disconnect(from, to)
				return err
			}
		}
		return nil
	case event.ExitClosed:
		twoWay := ev.TwoWay && from != to
		if twoWay && !w.HasExit(to, from) {
			return fmt.Errorf("exit %d->%d: %w", to, from, world.ErrNoExit)
		}
		if err := w.Disconnect(from, to); err != nil {
			return err
		}
		if twoWay {
			return w.Disconnect(to, from)
		}
		return nil
	case event.RoomCollapsed:
		return w.RemoveRoom(graph.NodeID(ev.Room))
	}
	return fmt.Errorf("unknown event type %q", ev.Type)
}

// Rooms lists every room.
func (e *Engine) Rooms(ctx context.Context) ([]world.Room, error) {
	var rooms []world.Room
	err := e.do(ctx, func(w *world.World) { rooms = w.Rooms() })
	return rooms, err
}

// RoomDetail is a room together with its exits.
type RoomDetail struct {
	world.Room
	Exits []graph.NodeID `json:"exits"`
}

// Room returns one room and where its exits lead.
func (e *Engine) Room(ctx context.Context, id graph.NodeID) (RoomDetail, error) {
	var (
		detail RoomDetail
		err    error
	)
	doErr := e.do(ctx, func(w *world.World) {
		detail.Exits, err = w.Exits(id)
		if err == nil {
			detail.Room, _ = w.Room(id)
		}
	})
	if doErr != nil {
		return RoomDetail{}, doErr
	}
	return detail, err
}

// Reachable lists every room reachable from id, nearest first.
func (e *Engine) Reachable(ctx context.Context, id graph.NodeID) ([]graph.NodeID, error) {
	var (
		rooms []graph.NodeID
		err   error
	)
	if doErr := e.do(ctx, func(w *world.World) { rooms, err = w.Reachable(id) }); doErr != nil {
		return nil, doErr
	}
	return rooms, err
}

// Stats returns room and exit counts.
func (e *Engine) Stats(ctx context.Context) (world.Stats, error) {
	var st world.Stats
	err := e.do(ctx, func(w *world.World) { st = w.Stats() })
	return st, err
}

// SwapWorld replaces the world (used on hot-reload). Commands queued before
// the swap still see the old world.
func (e *Engine) SwapWorld(ctx context.Context, w *world.World) error {
	return e.do(ctx, func(*world.World) { e.world = w })
}

// QueueUtilization returns queue used / capacity (0-1).
func (e *Engine) QueueUtilization() float64 {
	if e.loop.QueueCap() == 0 {
		return 0
	}
	return float64(e.loop.QueueLen()) / float64(e.loop.QueueCap())
}

// Shutdown drains the queue and stops the control loop.
func (e *Engine) Shutdown() {
	e.loop.Drain()
}
