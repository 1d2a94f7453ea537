package event

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid event")

// Type names a change to the world.
type Type string

const (
	ExitOpened    Type = "exit_opened"    // From -> To becomes passable
	ExitClosed    Type = "exit_closed"    // one From -> To exit goes away
	RoomCollapsed Type = "room_collapsed" // Room and every exit touching it go away
)

// Event is the canonical input model for world changes.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	From       uint16    `json:"from,omitempty"`
	To         uint16    `json:"to,omitempty"`
	Room       uint16    `json:"room,omitempty"`
	TwoWay     bool      `json:"two_way,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	ReceivedAt time.Time `json:"-"`
}

// Validate checks that the fields required by the event type are present.
func (e *Event) Validate() error {
	switch e.Type {
	case ExitOpened, ExitClosed:
		if e.From == 0 || e.To == 0 {
			return fmt.Errorf("%w: %s needs from and to", ErrInvalid, e.Type)
		}
	case RoomCollapsed:
		if e.Room == 0 {
			return fmt.Errorf("%w: %s needs room", ErrInvalid, e.Type)
		}
	case "":
		return fmt.Errorf("%w: type is required", ErrInvalid)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalid, e.Type)
	}
	return nil
}
