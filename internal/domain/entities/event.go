package entities

import (
	"time"

	"eventbot/pkg/temporal"
)

// MaxNameLength bounds Event.Name in runes.
const MaxNameLength = 100

// Event is a committed, scope-partitioned event.
type Event struct {
	ID        uint
	ScopeID   string
	CreatorID string
	Name      string
	Start     temporal.Moment
	End       temporal.Moment // zero = no end
	Capacity  int             // 0 = unlimited
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *Event) HasEnd() bool { return !e.End.IsZero() }

func (e *Event) Unlimited() bool { return e.Capacity <= 0 }

// IsFull reports whether confirmed participants occupy every seat.
func (e *Event) IsFull(confirmed int) bool {
	return !e.Unlimited() && confirmed >= e.Capacity
}

// FreeSeats returns the open seats for a finite event, or -1 when unlimited.
func (e *Event) FreeSeats(confirmed int) int {
	if e.Unlimited() {
		return -1
	}
	return max(e.Capacity-confirmed, 0)
}
