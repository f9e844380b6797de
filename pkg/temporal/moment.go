// Package temporal turns partial date/time input into absolute instants.
//
// A Moment always knows whether a time-of-day was supplied. Date-only moments
// sit at local midnight of their day and must never be rendered or compared as
// if midnight had been chosen.
package temporal

import "time"

// Moment is an absolute instant plus its has-clock flag.
type Moment struct {
	at    time.Time
	clock bool
}

// DateOnly marks t as a date without a meaningful time-of-day.
func DateOnly(t time.Time) Moment {
	return Moment{at: t.UTC()}
}

// Clocked marks t as carrying an explicit time-of-day.
func Clocked(t time.Time) Moment {
	return Moment{at: t.UTC(), clock: true}
}

// Restore rebuilds a Moment from its persisted columns.
func Restore(at time.Time, hasClock bool) Moment {
	if at.IsZero() {
		return Moment{}
	}
	return Moment{at: at.UTC(), clock: hasClock}
}

func (m Moment) Time() time.Time { return m.at }

func (m Moment) HasClock() bool { return m.clock }

func (m Moment) IsZero() bool { return m.at.IsZero() }

// Add returns a derived moment. A derived moment has no clock of its own even
// when m has one: it was computed, not entered.
func (m Moment) Add(d time.Duration) Moment {
	if m.IsZero() {
		return Moment{}
	}
	return Moment{at: m.at.Add(d)}
}

func (m Moment) After(o Moment) bool { return m.at.After(o.at) }

func (m Moment) Equal(o Moment) bool { return m.clock == o.clock && m.at.Equal(o.at) }

// Sub returns m - o.
func (m Moment) Sub(o Moment) time.Duration { return m.at.Sub(o.at) }
