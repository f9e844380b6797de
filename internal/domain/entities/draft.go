package entities

import (
	"time"

	"eventbot/pkg/temporal"
)

// Step is a wizard position.
type Step string

// Creation steps, in forward order, then the edit hub.
const (
	StepTitle     Step = "title"
	StepStartDate Step = "start_date"
	StepStartTime Step = "start_time"
	StepEndMode   Step = "end_mode"
	StepEndTime   Step = "end_time"
	StepDuration  Step = "duration"
	StepCapacity  Step = "capacity"
	StepDone      Step = "done"

	StepMenu Step = "menu"
)

// CreationDraft is a user's in-progress event. Fields of steps not yet
// reached stay zero.
type CreationDraft struct {
	UserID    string
	ScopeID   string
	Step      Step
	Name      string
	Start     temporal.Moment
	End       temporal.Moment
	Capacity  int
	UpdatedAt time.Time
}

func NewCreationDraft(userID, scopeID string) *CreationDraft {
	return &CreationDraft{UserID: userID, ScopeID: scopeID, Step: StepTitle}
}

// Reset clears every field and rewinds to the title step.
func (d *CreationDraft) Reset() {
	*d = CreationDraft{UserID: d.UserID, ScopeID: d.ScopeID, Step: StepTitle}
}

// ToEvent builds the event the draft describes.
func (d *CreationDraft) ToEvent() *Event {
	return &Event{
		ScopeID:   d.ScopeID,
		CreatorID: d.UserID,
		Name:      d.Name,
		Start:     d.Start,
		End:       d.End,
		Capacity:  d.Capacity,
	}
}

// EditField flags the fields an edit draft has reached.
type EditField uint8

const (
	FieldName EditField = 1 << iota
	FieldStart
	FieldEnd
	FieldCapacity
)

func (f EditField) Has(x EditField) bool { return f&x != 0 }

// EditDraft is a working copy of an event. It never touches the live event
// until saved.
type EditDraft struct {
	UserID    string
	ScopeID   string
	EventID   uint
	Step      Step
	Name      string
	Start     temporal.Moment
	End       temporal.Moment
	Capacity  int
	Touched   EditField
	UpdatedAt time.Time
}

// NewEditDraft seeds a draft from the event's current values.
func NewEditDraft(userID string, e *Event) *EditDraft {
	return &EditDraft{
		UserID:   userID,
		ScopeID:  e.ScopeID,
		EventID:  e.ID,
		Step:     StepMenu,
		Name:     e.Name,
		Start:    e.Start,
		End:      e.End,
		Capacity: e.Capacity,
	}
}

// ApplyTo copies the touched fields onto e. Untouched fields keep e's values.
func (d *EditDraft) ApplyTo(e *Event) {
	if d.Touched.Has(FieldName) {
		e.Name = d.Name
	}
	if d.Touched.Has(FieldStart) {
		e.Start = d.Start
	}
	if d.Touched.Has(FieldEnd) {
		e.End = d.End
	}
	if d.Touched.Has(FieldCapacity) {
		e.Capacity = d.Capacity
	}
}
