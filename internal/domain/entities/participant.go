package entities

import "time"

// Participant represents a user's participation in an event.
// JoinedAt orders the waitlist.
type Participant struct {
	ID        uint
	EventID   uint
	UserID    string
	Status    string
	JoinedAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// JoinStatus is the outcome of a join request.
type JoinStatus string

const (
	JoinAdmitted      JoinStatus = "admitted"
	JoinWaitlisted    JoinStatus = "waitlisted"
	JoinAlreadyJoined JoinStatus = "already_joined"
)

type JoinResult struct {
	Status      JoinStatus
	Participant Participant
	Confirmed   int
	Capacity    int // 0 = unlimited
}

// LeaveStatus is the outcome of a cancel request.
type LeaveStatus string

const (
	LeaveCancelled LeaveStatus = "cancelled"
	LeaveNotJoined LeaveStatus = "not_joined"
)

type LeaveResult struct {
	Status   LeaveStatus
	Promoted *Participant
}

// Roster lists confirmed and waiting participants, each oldest first.
type Roster struct {
	Event     Event
	Confirmed []Participant
	Waiting   []Participant
}
