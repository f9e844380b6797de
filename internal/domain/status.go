package domain

// Participant statuses.
const (
	StatusConfirmed = "confirmed"
	StatusWaitlist  = "waitlist"
)
