package domain

import "errors"

// Domain errors.
var (
	ErrEventNotFound        = errors.New("event not found")
	ErrDraftNotFound        = errors.New("draft not found")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrNotEditor            = errors.New("only the event creator can edit this event")
	ErrNotOrganizer         = errors.New("only the event creator can see the roster")
	ErrCannotReduceCapacity = errors.New("capacity is below the confirmed participant count")
	ErrEndBeforeStart       = errors.New("end must be after start")
	ErrInvalidTitle         = errors.New("title must be 1 to 100 characters")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidTime          = errors.New("invalid time")
	ErrInvalidDuration      = errors.New("invalid duration")
	ErrInvalidCapacity      = errors.New("capacity must be a positive integer")
)

var codes = map[error]string{
	ErrEventNotFound:        "event_not_found",
	ErrDraftNotFound:        "draft_not_found",
	ErrParticipantNotFound:  "participant_not_found",
	ErrNotEditor:            "not_editor",
	ErrNotOrganizer:         "not_organizer",
	ErrCannotReduceCapacity: "cannot_reduce_capacity",
	ErrEndBeforeStart:       "invalid_end_time",
	ErrInvalidTitle:         "invalid_title",
	ErrInvalidDate:          "invalid_date",
	ErrInvalidTime:          "invalid_time",
	ErrInvalidDuration:      "invalid_duration",
	ErrInvalidCapacity:      "invalid_capacity",
}

// Code returns the stable code of a domain error, or "" for any other error.
// Codes double as translation keys under "errors.".
func Code(err error) string {
	for target, code := range codes {
		if errors.Is(err, target) {
			return code
		}
	}
	return ""
}
