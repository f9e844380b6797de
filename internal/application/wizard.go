package application

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/input"
	"eventbot/pkg/temporal"
)

// transitionKey indexes a wizard transition table: the current step and the
// trigger (free text or a choice token).
type transitionKey struct {
	step    entities.Step
	trigger input.Choice
}

func key(step entities.Step, trigger input.Choice) transitionKey {
	return transitionKey{step: step, trigger: trigger}
}

// answer returns the trimmed free text or the choice value of s.
func answer(s input.Stimulus) string {
	if s.Kind == input.StimulusText {
		return strings.TrimSpace(s.Text)
	}
	return s.Value
}

// noticeFor maps a validation error to the corrective message code.
func noticeFor(err error) string {
	switch {
	case errors.Is(err, temporal.ErrInvalidClock), errors.Is(err, temporal.ErrNoBase):
		return domain.Code(domain.ErrInvalidTime)
	case errors.Is(err, temporal.ErrInvalidDate):
		return domain.Code(domain.ErrInvalidDate)
	case errors.Is(err, temporal.ErrInvalidDuration):
		return domain.Code(domain.ErrInvalidDuration)
	}
	return domain.Code(err)
}

// isValidation reports whether err is a user input problem rather than a
// storage failure.
func isValidation(err error) bool {
	return noticeFor(err) != ""
}

func parseTitle(text string) (string, error) {
	name := strings.TrimSpace(text)
	if name == "" || utf8.RuneCountInString(name) > entities.MaxNameLength {
		return "", domain.ErrInvalidTitle
	}
	return name, nil
}

// parseCapacity accepts digits only, from 1 to the largest int32 the store
// keeps.
func parseCapacity(text string) (int, error) {
	s := strings.TrimSpace(text)
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, domain.ErrInvalidCapacity
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n <= 0 {
		return 0, domain.ErrInvalidCapacity
	}
	return int(n), nil
}
