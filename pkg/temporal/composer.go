package temporal

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidClock    = errors.New("temporal: time must be HH:MM between 00:00 and 23:59")
	ErrInvalidDate     = errors.New("temporal: date must be YYYY-MM-DD")
	ErrInvalidDuration = errors.New("temporal: duration must be H:MM, Nm, Nh or N minutes")
	ErrNoBase          = errors.New("temporal: no base date to compose onto")
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"

	// DefaultNoClockLabel is appended to date-only moments by Format.
	DefaultNoClockLabel = " （time not set）"
)

var (
	clockPattern       = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
	datePattern        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	durationHHMM       = regexp.MustCompile(`^(\d{1,2}):([0-5]\d)$`)
	durationMinutes    = regexp.MustCompile(`^(\d{1,4})\s*m$`)
	durationHours      = regexp.MustCompile(`^(\d{1,3})\s*h$`)
	durationBareNumber = regexp.MustCompile(`^\d{1,4}$`)
)

// Composer composes and renders moments in one fixed local zone.
type Composer struct {
	loc          *time.Location
	noClockLabel string
}

type Option func(*Composer)

// WithNoClockLabel overrides the suffix Format writes for date-only moments.
func WithNoClockLabel(label string) Option {
	return func(c *Composer) { c.noClockLabel = label }
}

func NewComposer(loc *time.Location, opts ...Option) *Composer {
	if loc == nil {
		loc = time.UTC
	}
	c := &Composer{loc: loc, noClockLabel: DefaultNoClockLabel}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Composer) Location() *time.Location { return c.loc }

// ParseClock validates a strict two-digit HH:MM string. Surrounding spaces
// are rejected; callers trim user input first.
func ParseClock(text string) (hour, minute int, err error) {
	m := clockPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, ErrInvalidClock
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	return hour, minute, nil
}

// ComposeClock rewrites the time-of-day of base's local calendar day.
func (c *Composer) ComposeClock(base Moment, hhmm string) (Moment, error) {
	h, m, err := ParseClock(hhmm)
	if err != nil {
		return Moment{}, err
	}
	if base.IsZero() {
		return Moment{}, ErrNoBase
	}
	day := base.Time().In(c.loc)
	return Clocked(time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, c.loc)), nil
}

// StartOfDay drops the clock of base, keeping its local calendar day.
func (c *Composer) StartOfDay(base Moment) Moment {
	if base.IsZero() {
		return Moment{}
	}
	day := base.Time().In(c.loc)
	return DateOnly(time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, c.loc))
}

// ParseCalendarDate accepts YYYY-MM-DD or YYYY/MM/DD and returns local midnight.
func (c *Composer) ParseCalendarDate(text string) (Moment, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), "/", "-")
	if !datePattern.MatchString(s) {
		return Moment{}, ErrInvalidDate
	}
	t, err := time.ParseInLocation(dateLayout, s, c.loc)
	if err != nil {
		return Moment{}, ErrInvalidDate
	}
	return DateOnly(t), nil
}

// ParseDuration accepts H:MM, Nm, Nh or a bare number of minutes.
// Zero and anything else is rejected.
func ParseDuration(text string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	var d time.Duration
	switch {
	case durationHHMM.MatchString(s):
		m := durationHHMM.FindStringSubmatch(s)
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		d = time.Duration(h)*time.Hour + time.Duration(mm)*time.Minute
	case durationMinutes.MatchString(s):
		n, _ := strconv.Atoi(durationMinutes.FindStringSubmatch(s)[1])
		d = time.Duration(n) * time.Minute
	case durationHours.MatchString(s):
		n, _ := strconv.Atoi(durationHours.FindStringSubmatch(s)[1])
		d = time.Duration(n) * time.Hour
	case durationBareNumber.MatchString(s):
		n, _ := strconv.Atoi(s)
		d = time.Duration(n) * time.Minute
	default:
		return 0, ErrInvalidDuration
	}
	if d <= 0 {
		return 0, ErrInvalidDuration
	}
	return d, nil
}

// Format renders "YYYY-MM-DD HH:MM", or the date plus the no-clock label.
func (c *Composer) Format(m Moment) string {
	if m.IsZero() {
		return ""
	}
	local := m.Time().In(c.loc)
	if m.HasClock() {
		return local.Format(dateTimeLayout)
	}
	return local.Format(dateLayout) + c.noClockLabel
}

// FormatClock renders only HH:MM of m in the local zone.
func (c *Composer) FormatClock(m Moment) string {
	if m.IsZero() {
		return ""
	}
	return m.Time().In(c.loc).Format("15:04")
}

// FormatDate renders only the local calendar day of m.
func (c *Composer) FormatDate(m Moment) string {
	if m.IsZero() {
		return ""
	}
	return m.Time().In(c.loc).Format(dateLayout)
}

// UpcomingDays lists n calendar days starting at now's local day, as YYYY-MM-DD.
func (c *Composer) UpcomingDays(now time.Time, n int) []string {
	day := now.In(c.loc)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, day.AddDate(0, 0, i).Format(dateLayout))
	}
	return out
}

// HumanizeMinutes renders whole minutes as hours and minutes, omitting zero parts.
func HumanizeMinutes(n int) string {
	h, m := n/60, n%60
	switch {
	case h > 0 && m > 0:
		return strconv.Itoa(h) + "時間" + strconv.Itoa(m) + "分"
	case h > 0:
		return strconv.Itoa(h) + "時間"
	default:
		return strconv.Itoa(m) + "分"
	}
}
