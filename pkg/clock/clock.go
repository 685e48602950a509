package clock

import (
	"sync"
	"time"
)

// Clock supplies the current calendar date. Dates are always returned as
// midnight UTC carrying the year/month/day observed in the clock's location.
// Now is the instant in UTC, used for timestamps such as settlement times.
type Clock interface {
	Today() time.Time
	Now() time.Time
}

type System struct{ loc *time.Location }

func NewSystem(loc *time.Location) System {
	if loc == nil {
		loc = time.UTC
	}
	return System{loc: loc}
}

func (s System) Today() time.Time { return DateOf(time.Now().In(s.loc)) }

func (s System) Now() time.Time { return time.Now().UTC() }

// Manual is a settable clock for tests.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(t time.Time) *Manual { return &Manual{now: t} }

func (m *Manual) Today() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return DateOf(m.now)
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now.UTC()
}

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the clock by n calendar days (n may be negative).
func (m *Manual) Advance(days int) {
	m.mu.Lock()
	m.now = m.now.AddDate(0, 0, days)
	m.mu.Unlock()
}

// DateOf truncates t to its calendar date, keeping the wall-clock
// year/month/day of t's own location.
func DateOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from `from` to `to`.
// Negative when `to` is before `from`.
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

const DateLayout = "2006-01-02"
