// Package daily maps wall-clock time onto the content rotation.
// All date math happens in a single fixed reference zone (UTC+5:30)
// regardless of the host's local timezone.
package daily

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// IST is the reference zone for every "today" and "midnight" computation.
var IST = time.FixedZone("IST", 5*3600+30*60)

var ErrInvalidDate = errors.New("invalid date")

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// ParseDate parses a YYYY-MM-DD string as midnight in the reference zone.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	t, err := time.ParseInLocation(DateLayout, v, IST)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, v, err)
	}
	return t, nil
}

// Midnight returns the reference-zone midnight that starts the day containing t.
func Midnight(t time.Time) time.Time {
	t = t.In(IST)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, IST)
}

func DateString(t time.Time) string {
	return t.In(IST).Format(DateLayout)
}

// PreviousDate returns the reference-zone calendar date before t's date.
func PreviousDate(t time.Time) string {
	return DateString(Midnight(t).AddDate(0, 0, -1))
}

// DaysBetween counts whole reference-zone calendar days from start's date to
// now's date. The result is negative when now is before start.
func DaysBetween(start, now time.Time) int {
	// The zone has no DST, so midnights are exactly 24h apart.
	diff := Midnight(now).Sub(Midnight(start))
	return int(diff / (24 * time.Hour))
}

// DayIndex wraps the elapsed days since start into [0, n).
// n must be positive; callers guard against empty content.
func DayIndex(start, now time.Time, n int) int {
	if n <= 0 {
		panic("daily: entry count must be positive")
	}
	days := DaysBetween(start, now)
	return ((days % n) + n) % n
}

func UntilNextMidnight(now time.Time) time.Duration {
	next := Midnight(now).AddDate(0, 0, 1)
	return next.Sub(now)
}

// Selector binds a content cycle start date to a clock.
type Selector struct {
	start time.Time
	clock Clock
}

func NewSelector(startDate string, clock Clock) (*Selector, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Selector{start: start, clock: clock}, nil
}

func (s *Selector) Index(entryCount int) int {
	return DayIndex(s.start, s.clock.Now(), entryCount)
}

func (s *Selector) Today() string {
	return DateString(s.clock.Now())
}

func (s *Selector) UntilNextMidnight() time.Duration {
	return UntilNextMidnight(s.clock.Now())
}
