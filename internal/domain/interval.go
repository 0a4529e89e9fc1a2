package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInterval возвращается, когда интервал некорректен (start >= end)
var ErrInvalidInterval = errors.New("domain: invalid time interval")

// TimeInterval represents a half-open time range [Start, End).
// All instants are kept in UTC so comparisons never depend on the
// location attached to the incoming time.Time values.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// NewTimeInterval создает интервал, нормализуя обе границы к UTC
func NewTimeInterval(start, end time.Time) TimeInterval {
	return TimeInterval{
		Start: start.UTC(),
		End:   end.UTC(),
	}
}

// Validate проверяет инвариант start < end
func (i TimeInterval) Validate() error {
	if !i.Start.Before(i.End) {
		return fmt.Errorf("%w: start=%s end=%s", ErrInvalidInterval,
			i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
	}
	return nil
}

// Overlaps returns true if the two half-open intervals share at least
// one instant. An interval ending at T and one starting at T do NOT
// overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains returns true if the point lies within [Start, End).
func (i TimeInterval) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(i.Start) && t.Before(i.End)
}

// Duration returns the length of the interval.
func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Shift returns a copy of the interval moved by d, duration preserved.
func (i TimeInterval) Shift(d time.Duration) TimeInterval {
	return TimeInterval{Start: i.Start.Add(d), End: i.End.Add(d)}
}

// String returns the interval in RFC3339 form, for logs and error detail.
func (i TimeInterval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}
