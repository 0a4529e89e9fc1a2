package domain

import "time"

// RecurrenceFrequency задает шаг повторения правила
type RecurrenceFrequency string

const (
	FrequencyDaily  RecurrenceFrequency = "daily"
	FrequencyWeekly RecurrenceFrequency = "weekly"
)

// RecurrenceRule describes how a booking request repeats. The rule is
// always horizon-bounded by Until so expansion is finite.
type RecurrenceRule struct {
	Frequency RecurrenceFrequency

	// Interval шаг в единицах Frequency (каждые N дней / каждые N недель)
	Interval int

	// Weekdays дни недели для weekly-правил (time.Sunday..time.Saturday).
	// Должно быть непустым при Frequency = weekly, игнорируется для daily.
	Weekdays []time.Weekday

	// Until последняя дата (включительно), до которой разворачивается правило
	Until time.Time
}

// HasWeekday returns true if d is in the rule's weekday set
func (r *RecurrenceRule) HasWeekday(d time.Weekday) bool {
	for _, w := range r.Weekdays {
		if w == d {
			return true
		}
	}
	return false
}
