package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interval(t *testing.T, start, end string) TimeInterval {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)
	e, err := time.Parse(time.RFC3339, end)
	require.NoError(t, err)
	return NewTimeInterval(s, e)
}

func TestTimeInterval_Overlaps(t *testing.T) {
	a := interval(t, "2025-03-10T09:00:00Z", "2025-03-10T11:00:00Z")
	b := interval(t, "2025-03-10T10:00:00Z", "2025-03-10T12:00:00Z")
	c := interval(t, "2025-03-10T11:00:00Z", "2025-03-10T13:00:00Z")
	inner := interval(t, "2025-03-10T09:30:00Z", "2025-03-10T10:30:00Z")

	// Пересечение симметрично
	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))

	// Любой непустой интервал пересекается сам с собой
	assert.True(t, a.Overlaps(a))

	// Полуоткрытая граница: [09,11) и [11,13) не пересекаются
	assert.False(t, a.Overlaps(c))
	assert.False(t, c.Overlaps(a))

	// Вложенный интервал пересекается
	assert.True(t, a.Overlaps(inner))
	assert.True(t, inner.Overlaps(a))
}

func TestTimeInterval_OverlapsAcrossTimezones(t *testing.T) {
	// 10:00 MSK == 07:00 UTC - интервалы заданы в разных зонах, но
	// нормализация к UTC дает пересечение
	msk := time.FixedZone("MSK", 3*60*60)
	a := NewTimeInterval(
		time.Date(2025, 3, 10, 10, 0, 0, 0, msk),
		time.Date(2025, 3, 10, 12, 0, 0, 0, msk),
	)
	b := interval(t, "2025-03-10T08:00:00Z", "2025-03-10T09:00:00Z")

	assert.True(t, a.Overlaps(b))
}

func TestTimeInterval_Contains(t *testing.T) {
	a := interval(t, "2025-03-10T09:00:00Z", "2025-03-10T11:00:00Z")

	assert.True(t, a.Contains(a.Start))
	assert.True(t, a.Contains(a.Start.Add(30*time.Minute)))
	// End не входит в полуоткрытый интервал
	assert.False(t, a.Contains(a.End))
	assert.False(t, a.Contains(a.Start.Add(-time.Second)))
}

func TestTimeInterval_Validate(t *testing.T) {
	valid := interval(t, "2025-03-10T09:00:00Z", "2025-03-10T11:00:00Z")
	assert.NoError(t, valid.Validate())

	empty := NewTimeInterval(valid.Start, valid.Start)
	assert.ErrorIs(t, empty.Validate(), ErrInvalidInterval)

	inverted := NewTimeInterval(valid.End, valid.Start)
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidInterval)
}

func TestBooking_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusApproved, StatusCompleted, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusPending, false},
		{StatusRejected, StatusCancelled, false},
		{StatusCancelled, StatusApproved, false},
		{StatusCompleted, StatusCancelled, false},
	}

	for _, tc := range cases {
		b := &Booking{Status: tc.from}
		assert.Equalf(t, tc.allowed, b.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestBooking_HoldsSlot(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPending}).HoldsSlot())
	assert.True(t, (&Booking{Status: StatusApproved}).HoldsSlot())
	assert.False(t, (&Booking{Status: StatusRejected}).HoldsSlot())
	assert.False(t, (&Booking{Status: StatusCancelled}).HoldsSlot())
	assert.False(t, (&Booking{Status: StatusCompleted}).HoldsSlot())
}
