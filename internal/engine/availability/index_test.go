package availability

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
)

func iv(start, end string) domain.TimeInterval {
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		panic(err)
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		panic(err)
	}
	return domain.NewTimeInterval(s, e)
}

func TestIndex_IsFreeAndConflicts(t *testing.T) {
	ix := NewIndex()
	held := iv("2025-03-10T09:00:00Z", "2025-03-10T11:00:00Z")
	ix.Reserve(7, 1, held)

	// Пересекающийся интервал занят, конфликт указывает на бронирование
	query := iv("2025-03-10T10:00:00Z", "2025-03-10T12:00:00Z")
	assert.False(t, ix.IsFree(7, query))

	conflicts := ix.ConflictsFor(7, query)
	require.Len(t, conflicts, 1)
	assert.Equal(t, int64(1), conflicts[0].BookingID)
	assert.Equal(t, held, conflicts[0].Interval)

	// Граничащий интервал свободен (полуоткрытая семантика)
	assert.True(t, ix.IsFree(7, iv("2025-03-10T11:00:00Z", "2025-03-10T12:00:00Z")))
	assert.True(t, ix.IsFree(7, iv("2025-03-10T08:00:00Z", "2025-03-10T09:00:00Z")))

	// Другое оборудование не затронуто
	assert.True(t, ix.IsFree(8, query))
}

func TestIndex_ConflictsForFindsAllOverlaps(t *testing.T) {
	ix := NewIndex()
	ix.Reserve(7, 1, iv("2025-03-10T08:00:00Z", "2025-03-10T10:00:00Z"))
	ix.Reserve(7, 2, iv("2025-03-10T10:00:00Z", "2025-03-10T12:00:00Z"))
	ix.Reserve(7, 3, iv("2025-03-10T14:00:00Z", "2025-03-10T16:00:00Z"))

	conflicts := ix.ConflictsFor(7, iv("2025-03-10T09:00:00Z", "2025-03-10T15:00:00Z"))

	require.Len(t, conflicts, 3)
}

func TestIndex_LongEarlyHoldStillConflicts(t *testing.T) {
	// Длинное удержание, начавшееся сильно раньше запроса, не должно
	// теряться из-за отсечения по старту
	ix := NewIndex()
	ix.Reserve(7, 1, iv("2025-03-10T06:00:00Z", "2025-03-10T18:00:00Z"))
	ix.Reserve(7, 2, iv("2025-03-10T07:00:00Z", "2025-03-10T08:00:00Z"))

	conflicts := ix.ConflictsFor(7, iv("2025-03-10T12:00:00Z", "2025-03-10T13:00:00Z"))

	require.Len(t, conflicts, 1)
	assert.Equal(t, int64(1), conflicts[0].BookingID)
}

func TestIndex_ReserveIsIdempotentPerBooking(t *testing.T) {
	ix := NewIndex()
	held := iv("2025-03-10T09:00:00Z", "2025-03-10T11:00:00Z")

	ix.Reserve(7, 1, held)
	ix.Reserve(7, 1, held)

	assert.Equal(t, 1, ix.HeldCount(7))
}

func TestIndex_ReleaseFreesInterval(t *testing.T) {
	ix := NewIndex()
	held := iv("2025-03-10T09:00:00Z", "2025-03-10T11:00:00Z")
	ix.Reserve(7, 1, held)

	ix.Release(7, 1)

	assert.True(t, ix.IsFree(7, held))
	assert.Equal(t, 0, ix.HeldCount(7))

	// Повторный Release - no-op
	ix.Release(7, 1)
	assert.Equal(t, 0, ix.HeldCount(7))
}

func TestIndex_Rebuild(t *testing.T) {
	ix := NewIndex()
	ix.Reserve(7, 99, iv("2025-03-01T09:00:00Z", "2025-03-01T10:00:00Z"))

	bookings := []*domain.Booking{
		{ID: 1, EquipmentID: 7, Status: domain.StatusPending, Interval: iv("2025-03-10T09:00:00Z", "2025-03-10T10:00:00Z")},
		{ID: 2, EquipmentID: 7, Status: domain.StatusApproved, Interval: iv("2025-03-10T12:00:00Z", "2025-03-10T13:00:00Z")},
		{ID: 3, EquipmentID: 7, Status: domain.StatusCancelled, Interval: iv("2025-03-10T14:00:00Z", "2025-03-10T15:00:00Z")},
		{ID: 4, EquipmentID: 8, Status: domain.StatusPending, Interval: iv("2025-03-10T09:00:00Z", "2025-03-10T10:00:00Z")},
	}

	ix.Rebuild(bookings)

	// Старое содержимое сброшено, терминальные статусы не удерживают слот
	assert.Equal(t, 2, ix.HeldCount(7))
	assert.Equal(t, 1, ix.HeldCount(8))
	assert.True(t, ix.IsFree(7, iv("2025-03-01T09:00:00Z", "2025-03-01T10:00:00Z")))
	assert.True(t, ix.IsFree(7, iv("2025-03-10T14:00:00Z", "2025-03-10T15:00:00Z")))
	assert.False(t, ix.IsFree(7, iv("2025-03-10T09:30:00Z", "2025-03-10T09:45:00Z")))
}

func TestIndex_ConcurrentCheckThenReserve(t *testing.T) {
	// N конкурентных запросов на один и тот же слот: ровно один успевает
	// зарезервировать, остальные видят конфликт
	ix := NewIndex()
	slot := iv("2025-03-10T09:00:00Z", "2025-03-10T11:00:00Z")

	const n = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(bookingID int64) {
			defer wg.Done()

			unlock := ix.LockEquipment(7)
			defer unlock()

			if ix.IsFree(7, slot) {
				ix.Reserve(7, bookingID, slot)
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, ix.HeldCount(7))
}

func TestIndex_DifferentEquipmentDoesNotContend(t *testing.T) {
	ix := NewIndex()
	slot := iv("2025-03-10T09:00:00Z", "2025-03-10T11:00:00Z")

	// Критическая секция одного оборудования не мешает другому
	unlock := ix.LockEquipment(7)
	defer unlock()

	done := make(chan struct{})
	go func() {
		u := ix.LockEquipment(8)
		ix.Reserve(8, 1, slot)
		u()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reserve on a different equipment blocked by unrelated lock")
	}
}
