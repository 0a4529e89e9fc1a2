package request_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
	"github.com/m04kA/LRM-SchedulingEngine/internal/engine/availability"
	"github.com/m04kA/LRM-SchedulingEngine/internal/engine/recurrence"
	"github.com/m04kA/LRM-SchedulingEngine/internal/events"
	equipmentClient "github.com/m04kA/LRM-SchedulingEngine/internal/integrations/equipmentservice"
)

// Фейки

type fakeRepo struct {
	mu      sync.Mutex
	nextID  int64
	created []*domain.Booking
	failAt  int // 0 - не падать; N - упасть на N-м Create
}

func (r *fakeRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failAt > 0 && len(r.created)+1 == r.failAt {
		return nil, errors.New("storage is down")
	}

	r.nextID++
	saved := *b
	saved.ID = r.nextID
	saved.Version = 1
	r.created = append(r.created, &saved)
	return &saved, nil
}

type fakeEquipment struct {
	equipment map[int64]*domain.Equipment
}

func (c *fakeEquipment) GetEquipment(_ context.Context, id int64) (*domain.Equipment, error) {
	e, ok := c.equipment[id]
	if !ok {
		return nil, equipmentClient.ErrEquipmentNotFound
	}
	return e, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []events.Event
}

func (e *fakeEmitter) Emit(ev events.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type testLogger struct{}

func (testLogger) Info(format string, v ...interface{})  {}
func (testLogger) Warn(format string, v ...interface{})  {}
func (testLogger) Error(format string, v ...interface{}) {}

type env struct {
	repo    *fakeRepo
	client  *fakeEquipment
	index   *availability.Index
	emitter *fakeEmitter
	clock   *fixedClock
	uc      *UseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		repo:    &fakeRepo{},
		client:  &fakeEquipment{equipment: map[int64]*domain.Equipment{}},
		index:   availability.NewIndex(),
		emitter: &fakeEmitter{},
		clock:   &fixedClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	e.client.equipment[7] = &domain.Equipment{ID: 7, Name: "Microscope-7", Status: domain.EquipmentAvailable}

	e.uc = NewUseCase(e.repo, e.client, e.index, recurrence.NewExpander(0, 0), fakeTxManager{}, e.emitter, Limits{}, testLogger{})
	e.uc.timeProvider = e.clock
	return e
}

func interval(start string, d time.Duration) domain.TimeInterval {
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		panic(err)
	}
	return domain.NewTimeInterval(s, s.Add(d))
}

func singleRequest() *Request {
	return &Request{
		EquipmentID: 7,
		RequesterID: 42,
		Interval:    interval("2025-03-10T09:00:00Z", 2*time.Hour),
		Purpose:     "cell imaging",
	}
}

// Одиночное бронирование

func TestExecute_Single(t *testing.T) {
	e := newEnv(t)

	resp, err := e.uc.Execute(context.Background(), singleRequest())
	require.NoError(t, err)

	assert.Nil(t, resp.GroupID, "single booking has no group")
	require.Len(t, resp.Bookings, 1)

	b := resp.Bookings[0]
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Nil(t, b.GroupID)
	assert.Equal(t, 1, e.index.HeldCount(7), "created booking holds its interval")

	require.Len(t, e.emitter.events, 1)
	assert.Equal(t, events.TypeBookingCreated, e.emitter.events[0].Type)
	assert.Equal(t, domain.StatusPending, e.emitter.events[0].NewStatus)
}

func TestExecute_AutoApprove(t *testing.T) {
	e := newEnv(t)
	e.client.equipment[7].AutoApprove = true

	resp, err := e.uc.Execute(context.Background(), singleRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, resp.Bookings[0].Status)
}

func TestExecute_AutoApproveIgnoredWhenOutOfService(t *testing.T) {
	e := newEnv(t)
	e.client.equipment[7].AutoApprove = true
	e.client.equipment[7].Status = domain.EquipmentOutOfService

	resp, err := e.uc.Execute(context.Background(), singleRequest())
	require.NoError(t, err)
	// pending создать можно, но auto-approve не срабатывает
	assert.Equal(t, domain.StatusPending, resp.Bookings[0].Status)
}

func TestExecute_Conflict(t *testing.T) {
	e := newEnv(t)
	e.index.Reserve(7, 99, interval("2025-03-10T10:00:00Z", 2*time.Hour))

	_, err := e.uc.Execute(context.Background(), singleRequest())
	require.ErrorIs(t, err, ErrSlotConflict)

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Len(t, conflictErr.Conflicts, 1)
	require.Len(t, conflictErr.Conflicts[0].Held, 1)
	assert.Equal(t, int64(99), conflictErr.Conflicts[0].Held[0].BookingID)

	assert.Empty(t, e.repo.created)
	assert.Empty(t, e.emitter.events)
}

func TestExecute_BackToBackIsNotConflict(t *testing.T) {
	e := newEnv(t)
	// [09:00, 11:00) уже занят; просим [11:00, 13:00)
	e.index.Reserve(7, 99, interval("2025-03-10T09:00:00Z", 2*time.Hour))

	req := singleRequest()
	req.Interval = interval("2025-03-10T11:00:00Z", 2*time.Hour)

	_, err := e.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_EquipmentNotFound(t *testing.T) {
	e := newEnv(t)

	req := singleRequest()
	req.EquipmentID = 404

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrEquipmentNotFound)
}

// Валидация

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty purpose", func(r *Request) { r.Purpose = "   " }},
		{"zero equipment id", func(r *Request) { r.EquipmentID = 0 }},
		{"zero requester id", func(r *Request) { r.RequesterID = 0 }},
		{"start in the past", func(r *Request) { r.Interval = interval("2025-02-01T09:00:00Z", time.Hour) }},
		{"inverted interval", func(r *Request) {
			r.Interval = domain.TimeInterval{
				Start: time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC),
				End:   time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
			}
		}},
		{"too short", func(r *Request) { r.Interval = interval("2025-03-10T09:00:00Z", 5*time.Minute) }},
		{"too long", func(r *Request) { r.Interval = interval("2025-03-10T09:00:00Z", 13*time.Hour) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			req := singleRequest()
			tt.mutate(req)

			_, err := e.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Empty(t, e.repo.created)
		})
	}
}

// Повторяющиеся бронирования

func TestExecute_RecurringWeekly(t *testing.T) {
	e := newEnv(t)

	// Каждые понедельник и среда, 4 недели: 8 вхождений
	req := singleRequest() // 2025-03-10 - понедельник
	req.Recurrence = &domain.RecurrenceRule{
		Frequency: domain.FrequencyWeekly,
		Interval:  1,
		Weekdays:  []time.Weekday{time.Monday, time.Wednesday},
		Until:     time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
	}

	resp, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, resp.GroupID)
	require.Len(t, resp.Bookings, 8)
	assert.Equal(t, 8, e.index.HeldCount(7))
	assert.Len(t, e.emitter.events, 8)

	for _, b := range resp.Bookings {
		require.NotNil(t, b.GroupID)
		assert.Equal(t, *resp.GroupID, *b.GroupID, "all occurrences share one group")
		assert.Equal(t, 2*time.Hour, b.Interval.Duration())
	}
}

func TestExecute_RecurringAllOrNothing(t *testing.T) {
	e := newEnv(t)

	// Ежедневно 5 дней; третий день уже занят
	e.index.Reserve(7, 99, interval("2025-03-12T09:30:00Z", time.Hour))

	req := singleRequest()
	req.Recurrence = &domain.RecurrenceRule{
		Frequency: domain.FrequencyDaily,
		Interval:  1,
		Until:     time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
	}

	_, err := e.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrSlotConflict)

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, interval("2025-03-12T09:00:00Z", 2*time.Hour), conflictErr.Conflicts[0].Occurrence)

	// Ничего не создано и не удерживается
	assert.Empty(t, e.repo.created)
	assert.Equal(t, 1, e.index.HeldCount(7), "only the pre-existing hold remains")
}

func TestExecute_InvalidRecurrence(t *testing.T) {
	e := newEnv(t)

	req := singleRequest()
	req.Recurrence = &domain.RecurrenceRule{
		Frequency: domain.FrequencyWeekly,
		Interval:  1,
		// weekly без дней недели
		Until: time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
	}

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRecurrence)
}

// Конкурентность

func TestExecute_ConcurrentRequestsExactlyOneWins(t *testing.T) {
	e := newEnv(t)

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(requester int64) {
			defer wg.Done()
			req := singleRequest()
			req.RequesterID = requester
			_, err := e.uc.Execute(context.Background(), req)
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one request wins the slot")
	assert.Equal(t, workers-1, conflicted)
	assert.Equal(t, 1, e.index.HeldCount(7))
	assert.Len(t, e.repo.created, 1)
}

func TestExecute_StorageFailureLeavesNoHolds(t *testing.T) {
	e := newEnv(t)
	e.repo.failAt = 3

	req := singleRequest()
	req.Recurrence = &domain.RecurrenceRule{
		Frequency: domain.FrequencyDaily,
		Interval:  1,
		Until:     time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
	}

	_, err := e.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInternal)

	// До резервирования и событий дело не дошло
	assert.Equal(t, 0, e.index.HeldCount(7))
	assert.Empty(t, e.emitter.events)
}
