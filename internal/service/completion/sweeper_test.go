package completion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
)

type fakeRepo struct {
	due []*domain.Booking
	err error
}

func (r *fakeRepo) ListDue(_ context.Context, _ time.Time) ([]*domain.Booking, error) {
	return r.due, r.err
}

type fakeCompleter struct {
	completed []int64
	errFor    map[int64]error
}

func (c *fakeCompleter) Complete(_ context.Context, bookingID int64) error {
	if err, ok := c.errFor[bookingID]; ok {
		return err
	}
	c.completed = append(c.completed, bookingID)
	return nil
}

type testLogger struct{}

func (testLogger) Info(format string, v ...interface{})  {}
func (testLogger) Warn(format string, v ...interface{})  {}
func (testLogger) Error(format string, v ...interface{}) {}

func dueBooking(id int64) *domain.Booking {
	return &domain.Booking{ID: id, EquipmentID: 7, Status: domain.StatusApproved}
}

func TestSweep_CompletesAllDue(t *testing.T) {
	repo := &fakeRepo{due: []*domain.Booking{dueBooking(1), dueBooking(2), dueBooking(3)}}
	completer := &fakeCompleter{}
	s := NewSweeper(repo, completer, time.Minute, testLogger{})

	s.Sweep(context.Background())

	assert.Equal(t, []int64{1, 2, 3}, completer.completed)
}

func TestSweep_OneFailureDoesNotStopThePass(t *testing.T) {
	repo := &fakeRepo{due: []*domain.Booking{dueBooking(1), dueBooking(2), dueBooking(3)}}
	completer := &fakeCompleter{errFor: map[int64]error{2: errors.New("lost a concurrent transition")}}
	s := NewSweeper(repo, completer, time.Minute, testLogger{})

	s.Sweep(context.Background())

	assert.Equal(t, []int64{1, 3}, completer.completed)
}

func TestSweep_ListErrorIsTolerated(t *testing.T) {
	repo := &fakeRepo{err: errors.New("storage is down")}
	completer := &fakeCompleter{}
	s := NewSweeper(repo, completer, time.Minute, testLogger{})

	s.Sweep(context.Background())

	assert.Empty(t, completer.completed)
}

func TestSweeper_StartRunsInitialPass(t *testing.T) {
	repo := &fakeRepo{due: []*domain.Booking{dueBooking(1)}}
	done := make(chan struct{})
	completer := &signalCompleter{done: done}
	s := NewSweeper(repo, completer, time.Hour, testLogger{})

	s.Start(context.Background())
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("initial sweep pass did not run")
	}
}

type signalCompleter struct {
	done chan struct{}
}

func (c *signalCompleter) Complete(_ context.Context, _ int64) error {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	return nil
}
