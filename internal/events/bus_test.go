package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Warn(format string, v ...interface{}) {}

func TestBus_DeliversToAllSubscribers(t *testing.T) {
	bus := NewBus(nopLogger{})
	defer bus.Close()

	var wg sync.WaitGroup
	wg.Add(2)

	var mu sync.Mutex
	var got []Event

	handler := func(e Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
		wg.Done()
	}
	bus.Subscribe(handler)
	bus.Subscribe(handler)

	b := &domain.Booking{ID: 1, EquipmentID: 7, RequesterID: 3, Status: domain.StatusApproved}
	bus.Emit(StatusChange(TypeBookingApproved, b, domain.StatusPending, time.Now()))

	waitDone(t, &wg)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, got, 2)
	assert.Equal(t, domain.StatusPending, got[0].OldStatus)
	assert.Equal(t, domain.StatusApproved, got[0].NewStatus)
}

func TestBus_EmitAfterCloseIsNoop(t *testing.T) {
	bus := NewBus(nopLogger{})

	delivered := make(chan Event, 1)
	bus.Subscribe(func(e Event) { delivered <- e })
	bus.Close()

	bus.Emit(Event{Type: TypeBookingCreated, BookingID: 1})

	select {
	case <-delivered:
		t.Fatal("event delivered after Close")
	case <-time.After(50 * time.Millisecond):
	}
}

func waitDone(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event delivery")
	}
}
