package events

import (
	"time"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
)

// EventType тип события жизненного цикла бронирования
type EventType string

const (
	TypeBookingCreated   EventType = "booking.created"
	TypeBookingApproved  EventType = "booking.approved"
	TypeBookingRejected  EventType = "booking.rejected"
	TypeBookingCancelled EventType = "booking.cancelled"
	TypeBookingCompleted EventType = "booking.completed"
)

// Event уведомление о совершенном переходе статуса бронирования.
// Потребляется слоем уведомлений/аудита асинхронно; движок не ждет доставки.
type Event struct {
	Type        EventType            `json:"type"`
	BookingID   int64                `json:"bookingId"`
	EquipmentID int64                `json:"equipmentId"`
	RequesterID int64                `json:"requesterId"`
	OldStatus   domain.BookingStatus `json:"oldStatus,omitempty"` // пусто для created
	NewStatus   domain.BookingStatus `json:"newStatus"`
	At          time.Time            `json:"at"`
}

// Emitter интерфейс отправки событий - реализуется шиной или заглушкой в тестах
type Emitter interface {
	Emit(e Event)
}

// StatusChange собирает событие перехода из бронирования и его прежнего статуса
func StatusChange(t EventType, b *domain.Booking, old domain.BookingStatus, at time.Time) Event {
	return Event{
		Type:        t,
		BookingID:   b.ID,
		EquipmentID: b.EquipmentID,
		RequesterID: b.RequesterID,
		OldStatus:   old,
		NewStatus:   b.Status,
		At:          at.UTC(),
	}
}
