package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// Booking represents a reservation of a single piece of equipment for
// a concrete time interval. Interval, EquipmentID and RequesterID are
// immutable after creation - correcting them is cancel-and-recreate.
type Booking struct {
	ID          int64
	EquipmentID int64
	RequesterID int64
	Interval    TimeInterval
	Purpose     string
	Status      BookingStatus

	ApproverID      *int64
	RejectionReason *string

	// GroupID связывает бронирования, созданные одним повторяющимся запросом.
	// nil для одиночных бронирований.
	GroupID *uuid.UUID

	// Version счетчик оптимистичной блокировки, инкрементируется при каждом переходе статуса
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HoldsSlot returns true if the booking currently blocks its interval
// for other bookings (pending and approved bookings hold the slot).
func (b *Booking) HoldsSlot() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// IsTerminal returns true if the booking is in a terminal state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusRejected || b.Status == StatusCancelled || b.Status == StatusCompleted
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// CanTransitionTo reports whether moving to the target status is a
// legal state-machine transition:
//
//	pending  -> approved, rejected, cancelled
//	approved -> completed, cancelled
//
// Everything else is illegal; terminal states have no outgoing edges.
func (b *Booking) CanTransitionTo(target BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return target == StatusApproved || target == StatusRejected || target == StatusCancelled
	case StatusApproved:
		return target == StatusCompleted || target == StatusCancelled
	default:
		return false
	}
}

// IsDue returns true if an approved booking's interval has fully
// passed and the booking is ready to be completed by the sweep.
func (b *Booking) IsDue(now time.Time) bool {
	return b.Status == StatusApproved && !now.UTC().Before(b.Interval.End)
}

// UserBookingsFilter фильтр для получения бронирований пользователя
type UserBookingsFilter struct {
	RequesterID int64
	Status      *BookingStatus // опционально, nil - все статусы
}

// EquipmentBookingsFilter фильтр для получения бронирований оборудования
type EquipmentBookingsFilter struct {
	EquipmentID int64
	From        *time.Time     // начало периода (опционально)
	To          *time.Time     // конец периода (опционально)
	Status      *BookingStatus // фильтр по статусу (опционально)
	OnlyHeld    bool           // только бронирования, удерживающие слот (pending + approved)
}
