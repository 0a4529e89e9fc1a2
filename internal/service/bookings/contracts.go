package bookings

import (
	"context"
	"time"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
	"github.com/m04kA/LRM-SchedulingEngine/internal/events"
	bookingRepo "github.com/m04kA/LRM-SchedulingEngine/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByRequester(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error)
	GetByEquipment(ctx context.Context, filter domain.EquipmentBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, expectedVersion int64, upd bookingRepo.StatusUpdate) (*domain.Booking, error)
}

// EquipmentClient интерфейс клиента каталога оборудования
type EquipmentClient interface {
	GetEquipment(ctx context.Context, equipmentID int64) (*domain.Equipment, error)
}

// AvailabilityIndex интерфейс индекса занятости: терминальные переходы
// снимают удержание интервала
type AvailabilityIndex interface {
	Release(equipmentID, bookingID int64)
}

// EventEmitter интерфейс отправки событий жизненного цикла
type EventEmitter interface {
	Emit(e events.Event)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
