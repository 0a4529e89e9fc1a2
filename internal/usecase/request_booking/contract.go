package request_booking

import (
	"context"
	"time"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
	"github.com/m04kA/LRM-SchedulingEngine/internal/engine/availability"
	"github.com/m04kA/LRM-SchedulingEngine/internal/events"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
}

// EquipmentClient интерфейс клиента каталога оборудования
type EquipmentClient interface {
	GetEquipment(ctx context.Context, equipmentID int64) (*domain.Equipment, error)
}

// AvailabilityIndex интерфейс индекса занятости. LockEquipment обязана
// удерживаться на весь цикл "проверить все вхождения - зарезервировать все".
type AvailabilityIndex interface {
	LockEquipment(equipmentID int64) func()
	ConflictsFor(equipmentID int64, interval domain.TimeInterval) []availability.Hold
	Reserve(equipmentID, bookingID int64, interval domain.TimeInterval)
}

// RecurrenceExpander интерфейс разворачивания правил повторения
type RecurrenceExpander interface {
	Expand(anchor domain.TimeInterval, rule *domain.RecurrenceRule) ([]domain.TimeInterval, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
