package completion

import (
	"context"
	"time"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
)

// BookingRepository интерфейс репозитория: выборка approved-бронирований
// с прошедшим интервалом
type BookingRepository interface {
	ListDue(ctx context.Context, now time.Time) ([]*domain.Booking, error)
}

// Completer интерфейс перехода завершения - реализуется сервисом бронирований
type Completer interface {
	Complete(ctx context.Context, bookingID int64) error
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
