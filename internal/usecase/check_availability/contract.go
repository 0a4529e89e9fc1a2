package check_availability

import (
	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
	"github.com/m04kA/LRM-SchedulingEngine/internal/engine/availability"
)

// AvailabilityIndex интерфейс индекса занятости. Тот же индекс, что и у
// создания бронирования - предварительная проверка из UI обязана давать
// ровно ту же семантику пересечения, что и реальная отправка.
type AvailabilityIndex interface {
	ConflictsFor(equipmentID int64, interval domain.TimeInterval) []availability.Hold
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
