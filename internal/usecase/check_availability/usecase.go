package check_availability

import (
	"context"
	"fmt"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
	"github.com/m04kA/LRM-SchedulingEngine/internal/engine/availability"
)

// Request модель запроса проверки доступности
type Request struct {
	EquipmentID int64
	Interval    domain.TimeInterval
}

// Response результат проверки: свободен ли интервал и с чем он пересекается
type Response struct {
	Free      bool
	Conflicts []availability.Hold
}

// UseCase read-only проверка доступности интервала для календаря UI
type UseCase struct {
	index  AvailabilityIndex
	logger Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(index AvailabilityIndex, logger Logger) *UseCase {
	return &UseCase{
		index:  index,
		logger: logger,
	}
}

// Execute проверяет интервал по индексу занятости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.EquipmentID <= 0 {
		return nil, fmt.Errorf("%w: equipmentID must be positive", ErrInvalidRequest)
	}
	if err := req.Interval.Validate(); err != nil {
		uc.logger.Warn("CheckAvailability: invalid interval: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	conflicts := uc.index.ConflictsFor(req.EquipmentID, req.Interval)

	uc.logger.Info("CheckAvailability: equipment=%d, interval=%s, conflicts=%d",
		req.EquipmentID, req.Interval, len(conflicts))

	return &Response{
		Free:      len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}
