package request_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
)

// Limits настраиваемые пределы длительности бронирования
type Limits struct {
	MinDuration time.Duration
	MaxDuration time.Duration
}

// withDefaults подставляет дефолты вместо нулевых значений
func (l Limits) withDefaults() Limits {
	if l.MinDuration <= 0 {
		l.MinDuration = domain.DefaultMinBookingDuration
	}
	if l.MaxDuration <= 0 {
		l.MaxDuration = domain.DefaultMaxBookingDuration
	}
	return l
}

// validateRequest валидирует форму запроса до обращения к каталогу и индексу
func validateRequest(req *Request, now time.Time, limits Limits) error {
	if req.EquipmentID <= 0 {
		return fmt.Errorf("%w: equipmentID must be positive", ErrInvalidRequest)
	}

	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requesterID must be positive", ErrInvalidRequest)
	}

	if strings.TrimSpace(req.Purpose) == "" {
		return fmt.Errorf("%w: purpose is required", ErrInvalidRequest)
	}

	if len(req.Purpose) > domain.MaxPurposeLength {
		return fmt.Errorf("%w: purpose exceeds %d characters", ErrInvalidRequest, domain.MaxPurposeLength)
	}

	if err := req.Interval.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	// Бронировать можно только будущее
	if !req.Interval.Start.After(now.UTC()) {
		return fmt.Errorf("%w: interval start must be in the future", ErrInvalidRequest)
	}

	duration := req.Interval.Duration()
	if duration < limits.MinDuration {
		return fmt.Errorf("%w: duration %s is below the %s minimum", ErrInvalidRequest, duration, limits.MinDuration)
	}
	if duration > limits.MaxDuration {
		return fmt.Errorf("%w: duration %s exceeds the %s maximum", ErrInvalidRequest, duration, limits.MaxDuration)
	}

	return nil
}
