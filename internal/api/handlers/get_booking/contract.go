package get_booking

import (
	"context"

	"github.com/m04kA/LRM-SchedulingEngine/internal/service/bookings/models"
)

type BookingService interface {
	GetByID(ctx context.Context, bookingID, actorID int64, isStaff bool) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
