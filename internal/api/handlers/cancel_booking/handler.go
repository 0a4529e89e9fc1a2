package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/LRM-SchedulingEngine/internal/api/handlers"
	"github.com/m04kA/LRM-SchedulingEngine/internal/api/middleware"
	"github.com/m04kA/LRM-SchedulingEngine/internal/service/bookings"
	"github.com/m04kA/LRM-SchedulingEngine/internal/service/bookings/models"
)

const (
	msgInvalidBookingID       = "некорректный ID бронирования"
	msgNotFound               = "бронирование не найдено"
	msgForbidden              = "доступ запрещен"
	msgCannotCancel           = "бронирование не может быть отменено"
	msgConcurrentModification = "бронирование было изменено параллельно, повторите запрос"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	ctx := r.Context()
	serviceReq := &models.CancelBookingRequest{
		ActorID: middleware.UserID(ctx),
		IsStaff: middleware.IsStaff(ctx),
	}

	result, err := h.service.Cancel(ctx, bookingID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d, actor_id=%d",
				bookingID, serviceReq.ActorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgCannotCancel)

		case errors.Is(err, bookings.ErrStaleVersion):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Stale version: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgConcurrentModification)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled: booking_id=%d, actor_id=%d",
		bookingID, serviceReq.ActorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
