package reject_booking

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
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgNotFound               = "бронирование не найдено"
	msgForbidden              = "недостаточно полномочий для отклонения"
	msgReasonRequired         = "причина отклонения обязательна"
	msgInvalidTransition      = "бронирование не может быть отклонено"
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

// Handle PATCH /api/v1/bookings/{bookingId}/reject
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reject - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RejectBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reject - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ctx := r.Context()
	serviceReq := &models.RejectBookingRequest{
		ApproverID: middleware.UserID(ctx),
		CanApprove: middleware.CanApprove(ctx),
		Reason:     req.Reason,
	}

	result, err := h.service.Reject(ctx, bookingID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reject - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/reject - Access denied: booking_id=%d, approver_id=%d",
				bookingID, serviceReq.ApproverID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrReasonRequired), errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/reject - Invalid reason: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgReasonRequired)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/reject - Invalid transition: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		case errors.Is(err, bookings.ErrStaleVersion):
			h.logger.Warn("PATCH /bookings/{id}/reject - Stale version: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgConcurrentModification)

		default:
			h.logger.Error("PATCH /bookings/{id}/reject - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/reject - Booking rejected: booking_id=%d, approver_id=%d",
		bookingID, serviceReq.ApproverID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
