package request_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/LRM-SchedulingEngine/internal/api/handlers"
	"github.com/m04kA/LRM-SchedulingEngine/internal/api/middleware"
	requestBooking "github.com/m04kA/LRM-SchedulingEngine/internal/usecase/request_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRequest     = "некорректный запрос бронирования"
	msgInvalidRecurrence  = "некорректное правило повторения"
	msgEquipmentNotFound  = "оборудование не найдено"
)

type Handler struct {
	useCase RequestBookingUseCase
	logger  Logger
}

func NewHandler(useCase RequestBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req RequestBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	requesterID := middleware.UserID(r.Context())

	useCaseReq, err := req.ToUseCaseRequest(requesterID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflictErr *requestBooking.ConflictError

		switch {
		case errors.As(err, &conflictErr):
			h.logger.Warn("POST /bookings - Slot conflict: equipment_id=%d, requester_id=%d, conflicts=%d",
				req.EquipmentID, requesterID, len(conflictErr.Conflicts))
			handlers.RespondConflict(w, FromConflictError(conflictErr))

		case errors.Is(err, requestBooking.ErrEquipmentNotFound):
			h.logger.Warn("POST /bookings - Equipment not found: equipment_id=%d", req.EquipmentID)
			handlers.RespondNotFound(w, msgEquipmentNotFound)

		case errors.Is(err, requestBooking.ErrInvalidRecurrence):
			h.logger.Warn("POST /bookings - Invalid recurrence: equipment_id=%d, error=%v", req.EquipmentID, err)
			handlers.RespondBadRequest(w, msgInvalidRecurrence)

		case errors.Is(err, requestBooking.ErrInvalidRequest):
			h.logger.Warn("POST /bookings - Invalid request: equipment_id=%d, error=%v", req.EquipmentID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: equipment_id=%d, requester_id=%d, error=%v",
				req.EquipmentID, requesterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Created %d booking(s): equipment_id=%d, requester_id=%d",
		len(result.Bookings), req.EquipmentID, requesterID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
