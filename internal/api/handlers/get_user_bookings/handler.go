package get_user_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/LRM-SchedulingEngine/internal/api/handlers"
	"github.com/m04kA/LRM-SchedulingEngine/internal/api/middleware"
	"github.com/m04kA/LRM-SchedulingEngine/internal/service/bookings"
	"github.com/m04kA/LRM-SchedulingEngine/internal/service/bookings/models"
	"github.com/m04kA/LRM-SchedulingEngine/pkg/ptr"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidStatus = "некорректный статус бронирования"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/users/{userId}/bookings?status=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{userId}/bookings - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	ctx := r.Context()

	// Чужую историю видит только сотрудник
	if userID != middleware.UserID(ctx) && !middleware.IsStaff(ctx) {
		h.logger.Warn("GET /users/{userId}/bookings - Access denied: user_id=%d, actor_id=%d",
			userID, middleware.UserID(ctx))
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	status := r.URL.Query().Get("status")
	var statusPtr *string
	if status != "" {
		statusPtr = ptr.Ptr(status)
	}

	result, err := h.service.GetUserBookings(ctx, &models.GetUserBookingsRequest{
		RequesterID: userID,
		Status:      statusPtr,
	})
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /users/{userId}/bookings - Invalid status: user_id=%d, status=%s", userID, status)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		h.logger.Error("GET /users/{userId}/bookings - Failed: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/{userId}/bookings - Retrieved %d booking(s): user_id=%d",
		len(result.Bookings), userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
