package get_equipment_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/LRM-SchedulingEngine/internal/api/handlers"
	"github.com/m04kA/LRM-SchedulingEngine/internal/service/bookings"
	"github.com/m04kA/LRM-SchedulingEngine/internal/service/bookings/models"
	"github.com/m04kA/LRM-SchedulingEngine/pkg/ptr"
)

const (
	msgInvalidEquipmentID = "некорректный ID оборудования"
	msgInvalidTimeRange   = "некорректные параметры from/to, ожидается RFC3339"
	msgInvalidFilter      = "некорректный фильтр"
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

// Handle GET /api/v1/equipment/{equipmentId}/bookings?from=...&to=...&status=...&onlyHeld=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	equipmentID, err := strconv.ParseInt(vars["equipmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /equipment/{id}/bookings - Invalid equipment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEquipmentID)
		return
	}

	query := r.URL.Query()

	serviceReq := &models.GetEquipmentBookingsRequest{
		EquipmentID: equipmentID,
		OnlyHeld:    query.Get("onlyHeld") == "true",
	}

	if from := query.Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidTimeRange)
			return
		}
		serviceReq.From = &t
	}
	if to := query.Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidTimeRange)
			return
		}
		serviceReq.To = &t
	}
	if status := query.Get("status"); status != "" {
		serviceReq.Status = ptr.Ptr(status)
	}

	result, err := h.service.GetEquipmentBookings(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /equipment/{id}/bookings - Invalid filter: equipment_id=%d", equipmentID)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		h.logger.Error("GET /equipment/{id}/bookings - Failed: equipment_id=%d, error=%v", equipmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /equipment/{id}/bookings - Retrieved %d booking(s): equipment_id=%d",
		len(result.Bookings), equipmentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
