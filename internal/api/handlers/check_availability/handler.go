package check_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/LRM-SchedulingEngine/internal/api/handlers"
	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
	checkAvailability "github.com/m04kA/LRM-SchedulingEngine/internal/usecase/check_availability"
)

const (
	msgInvalidEquipmentID = "некорректный ID оборудования"
	msgInvalidTimeRange   = "некорректные параметры start/end, ожидается RFC3339"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// ConflictResponse HTTP модель удерживаемого интервала
type ConflictResponse struct {
	BookingID int64  `json:"bookingId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Free      bool               `json:"free"`
	Conflicts []ConflictResponse `json:"conflicts"`
}

// Handle GET /api/v1/equipment/{equipmentId}/availability?start=...&end=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	equipmentID, err := strconv.ParseInt(vars["equipmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /equipment/{id}/availability - Invalid equipment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEquipmentID)
		return
	}

	query := r.URL.Query()
	start, errStart := time.Parse(time.RFC3339, query.Get("start"))
	end, errEnd := time.Parse(time.RFC3339, query.Get("end"))
	if errStart != nil || errEnd != nil {
		h.logger.Warn("GET /equipment/{id}/availability - Invalid time range: equipment_id=%d", equipmentID)
		handlers.RespondBadRequest(w, msgInvalidTimeRange)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkAvailability.Request{
		EquipmentID: equipmentID,
		Interval:    domain.NewTimeInterval(start, end),
	})
	if err != nil {
		if errors.Is(err, checkAvailability.ErrInvalidRequest) {
			h.logger.Warn("GET /equipment/{id}/availability - Invalid request: equipment_id=%d, error=%v", equipmentID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)
			return
		}
		h.logger.Error("GET /equipment/{id}/availability - Failed: equipment_id=%d, error=%v", equipmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	resp := AvailabilityResponse{
		Free:      result.Free,
		Conflicts: make([]ConflictResponse, 0, len(result.Conflicts)),
	}
	for _, c := range result.Conflicts {
		resp.Conflicts = append(resp.Conflicts, ConflictResponse{
			BookingID: c.BookingID,
			StartTime: c.Interval.Start.Format(time.RFC3339),
			EndTime:   c.Interval.End.Format(time.RFC3339),
		})
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
