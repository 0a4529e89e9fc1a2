package request_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
	requestBooking "github.com/m04kA/LRM-SchedulingEngine/internal/usecase/request_booking"
)

// RecurrenceRequest HTTP модель правила повторения
type RecurrenceRequest struct {
	Frequency string `json:"frequency"`          // "daily" | "weekly"
	Interval  int    `json:"interval"`           // каждые N дней / недель
	Weekdays  []int  `json:"weekdays,omitempty"` // 0 (воскресенье) .. 6 (суббота), для weekly
	Until     string `json:"until"`              // "2025-04-05", включительно
}

// RequestBookingRequest HTTP request model
type RequestBookingRequest struct {
	EquipmentID int64              `json:"equipmentId"`
	StartTime   string             `json:"startTime"` // RFC3339
	EndTime     string             `json:"endTime"`   // RFC3339
	Purpose     string             `json:"purpose"`
	Recurrence  *RecurrenceRequest `json:"recurrence,omitempty"`
}

// BookingResponse HTTP response model одного бронирования
type BookingResponse struct {
	ID          int64   `json:"id"`
	EquipmentID int64   `json:"equipmentId"`
	RequesterID int64   `json:"requesterId"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Purpose     string  `json:"purpose"`
	Status      string  `json:"status"`
	GroupID     *string `json:"groupId,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// RequestBookingResponse HTTP response model созданной группы
type RequestBookingResponse struct {
	GroupID  *string           `json:"groupId,omitempty"`
	Bookings []BookingResponse `json:"bookings"`
}

// ConflictDetail HTTP модель одного конфликтующего вхождения
type ConflictDetail struct {
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	ConflictsWith []int64 `json:"conflictsWith"` // ID бронирований, удерживающих интервал
}

// ConflictResponse тело 409 ответа: каждое конфликтующее вхождение
type ConflictResponse struct {
	Error     string           `json:"error"`
	Conflicts []ConflictDetail `json:"conflicts"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RequestBookingRequest) ToUseCaseRequest(requesterID int64) (*requestBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid startTime: %w", err)
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid endTime: %w", err)
	}

	req := &requestBooking.Request{
		EquipmentID: r.EquipmentID,
		RequesterID: requesterID,
		Interval:    domain.NewTimeInterval(start, end),
		Purpose:     r.Purpose,
	}

	if r.Recurrence != nil {
		rule, err := r.Recurrence.toDomainRule()
		if err != nil {
			return nil, err
		}
		req.Recurrence = rule
	}

	return req, nil
}

func (r *RecurrenceRequest) toDomainRule() (*domain.RecurrenceRule, error) {
	until, err := time.Parse(domain.DateFormat, r.Until)
	if err != nil {
		return nil, fmt.Errorf("invalid until date: %w", err)
	}

	weekdays := make([]time.Weekday, 0, len(r.Weekdays))
	for _, d := range r.Weekdays {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("invalid weekday %d", d)
		}
		weekdays = append(weekdays, time.Weekday(d))
	}

	return &domain.RecurrenceRule{
		Frequency: domain.RecurrenceFrequency(r.Frequency),
		Interval:  r.Interval,
		Weekdays:  weekdays,
		Until:     until,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *requestBooking.Response) *RequestBookingResponse {
	out := &RequestBookingResponse{
		Bookings: make([]BookingResponse, 0, len(resp.Bookings)),
	}

	if resp.GroupID != nil {
		g := resp.GroupID.String()
		out.GroupID = &g
	}

	for _, b := range resp.Bookings {
		br := BookingResponse{
			ID:          b.ID,
			EquipmentID: b.EquipmentID,
			RequesterID: b.RequesterID,
			StartTime:   b.Interval.Start.Format(time.RFC3339),
			EndTime:     b.Interval.End.Format(time.RFC3339),
			Purpose:     b.Purpose,
			Status:      string(b.Status),
			CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		}
		if b.GroupID != nil {
			g := b.GroupID.String()
			br.GroupID = &g
		}
		out.Bookings = append(out.Bookings, br)
	}

	return out
}

// FromConflictError конвертирует ошибку конфликта в тело 409 ответа
func FromConflictError(err *requestBooking.ConflictError) *ConflictResponse {
	resp := &ConflictResponse{
		Error:     "запрошенные интервалы пересекаются с существующими бронированиями",
		Conflicts: make([]ConflictDetail, 0, len(err.Conflicts)),
	}

	for _, c := range err.Conflicts {
		detail := ConflictDetail{
			StartTime:     c.Occurrence.Start.Format(time.RFC3339),
			EndTime:       c.Occurrence.End.Format(time.RFC3339),
			ConflictsWith: make([]int64, 0, len(c.Held)),
		}
		for _, h := range c.Held {
			detail.ConflictsWith = append(detail.ConflictsWith, h.BookingID)
		}
		resp.Conflicts = append(resp.Conflicts, detail)
	}

	return resp
}
