package models

import (
	"errors"
	"time"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ApproveBookingRequest запрос на подтверждение бронирования
type ApproveBookingRequest struct {
	ApproverID int64 `json:"approverId"`
	CanApprove bool  `json:"canApprove"` // capability-флаг от внешнего слоя авторизации
}

// RejectBookingRequest запрос на отклонение бронирования
type RejectBookingRequest struct {
	ApproverID int64  `json:"approverId"`
	CanApprove bool   `json:"canApprove"`
	Reason     string `json:"reason"` // обязательна
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	ActorID int64 `json:"actorId"`
	IsStaff bool  `json:"isStaff"` // capability-флаг: сотрудник может отменять чужие бронирования
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	RequesterID int64   `json:"requesterId"`
	Status      *string `json:"status,omitempty"`
}

// GetEquipmentBookingsRequest запрос на получение бронирований оборудования
type GetEquipmentBookingsRequest struct {
	EquipmentID int64      `json:"equipmentId"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
	Status      *string    `json:"status,omitempty"`
	OnlyHeld    bool       `json:"onlyHeld,omitempty"` // только удерживающие слот (pending + approved)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetUserBookingsRequest) ToDomainFilter() (domain.UserBookingsFilter, error) {
	filter := domain.UserBookingsFilter{RequesterID: r.RequesterID}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetEquipmentBookingsRequest) ToDomainFilter() (domain.EquipmentBookingsFilter, error) {
	filter := domain.EquipmentBookingsFilter{
		EquipmentID: r.EquipmentID,
		From:        r.From,
		To:          r.To,
		OnlyHeld:    r.OnlyHeld,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64  `json:"id"`
	EquipmentID int64  `json:"equipmentId"`
	RequesterID int64  `json:"requesterId"`
	StartTime   string `json:"startTime"` // RFC3339, UTC
	EndTime     string `json:"endTime"`
	Purpose     string `json:"purpose"`
	Status      string `json:"status"`

	ApproverID      *int64  `json:"approverId,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
	GroupID         *string `json:"groupId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		EquipmentID:     b.EquipmentID,
		RequesterID:     b.RequesterID,
		StartTime:       b.Interval.Start.Format(time.RFC3339),
		EndTime:         b.Interval.End.Format(time.RFC3339),
		Purpose:         b.Purpose,
		Status:          string(b.Status),
		ApproverID:      b.ApproverID,
		RejectionReason: b.RejectionReason,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if b.GroupID != nil {
		groupStr := b.GroupID.String()
		resp.GroupID = &groupStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	for _, valid := range domain.ValidStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
