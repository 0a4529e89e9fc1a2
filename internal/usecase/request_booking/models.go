package request_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
	"github.com/m04kA/LRM-SchedulingEngine/internal/engine/availability"
)

// Request модель запроса на бронирование оборудования
type Request struct {
	EquipmentID int64
	RequesterID int64
	Interval    domain.TimeInterval    // якорный интервал: первое вхождение и длительность
	Purpose     string                 // цель бронирования, обязательна
	Recurrence  *domain.RecurrenceRule // nil для одиночного бронирования
}

// Response модель ответа с созданной группой бронирований.
// Для одиночного запроса GroupID == nil и в Bookings ровно один элемент.
type Response struct {
	GroupID  *uuid.UUID
	Bookings []*domain.Booking
}

// OccurrenceConflict конфликт одного вхождения с удерживаемыми интервалами
type OccurrenceConflict struct {
	Occurrence domain.TimeInterval
	Held       []availability.Hold
}
