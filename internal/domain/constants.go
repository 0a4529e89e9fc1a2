package domain

import "time"

// Default engine configuration values
const (
	DefaultMinBookingDuration    = 15 * time.Minute
	DefaultMaxBookingDuration    = 12 * time.Hour
	DefaultRecurrenceHorizonDays = 92 // ~3 months
	DefaultSweepInterval         = 1 * time.Minute
)

// Business validation constants
const (
	MaxPurposeLength         = 500
	MaxRejectionReasonLength = 500

	// MaxOccurrences жесткий потолок количества вхождений одного
	// повторяющегося запроса. Ограничивает worst-case работу разворачивания
	// и размер группы - осознанный предел, а не случайное ограничение.
	MaxOccurrences = 200
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// HeldStatuses список статусов, удерживающих временной слот.
// Используется при восстановлении Availability Index и в запросах к БД.
var HeldStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
}

// ValidStatuses все допустимые статусы бронирования
var ValidStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusCancelled,
	StatusCompleted,
}
