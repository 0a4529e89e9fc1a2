package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("storage/booking: booking not found")

	// ErrStaleVersion возвращается, когда конкурентный переход статуса
	// успел обновить бронирование первым (проигрыш оптимистичной блокировки)
	ErrStaleVersion = errors.New("storage/booking: stale booking version")

	// ErrBuildQuery возвращается при ошибке построения SQL-запроса
	ErrBuildQuery = errors.New("storage/booking: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL-запроса
	ErrExecQuery = errors.New("storage/booking: failed to execute query")

	// ErrScanRow возвращается при ошибке чтения строки результата
	ErrScanRow = errors.New("storage/booking: failed to scan row")
)
