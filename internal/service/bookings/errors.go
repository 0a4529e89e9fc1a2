package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrEquipmentNotFound возвращается, когда оборудование не найдено в каталоге
	ErrEquipmentNotFound = errors.New("equipment not found")

	// ErrInvalidTransition возвращается при нарушении правил машины состояний
	ErrInvalidTransition = errors.New("invalid booking state transition")

	// ErrStaleVersion возвращается, когда конкурентный переход успел первым;
	// проигравший никогда не перезаписывает результат молча
	ErrStaleVersion = errors.New("booking was modified concurrently")

	// ErrAccessDenied возвращается, когда у актора нет полномочий на переход
	ErrAccessDenied = errors.New("access denied")

	// ErrReasonRequired возвращается при отклонении без причины
	ErrReasonRequired = errors.New("rejection reason is required")

	// ErrEquipmentUnavailable возвращается при попытке подтвердить бронирование
	// оборудования, выведенного из эксплуатации
	ErrEquipmentUnavailable = errors.New("equipment is out of service")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
