package request_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest возвращается при некорректных входных данных:
	// пустая цель, некорректный интервал, старт в прошлом, длительность
	// вне настроенных пределов
	ErrInvalidRequest = errors.New("request_booking: invalid request")

	// ErrInvalidRecurrence возвращается при некорректном правиле повторения
	ErrInvalidRecurrence = errors.New("request_booking: invalid recurrence rule")

	// ErrEquipmentNotFound возвращается, когда оборудование не найдено в каталоге
	ErrEquipmentNotFound = errors.New("request_booking: equipment not found")

	// ErrSlotConflict возвращается, когда хотя бы одно вхождение пересекается
	// с удерживаемым интервалом. Детали - в *ConflictError.
	ErrSlotConflict = errors.New("request_booking: slot conflict")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("request_booking: internal error")
)

// ConflictError перечисляет каждое конфликтующее вхождение и бронирования,
// с которыми оно пересекается. Запрос отклоняется целиком - частичное
// резервирование не выполняется.
type ConflictError struct {
	Conflicts []OccurrenceConflict
}

// Error возвращает текст ошибки
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: %d conflicting occurrence(s)", ErrSlotConflict, len(e.Conflicts))
}

// Is делает ошибку совместимой с errors.Is(err, ErrSlotConflict)
func (e *ConflictError) Is(target error) bool {
	return target == ErrSlotConflict
}
