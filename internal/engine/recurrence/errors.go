package recurrence

import "errors"

var (
	// ErrInvalidRecurrence возвращается при некорректном правиле повторения
	// или при выходе разворачивания за допустимые пределы
	ErrInvalidRecurrence = errors.New("recurrence: invalid recurrence rule")
)
