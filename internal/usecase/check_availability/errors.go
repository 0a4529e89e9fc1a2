package check_availability

import "errors"

var (
	// ErrInvalidRequest возвращается при некорректном интервале запроса
	ErrInvalidRequest = errors.New("check_availability: invalid request")
)
