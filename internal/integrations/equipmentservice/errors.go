package equipmentservice

import "errors"

var (
	// ErrEquipmentNotFound возвращается, когда оборудование не найдено в каталоге
	ErrEquipmentNotFound = errors.New("equipmentservice: equipment not found")

	// ErrInvalidResponse возвращается при некорректном ответе каталога оборудования
	ErrInvalidResponse = errors.New("equipmentservice: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("equipmentservice: internal error")
)
