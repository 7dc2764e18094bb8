package barbershop

import "errors"

var (
	// ErrBarbershopNotFound возвращается, когда барбершоп не найден
	ErrBarbershopNotFound = errors.New("barbershop not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на изменение настроек
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
