package create_appointment

import "errors"

var (
	// ErrBarbershopNotFound возвращается, когда барбершоп не найден
	ErrBarbershopNotFound = errors.New("create_appointment: barbershop not found")

	// ErrInvalidInput возвращается при некорректных входных данных (например, contribuinte)
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
