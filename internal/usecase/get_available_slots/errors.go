package get_available_slots

import "errors"

var (
	// ErrBarbershopNotFound возвращается, когда барбершоп не найден
	ErrBarbershopNotFound = errors.New("get_available_slots: barbershop not found")

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден или неактивен
	ErrEmployeeNotFound = errors.New("get_available_slots: employee not found")

	// ErrServiceNotFound возвращается, когда одна из услуг не найдена или неактивна
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
