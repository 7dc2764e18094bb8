package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrBarbershopNotFound возвращается, когда барбершоп не найден
	ErrBarbershopNotFound = errors.New("barbershop not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда запись уже выполнена
	ErrCannotCancel = errors.New("appointment cannot be canceled")

	// ErrCancellationNotAllowed барбершоп не разрешает клиентам отменять записи
	ErrCancellationNotAllowed = errors.New("barbershop does not allow cancellation by clients")

	// ErrCancellationTooLate до начала записи осталось меньше cancellationCutoffHours
	ErrCancellationTooLate = errors.New("cancellation deadline has passed")

	// ErrInvalidTransition недопустимый переход статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
