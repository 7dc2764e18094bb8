package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

// Request модель запроса на создание записи.
// Дата и время передаются строками: формат проверяет валидатор и сообщает ошибку по полю.
type Request struct {
	BarbershopID string   // contribuinte барбершопа
	ClientID     string   // ID клиента
	EmployeeID   string   // ID сотрудника
	ServiceIDs   []string // ID услуг в порядке выбора
	Date         string   // YYYY-MM-DD
	StartTime    string   // HH:MM
	Notes        *string  // Заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              string
	BarbershopID    string
	ClientID        string
	EmployeeID      string
	ServiceIDs      []string
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string
	TotalPrice      float64
	Notes           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
