package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

// Request модель запроса доступных слотов
type Request struct {
	BarbershopID string   // contribuinte барбершопа
	EmployeeID   string   // ID сотрудника ("0" = все сотрудники, слотов нет)
	ServiceIDs   []string // выбранные услуги
	Date         string   // YYYY-MM-DD
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time
	EmployeeID      string
	DurationMinutes int                // суммарная длительность услуг
	Slots           []types.TimeString // отсортированы по возрастанию
}
