package get_available_slots

import (
	"strings"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	getSlots "github.com/m04kA/SMC-BarberBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string   `json:"date"`
	EmployeeID      string   `json:"employeeId"`
	DurationMinutes int      `json:"durationMinutes"`
	Slots           []string `json:"slots"`
}

// ToUseCaseRequest собирает запрос use case из параметров URL.
// serviceIds передаются через запятую: ?serviceIds=corte,barba
func ToUseCaseRequest(barbershopID, employeeID, serviceIDs, date string) *getSlots.Request {
	ids := make([]string, 0)
	for _, id := range strings.Split(serviceIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	return &getSlots.Request{
		BarbershopID: barbershopID,
		EmployeeID:   strings.TrimSpace(employeeID),
		ServiceIDs:   ids,
		Date:         strings.TrimSpace(date),
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, s.String())
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		EmployeeID:      resp.EmployeeID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
