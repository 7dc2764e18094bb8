package list_appointments

import (
	"net/url"
	"strings"

	"github.com/m04kA/SMC-BarberBookingService/internal/service/appointments/models"
)

// ToServiceRequest собирает фильтры из query: ?date=2025-03-10&employeeId=e1&clientId=c1
// или ?dateFrom=2025-03-01&dateTo=2025-03-31.
// Пустые параметры не передаются в сервис.
func ToServiceRequest(actor models.Actor, barbershopID string, query url.Values) *models.ListRequest {
	return &models.ListRequest{
		Actor:        actor,
		BarbershopID: barbershopID,
		Date:         optional(query, "date"),
		DateFrom:     optional(query, "dateFrom"),
		DateTo:       optional(query, "dateTo"),
		EmployeeID:   optional(query, "employeeId"),
		ClientID:     optional(query, "clientId"),
	}
}

func optional(query url.Values, key string) *string {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return nil
	}
	return &v
}
