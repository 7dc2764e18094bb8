package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	createAppointment "github.com/m04kA/SMC-BarberBookingService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ClientID   string   `json:"clientId"` // для клиента можно не указывать - берется X-User-ID
	EmployeeID string   `json:"employeeId"`
	ServiceIDs []string `json:"serviceIds"`
	Date       string   `json:"date"`      // "2025-03-10"
	StartTime  string   `json:"startTime"` // "10:00"
	Notes      *string  `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              string   `json:"id"`
	BarbershopID    string   `json:"barbershopId"`
	ClientID        string   `json:"clientId"`
	EmployeeID      string   `json:"employeeId"`
	ServiceIDs      []string `json:"serviceIds"`
	Date            string   `json:"date"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	DurationMinutes int      `json:"durationMinutes"`
	Status          string   `json:"status"`
	TotalPrice      float64  `json:"totalPrice"`
	Notes           *string  `json:"notes,omitempty"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Формат даты и времени проверяет валидатор, чтобы вернуть ошибку по полю.
func (r *CreateAppointmentRequest) ToUseCaseRequest(barbershopID string) *createAppointment.Request {
	return &createAppointment.Request{
		BarbershopID: barbershopID,
		ClientID:     r.ClientID,
		EmployeeID:   r.EmployeeID,
		ServiceIDs:   r.ServiceIDs,
		Date:         r.Date,
		StartTime:    r.StartTime,
		Notes:        r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		BarbershopID:    resp.BarbershopID,
		ClientID:        resp.ClientID,
		EmployeeID:      resp.EmployeeID,
		ServiceIDs:      resp.ServiceIDs,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		TotalPrice:      resp.TotalPrice,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
