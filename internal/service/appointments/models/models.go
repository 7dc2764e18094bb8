package models

import (
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
)

// Роли пользователя, от имени которого выполняется запрос
const (
	RoleClient = domain.CanceledByClient
	RoleStaff  = domain.CanceledByStaff
)

// Actor пользователь, выполняющий запрос
type Actor struct {
	UserID string
	Role   string
}

// IsStaff сотрудник или администратор барбершопа
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

// Request модели

// ListRequest запрос списка записей. Нужен хотя бы один фильтр.
// С датой возвращаются только неотмененные записи (расписание дня),
// с диапазоном или без даты (история сотрудника или клиента) включая отмененные.
// Date нельзя сочетать с DateFrom/DateTo.
type ListRequest struct {
	Actor        Actor
	BarbershopID string
	Date         *string // YYYY-MM-DD
	DateFrom     *string // YYYY-MM-DD, включительно
	DateTo       *string // YYYY-MM-DD, включительно
	EmployeeID   *string // "0" = все сотрудники
	ClientID     *string
}

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	Actor              Actor
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	Actor  Actor
	Status string `json:"status"`
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              string   `json:"id"`
	BarbershopID    string   `json:"barbershopId"`
	ClientID        string   `json:"clientId"`
	EmployeeID      string   `json:"employeeId"`
	ServiceIDs      []string `json:"serviceIds"`
	Date            string   `json:"date"`      // "2025-03-10"
	StartTime       string   `json:"startTime"` // "10:00"
	EndTime         string   `json:"endTime"`   // "10:45"
	DurationMinutes int      `json:"durationMinutes"`
	Status          string   `json:"status"`
	TotalPrice      float64  `json:"totalPrice"`
	Notes           *string  `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CanceledBy         *string `json:"canceledBy,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		BarbershopID:       a.BarbershopID,
		ClientID:           a.ClientID,
		EmployeeID:         a.EmployeeID,
		ServiceIDs:         append([]string{}, a.ServiceIDs...),
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		EndTime:            a.EndTime.String(),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		TotalPrice:         a.TotalPrice,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CanceledBy:         a.CanceledBy,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelled := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
	}
	for _, a := range list {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}
	return resp
}
