package cancel_appointment

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBookingService/internal/service/appointments"
	"github.com/m04kA/SMC-BarberBookingService/internal/service/appointments/models"
)

const (
	msgMissingUserID          = "отсутствует ID пользователя"
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidReason          = "причина отмены слишком длинная"
	msgAppointmentNotFound    = "запись не найдена"
	msgBarbershopNotFound     = "барбершоп не найден"
	msgForbidden              = "нет доступа к этой записи"
	msgCannotCancel           = "выполненную запись нельзя отменить"
	msgCancellationNotAllowed = "барбершоп не разрешает отмену записей клиентами"
	msgCancellationTooLate    = "срок отмены записи истек"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/barbershops/{contribuinte}/appointments/{id}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	barbershopID, appointmentID := vars["contribuinte"], vars["id"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /barbershops/{id}/appointments/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	actor := models.Actor{UserID: userID, Role: middleware.GetUserRole(r.Context())}

	var req CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /barbershops/{id}/appointments/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Cancel(r.Context(), barbershopID, appointmentID, req.ToServiceRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("PATCH /barbershops/{id}/appointments/{id}/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidReason)

		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /barbershops/{id}/appointments/{id}/cancel - Appointment not found: %s", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, appointments.ErrBarbershopNotFound):
			h.logger.Warn("PATCH /barbershops/{id}/appointments/{id}/cancel - Barbershop not found: %s", barbershopID)
			handlers.RespondNotFound(w, msgBarbershopNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PATCH /barbershops/{id}/appointments/{id}/cancel - Access denied: user=%s, appointment=%s",
				userID, appointmentID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrCancellationNotAllowed):
			handlers.RespondForbidden(w, msgCancellationNotAllowed)

		case errors.Is(err, appointments.ErrCannotCancel):
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, appointments.ErrCancellationTooLate):
			handlers.RespondConflict(w, msgCancellationTooLate)

		default:
			h.logger.Error("PATCH /barbershops/{id}/appointments/{id}/cancel - Failed to cancel appointment %s: %v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /barbershops/{id}/appointments/{id}/cancel - Appointment %s canceled by %s", appointmentID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
