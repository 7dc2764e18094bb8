package list_appointments

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBookingService/internal/service/appointments"
	"github.com/m04kA/SMC-BarberBookingService/internal/service/appointments/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidFilters     = "укажите хотя бы один фильтр: date или dateFrom/dateTo (YYYY-MM-DD), employeeId или clientId"
	msgForbidden          = "нет доступа к записям другого клиента"
	msgBarbershopNotFound = "барбершоп не найден"
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

// Handle GET /api/v1/barbershops/{contribuinte}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	barbershopID := mux.Vars(r)["contribuinte"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /barbershops/{id}/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	actor := models.Actor{UserID: userID, Role: middleware.GetUserRole(r.Context())}

	result, err := h.service.List(r.Context(), ToServiceRequest(actor, barbershopID, r.URL.Query()))
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /barbershops/{id}/appointments - Invalid filters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilters)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /barbershops/{id}/appointments - Access denied: user=%s", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrBarbershopNotFound):
			handlers.RespondNotFound(w, msgBarbershopNotFound)

		default:
			h.logger.Error("GET /barbershops/{id}/appointments - Failed to list appointments: barbershop=%s, error=%v",
				barbershopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
