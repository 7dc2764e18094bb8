package update_barbershop_config

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/internal/service/barbershop"
	"github.com/m04kA/SMC-BarberBookingService/internal/service/barbershop/models"
)

const (
	msgMissingUserID       = "отсутствует ID пользователя"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidContribuinte = "некорректный contribuinte"
	msgForbidden           = "изменять настройки может только сотрудник барбершопа"
	msgInvalidConfig       = "некорректные настройки барбершопа"
)

type Handler struct {
	service BarbershopService
	logger  Logger
}

func NewHandler(service BarbershopService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/barbershops/{contribuinte}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	contribuinte := mux.Vars(r)["contribuinte"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /barbershops/{id}/config - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /barbershops/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.IsStaff = middleware.GetUserRole(r.Context()) == middleware.RoleStaff

	result, err := h.service.Update(r.Context(), contribuinte, &req)
	if err != nil {
		var cfgErr *domain.ConfigurationError
		switch {
		case errors.As(err, &cfgErr):
			h.logger.Warn("PUT /barbershops/{id}/config - Invalid config for %s: %v", contribuinte, err)
			handlers.RespondUnprocessable(w, msgInvalidConfig, cfgErr.Reasons)

		case errors.Is(err, barbershop.ErrAccessDenied):
			h.logger.Warn("PUT /barbershops/{id}/config - Access denied: user=%s, barbershop=%s", userID, contribuinte)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, barbershop.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidContribuinte)

		default:
			h.logger.Error("PUT /barbershops/{id}/config - Failed to update config for %s: %v", contribuinte, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /barbershops/{id}/config - Config for %s updated by %s", contribuinte, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
