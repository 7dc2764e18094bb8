package get_barbershop_config

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBookingService/internal/service/barbershop"
)

const (
	msgInvalidContribuinte = "некорректный contribuinte"
	msgBarbershopNotFound  = "барбершоп не найден"
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

// Handle GET /api/v1/barbershops/{contribuinte}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	contribuinte := mux.Vars(r)["contribuinte"]

	result, err := h.service.Get(r.Context(), contribuinte)
	if err != nil {
		switch {
		case errors.Is(err, barbershop.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidContribuinte)
		case errors.Is(err, barbershop.ErrBarbershopNotFound):
			h.logger.Warn("GET /barbershops/{id}/config - Barbershop not found: %s", contribuinte)
			handlers.RespondNotFound(w, msgBarbershopNotFound)
		default:
			h.logger.Error("GET /barbershops/{id}/config - Failed to get config for %s: %v", contribuinte, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
