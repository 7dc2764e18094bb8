package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	getSlots "github.com/m04kA/SMC-BarberBookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidParams      = "некорректные параметры запроса: нужны employeeId, serviceIds и date (YYYY-MM-DD)"
	msgBarbershopNotFound = "барбершоп не найден"
	msgEmployeeNotFound   = "сотрудник не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgInvalidConfig      = "настройки барбершопа некорректны, запись недоступна"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/barbershops/{contribuinte}/available-slots?employeeId=&serviceIds=a,b&date=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	barbershopID := mux.Vars(r)["contribuinte"]
	query := r.URL.Query()

	req := ToUseCaseRequest(barbershopID, query.Get("employeeId"), query.Get("serviceIds"), query.Get("date"))

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		var cfgErr *domain.ConfigurationError
		switch {
		case errors.As(err, &cfgErr):
			h.logger.Warn("GET /barbershops/{id}/available-slots - Invalid barbershop config: barbershop=%s, reasons=%v",
				barbershopID, cfgErr.Reasons)
			handlers.RespondUnprocessable(w, msgInvalidConfig, cfgErr.Reasons)

		case errors.Is(err, getSlots.ErrInvalidInput):
			h.logger.Warn("GET /barbershops/{id}/available-slots - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, getSlots.ErrBarbershopNotFound):
			h.logger.Warn("GET /barbershops/{id}/available-slots - Barbershop not found: %s", barbershopID)
			handlers.RespondNotFound(w, msgBarbershopNotFound)

		case errors.Is(err, getSlots.ErrEmployeeNotFound):
			h.logger.Warn("GET /barbershops/{id}/available-slots - Employee not found: %s", req.EmployeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, getSlots.ErrServiceNotFound):
			h.logger.Warn("GET /barbershops/{id}/available-slots - Service not found: %v", err)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("GET /barbershops/{id}/available-slots - Failed to get slots: barbershop=%s, error=%v",
				barbershopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
