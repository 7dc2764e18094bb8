package create_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	createAppointment "github.com/m04kA/SMC-BarberBookingService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "клиент может записать только себя"
	msgValidationFailed   = "некорректные данные записи"
	msgSlotConflict       = "выбранное время уже занято, выберите другой слот"
	msgBarbershopNotFound = "барбершоп не найден"
	msgInvalidBarbershop  = "некорректный contribuinte"
	msgInvalidConfig      = "настройки барбершопа некорректны, запись недоступна"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/barbershops/{contribuinte}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	barbershopID := mux.Vars(r)["contribuinte"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /barbershops/{id}/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /barbershops/{id}/appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Клиент записывает только себя, сотрудник - любого клиента
	if middleware.GetUserRole(r.Context()) != middleware.RoleStaff {
		if req.ClientID == "" {
			req.ClientID = userID
		}
		if req.ClientID != userID {
			h.logger.Warn("POST /barbershops/{id}/appointments - Client %s tried to book for %s", userID, req.ClientID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(barbershopID))
	if err != nil {
		var verr *domain.ValidationError
		var cfgErr *domain.ConfigurationError
		switch {
		case errors.As(err, &verr):
			h.logger.Warn("POST /barbershops/{id}/appointments - Validation failed: %v", err)
			handlers.RespondValidation(w, msgValidationFailed, verr.Fields)

		case errors.As(err, &cfgErr):
			h.logger.Warn("POST /barbershops/{id}/appointments - Invalid barbershop config: barbershop=%s, reasons=%v",
				barbershopID, cfgErr.Reasons)
			handlers.RespondUnprocessable(w, msgInvalidConfig, cfgErr.Reasons)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /barbershops/{id}/appointments - Slot conflict: barbershop=%s, employee=%s, %s %s",
				barbershopID, req.EmployeeID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createAppointment.ErrBarbershopNotFound):
			h.logger.Warn("POST /barbershops/{id}/appointments - Barbershop not found: %s", barbershopID)
			handlers.RespondNotFound(w, msgBarbershopNotFound)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /barbershops/{id}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBarbershop)

		default:
			h.logger.Error("POST /barbershops/{id}/appointments - Failed to create appointment: barbershop=%s, error=%v",
				barbershopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /barbershops/{id}/appointments - Appointment created: id=%s, client=%s, employee=%s",
		result.ID, result.ClientID, result.EmployeeID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
