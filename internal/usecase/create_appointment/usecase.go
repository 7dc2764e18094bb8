package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/appointment"
	barbershopRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/barbershop"
	catalogRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BarberBookingService/internal/timeutil"
	"github.com/m04kA/SMC-BarberBookingService/pkg/slotlock"
	"github.com/m04kA/SMC-BarberBookingService/pkg/txmanager"
)

// UseCase use case для создания записи
type UseCase struct {
	barbershopRepo  BarbershopRepository
	catalogRepo     CatalogRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	locker          SlotLocker
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	barbershopRepo BarbershopRepository,
	catalogRepo CatalogRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	locker SlotLocker,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		barbershopRepo:  barbershopRepo,
		catalogRepo:     catalogRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		locker:          locker,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания записи.
// Повторная проверка слота и вставка выполняются под блокировкой (барбершоп, сотрудник, дата)
// в сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: barbershop=%s, client=%s, employee=%s, services=%v, date=%s, time=%s",
		req.BarbershopID, req.ClientID, req.EmployeeID, req.ServiceIDs, req.Date, req.StartTime)

	// 1. Проверяем contribuinte
	if err := domain.ValidateContribuinte(req.BarbershopID); err != nil {
		uc.logger.Warn("CreateAppointment: invalid contribuinte %q", req.BarbershopID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Получаем настройки барбершопа
	cfg, err := uc.barbershopRepo.Get(ctx, req.BarbershopID)
	if err != nil {
		if errors.Is(err, barbershopRepo.ErrBarbershopNotFound) {
			uc.logger.Warn("CreateAppointment: barbershop %s not found", req.BarbershopID)
			return nil, ErrBarbershopNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get barbershop %s: %v", req.BarbershopID, err)
		return nil, fmt.Errorf("%w: failed to get barbershop: %v", ErrInternal, err)
	}
	if err := cfg.Validate(); err != nil {
		uc.logger.Warn("CreateAppointment: barbershop %s has invalid config: %v", req.BarbershopID, err)
		return nil, err
	}

	// 3. Загружаем справочники. Отсутствующие записи сообщает валидатор.
	vctx, err := uc.loadCatalog(ctx, req, cfg)
	if err != nil {
		return nil, err
	}

	// 4. Блокируем расписание сотрудника на дату, если оба значения пригодны
	date, dateErr := timeutil.ParseDate(req.Date, cfg.Location())
	lockable := dateErr == nil && vctx.Employees[req.EmployeeID] != nil
	if lockable {
		release, err := uc.locker.Acquire(ctx, slotlock.Key(req.BarbershopID, req.EmployeeID, date))
		if err != nil {
			if errors.Is(err, slotlock.ErrLockTimeout) {
				uc.logger.Warn("CreateAppointment: lock timeout for employee=%s, date=%s", req.EmployeeID, req.Date)
				uc.metrics.SlotConflict()
				return nil, fmt.Errorf("%w: schedule is busy, try again", domain.ErrConflict)
			}
			uc.logger.Error("CreateAppointment: failed to acquire slot lock: %v", err)
			return nil, fmt.Errorf("%w: failed to acquire slot lock: %v", ErrInternal, err)
		}
		defer release()
	}

	var result *domain.Appointment

	// 5. Повторная проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		vctx.Existing = nil
		if lockable {
			existing, err := uc.appointmentRepo.ListByEmployeeAndDate(txCtx, req.BarbershopID, req.EmployeeID, date)
			if err != nil {
				uc.logger.Error("CreateAppointment: failed to list appointments: %v", err)
				return fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
			}
			vctx.Existing = existing
		}
		vctx.Now = uc.timeProvider.Now()

		appointment, err := Validate(req, vctx)
		if err != nil {
			return err
		}

		appointment.ID = uuid.NewString()
		appointment.Status = domain.StatusScheduled

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			return err
		}
		result = created
		return nil
	})

	if err != nil {
		return nil, uc.mapError(err)
	}

	uc.metrics.AppointmentCreated()
	uc.logger.Info("CreateAppointment: created appointment id=%s, employee=%s, %s %s-%s",
		result.ID, result.EmployeeID, result.Date.Format(domain.DateFormat), result.StartTime, result.EndTime)

	return toResponse(result), nil
}

// loadCatalog загружает сотрудника, услуги и клиента в контекст валидации
func (uc *UseCase) loadCatalog(ctx context.Context, req *Request, cfg *domain.BarbershopConfig) (ValidationContext, error) {
	vctx := ValidationContext{
		Config:    cfg,
		Employees: make(map[string]*domain.Employee, 1),
		Services:  make(map[string]*domain.Service, len(req.ServiceIDs)),
		Clients:   make(map[string]*domain.Client, 1),
	}

	if req.EmployeeID != "" && !domain.IsAllEmployeesSentinel(req.EmployeeID) {
		employee, err := uc.catalogRepo.GetEmployee(ctx, req.BarbershopID, req.EmployeeID)
		switch {
		case err == nil:
			vctx.Employees[employee.ID] = employee
		case !errors.Is(err, catalogRepo.ErrEmployeeNotFound):
			uc.logger.Error("CreateAppointment: failed to get employee %s: %v", req.EmployeeID, err)
			return vctx, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
		}
	}

	if len(req.ServiceIDs) > 0 {
		services, err := uc.catalogRepo.GetServicesByIDs(ctx, req.BarbershopID, req.ServiceIDs)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get services %v: %v", req.ServiceIDs, err)
			return vctx, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
		}
		for _, svc := range services {
			vctx.Services[svc.ID] = svc
		}
	}

	if req.ClientID != "" {
		client, err := uc.catalogRepo.GetClient(ctx, req.BarbershopID, req.ClientID)
		switch {
		case err == nil:
			vctx.Clients[client.ID] = client
		case !errors.Is(err, catalogRepo.ErrClientNotFound):
			uc.logger.Error("CreateAppointment: failed to get client %s: %v", req.ClientID, err)
			return vctx, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
		}
	}

	return vctx, nil
}

// mapError приводит ошибки транзакции к ошибкам usecase
func (uc *UseCase) mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return err
	case errors.Is(err, domain.ErrConfiguration):
		uc.logger.Warn("CreateAppointment: invalid barbershop config: %v", err)
		return err
	case errors.Is(err, domain.ErrConflict):
		uc.logger.Warn("CreateAppointment: %v", err)
		uc.metrics.SlotConflict()
		return err
	case errors.Is(err, appointmentRepo.ErrSlotTaken), errors.Is(err, txmanager.ErrConflict):
		uc.logger.Warn("CreateAppointment: concurrent booking of the same slot: %v", err)
		uc.metrics.SlotConflict()
		return fmt.Errorf("%w: slot was taken by a concurrent booking", domain.ErrConflict)
	case errors.Is(err, ErrInternal):
		return err
	default:
		uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
		return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:              a.ID,
		BarbershopID:    a.BarbershopID,
		ClientID:        a.ClientID,
		EmployeeID:      a.EmployeeID,
		ServiceIDs:      a.ServiceIDs,
		Date:            a.Date,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		TotalPrice:      a.TotalPrice,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
