package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/availability"
	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	barbershopRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/barbershop"
	catalogRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BarberBookingService/internal/timeutil"
	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

// UseCase use case для получения доступных слотов
type UseCase struct {
	barbershopRepo  BarbershopRepository
	catalogRepo     CatalogRepository
	appointmentRepo AppointmentRepository
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	barbershopRepo BarbershopRepository,
	catalogRepo CatalogRepository,
	appointmentRepo AppointmentRepository,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		barbershopRepo:  barbershopRepo,
		catalogRepo:     catalogRepo,
		appointmentRepo: appointmentRepo,
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

// Execute выполняет use case получения доступных слотов.
// Для фильтра "все сотрудники", прошедшей даты и даты за пределом maxLeadDays возвращается пустой список.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: barbershop=%s, employee=%s, services=%v, date=%s",
		req.BarbershopID, req.EmployeeID, req.ServiceIDs, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем настройки барбершопа
	cfg, err := uc.barbershopRepo.Get(ctx, req.BarbershopID)
	if err != nil {
		if errors.Is(err, barbershopRepo.ErrBarbershopNotFound) {
			uc.logger.Warn("GetAvailableSlots: barbershop %s not found", req.BarbershopID)
			return nil, ErrBarbershopNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get barbershop %s: %v", req.BarbershopID, err)
		return nil, fmt.Errorf("%w: failed to get barbershop: %v", ErrInternal, err)
	}
	if err := cfg.Validate(); err != nil {
		uc.logger.Warn("GetAvailableSlots: barbershop %s has invalid config: %v", req.BarbershopID, err)
		return nil, err
	}

	loc := cfg.Location()
	date, err := timeutil.ParseDate(req.Date, loc)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Получаем услуги
	found, err := uc.catalogRepo.GetServicesByIDs(ctx, req.BarbershopID, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	services, err := selectServices(req.ServiceIDs, found)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, err
	}

	resp := &Response{
		Date:            date,
		EmployeeID:      req.EmployeeID,
		DurationMinutes: domain.TotalDuration(services),
		Slots:           []types.TimeString{},
	}

	// 4. "Все сотрудники" не является сотрудником, на него нельзя записаться
	if domain.IsAllEmployeesSentinel(req.EmployeeID) {
		uc.logger.Info("GetAvailableSlots: all-employees filter has no slots")
		return resp, nil
	}

	// 5. Получаем сотрудника
	employee, err := uc.catalogRepo.GetEmployee(ctx, req.BarbershopID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrEmployeeNotFound) {
			uc.logger.Warn("GetAvailableSlots: employee %s not found", req.EmployeeID)
			return nil, ErrEmployeeNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get employee %s: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
	}
	if !employee.IsBookable() {
		uc.logger.Warn("GetAvailableSlots: employee %s is inactive", req.EmployeeID)
		return nil, ErrEmployeeNotFound
	}

	// 6. Дата вне окна записи
	now := timeutil.NowIn(uc.timeProvider.Now(), loc)
	if timeutil.IsPast(date, now) || timeutil.DaysBetween(now, date) > cfg.MaxLeadDays {
		uc.logger.Info("GetAvailableSlots: date %s is outside the booking window", req.Date)
		return resp, nil
	}

	// 7. Записи сотрудника на дату
	existing, err := uc.appointmentRepo.ListByEmployeeAndDate(ctx, req.BarbershopID, employee.ID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	// 8. Расчет слотов
	started := time.Now()
	slots, err := availability.ComputeAvailableSlots(date, employee, cfg, resp.DurationMinutes, existing)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}
	resp.Slots = availability.FilterByLeadTime(slots, date, now, cfg.MinLeadHours, loc)
	uc.metrics.ObserveSlotComputation(time.Since(started))

	uc.logger.Info("GetAvailableSlots: %d slots for employee=%s on %s (busy=%d)",
		len(resp.Slots), employee.ID, req.Date, len(existing))

	return resp, nil
}
