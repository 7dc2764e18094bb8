package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/appointment"
	barbershopRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/barbershop"
	"github.com/m04kA/SMC-BarberBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-BarberBookingService/internal/timeutil"
	"github.com/m04kA/SMC-BarberBookingService/pkg/ptr"
	"github.com/m04kA/SMC-BarberBookingService/pkg/slotlock"
	"github.com/m04kA/SMC-BarberBookingService/pkg/txmanager"
)

// Service сервис для работы с записями: просмотр, отмена, смена статуса
type Service struct {
	appointmentRepo AppointmentRepository
	barbershopRepo  BarbershopRepository
	txManager       TransactionManager
	locker          SlotLocker
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	barbershopRepo BarbershopRepository,
	txManager TransactionManager,
	locker SlotLocker,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		barbershopRepo:  barbershopRepo,
		txManager:       txManager,
		locker:          locker,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает запись по ID.
// Клиент видит только свои записи, сотрудник барбершопа любые.
func (s *Service) GetByID(ctx context.Context, actor models.Actor, barbershopID, id string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s in barbershop=%s for user=%s", id, barbershopID, actor.UserID)

	appointment, err := s.getAppointment(ctx, "GetByID", barbershopID, id)
	if err != nil {
		return nil, err
	}

	if err := checkOwner(actor, appointment); err != nil {
		s.logger.Warn("GetByID: access denied for user=%s to appointment id=%s", actor.UserID, id)
		return nil, err
	}

	return models.FromDomainAppointment(appointment), nil
}

// List возвращает записи по дате или диапазону дат, сотруднику и/или клиенту.
// Фильтр сотрудника "0" означает всех сотрудников.
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: barbershop=%s, date=%s, from=%s, to=%s, employee=%s, client=%s, user=%s",
		req.BarbershopID, ptr.Deref(req.Date, ""), ptr.Deref(req.DateFrom, ""), ptr.Deref(req.DateTo, ""),
		ptr.Deref(req.EmployeeID, ""), ptr.Deref(req.ClientID, ""), req.Actor.UserID)

	cfg, err := s.getConfig(ctx, "List", req.BarbershopID)
	if err != nil {
		return nil, err
	}

	filter := domain.AppointmentsFilter{BarbershopID: req.BarbershopID}

	if req.Date != nil {
		date, err := timeutil.ParseDate(*req.Date, cfg.Location())
		if err != nil {
			s.logger.Warn("List: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Date = &date
	}
	if req.DateFrom != nil || req.DateTo != nil {
		if filter.Date != nil {
			return nil, fmt.Errorf("%w: date cannot be combined with dateFrom/dateTo", ErrInvalidInput)
		}
		if filter.DateFrom, err = parseOptionalDate(req.DateFrom, cfg.Location()); err != nil {
			s.logger.Warn("List: dateFrom: %v", err)
			return nil, fmt.Errorf("%w: dateFrom: %v", ErrInvalidInput, err)
		}
		if filter.DateTo, err = parseOptionalDate(req.DateTo, cfg.Location()); err != nil {
			s.logger.Warn("List: dateTo: %v", err)
			return nil, fmt.Errorf("%w: dateTo: %v", ErrInvalidInput, err)
		}
		if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
			return nil, fmt.Errorf("%w: dateFrom must not be after dateTo", ErrInvalidInput)
		}
	}
	if req.EmployeeID != nil && *req.EmployeeID != "" && !domain.IsAllEmployeesSentinel(*req.EmployeeID) {
		filter.EmployeeID = req.EmployeeID
	}
	if req.ClientID != nil && *req.ClientID != "" {
		filter.ClientID = req.ClientID
	}

	// Клиент видит только свои записи
	if !req.Actor.IsStaff() {
		if filter.ClientID != nil && *filter.ClientID != req.Actor.UserID {
			s.logger.Warn("List: client=%s requested appointments of client=%s", req.Actor.UserID, *filter.ClientID)
			return nil, ErrAccessDenied
		}
		own := req.Actor.UserID
		filter.ClientID = &own
	}

	hasRange := filter.DateFrom != nil || filter.DateTo != nil
	if filter.Date == nil && !hasRange && filter.EmployeeID == nil && filter.ClientID == nil {
		return nil, fmt.Errorf("%w: date, dateFrom/dateTo, employeeId or clientId is required", ErrInvalidInput)
	}

	// Расписание дня без отмененных, история и диапазон целиком
	filter.IncludeCanceled = filter.Date == nil

	list, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for barbershop=%s: %v", req.BarbershopID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d appointments for barbershop=%s", len(list), req.BarbershopID)
	return models.FromDomainAppointmentList(list), nil
}

// Cancel отменяет запись. Повторная отмена возвращает запись без изменений.
// Клиент может отменить только свою запись и только если барбершоп это разрешает
// и до начала осталось не меньше cancellationCutoffHours. Для сотрудника ограничений нет.
// Отмена сериализуется с созданием записей того же сотрудника на ту же дату.
func (s *Service) Cancel(ctx context.Context, barbershopID, id string, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%s in barbershop=%s by %s=%s",
		id, barbershopID, req.Actor.Role, req.Actor.UserID)

	if req.CancellationReason != nil && utf8.RuneCountInString(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason must be at most %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	cfg, err := s.getConfig(ctx, "Cancel", barbershopID)
	if err != nil {
		return nil, err
	}

	appointment, err := s.getAppointment(ctx, "Cancel", barbershopID, id)
	if err != nil {
		return nil, err
	}

	if err := checkOwner(req.Actor, appointment); err != nil {
		s.logger.Warn("Cancel: access denied for user=%s to appointment id=%s", req.Actor.UserID, id)
		return nil, err
	}

	if appointment.IsCanceled() {
		s.logger.Info("Cancel: appointment id=%s is already canceled", id)
		return models.FromDomainAppointment(appointment), nil
	}

	if !appointment.CanBeCanceled() {
		s.logger.Warn("Cancel: appointment id=%s cannot be canceled, status=%s", id, appointment.Status)
		return nil, ErrCannotCancel
	}

	now := s.timeProvider.Now()
	if !req.Actor.IsStaff() {
		if err := checkClientPolicy(cfg, appointment, now); err != nil {
			s.logger.Warn("Cancel: client policy rejected cancel of appointment id=%s: %v", id, err)
			return nil, err
		}
	}

	release, err := s.locker.Acquire(ctx, slotlock.Key(barbershopID, appointment.EmployeeID, appointment.Date))
	if err != nil {
		if errors.Is(err, slotlock.ErrLockTimeout) {
			s.logger.Warn("Cancel: lock timeout for appointment id=%s", id)
			return nil, fmt.Errorf("%w: schedule is busy, try again", domain.ErrConflict)
		}
		s.logger.Error("Cancel: failed to acquire slot lock: %v", err)
		return nil, fmt.Errorf("%w: Cancel - lock error: %v", ErrInternal, err)
	}
	defer release()

	var (
		result   *domain.Appointment
		canceled bool
	)
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.appointmentRepo.GetByID(txCtx, barbershopID, id)
		if err != nil {
			return err
		}
		if current.IsCanceled() {
			result = current
			return nil
		}
		if !current.CanBeCanceled() {
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.Cancel(txCtx, barbershopID, id, req.CancellationReason, req.Actor.Role, now); err != nil {
			return err
		}
		canceled = true

		result, err = s.appointmentRepo.GetByID(txCtx, barbershopID, id)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			return nil, ErrAppointmentNotFound
		case errors.Is(err, ErrCannotCancel):
			return nil, ErrCannotCancel
		case errors.Is(err, txmanager.ErrConflict):
			s.logger.Warn("Cancel: concurrent modification of appointment id=%s", id)
			return nil, fmt.Errorf("%w: appointment was modified concurrently", domain.ErrConflict)
		}
		s.logger.Error("Cancel: repository error for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if canceled {
		s.metrics.AppointmentCanceled(req.Actor.Role)
		s.logger.Info("Cancel: appointment id=%s canceled by %s", id, req.Actor.Role)
	}
	return models.FromDomainAppointment(result), nil
}

// UpdateStatus переводит запись вперед по жизненному циклу
// scheduled -> confirmed -> in_progress -> completed. Доступно только сотрудникам.
func (s *Service) UpdateStatus(ctx context.Context, barbershopID, id string, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%s in barbershop=%s to status=%s by user=%s",
		id, barbershopID, req.Status, req.Actor.UserID)

	if !req.Actor.IsStaff() {
		s.logger.Warn("UpdateStatus: user=%s is not staff", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	next, ok := domain.ParseAppointmentStatus(req.Status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}
	if next == domain.StatusCanceled {
		return nil, fmt.Errorf("%w: use the cancel operation to cancel an appointment", ErrInvalidTransition)
	}

	var result *domain.Appointment
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.appointmentRepo.GetByID(txCtx, barbershopID, id)
		if err != nil {
			return err
		}
		if !current.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
		}
		if err := s.appointmentRepo.UpdateStatus(txCtx, barbershopID, id, next); err != nil {
			return err
		}
		result, err = s.appointmentRepo.GetByID(txCtx, barbershopID, id)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			s.logger.Warn("UpdateStatus: appointment id=%s not found", id)
			return nil, ErrAppointmentNotFound
		case errors.Is(err, ErrInvalidTransition):
			s.logger.Warn("UpdateStatus: %v", err)
			return nil, err
		case errors.Is(err, txmanager.ErrConflict):
			return nil, fmt.Errorf("%w: appointment was modified concurrently", domain.ErrConflict)
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: appointment id=%s is now %s", id, result.Status)
	return models.FromDomainAppointment(result), nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, op, barbershopID, id string) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, barbershopID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

func (s *Service) getConfig(ctx context.Context, op, barbershopID string) (*domain.BarbershopConfig, error) {
	if err := domain.ValidateContribuinte(barbershopID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	cfg, err := s.barbershopRepo.Get(ctx, barbershopID)
	if err != nil {
		if errors.Is(err, barbershopRepo.ErrBarbershopNotFound) {
			s.logger.Warn("%s: barbershop %s not found", op, barbershopID)
			return nil, ErrBarbershopNotFound
		}
		s.logger.Error("%s: failed to get barbershop %s: %v", op, barbershopID, err)
		return nil, fmt.Errorf("%w: %s - failed to get barbershop: %v", ErrInternal, op, err)
	}
	return cfg, nil
}

// checkOwner клиент имеет доступ только к своим записям
func checkOwner(actor models.Actor, a *domain.Appointment) error {
	if actor.IsStaff() || actor.UserID == a.ClientID {
		return nil
	}
	return ErrAccessDenied
}

// checkClientPolicy правила отмены клиентом из настроек барбершопа
func checkClientPolicy(cfg *domain.BarbershopConfig, a *domain.Appointment, now time.Time) error {
	if !cfg.AllowsCancellation {
		return ErrCancellationNotAllowed
	}
	deadline := a.StartsAt(cfg.Location()).Add(-time.Duration(cfg.CancellationCutoffHours) * time.Hour)
	if now.After(deadline) {
		return fmt.Errorf("%w: appointments can be canceled up to %d hours before the start",
			ErrCancellationTooLate, cfg.CancellationCutoffHours)
	}
	return nil
}

// parseOptionalDate разбирает необязательную дату YYYY-MM-DD
func parseOptionalDate(value *string, loc *time.Location) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	date, err := timeutil.ParseDate(*value, loc)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
