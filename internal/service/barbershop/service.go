package barbershop

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	barbershopRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/barbershop"
	"github.com/m04kA/SMC-BarberBookingService/internal/service/barbershop/models"
)

// Service сервис настроек барбершопа
type Service struct {
	repo   BarbershopRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(repo BarbershopRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Get получает настройки барбершопа
func (s *Service) Get(ctx context.Context, contribuinte string) (*models.ConfigResponse, error) {
	s.logger.Info("Get: fetching config for barbershop=%s", contribuinte)

	if err := domain.ValidateContribuinte(contribuinte); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	cfg, err := s.repo.Get(ctx, contribuinte)
	if err != nil {
		if errors.Is(err, barbershopRepo.ErrBarbershopNotFound) {
			s.logger.Warn("Get: barbershop %s not found", contribuinte)
			return nil, ErrBarbershopNotFound
		}
		s.logger.Error("Get: repository error for barbershop=%s: %v", contribuinte, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(cfg), nil
}

// Update изменяет настройки барбершопа; если их еще нет, создает от значений по умолчанию.
// Все нарушения инвариантов возвращаются одной *domain.ConfigurationError.
// Доступно только сотрудникам барбершопа.
func (s *Service) Update(ctx context.Context, contribuinte string, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Update: updating config for barbershop=%s", contribuinte)

	if !req.IsStaff {
		s.logger.Warn("Update: non-staff user tried to update barbershop=%s", contribuinte)
		return nil, ErrAccessDenied
	}

	if err := domain.ValidateContribuinte(contribuinte); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	cfg, err := s.repo.Get(ctx, contribuinte)
	switch {
	case err == nil:
	case errors.Is(err, barbershopRepo.ErrBarbershopNotFound):
		s.logger.Info("Update: barbershop %s not found, creating with defaults", contribuinte)
		cfg = domain.NewDefaultBarbershopConfig(contribuinte)
	default:
		s.logger.Error("Update: repository error for barbershop=%s: %v", contribuinte, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	req.ApplyToConfig(cfg)

	if err := cfg.Validate(); err != nil {
		s.logger.Warn("Update: invalid config for barbershop=%s: %v", contribuinte, err)
		return nil, err
	}

	saved, err := s.repo.Upsert(ctx, cfg)
	if err != nil {
		s.logger.Error("Update: failed to save config for barbershop=%s: %v", contribuinte, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: config for barbershop=%s saved", contribuinte)
	return models.FromDomainConfig(saved), nil
}
