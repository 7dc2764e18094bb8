package memory

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

// Seed начальные данные для драйвера memory (TOML)
type Seed struct {
	Barbershops []SeedBarbershop `toml:"barbershops"`
}

type SeedBarbershop struct {
	Contribuinte            string         `toml:"contribuinte"`
	Name                    string         `toml:"name"`
	Address                 string         `toml:"address"`
	Phone                   string         `toml:"phone"`
	Email                   string         `toml:"email"`
	OpeningTime             string         `toml:"opening_time"`
	ClosingTime             string         `toml:"closing_time"`
	OperatingDays           []string       `toml:"operating_days"`
	SlotIntervalMinutes     int            `toml:"slot_interval_minutes"`
	MinLeadHours            int            `toml:"min_lead_hours"`
	MaxLeadDays             int            `toml:"max_lead_days"`
	AllowsCancellation      *bool          `toml:"allows_cancellation"`
	CancellationCutoffHours int            `toml:"cancellation_cutoff_hours"`
	Timezone                string         `toml:"timezone"`
	Employees               []SeedEmployee `toml:"employees"`
	Services                []SeedService  `toml:"services"`
	Clients                 []SeedClient   `toml:"clients"`
}

type SeedWorkDay struct {
	Start   string `toml:"start"`
	End     string `toml:"end"`
	Working bool   `toml:"working"`
}

type SeedEmployee struct {
	ID       string                 `toml:"id"`
	Name     string                 `toml:"name"`
	Inactive bool                   `toml:"inactive"`
	Schedule map[string]SeedWorkDay `toml:"schedule"`
}

type SeedService struct {
	ID              string  `toml:"id"`
	Name            string  `toml:"name"`
	DurationMinutes int     `toml:"duration_minutes"`
	Price           float64 `toml:"price"`
	Category        string  `toml:"category"`
	Inactive        bool    `toml:"inactive"`
}

type SeedClient struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Email    string `toml:"email"`
	Phone    string `toml:"phone"`
	Inactive bool   `toml:"inactive"`
}

// LoadSeedFile читает TOML-файл с начальными данными и загружает его в store
func (s *Store) LoadSeedFile(path string) error {
	var seed Seed
	if _, err := toml.DecodeFile(path, &seed); err != nil {
		return fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return s.LoadSeed(seed)
}

// LoadSeed валидирует и загружает начальные данные. Незаданные настройки берутся по умолчанию.
func (s *Store) LoadSeed(seed Seed) error {
	for _, b := range seed.Barbershops {
		cfg := domain.NewDefaultBarbershopConfig(b.Contribuinte)
		cfg.Name, cfg.Address, cfg.Phone, cfg.Email = b.Name, b.Address, b.Phone, b.Email

		if b.OpeningTime != "" {
			cfg.OpeningTime = types.TimeString(b.OpeningTime)
		}
		if b.ClosingTime != "" {
			cfg.ClosingTime = types.TimeString(b.ClosingTime)
		}
		if len(b.OperatingDays) > 0 {
			cfg.OperatingDays = make([]domain.Weekday, 0, len(b.OperatingDays))
			for _, d := range b.OperatingDays {
				cfg.OperatingDays = append(cfg.OperatingDays, domain.Weekday(d))
			}
		}
		if b.SlotIntervalMinutes != 0 {
			cfg.SlotIntervalMinutes = b.SlotIntervalMinutes
		}
		if b.MinLeadHours != 0 {
			cfg.MinLeadHours = b.MinLeadHours
		}
		if b.MaxLeadDays != 0 {
			cfg.MaxLeadDays = b.MaxLeadDays
		}
		if b.AllowsCancellation != nil {
			cfg.AllowsCancellation = *b.AllowsCancellation
		}
		if b.CancellationCutoffHours != 0 {
			cfg.CancellationCutoffHours = b.CancellationCutoffHours
		}
		if b.Timezone != "" {
			cfg.Timezone = b.Timezone
		}

		if err := normalizeTimes(cfg); err != nil {
			return fmt.Errorf("barbershop %s: %w", b.Contribuinte, err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("barbershop %s: %w", b.Contribuinte, err)
		}
		if _, err := s.Upsert(context.Background(), cfg); err != nil {
			return err
		}

		for _, e := range b.Employees {
			employee, err := seedEmployee(b.Contribuinte, e)
			if err != nil {
				return fmt.Errorf("barbershop %s: %w", b.Contribuinte, err)
			}
			s.PutEmployee(employee)
		}

		for _, svc := range b.Services {
			if svc.DurationMinutes <= 0 || svc.Price < 0 {
				return fmt.Errorf("barbershop %s: %w: service %s needs positive duration and non-negative price",
					b.Contribuinte, domain.ErrInvalidInput, svc.ID)
			}
			s.PutService(&domain.Service{
				ID:              svc.ID,
				BarbershopID:    b.Contribuinte,
				Name:            svc.Name,
				DurationMinutes: svc.DurationMinutes,
				Price:           svc.Price,
				Category:        svc.Category,
				Active:          !svc.Inactive,
			})
		}

		for _, c := range b.Clients {
			s.PutClient(&domain.Client{
				ID:           c.ID,
				BarbershopID: b.Contribuinte,
				Name:         c.Name,
				Email:        c.Email,
				Phone:        c.Phone,
				Active:       !c.Inactive,
			})
		}
	}

	return nil
}

func normalizeTimes(cfg *domain.BarbershopConfig) error {
	open, err := types.NewTimeStringFromString(cfg.OpeningTime.String())
	if err != nil {
		return err
	}
	closing, err := types.NewTimeStringFromString(cfg.ClosingTime.String())
	if err != nil {
		return err
	}
	cfg.OpeningTime, cfg.ClosingTime = open, closing
	return nil
}

func seedEmployee(barbershopID string, e SeedEmployee) (*domain.Employee, error) {
	if domain.IsAllEmployeesSentinel(e.ID) || e.ID == "" {
		return nil, fmt.Errorf("%w: employee id %q is reserved", domain.ErrInvalidInput, e.ID)
	}

	employee := &domain.Employee{
		ID:           e.ID,
		BarbershopID: barbershopID,
		Name:         e.Name,
		Active:       !e.Inactive,
		WorkSchedule: make(map[domain.Weekday]domain.WorkDay, len(e.Schedule)),
	}

	for day, wd := range e.Schedule {
		weekday, err := domain.ParseWeekday(day)
		if err != nil {
			return nil, err
		}
		entry := domain.WorkDay{IsWorking: wd.Working}
		if wd.Working {
			if entry.Start, err = types.NewTimeStringFromString(wd.Start); err != nil {
				return nil, err
			}
			if entry.End, err = types.NewTimeStringFromString(wd.End); err != nil {
				return nil, err
			}
		}
		employee.WorkSchedule[weekday] = entry
	}

	if err := employee.Validate(); err != nil {
		return nil, err
	}
	return employee, nil
}
