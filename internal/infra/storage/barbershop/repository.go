package barbershop

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBookingService/pkg/psqlbuilder"
)

const tableBarbershops = "barbershops"

// Repository репозиторий настроек барбершопов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория барбершопов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает настройки барбершопа по номеру регистрации
func (r *Repository) Get(ctx context.Context, contribuinte string) (*domain.BarbershopConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"contribuinte",
		"name",
		"address",
		"phone",
		"email",
		"opening_time",
		"closing_time",
		"operating_days",
		"slot_interval_minutes",
		"min_lead_hours",
		"max_lead_days",
		"allows_cancellation",
		"cancellation_cutoff_hours",
		"timezone",
		"created_at",
		"updated_at",
	).
		From(tableBarbershops).
		Where(squirrel.Eq{"contribuinte": contribuinte}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var cfg domain.BarbershopConfig
	var operatingDays []string
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.Contribuinte,
		&cfg.Name,
		&cfg.Address,
		&cfg.Phone,
		&cfg.Email,
		&cfg.OpeningTime,
		&cfg.ClosingTime,
		pq.Array(&operatingDays),
		&cfg.SlotIntervalMinutes,
		&cfg.MinLeadHours,
		&cfg.MaxLeadDays,
		&cfg.AllowsCancellation,
		&cfg.CancellationCutoffHours,
		&cfg.Timezone,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBarbershopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan barbershop: %v", ErrScanRow, err)
	}

	cfg.OperatingDays = make([]domain.Weekday, 0, len(operatingDays))
	for _, d := range operatingDays {
		cfg.OperatingDays = append(cfg.OperatingDays, domain.Weekday(d))
	}
	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}

// Upsert создает или обновляет настройки барбершопа
func (r *Repository) Upsert(ctx context.Context, cfg *domain.BarbershopConfig) (*domain.BarbershopConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	operatingDays := make([]string, 0, len(cfg.OperatingDays))
	for _, d := range cfg.OperatingDays {
		operatingDays = append(operatingDays, string(d))
	}

	query, args, err := psqlbuilder.Insert(tableBarbershops).
		Columns(
			"contribuinte",
			"name",
			"address",
			"phone",
			"email",
			"opening_time",
			"closing_time",
			"operating_days",
			"slot_interval_minutes",
			"min_lead_hours",
			"max_lead_days",
			"allows_cancellation",
			"cancellation_cutoff_hours",
			"timezone",
		).
		Values(
			cfg.Contribuinte,
			cfg.Name,
			cfg.Address,
			cfg.Phone,
			cfg.Email,
			cfg.OpeningTime,
			cfg.ClosingTime,
			pq.Array(operatingDays),
			cfg.SlotIntervalMinutes,
			cfg.MinLeadHours,
			cfg.MaxLeadDays,
			cfg.AllowsCancellation,
			cfg.CancellationCutoffHours,
			cfg.Timezone,
		).
		Suffix(`ON CONFLICT (contribuinte) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			opening_time = EXCLUDED.opening_time,
			closing_time = EXCLUDED.closing_time,
			operating_days = EXCLUDED.operating_days,
			slot_interval_minutes = EXCLUDED.slot_interval_minutes,
			min_lead_hours = EXCLUDED.min_lead_hours,
			max_lead_days = EXCLUDED.max_lead_days,
			allows_cancellation = EXCLUDED.allows_cancellation,
			cancellation_cutoff_hours = EXCLUDED.cancellation_cutoff_hours,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return cfg, nil
}
