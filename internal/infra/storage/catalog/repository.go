package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBookingService/pkg/psqlbuilder"
)

// Repository справочники барбершопа: сотрудники, услуги, клиенты.
// Управление справочниками выполняется вне сервиса, здесь только чтение.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetEmployee получает сотрудника по ID (включая неактивных)
func (r *Repository) GetEmployee(ctx context.Context, barbershopID, id string) (*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"barbershop_id",
		"name",
		"active",
		"work_schedule",
	).
		From("employees").
		Where(squirrel.Eq{"barbershop_id": barbershopID, "id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetEmployee - build select query: %v", ErrBuildQuery, err)
	}

	var e domain.Employee
	var schedule []byte

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&e.ID,
		&e.BarbershopID,
		&e.Name,
		&e.Active,
		&schedule,
	)

	if err == sql.ErrNoRows {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetEmployee - scan employee: %v", ErrScanRow, err)
	}

	e.WorkSchedule, err = DecodeWorkSchedule(schedule)
	if err != nil {
		return nil, fmt.Errorf("%w: GetEmployee - employee %s: %v", ErrScanRow, id, err)
	}

	return &e, nil
}

// GetServicesByIDs получает услуги по списку ID.
// Ненайденные ID в результат не попадают, проверку полноты делает вызывающий код.
func (r *Repository) GetServicesByIDs(ctx context.Context, barbershopID string, ids []string) ([]*domain.Service, error) {
	if len(ids) == 0 {
		return []*domain.Service{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"barbershop_id",
		"name",
		"duration_minutes",
		"price",
		"category",
		"active",
	).
		From("services").
		Where(squirrel.Eq{"barbershop_id": barbershopID, "id": ids}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0, len(ids))
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(
			&s.ID,
			&s.BarbershopID,
			&s.Name,
			&s.DurationMinutes,
			&s.Price,
			&s.Category,
			&s.Active,
		); err != nil {
			return nil, fmt.Errorf("%w: GetServicesByIDs - scan service: %v", ErrScanRow, err)
		}
		services = append(services, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// GetClient получает клиента по ID (включая неактивных)
func (r *Repository) GetClient(ctx context.Context, barbershopID, id string) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"barbershop_id",
		"name",
		"email",
		"phone",
		"active",
	).
		From("clients").
		Where(squirrel.Eq{"barbershop_id": barbershopID, "id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetClient - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Client
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.BarbershopID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Active,
	)

	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetClient - scan client: %v", ErrScanRow, err)
	}

	return &c, nil
}
