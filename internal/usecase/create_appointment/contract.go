package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/pkg/slotlock"
)

// BarbershopRepository интерфейс репозитория настроек барбершопа
type BarbershopRepository interface {
	Get(ctx context.Context, contribuinte string) (*domain.BarbershopConfig, error)
}

// CatalogRepository интерфейс справочников барбершопа (сотрудники, услуги, клиенты)
type CatalogRepository interface {
	GetEmployee(ctx context.Context, barbershopID, id string) (*domain.Employee, error)
	GetServicesByIDs(ctx context.Context, barbershopID string, ids []string) ([]*domain.Service, error)
	GetClient(ctx context.Context, barbershopID, id string) (*domain.Client, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	ListByEmployeeAndDate(ctx context.Context, barbershopID, employeeID string, date time.Time) ([]*domain.Appointment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotLocker блокировка расписания сотрудника на дату
type SlotLocker interface {
	Acquire(ctx context.Context, key string) (slotlock.Release, error)
}

// MetricsRecorder бизнес-метрики записи
type MetricsRecorder interface {
	AppointmentCreated()
	SlotConflict()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
