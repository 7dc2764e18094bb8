package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
)

// BarbershopRepository интерфейс репозитория настроек барбершопа
type BarbershopRepository interface {
	Get(ctx context.Context, contribuinte string) (*domain.BarbershopConfig, error)
}

// CatalogRepository интерфейс справочников барбершопа
type CatalogRepository interface {
	GetEmployee(ctx context.Context, barbershopID, id string) (*domain.Employee, error)
	GetServicesByIDs(ctx context.Context, barbershopID string, ids []string) ([]*domain.Service, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListByEmployeeAndDate(ctx context.Context, barbershopID, employeeID string, date time.Time) ([]*domain.Appointment, error)
}

// MetricsRecorder метрики расчета слотов
type MetricsRecorder interface {
	ObserveSlotComputation(d time.Duration)
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
