package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/pkg/slotlock"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, barbershopID, id string) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, barbershopID, id string, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, barbershopID, id string, reason *string, canceledBy string, at time.Time) error
}

// BarbershopRepository интерфейс репозитория настроек барбершопа
type BarbershopRepository interface {
	Get(ctx context.Context, contribuinte string) (*domain.BarbershopConfig, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotLocker блокировка расписания сотрудника на дату
type SlotLocker interface {
	Acquire(ctx context.Context, key string) (slotlock.Release, error)
}

// MetricsRecorder бизнес-метрики отмен
type MetricsRecorder interface {
	AppointmentCanceled(actor string)
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
