package barbershop

import (
	"context"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
)

// BarbershopRepository интерфейс репозитория настроек барбершопа
type BarbershopRepository interface {
	Get(ctx context.Context, contribuinte string) (*domain.BarbershopConfig, error)
	Upsert(ctx context.Context, cfg *domain.BarbershopConfig) (*domain.BarbershopConfig, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
