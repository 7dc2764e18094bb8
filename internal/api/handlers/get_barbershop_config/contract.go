package get_barbershop_config

import (
	"context"

	"github.com/m04kA/SMC-BarberBookingService/internal/service/barbershop/models"
)

type BarbershopService interface {
	Get(ctx context.Context, contribuinte string) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
