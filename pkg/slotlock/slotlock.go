// Package slotlock сериализует операции над расписанием одного сотрудника на одну дату.
package slotlock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const keyPrefix = "barber:slotlock"

var (
	// ErrLockTimeout блокировку не удалось получить за отведенное время
	ErrLockTimeout = errors.New("slotlock: lock acquisition timed out")

	// ErrBackend ошибка хранилища блокировок
	ErrBackend = errors.New("slotlock: backend error")
)

// Release освобождает блокировку. Повторный вызов безопасен.
type Release func()

// Key формирует ключ блокировки (tenant, employee, date)
func Key(tenant, employeeID string, date time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, tenant, employeeID, date.Format("2006-01-02"))
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
