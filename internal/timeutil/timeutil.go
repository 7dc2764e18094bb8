// Package timeutil calendar-day helpers and slot grid generation.
package timeutil

import (
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

// ErrInvalidInterval шаг сетки слотов должен быть положительным
var ErrInvalidInterval = fmt.Errorf("%w: slot interval must be positive", domain.ErrInvalidInput)

// DateOnly отбрасывает время, оставляя полночь календарного дня в той же локации
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsSameCalendarDay проверяет, что даты относятся к одному календарному дню
func IsSameCalendarDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsPast проверяет, что календарный день date строго раньше календарного дня now.
// Сегодняшняя дата прошлой не считается.
func IsPast(date, now time.Time) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	return time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC).Before(time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC))
}

// DaysBetween количество календарных дней от from до to
func DaysBetween(from, to time.Time) int {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// WeekdayName идентификатор дня недели (0 = domingo ... 6 = sábado)
func WeekdayName(date time.Time) domain.Weekday {
	return domain.WeekdayOf(date)
}

// IsOperatingDay проверяет, входит ли день недели даты в список рабочих дней
func IsOperatingDay(date time.Time, operatingDays []domain.Weekday) bool {
	return slices.Contains(operatingDays, WeekdayName(date))
}

// GenerateSlots возвращает start, start+interval, ... строго раньше end.
// Пустой результат, если start >= end. interval <= 0 считается ошибкой.
func GenerateSlots(start, end types.TimeString, intervalMinutes int) ([]types.TimeString, error) {
	if intervalMinutes <= 0 {
		return nil, ErrInvalidInterval
	}
	if err := start.Validate(); err != nil {
		return nil, err
	}
	if err := end.Validate(); err != nil {
		return nil, err
	}

	slots := make([]types.TimeString, 0)
	for m := start.Minutes(); m < end.Minutes(); m += intervalMinutes {
		slot, err := types.FromMinutes(m)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// CombineDateTime момент начала слота t в календарный день date в локации loc
func CombineDateTime(date time.Time, t types.TimeString, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return t.On(time.Date(y, m, d, 0, 0, 0, 0, loc))
}

// NowIn текущее время в локации loc
func NowIn(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return now
	}
	return now.In(loc)
}

// ParseDate разбирает YYYY-MM-DD как календарный день в локации loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(domain.DateFormat, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return d, nil
}
