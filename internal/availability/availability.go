// Package availability computes bookable start times for an employee on a date.
// All functions are pure: the caller loads configuration, the employee and the
// day's appointments and passes them in.
package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/internal/timeutil"
	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

// Overlaps проверяет пересечение полуоткрытых интервалов [s1, e1) и [s2, e2).
// Интервалы, которые только соприкасаются границами, не пересекаются.
func Overlaps(s1, e1, s2, e2 types.TimeString) bool {
	return s1.IsBefore(e2) && s2.IsBefore(e1)
}

// Window пересечение часов работы барбершопа и графика сотрудника на день.
// ok = false, если барбершоп закрыт, сотрудник не работает или пересечение пустое.
func Window(date time.Time, employee *domain.Employee, cfg *domain.BarbershopConfig) (start, end types.TimeString, ok bool) {
	day := timeutil.WeekdayName(date)
	if !cfg.IsOperatingDay(day) {
		return "", "", false
	}

	schedule, working := employee.ScheduleFor(day)
	if !working {
		return "", "", false
	}

	start = cfg.OpeningTime
	if schedule.Start.IsAfter(start) {
		start = schedule.Start
	}
	end = cfg.ClosingTime
	if schedule.End.IsBefore(end) {
		end = schedule.End
	}

	if !start.IsBefore(end) {
		return "", "", false
	}
	return start, end, true
}

// ComputeAvailableSlots возвращает отсортированные времена начала, в которые можно
// записать услуги общей длительностью totalDurationMinutes к сотруднику на дату:
//   - барбершоп работает в этот день недели и сотрудник работает в этот день;
//   - слот лежит на сетке от начала окна с шагом SlotIntervalMinutes;
//   - [s, s+duration) целиком внутри окна;
//   - [s, s+duration) не пересекается ни с одной неотмененной записью сотрудника на эту дату.
//
// Записи других сотрудников и других дат в existing игнорируются.
// Ошибка возвращается, если конфигурация барбершопа не проходит Validate
// (errors.Is(err, domain.ErrConfiguration)).
func ComputeAvailableSlots(
	date time.Time,
	employee *domain.Employee,
	cfg *domain.BarbershopConfig,
	totalDurationMinutes int,
	existing []*domain.Appointment,
) ([]types.TimeString, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: barbershop config is required", domain.ErrInvalidInput)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := make([]types.TimeString, 0)

	if employee == nil || domain.IsAllEmployeesSentinel(employee.ID) || totalDurationMinutes <= 0 {
		return result, nil
	}

	windowStart, windowEnd, ok := Window(date, employee, cfg)
	if !ok {
		return result, nil
	}

	candidates, err := timeutil.GenerateSlots(windowStart, windowEnd, cfg.SlotIntervalMinutes)
	if err != nil {
		return nil, err
	}

	busy := busyIntervals(date, employee.ID, existing)
	endLimit := windowEnd.Minutes()

	for _, slot := range candidates {
		slotEndMinutes := slot.Minutes() + totalDurationMinutes
		if slotEndMinutes > endLimit {
			continue
		}
		slotEnd, err := types.FromMinutes(slotEndMinutes)
		if err != nil {
			continue
		}
		if overlapsAny(slot, slotEnd, busy) {
			continue
		}
		result = append(result, slot)
	}

	return result, nil
}

type interval struct {
	start types.TimeString
	end   types.TimeString
}

// busyIntervals неотмененные записи сотрудника на календарный день date
func busyIntervals(date time.Time, employeeID string, existing []*domain.Appointment) []interval {
	busy := make([]interval, 0, len(existing))
	for _, a := range existing {
		if a == nil || !a.IsActive() {
			continue
		}
		if a.EmployeeID != employeeID || !timeutil.IsSameCalendarDay(a.Date, date) {
			continue
		}
		end := a.EndTime
		if end.IsZero() {
			// старые записи без end_time
			computed, err := a.StartTime.AddMinutes(a.DurationMinutes)
			if err != nil {
				continue
			}
			end = computed
		}
		busy = append(busy, interval{start: a.StartTime, end: end})
	}
	return busy
}

func overlapsAny(start, end types.TimeString, busy []interval) bool {
	for _, b := range busy {
		if Overlaps(start, end, b.start, b.end) {
			return true
		}
	}
	return false
}

// FilterByLeadTime оставляет слоты, начало которых не раньше now + minLeadHours.
// date и now интерпретируются в локации loc. Для будущих дат далее
// minLeadHours слоты не меняются.
func FilterByLeadTime(
	slots []types.TimeString,
	date time.Time,
	now time.Time,
	minLeadHours int,
	loc *time.Location,
) []types.TimeString {
	if loc == nil {
		loc = now.Location()
	}
	earliest := now.In(loc).Add(time.Duration(minLeadHours) * time.Hour)

	result := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		if timeutil.CombineDateTime(date, s, loc).Before(earliest) {
			continue
		}
		result = append(result, s)
	}
	return result
}

// Contains проверяет, что slot входит в список (сравнение по минутам)
func Contains(slots []types.TimeString, slot types.TimeString) bool {
	for _, s := range slots {
		if s.Equal(slot) {
			return true
		}
	}
	return false
}
