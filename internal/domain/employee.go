package domain

import (
	"fmt"

	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

// WorkDay employee schedule for one weekday
type WorkDay struct {
	Start     types.TimeString
	End       types.TimeString
	IsWorking bool
}

// Employee barber who can be booked
type Employee struct {
	ID           string
	BarbershopID string
	Name         string
	Active       bool
	WorkSchedule map[Weekday]WorkDay
}

// IsAllEmployeesSentinel reports whether the id is the "all employees" filter value
func IsAllEmployeesSentinel(id string) bool {
	return id == AllEmployeesID
}

// ScheduleFor returns the employee's schedule for the weekday.
// ok is false when the employee does not work that day.
func (e *Employee) ScheduleFor(day Weekday) (WorkDay, bool) {
	wd, exists := e.WorkSchedule[day]
	if !exists || !wd.IsWorking {
		return WorkDay{}, false
	}
	return wd, true
}

// IsBookable reports whether appointments may be created for this employee
func (e *Employee) IsBookable() bool {
	return e != nil && e.Active && !IsAllEmployeesSentinel(e.ID)
}

// Validate checks that every working day has a parseable Start < End
func (e *Employee) Validate() error {
	for day, wd := range e.WorkSchedule {
		if _, err := ParseWeekday(string(day)); err != nil {
			return err
		}
		if !wd.IsWorking {
			continue
		}
		if wd.Start.Validate() != nil || wd.End.Validate() != nil {
			return fmt.Errorf("%w: employee %s has invalid hours on %s", ErrInvalidInput, e.ID, day)
		}
		if !wd.Start.IsBefore(wd.End) {
			return fmt.Errorf("%w: employee %s starts after finishing on %s", ErrInvalidInput, e.ID, day)
		}
	}
	return nil
}
