package domain

import (
	"time"

	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCanceled   AppointmentStatus = "canceled"
)

// statusOrder position of each non-canceled status in the forward lifecycle
var statusOrder = map[AppointmentStatus]int{
	StatusScheduled:  0,
	StatusConfirmed:  1,
	StatusInProgress: 2,
	StatusCompleted:  3,
}

// ParseAppointmentStatus validates a status string
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	status := AppointmentStatus(s)
	if _, ok := statusOrder[status]; ok || status == StatusCanceled {
		return status, true
	}
	return "", false
}

// Cancellation actors
const (
	CanceledByClient = "client"
	CanceledByStaff  = "staff"
)

// Appointment booking of one employee by one client for one or more services
type Appointment struct {
	ID              string
	BarbershopID    string
	ClientID        string
	EmployeeID      string
	ServiceIDs      []string
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          AppointmentStatus
	TotalPrice      float64
	Notes           *string

	CancellationReason *string
	CanceledBy         *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCanceled
}

// IsCanceled returns true if the appointment has been canceled
func (a *Appointment) IsCanceled() bool {
	return a.Status == StatusCanceled
}

// CanBeCanceled returns true unless the service was already delivered
func (a *Appointment) CanBeCanceled() bool {
	return a.Status != StatusCompleted
}

// CanTransitionTo allows forward moves scheduled → confirmed → in_progress → completed.
// Skipping steps is allowed; canceled is reachable only through cancellation.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	cur, ok := statusOrder[a.Status]
	if !ok {
		return false
	}
	nxt, ok := statusOrder[next]
	if !ok {
		return false
	}
	return nxt > cur
}

// Overlaps reports whether [start, end) intersects the appointment's [StartTime, EndTime)
func (a *Appointment) Overlaps(start, end types.TimeString) bool {
	return a.StartTime.IsBefore(end) && start.IsBefore(a.EndTime)
}

// StartsAt returns the absolute start instant in loc
func (a *Appointment) StartsAt(loc *time.Location) time.Time {
	y, m, d := a.Date.Date()
	return a.StartTime.On(time.Date(y, m, d, 0, 0, 0, 0, loc))
}

// Clone returns a deep copy
func (a *Appointment) Clone() *Appointment {
	c := *a
	c.ServiceIDs = append([]string(nil), a.ServiceIDs...)
	if a.Notes != nil {
		n := *a.Notes
		c.Notes = &n
	}
	if a.CancellationReason != nil {
		r := *a.CancellationReason
		c.CancellationReason = &r
	}
	if a.CanceledBy != nil {
		b := *a.CanceledBy
		c.CanceledBy = &b
	}
	if a.CancelledAt != nil {
		t := *a.CancelledAt
		c.CancelledAt = &t
	}
	return &c
}

// AppointmentsFilter criteria for listing appointments of a barbershop
type AppointmentsFilter struct {
	BarbershopID    string     // required
	Date            *time.Time // calendar day
	DateFrom        *time.Time // inclusive calendar day
	DateTo          *time.Time // inclusive calendar day
	EmployeeID      *string
	ClientID        *string
	IncludeCanceled bool
}

// InDateRange reports whether the calendar day of date lies within [DateFrom, DateTo].
// An unset bound is open.
func (f AppointmentsFilter) InDateRange(date time.Time) bool {
	day := date.Format(DateFormat)
	if f.DateFrom != nil && day < f.DateFrom.Format(DateFormat) {
		return false
	}
	if f.DateTo != nil && day > f.DateTo.Format(DateFormat) {
		return false
	}
	return true
}
