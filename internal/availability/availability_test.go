package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/internal/timeutil"
	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

// 2025-03-10 is a Monday, 2025-03-09 a Sunday
var (
	monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
)

func newConfig() *domain.BarbershopConfig {
	return &domain.BarbershopConfig{
		Contribuinte: "123",
		OpeningTime:  "08:00",
		ClosingTime:  "18:00",
		OperatingDays: []domain.Weekday{
			domain.Monday, domain.Tuesday, domain.Wednesday,
			domain.Thursday, domain.Friday, domain.Saturday,
		},
		SlotIntervalMinutes: 30,
		MaxLeadDays:         30,
		Timezone:            "UTC",
	}
}

func newEmployee() *domain.Employee {
	return &domain.Employee{
		ID:     "e1",
		Name:   "Carlos",
		Active: true,
		WorkSchedule: map[domain.Weekday]domain.WorkDay{
			domain.Monday:  {Start: "08:00", End: "18:00", IsWorking: true},
			domain.Sunday:  {Start: "08:00", End: "18:00", IsWorking: true},
			domain.Tuesday: {Start: "13:00", End: "20:00", IsWorking: true},
		},
	}
}

func appointment(employeeID string, date time.Time, start, end types.TimeString, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:         "a-" + string(start),
		EmployeeID: employeeID,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Status:     status,
	}
}

func TestComputeAvailableSlots_EmptyDay(t *testing.T) {
	slots, err := ComputeAvailableSlots(monday, newEmployee(), newConfig(), 45, nil)
	require.NoError(t, err)

	require.Len(t, slots, 19)
	assert.Equal(t, types.TimeString("08:00"), slots[0])
	assert.Equal(t, types.TimeString("17:00"), slots[len(slots)-1])
	assert.NotContains(t, slots, types.TimeString("17:30"))
}

func TestComputeAvailableSlots_ExistingAppointment(t *testing.T) {
	existing := []*domain.Appointment{
		appointment("e1", monday, "10:00", "10:45", domain.StatusScheduled),
	}

	slots, err := ComputeAvailableSlots(monday, newEmployee(), newConfig(), 45, existing)
	require.NoError(t, err)

	assert.Contains(t, slots, types.TimeString("09:00"))
	assert.NotContains(t, slots, types.TimeString("09:30"))
	assert.NotContains(t, slots, types.TimeString("10:00"))
	assert.NotContains(t, slots, types.TimeString("10:30"))
	assert.Contains(t, slots, types.TimeString("11:00"))
}

func TestComputeAvailableSlots_BoundaryTouchingIsFree(t *testing.T) {
	cfg := newConfig()
	cfg.SlotIntervalMinutes = 15
	existing := []*domain.Appointment{
		appointment("e1", monday, "10:00", "10:45", domain.StatusConfirmed),
	}

	slots, err := ComputeAvailableSlots(monday, newEmployee(), cfg, 45, existing)
	require.NoError(t, err)

	assert.Contains(t, slots, types.TimeString("09:15"), "09:15-10:00 ends exactly at existing start")
	assert.NotContains(t, slots, types.TimeString("09:30"))
	assert.NotContains(t, slots, types.TimeString("10:30"))
	assert.Contains(t, slots, types.TimeString("10:45"), "starts exactly at existing end")
}

func TestComputeAvailableSlots_ClosedDay(t *testing.T) {
	// employee works on Sunday, barbershop does not
	slots, err := ComputeAvailableSlots(sunday, newEmployee(), newConfig(), 30, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeAvailableSlots_EmployeeNotWorking(t *testing.T) {
	wednesday := monday.AddDate(0, 0, 2)
	slots, err := ComputeAvailableSlots(wednesday, newEmployee(), newConfig(), 30, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeAvailableSlots_WindowIsIntersection(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)
	slots, err := ComputeAvailableSlots(tuesday, newEmployee(), newConfig(), 60, nil)
	require.NoError(t, err)

	// employee 13:00-20:00, barbershop closes 18:00
	assert.Equal(t, []types.TimeString{"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00"}, slots)
}

func TestComputeAvailableSlots_DisjointWindow(t *testing.T) {
	emp := newEmployee()
	emp.WorkSchedule[domain.Monday] = domain.WorkDay{Start: "18:00", End: "22:00", IsWorking: true}

	slots, err := ComputeAvailableSlots(monday, emp, newConfig(), 30, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeAvailableSlots_IgnoresIrrelevantAppointments(t *testing.T) {
	existing := []*domain.Appointment{
		appointment("e1", monday, "08:00", "12:00", domain.StatusCanceled),
		appointment("e2", monday, "08:00", "12:00", domain.StatusScheduled),
		appointment("e1", monday.AddDate(0, 0, 7), "08:00", "12:00", domain.StatusScheduled),
	}

	withExisting, err := ComputeAvailableSlots(monday, newEmployee(), newConfig(), 30, existing)
	require.NoError(t, err)
	empty, err := ComputeAvailableSlots(monday, newEmployee(), newConfig(), 30, nil)
	require.NoError(t, err)

	assert.Equal(t, empty, withExisting)
}

func TestComputeAvailableSlots_DegenerateInputs(t *testing.T) {
	cfg := newConfig()

	slots, err := ComputeAvailableSlots(monday, newEmployee(), cfg, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)

	slots, err = ComputeAvailableSlots(monday, nil, cfg, 30, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)

	sentinel := newEmployee()
	sentinel.ID = domain.AllEmployeesID
	slots, err = ComputeAvailableSlots(monday, sentinel, cfg, 30, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = ComputeAvailableSlots(monday, newEmployee(), nil, 30, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestComputeAvailableSlots_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *domain.BarbershopConfig)
	}{
		{
			name:   "zero slot interval",
			modify: func(cfg *domain.BarbershopConfig) { cfg.SlotIntervalMinutes = 0 },
		},
		{
			name: "opening after closing",
			modify: func(cfg *domain.BarbershopConfig) {
				cfg.OpeningTime = "18:00"
				cfg.ClosingTime = "08:00"
			},
		},
		{
			name:   "no operating days",
			modify: func(cfg *domain.BarbershopConfig) { cfg.OperatingDays = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig()
			tt.modify(cfg)

			slots, err := ComputeAvailableSlots(monday, newEmployee(), cfg, 30, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
			assert.Nil(t, slots)

			var cfgErr *domain.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.NotEmpty(t, cfgErr.Reasons)
		})
	}
}

// Каждый возвращенный слот удовлетворяет всем условиям, а каждый слот сетки,
// удовлетворяющий им, возвращен.
func TestComputeAvailableSlots_SoundAndComplete(t *testing.T) {
	existing := []*domain.Appointment{
		appointment("e1", monday, "09:15", "09:45", domain.StatusScheduled),
		appointment("e1", monday, "12:00", "13:30", domain.StatusInProgress),
		appointment("e1", monday, "16:40", "17:10", domain.StatusCompleted),
	}

	for _, interval := range domain.AllowedSlotIntervals {
		for _, duration := range []int{15, 30, 45, 60, 90, 150} {
			cfg := newConfig()
			cfg.SlotIntervalMinutes = interval

			slots, err := ComputeAvailableSlots(monday, newEmployee(), cfg, duration, existing)
			require.NoError(t, err)

			grid, err := timeutil.GenerateSlots("08:00", "18:00", interval)
			require.NoError(t, err)

			for _, s := range grid {
				end := s.Minutes() + duration
				fits := end <= 18*60
				free := true
				for _, a := range existing {
					if s.Minutes() < a.EndTime.Minutes() && a.StartTime.Minutes() < end {
						free = false
					}
				}
				assert.Equal(t, fits && free, Contains(slots, s),
					"interval=%d duration=%d slot=%s", interval, duration, s)
			}

			for i := 1; i < len(slots); i++ {
				assert.True(t, slots[i-1].IsBefore(slots[i]))
			}
		}
	}
}

func TestFilterByLeadTime(t *testing.T) {
	slots := []types.TimeString{"08:00", "09:00", "10:00", "11:00"}
	now := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)

	assert.Equal(t, []types.TimeString{"10:00", "11:00"}, FilterByLeadTime(slots, monday, now, 1, time.UTC))
	assert.Equal(t, []types.TimeString{"09:00", "10:00", "11:00"}, FilterByLeadTime(slots, monday, now, 0, time.UTC))
	assert.Equal(t, slots, FilterByLeadTime(slots, monday.AddDate(0, 0, 1), now, 2, time.UTC))
	assert.Empty(t, FilterByLeadTime(slots, monday, now, 48, time.UTC))
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps("10:00", "10:45", "10:30", "11:00"))
	assert.False(t, Overlaps("10:00", "10:45", "10:45", "11:00"))
	assert.False(t, Overlaps("10:45", "11:00", "10:00", "10:45"))
	assert.True(t, Overlaps("09:00", "12:00", "10:00", "10:15"))
}
