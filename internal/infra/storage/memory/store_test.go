package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/appointment"
	barbershopRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/barbershop"
	catalogRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newAppointment(id, employeeID string, start, end types.TimeString) *domain.Appointment {
	return &domain.Appointment{
		ID:           id,
		BarbershopID: "123",
		ClientID:     "c1",
		EmployeeID:   employeeID,
		ServiceIDs:   []string{"s1"},
		Date:         day,
		StartTime:    start,
		EndTime:      end,
		Status:       domain.StatusScheduled,
	}
}

func TestStore_CreateRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Create(ctx, newAppointment("a1", "e1", "10:00", "10:45"))
	require.NoError(t, err)

	_, err = s.Create(ctx, newAppointment("a2", "e1", "10:30", "11:00"))
	assert.ErrorIs(t, err, appointmentRepo.ErrSlotTaken)

	_, err = s.Create(ctx, newAppointment("a3", "e1", "10:45", "11:15"))
	assert.NoError(t, err, "touching intervals do not overlap")

	_, err = s.Create(ctx, newAppointment("a4", "e2", "10:00", "10:45"))
	assert.NoError(t, err, "other employee")

	require.NoError(t, s.Cancel(ctx, "123", "a1", nil, domain.CanceledByStaff, time.Now()))
	_, err = s.Create(ctx, newAppointment("a5", "e1", "10:00", "10:45"))
	assert.NoError(t, err, "canceled appointment frees the slot")
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	a := newAppointment("a1", "e1", "10:00", "10:45")
	_, err := s.Create(ctx, a)
	require.NoError(t, err)
	a.ServiceIDs[0] = "mutated"

	got, err := s.GetByID(ctx, "123", "a1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ServiceIDs[0])

	got.Status = domain.StatusCompleted
	again, err := s.GetByID(ctx, "123", "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, again.Status)
}

func TestStore_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for _, a := range []*domain.Appointment{
		newAppointment("a1", "e1", "11:00", "11:30"),
		newAppointment("a2", "e2", "09:00", "09:30"),
		newAppointment("a3", "e1", "09:00", "09:30"),
	} {
		_, err := s.Create(ctx, a)
		require.NoError(t, err)
	}
	require.NoError(t, s.Cancel(ctx, "123", "a2", nil, domain.CanceledByClient, time.Now()))

	byDate, err := s.List(ctx, domain.AppointmentsFilter{BarbershopID: "123", Date: &day})
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, "a3", byDate[0].ID)
	assert.Equal(t, "a1", byDate[1].ID)

	all, err := s.List(ctx, domain.AppointmentsFilter{BarbershopID: "123", IncludeCanceled: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	e2 := "e2"
	byEmployee, err := s.List(ctx, domain.AppointmentsFilter{BarbershopID: "123", EmployeeID: &e2, IncludeCanceled: true})
	require.NoError(t, err)
	require.Len(t, byEmployee, 1)
	assert.True(t, byEmployee[0].IsCanceled())

	other, err := s.List(ctx, domain.AppointmentsFilter{BarbershopID: "999"})
	require.NoError(t, err)
	assert.Empty(t, other)

	dayList, err := s.ListByEmployeeAndDate(ctx, "123", "e1", day)
	require.NoError(t, err)
	require.Len(t, dayList, 2)
	assert.Equal(t, types.TimeString("09:00"), dayList[0].StartTime)
}

func TestStore_ListDateRange(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for i, d := range []time.Time{day.AddDate(0, 0, -1), day, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2)} {
		a := newAppointment(fmt.Sprintf("a%d", i), "e1", "10:00", "10:30")
		a.Date = d
		_, err := s.Create(ctx, a)
		require.NoError(t, err)
	}

	from, to := day, day.AddDate(0, 0, 1)
	inRange, err := s.List(ctx, domain.AppointmentsFilter{BarbershopID: "123", DateFrom: &from, DateTo: &to})
	require.NoError(t, err)
	require.Len(t, inRange, 2)
	assert.Equal(t, "a2", inRange[0].ID, "newest first")
	assert.Equal(t, "a1", inRange[1].ID)

	fromOnly, err := s.List(ctx, domain.AppointmentsFilter{BarbershopID: "123", DateFrom: &to})
	require.NoError(t, err)
	assert.Len(t, fromOnly, 2)

	toOnly, err := s.List(ctx, domain.AppointmentsFilter{BarbershopID: "123", DateTo: &from})
	require.NoError(t, err)
	assert.Len(t, toOnly, 2)
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Get(ctx, "1")
	assert.ErrorIs(t, err, barbershopRepo.ErrBarbershopNotFound)
	_, err = s.GetEmployee(ctx, "1", "e1")
	assert.ErrorIs(t, err, catalogRepo.ErrEmployeeNotFound)
	_, err = s.GetClient(ctx, "1", "c1")
	assert.ErrorIs(t, err, catalogRepo.ErrClientNotFound)
	_, err = s.GetByID(ctx, "1", "a1")
	assert.ErrorIs(t, err, appointmentRepo.ErrAppointmentNotFound)
	assert.ErrorIs(t, s.UpdateStatus(ctx, "1", "a1", domain.StatusConfirmed), appointmentRepo.ErrAppointmentNotFound)

	services, err := s.GetServicesByIDs(ctx, "1", []string{"x"})
	require.NoError(t, err)
	assert.Empty(t, services)
}

const seedTOML = `
[[barbershops]]
contribuinte = "123456"
name = "Barbearia Central"
opening_time = "9:00"
closing_time = "19:00"
operating_days = ["segunda", "terça", "sábado"]
slot_interval_minutes = 15
allows_cancellation = false

  [[barbershops.employees]]
  id = "e1"
  name = "Carlos"
    [barbershops.employees.schedule.segunda]
    start = "09:00"
    end = "18:00"
    working = true
    [barbershops.employees.schedule."sábado"]
    working = false

  [[barbershops.services]]
  id = "corte"
  name = "Corte"
  duration_minutes = 30
  price = 35.0

  [[barbershops.clients]]
  id = "c1"
  name = "Ana"
`

func TestStore_LoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	require.NoError(t, os.WriteFile(path, []byte(seedTOML), 0o600))

	s := NewStore()
	require.NoError(t, s.LoadSeedFile(path))

	ctx := context.Background()
	cfg, err := s.Get(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("09:00"), cfg.OpeningTime)
	assert.Equal(t, 15, cfg.SlotIntervalMinutes)
	assert.False(t, cfg.AllowsCancellation)
	assert.Equal(t, domain.DefaultMaxLeadDays, cfg.MaxLeadDays)
	assert.True(t, cfg.IsOperatingDay(domain.Tuesday))

	e, err := s.GetEmployee(ctx, "123456", "e1")
	require.NoError(t, err)
	assert.True(t, e.Active)
	_, working := e.ScheduleFor(domain.Saturday)
	assert.False(t, working)

	services, err := s.GetServicesByIDs(ctx, "123456", []string{"corte"})
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, 35.0, services[0].Price)

	c, err := s.GetClient(ctx, "123456", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", c.Name)
}

func TestStore_LoadSeedRejectsInvalid(t *testing.T) {
	s := NewStore()

	err := s.LoadSeed(Seed{Barbershops: []SeedBarbershop{{Contribuinte: "abc"}}})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	err = s.LoadSeed(Seed{Barbershops: []SeedBarbershop{{
		Contribuinte: "1",
		Employees:    []SeedEmployee{{ID: domain.AllEmployeesID, Name: "Todos"}},
	}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
