package appointments_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BarberBookingService/internal/service/appointments"
	"github.com/m04kA/SMC-BarberBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-BarberBookingService/pkg/logger"
	"github.com/m04kA/SMC-BarberBookingService/pkg/ptr"
	"github.com/m04kA/SMC-BarberBookingService/pkg/slotlock"
)

const barbershopID = "123456"

var (
	staff  = models.Actor{UserID: "admin", Role: models.RoleStaff}
	client = models.Actor{UserID: "c1", Role: models.RoleClient}
	other  = models.Actor{UserID: "c2", Role: models.RoleClient}

	monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type cancelMetrics struct{ byActor map[string]int }

func (m *cancelMetrics) AppointmentCanceled(actor string) { m.byActor[actor]++ }

func setup(t *testing.T, allowsCancellation bool, now time.Time) (*appointments.Service, *memory.Store, *cancelMetrics) {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, store.LoadSeed(memory.Seed{Barbershops: []memory.SeedBarbershop{{
		Contribuinte:            barbershopID,
		Timezone:                "UTC",
		AllowsCancellation:      ptr.Ptr(allowsCancellation),
		CancellationCutoffHours: 2,
	}}}))

	for _, a := range []*domain.Appointment{
		{ID: "a1", ClientID: "c1", EmployeeID: "e1", StartTime: "10:00", EndTime: "10:45"},
		{ID: "a2", ClientID: "c2", EmployeeID: "e1", StartTime: "11:00", EndTime: "11:30"},
		{ID: "a3", ClientID: "c1", EmployeeID: "e2", StartTime: "09:00", EndTime: "09:30"},
	} {
		a.BarbershopID = barbershopID
		a.ServiceIDs = []string{"corte"}
		a.Date = monday
		a.Status = domain.StatusScheduled
		_, err := store.Create(context.Background(), a)
		require.NoError(t, err)
	}

	m := &cancelMetrics{byActor: map[string]int{}}
	svc := appointments.NewService(store, store, memory.TxManager{}, slotlock.NewLocal(time.Second), m, logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})
	return svc, store, m
}

var friday = time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)

func TestCancel_IsIdempotentAndFreesSlot(t *testing.T) {
	svc, store, m := setup(t, true, friday)
	ctx := context.Background()

	resp, err := svc.Cancel(ctx, barbershopID, "a1", &models.CancelRequest{Actor: client, CancellationReason: ptr.Ptr("doente")})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCanceled), resp.Status)
	assert.Equal(t, "doente", *resp.CancellationReason)
	assert.Equal(t, models.RoleClient, *resp.CanceledBy)
	require.NotNil(t, resp.CancelledAt)

	again, err := svc.Cancel(ctx, barbershopID, "a1", &models.CancelRequest{Actor: staff})
	require.NoError(t, err)
	assert.Equal(t, resp.CancelledAt, again.CancelledAt)
	assert.Equal(t, models.RoleClient, *again.CanceledBy)
	assert.Equal(t, 1, m.byActor[models.RoleClient])
	assert.Zero(t, m.byActor[models.RoleStaff])

	active, err := store.ListByEmployeeAndDate(ctx, barbershopID, "e1", monday)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "a2", active[0].ID)
}

func TestCancel_ClientPolicy(t *testing.T) {
	ctx := context.Background()

	svc, _, _ := setup(t, false, friday)
	_, err := svc.Cancel(ctx, barbershopID, "a1", &models.CancelRequest{Actor: client})
	assert.ErrorIs(t, err, appointments.ErrCancellationNotAllowed)

	_, err = svc.Cancel(ctx, barbershopID, "a1", &models.CancelRequest{Actor: staff})
	assert.NoError(t, err, "staff bypasses the policy")

	// 08:30 в понедельник: до 10:00 меньше двух часов
	svc, _, _ = setup(t, true, time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC))
	_, err = svc.Cancel(ctx, barbershopID, "a1", &models.CancelRequest{Actor: client})
	assert.ErrorIs(t, err, appointments.ErrCancellationTooLate)

	_, err = svc.Cancel(ctx, barbershopID, "a1", &models.CancelRequest{Actor: staff})
	assert.NoError(t, err)
}

func TestCancel_Errors(t *testing.T) {
	svc, store, _ := setup(t, true, friday)
	ctx := context.Background()

	_, err := svc.Cancel(ctx, barbershopID, "a2", &models.CancelRequest{Actor: client})
	assert.ErrorIs(t, err, appointments.ErrAccessDenied)

	_, err = svc.Cancel(ctx, barbershopID, "missing", &models.CancelRequest{Actor: staff})
	assert.ErrorIs(t, err, appointments.ErrAppointmentNotFound)

	_, err = svc.Cancel(ctx, "999", "a1", &models.CancelRequest{Actor: staff})
	assert.ErrorIs(t, err, appointments.ErrBarbershopNotFound)

	require.NoError(t, store.UpdateStatus(ctx, barbershopID, "a3", domain.StatusCompleted))
	_, err = svc.Cancel(ctx, barbershopID, "a3", &models.CancelRequest{Actor: staff})
	assert.ErrorIs(t, err, appointments.ErrCannotCancel)

	long := make([]rune, domain.MaxCancellationReasonLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = svc.Cancel(ctx, barbershopID, "a1", &models.CancelRequest{Actor: staff, CancellationReason: ptr.Ptr(string(long))})
	assert.ErrorIs(t, err, appointments.ErrInvalidInput)
}

func TestUpdateStatus(t *testing.T) {
	svc, _, _ := setup(t, true, friday)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, barbershopID, "a1", &models.UpdateStatusRequest{Actor: client, Status: "confirmed"})
	assert.ErrorIs(t, err, appointments.ErrAccessDenied)

	resp, err := svc.UpdateStatus(ctx, barbershopID, "a1", &models.UpdateStatusRequest{Actor: staff, Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	_, err = svc.UpdateStatus(ctx, barbershopID, "a1", &models.UpdateStatusRequest{Actor: staff, Status: "scheduled"})
	assert.ErrorIs(t, err, appointments.ErrInvalidTransition)

	resp, err = svc.UpdateStatus(ctx, barbershopID, "a1", &models.UpdateStatusRequest{Actor: staff, Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)

	_, err = svc.UpdateStatus(ctx, barbershopID, "a2", &models.UpdateStatusRequest{Actor: staff, Status: "canceled"})
	assert.ErrorIs(t, err, appointments.ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, barbershopID, "a2", &models.UpdateStatusRequest{Actor: staff, Status: "no_show"})
	assert.ErrorIs(t, err, appointments.ErrInvalidInput)

	_, err = svc.UpdateStatus(ctx, barbershopID, "missing", &models.UpdateStatusRequest{Actor: staff, Status: "confirmed"})
	assert.ErrorIs(t, err, appointments.ErrAppointmentNotFound)
}

func TestList(t *testing.T) {
	svc, _, _ := setup(t, true, friday)
	ctx := context.Background()

	_, err := svc.Cancel(ctx, barbershopID, "a2", &models.CancelRequest{Actor: staff})
	require.NoError(t, err)

	byDate, err := svc.List(ctx, &models.ListRequest{Actor: staff, BarbershopID: barbershopID, Date: ptr.Ptr("2025-03-10")})
	require.NoError(t, err)
	require.Len(t, byDate.Appointments, 2, "canceled appointments are not in the day schedule")
	assert.Equal(t, "a3", byDate.Appointments[0].ID)
	assert.Equal(t, "a1", byDate.Appointments[1].ID)

	allEmployees, err := svc.List(ctx, &models.ListRequest{
		Actor: staff, BarbershopID: barbershopID, Date: ptr.Ptr("2025-03-10"), EmployeeID: ptr.Ptr(domain.AllEmployeesID),
	})
	require.NoError(t, err)
	assert.Len(t, allEmployees.Appointments, 2)

	byEmployee, err := svc.List(ctx, &models.ListRequest{Actor: staff, BarbershopID: barbershopID, EmployeeID: ptr.Ptr("e1")})
	require.NoError(t, err)
	assert.Len(t, byEmployee.Appointments, 2, "history includes canceled")

	own, err := svc.List(ctx, &models.ListRequest{Actor: client, BarbershopID: barbershopID})
	require.NoError(t, err)
	assert.Len(t, own.Appointments, 2)
	for _, a := range own.Appointments {
		assert.Equal(t, "c1", a.ClientID)
	}

	_, err = svc.List(ctx, &models.ListRequest{Actor: client, BarbershopID: barbershopID, ClientID: ptr.Ptr("c2")})
	assert.ErrorIs(t, err, appointments.ErrAccessDenied)

	_, err = svc.List(ctx, &models.ListRequest{Actor: staff, BarbershopID: barbershopID})
	assert.ErrorIs(t, err, appointments.ErrInvalidInput)

	_, err = svc.List(ctx, &models.ListRequest{Actor: staff, BarbershopID: barbershopID, Date: ptr.Ptr("bad")})
	assert.ErrorIs(t, err, appointments.ErrInvalidInput)
}

func TestList_DateRange(t *testing.T) {
	svc, store, _ := setup(t, true, friday)
	ctx := context.Background()

	later := &domain.Appointment{
		ID: "a4", BarbershopID: barbershopID, ClientID: "c1", EmployeeID: "e1", ServiceIDs: []string{"corte"},
		Date: monday.AddDate(0, 0, 7), StartTime: "10:00", EndTime: "10:30", Status: domain.StatusScheduled,
	}
	_, err := store.Create(ctx, later)
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, barbershopID, "a2", &models.CancelRequest{Actor: staff})
	require.NoError(t, err)

	week, err := svc.List(ctx, &models.ListRequest{
		Actor: staff, BarbershopID: barbershopID, DateFrom: ptr.Ptr("2025-03-10"), DateTo: ptr.Ptr("2025-03-16"),
	})
	require.NoError(t, err)
	assert.Len(t, week.Appointments, 3, "range includes canceled")
	for _, a := range week.Appointments {
		assert.Equal(t, "2025-03-10", a.Date)
	}

	fromNextWeek, err := svc.List(ctx, &models.ListRequest{
		Actor: staff, BarbershopID: barbershopID, DateFrom: ptr.Ptr("2025-03-11"),
	})
	require.NoError(t, err)
	require.Len(t, fromNextWeek.Appointments, 1)
	assert.Equal(t, "a4", fromNextWeek.Appointments[0].ID)

	ownUntil, err := svc.List(ctx, &models.ListRequest{
		Actor: client, BarbershopID: barbershopID, DateTo: ptr.Ptr("2025-03-10"),
	})
	require.NoError(t, err)
	assert.Len(t, ownUntil.Appointments, 2)

	for _, req := range []*models.ListRequest{
		{Actor: staff, BarbershopID: barbershopID, DateFrom: ptr.Ptr("2025-03-16"), DateTo: ptr.Ptr("2025-03-10")},
		{Actor: staff, BarbershopID: barbershopID, DateFrom: ptr.Ptr("16/03/2025")},
		{Actor: staff, BarbershopID: barbershopID, Date: ptr.Ptr("2025-03-10"), DateTo: ptr.Ptr("2025-03-16")},
	} {
		_, err = svc.List(ctx, req)
		assert.ErrorIs(t, err, appointments.ErrInvalidInput)
	}
}

func TestGetByID(t *testing.T) {
	svc, _, _ := setup(t, true, friday)
	ctx := context.Background()

	resp, err := svc.GetByID(ctx, client, barbershopID, "a1")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, "10:45", resp.EndTime)

	_, err = svc.GetByID(ctx, other, barbershopID, "a1")
	assert.ErrorIs(t, err, appointments.ErrAccessDenied)

	_, err = svc.GetByID(ctx, staff, barbershopID, "nope")
	assert.ErrorIs(t, err, appointments.ErrAppointmentNotFound)
}
