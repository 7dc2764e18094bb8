package get_available_slots_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BarberBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BarberBookingService/pkg/logger"
	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

const barbershopID = "123456"

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type slotMetrics struct{ observed int }

func (m *slotMetrics) ObserveSlotComputation(time.Duration) { m.observed++ }

func setup(t *testing.T, now time.Time) (*get_available_slots.UseCase, *memory.Store, *slotMetrics) {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, store.LoadSeed(memory.Seed{Barbershops: []memory.SeedBarbershop{{
		Contribuinte: barbershopID,
		Timezone:     "UTC",
		Employees: []memory.SeedEmployee{
			{ID: "e1", Name: "Carlos", Schedule: map[string]memory.SeedWorkDay{
				"segunda": {Start: "08:00", End: "18:00", Working: true},
				"sexta":   {Start: "08:00", End: "18:00", Working: true},
			}},
			{ID: "e9", Name: "Inativo", Inactive: true},
		},
		Services: []memory.SeedService{
			{ID: "corte", Name: "Corte", DurationMinutes: 30, Price: 35},
			{ID: "barba", Name: "Barba", DurationMinutes: 15, Price: 20},
			{ID: "old", Name: "Antigo", DurationMinutes: 15, Price: 5, Inactive: true},
		},
	}}}))

	m := &slotMetrics{}
	uc := get_available_slots.NewUseCase(store, store, store, m, logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})
	return uc, store, m
}

func request(employeeID, date string) *get_available_slots.Request {
	return &get_available_slots.Request{
		BarbershopID: barbershopID,
		EmployeeID:   employeeID,
		ServiceIDs:   []string{"corte", "barba"},
		Date:         date,
	}
}

var friday = time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)

func TestExecute_ScenarioA(t *testing.T) {
	uc, _, m := setup(t, friday)

	resp, err := uc.Execute(context.Background(), request("e1", "2025-03-10"))
	require.NoError(t, err)

	assert.Equal(t, 45, resp.DurationMinutes)
	require.Len(t, resp.Slots, 19)
	assert.Equal(t, types.TimeString("08:00"), resp.Slots[0])
	assert.Equal(t, types.TimeString("17:00"), resp.Slots[len(resp.Slots)-1])
	assert.Equal(t, 1, m.observed)
}

func TestExecute_ExistingAppointmentBlocksSlots(t *testing.T) {
	uc, store, _ := setup(t, friday)

	_, err := store.Create(context.Background(), &domain.Appointment{
		ID: "a1", BarbershopID: barbershopID, ClientID: "c1", EmployeeID: "e1",
		ServiceIDs: []string{"corte", "barba"},
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00", EndTime: "10:45", Status: domain.StatusScheduled,
	})
	require.NoError(t, err)

	resp, err := uc.Execute(context.Background(), request("e1", "2025-03-10"))
	require.NoError(t, err)

	assert.Contains(t, resp.Slots, types.TimeString("09:00"))
	assert.NotContains(t, resp.Slots, types.TimeString("09:30"))
	assert.NotContains(t, resp.Slots, types.TimeString("10:00"))
	assert.NotContains(t, resp.Slots, types.TimeString("10:30"))
	assert.Contains(t, resp.Slots, types.TimeString("11:00"))
}

func TestExecute_TodayRespectsMinLead(t *testing.T) {
	uc, _, _ := setup(t, friday)

	resp, err := uc.Execute(context.Background(), request("e1", "2025-03-07"))
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, types.TimeString("13:00"), resp.Slots[0])
}

func TestExecute_EmptyResults(t *testing.T) {
	uc, _, _ := setup(t, friday)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *get_available_slots.Request
	}{
		{name: "closed sunday", req: request("e1", "2025-03-09")},
		{name: "employee off on tuesday", req: request("e1", "2025-03-11")},
		{name: "all employees sentinel", req: request(domain.AllEmployeesID, "2025-03-10")},
		{name: "past date", req: request("e1", "2025-03-03")},
		{name: "beyond max lead days", req: request("e1", "2025-05-05")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := uc.Execute(ctx, tt.req)
			require.NoError(t, err)
			assert.NotNil(t, resp.Slots)
			assert.Empty(t, resp.Slots)
		})
	}
}

func TestExecute_Errors(t *testing.T) {
	uc, _, _ := setup(t, friday)
	ctx := context.Background()

	req := request("e1", "2025-03-10")
	req.BarbershopID = "x1"
	_, err := uc.Execute(ctx, req)
	assert.ErrorIs(t, err, get_available_slots.ErrInvalidInput)

	req = request("e1", "2025-03-10")
	req.BarbershopID = "42"
	_, err = uc.Execute(ctx, req)
	assert.ErrorIs(t, err, get_available_slots.ErrBarbershopNotFound)

	_, err = uc.Execute(ctx, request("e1", "10-03-2025"))
	assert.ErrorIs(t, err, get_available_slots.ErrInvalidInput)

	_, err = uc.Execute(ctx, request("ghost", "2025-03-10"))
	assert.ErrorIs(t, err, get_available_slots.ErrEmployeeNotFound)

	_, err = uc.Execute(ctx, request("e9", "2025-03-10"))
	assert.ErrorIs(t, err, get_available_slots.ErrEmployeeNotFound)

	req = request("e1", "2025-03-10")
	req.ServiceIDs = []string{"corte", "old"}
	_, err = uc.Execute(ctx, req)
	assert.ErrorIs(t, err, get_available_slots.ErrServiceNotFound)

	req.ServiceIDs = nil
	_, err = uc.Execute(ctx, req)
	assert.ErrorIs(t, err, get_available_slots.ErrInvalidInput)
}

func TestExecute_InvalidBarbershopConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *domain.BarbershopConfig)
	}{
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
			uc, store, m := setup(t, friday)
			ctx := context.Background()

			cfg, err := store.Get(ctx, barbershopID)
			require.NoError(t, err)
			tt.modify(cfg)
			_, err = store.Upsert(ctx, cfg)
			require.NoError(t, err)

			resp, err := uc.Execute(ctx, request("e1", "2025-03-10"))
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, domain.ErrConfiguration)

			var cfgErr *domain.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.NotEmpty(t, cfgErr.Reasons)
			assert.Zero(t, m.observed)
		})
	}
}
