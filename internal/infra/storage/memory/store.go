// Package memory хранилище в памяти процесса с тем же контрактом, что и postgres-репозитории.
// Используется драйвером storage.driver = "memory" и в тестах.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/appointment"
	barbershopRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/barbershop"
	catalogRepo "github.com/m04kA/SMC-BarberBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BarberBookingService/internal/timeutil"
)

type tenantKey struct {
	barbershopID string
	id           string
}

// Store все данные под одним RWMutex; наружу отдаются только копии
type Store struct {
	mu sync.RWMutex

	barbershops  map[string]*domain.BarbershopConfig
	employees    map[tenantKey]*domain.Employee
	services     map[tenantKey]*domain.Service
	clients      map[tenantKey]*domain.Client
	appointments map[string]*domain.Appointment

	now func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		barbershops:  make(map[string]*domain.BarbershopConfig),
		employees:    make(map[tenantKey]*domain.Employee),
		services:     make(map[tenantKey]*domain.Service),
		clients:      make(map[tenantKey]*domain.Client),
		appointments: make(map[string]*domain.Appointment),
		now:          time.Now,
	}
}

// ---------- barbershops ----------

// Get возвращает копию настроек барбершопа
func (s *Store) Get(_ context.Context, contribuinte string) (*domain.BarbershopConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.barbershops[contribuinte]
	if !ok {
		return nil, barbershopRepo.ErrBarbershopNotFound
	}
	return cloneConfig(cfg), nil
}

// Upsert сохраняет настройки барбершопа, сохраняя исходный CreatedAt
func (s *Store) Upsert(_ context.Context, cfg *domain.BarbershopConfig) (*domain.BarbershopConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stored := cloneConfig(cfg)
	if existing, ok := s.barbershops[cfg.Contribuinte]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.barbershops[cfg.Contribuinte] = stored

	cfg.CreatedAt = stored.CreatedAt
	cfg.UpdatedAt = stored.UpdatedAt
	return cfg, nil
}

// ---------- catalog ----------

// PutEmployee добавляет или заменяет сотрудника
func (s *Store) PutEmployee(e *domain.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[tenantKey{e.BarbershopID, e.ID}] = cloneEmployee(e)
}

// PutService добавляет или заменяет услугу
func (s *Store) PutService(svc *domain.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *svc
	s.services[tenantKey{svc.BarbershopID, svc.ID}] = &c
}

// PutClient добавляет или заменяет клиента
func (s *Store) PutClient(c *domain.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.clients[tenantKey{c.BarbershopID, c.ID}] = &cp
}

// GetEmployee возвращает сотрудника барбершопа
func (s *Store) GetEmployee(_ context.Context, barbershopID, id string) (*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.employees[tenantKey{barbershopID, id}]
	if !ok {
		return nil, catalogRepo.ErrEmployeeNotFound
	}
	return cloneEmployee(e), nil
}

// GetServicesByIDs возвращает найденные услуги, отсутствующие пропускаются
func (s *Store) GetServicesByIDs(_ context.Context, barbershopID string, ids []string) ([]*domain.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Service, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if svc, ok := s.services[tenantKey{barbershopID, id}]; ok {
			c := *svc
			result = append(result, &c)
		}
	}
	return result, nil
}

// GetClient возвращает клиента барбершопа
func (s *Store) GetClient(_ context.Context, barbershopID, id string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[tenantKey{barbershopID, id}]
	if !ok {
		return nil, catalogRepo.ErrClientNotFound
	}
	cp := *c
	return &cp, nil
}

// ---------- appointments ----------

// Create сохраняет запись, атомарно проверяя пересечение с неотмененными записями сотрудника
func (s *Store) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.appointments {
		if existing.BarbershopID != a.BarbershopID || existing.EmployeeID != a.EmployeeID {
			continue
		}
		if !existing.IsActive() || !timeutil.IsSameCalendarDay(existing.Date, a.Date) {
			continue
		}
		if existing.Overlaps(a.StartTime, a.EndTime) {
			return nil, appointmentRepo.ErrSlotTaken
		}
	}
	if _, dup := s.appointments[a.ID]; dup {
		return nil, appointmentRepo.ErrSlotTaken
	}

	now := s.now()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.appointments[a.ID] = a.Clone()

	return a, nil
}

// GetByID возвращает запись барбершопа по ID
func (s *Store) GetByID(_ context.Context, barbershopID, id string) (*domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.appointments[id]
	if !ok || a.BarbershopID != barbershopID {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return a.Clone(), nil
}

// ListByEmployeeAndDate неотмененные записи сотрудника на дату по времени начала
func (s *Store) ListByEmployeeAndDate(_ context.Context, barbershopID, employeeID string, date time.Time) ([]*domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if a.BarbershopID != barbershopID || a.EmployeeID != employeeID {
			continue
		}
		if !a.IsActive() || !timeutil.IsSameCalendarDay(a.Date, date) {
			continue
		}
		result = append(result, a.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.IsBefore(result[j].StartTime)
	})
	return result, nil
}

// List записи по фильтру: день по времени начала, иначе от новых к старым
func (s *Store) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if a.BarbershopID != filter.BarbershopID {
			continue
		}
		if filter.Date != nil && !timeutil.IsSameCalendarDay(a.Date, *filter.Date) {
			continue
		}
		if !filter.InDateRange(a.Date) {
			continue
		}
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.ClientID != nil && a.ClientID != *filter.ClientID {
			continue
		}
		if !filter.IncludeCanceled && a.IsCanceled() {
			continue
		}
		result = append(result, a.Clone())
	}

	if filter.Date != nil {
		sort.Slice(result, func(i, j int) bool {
			if result[i].StartTime.Equal(result[j].StartTime) {
				return result[i].EmployeeID < result[j].EmployeeID
			}
			return result[i].StartTime.IsBefore(result[j].StartTime)
		})
	} else {
		sort.Slice(result, func(i, j int) bool {
			di, dj := timeutil.DateOnly(result[i].Date), timeutil.DateOnly(result[j].Date)
			if !di.Equal(dj) {
				return di.After(dj)
			}
			return result[i].StartTime.IsAfter(result[j].StartTime)
		})
	}
	return result, nil
}

// UpdateStatus меняет статус записи
func (s *Store) UpdateStatus(_ context.Context, barbershopID, id string, status domain.AppointmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok || a.BarbershopID != barbershopID {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	a.UpdatedAt = s.now()
	return nil
}

// Cancel переводит запись в canceled с причиной и автором отмены
func (s *Store) Cancel(_ context.Context, barbershopID, id string, reason *string, canceledBy string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok || a.BarbershopID != barbershopID {
		return appointmentRepo.ErrAppointmentNotFound
	}

	a.Status = domain.StatusCanceled
	if reason != nil {
		r := *reason
		a.CancellationReason = &r
	}
	by := canceledBy
	a.CanceledBy = &by
	cancelledAt := at
	a.CancelledAt = &cancelledAt
	a.UpdatedAt = s.now()
	return nil
}

// TxManager транзакции для хранилища в памяти. Атомарность Create обеспечивает сам Store,
// сериализацию проверки и вставки обеспечивает slotlock.
type TxManager struct{}

// DoSerializable выполняет fn без отдельной транзакции
func (TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func cloneConfig(cfg *domain.BarbershopConfig) *domain.BarbershopConfig {
	c := *cfg
	c.OperatingDays = append([]domain.Weekday(nil), cfg.OperatingDays...)
	return &c
}

func cloneEmployee(e *domain.Employee) *domain.Employee {
	c := *e
	c.WorkSchedule = make(map[domain.Weekday]domain.WorkDay, len(e.WorkSchedule))
	for k, v := range e.WorkSchedule {
		c.WorkSchedule[k] = v
	}
	return &c
}
