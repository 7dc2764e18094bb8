package create_appointment

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-BarberBookingService/internal/availability"
	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/internal/timeutil"
	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

// ValidationContext данные, против которых проверяется кандидат.
// Clients == nil отключает проверку существования клиента.
type ValidationContext struct {
	Config    *domain.BarbershopConfig
	Employees map[string]*domain.Employee
	Services  map[string]*domain.Service
	Clients   map[string]*domain.Client
	Existing  []*domain.Appointment
	Now       time.Time
}

// Validate проверяет кандидата за один проход и собирает ошибки по всем полям.
// Некорректная конфигурация барбершопа возвращается как *domain.ConfigurationError.
// При успехе возвращает запись с заполненными EndTime, DurationMinutes и TotalPrice.
// Время, свободное на пустом дне, но занятое существующей записью, возвращается
// как domain.ErrConflict, а не как ошибка поля.
func Validate(candidate *Request, vctx ValidationContext) (*domain.Appointment, error) {
	if vctx.Config == nil {
		return nil, fmt.Errorf("%w: barbershop config is required", domain.ErrInvalidInput)
	}

	cfg := vctx.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc := cfg.Location()
	now := timeutil.NowIn(vctx.Now, loc)
	verr := domain.NewValidationError()

	// Клиент
	if candidate.ClientID == "" {
		verr.Add(domain.FieldClientID, "client is required")
	} else if vctx.Clients != nil {
		if c, ok := vctx.Clients[candidate.ClientID]; !ok || c == nil || !c.Active {
			verr.AddNotFound(domain.FieldClientID, "client not found or inactive")
		}
	}

	// Сотрудник
	var employee *domain.Employee
	switch {
	case candidate.EmployeeID == "":
		verr.Add(domain.FieldEmployeeID, "employee is required")
	case domain.IsAllEmployeesSentinel(candidate.EmployeeID):
		verr.Add(domain.FieldEmployeeID, "a specific employee must be selected")
	default:
		e := vctx.Employees[candidate.EmployeeID]
		if !e.IsBookable() {
			verr.AddNotFound(domain.FieldEmployeeID, "employee not found or inactive")
		} else {
			employee = e
		}
	}

	// Услуги
	services, servicesOK := validateServices(candidate.ServiceIDs, vctx.Services, verr)

	// Заметки
	if candidate.Notes != nil && utf8.RuneCountInString(*candidate.Notes) > domain.MaxNotesLength {
		verr.Add(domain.FieldNotes, fmt.Sprintf("notes must be at most %d characters", domain.MaxNotesLength))
	}

	// Дата
	var date time.Time
	dateOK := false
	if candidate.Date == "" {
		verr.Add(domain.FieldDate, "date is required")
	} else if d, err := timeutil.ParseDate(candidate.Date, loc); err != nil {
		verr.Add(domain.FieldDate, "date must be in YYYY-MM-DD format")
	} else if timeutil.IsPast(d, now) {
		verr.Add(domain.FieldDate, "date is in the past")
	} else if timeutil.DaysBetween(now, d) > cfg.MaxLeadDays {
		verr.Add(domain.FieldDate, fmt.Sprintf("appointments can be booked at most %d days in advance", cfg.MaxLeadDays))
	} else {
		date = d
		dateOK = true
	}

	// День недели: барбершоп открыт, выбранный сотрудник работает
	dayOpen := dateOK
	if dateOK {
		day := timeutil.WeekdayName(date)
		if !cfg.IsOperatingDay(day) {
			verr.Add(domain.FieldDate, fmt.Sprintf("barbershop is closed on %s", day))
			dayOpen = false
		} else if employee != nil {
			if _, working := employee.ScheduleFor(day); !working {
				verr.Add(domain.FieldEmployeeID, fmt.Sprintf("employee does not work on %s", day))
				dayOpen = false
			}
		}
	}

	// Время начала
	var startTime types.TimeString
	startOK := false
	if candidate.StartTime == "" {
		verr.Add(domain.FieldStartTime, "start time is required")
	} else if st, err := types.NewTimeStringFromString(candidate.StartTime); err != nil {
		verr.Add(domain.FieldStartTime, "start time must be in HH:MM format")
	} else {
		startTime = st
		startOK = true
	}

	totalDuration := domain.TotalDuration(services)

	// Проверка слота возможна только когда все его составляющие валидны
	conflict := false
	if startOK && dayOpen {
		startsAt := timeutil.CombineDateTime(date, startTime, loc)
		earliest := now.Add(time.Duration(cfg.MinLeadHours) * time.Hour)

		switch {
		case !startsAt.After(now):
			verr.Add(domain.FieldStartTime, "start time has already passed")
		case startsAt.Before(earliest):
			verr.Add(domain.FieldStartTime,
				fmt.Sprintf("appointments must be booked at least %d hours in advance", cfg.MinLeadHours))
		case employee != nil && servicesOK:
			free, err := availability.ComputeAvailableSlots(date, employee, cfg, totalDuration, vctx.Existing)
			if err != nil {
				return nil, err
			}
			if !availability.Contains(free, startTime) {
				onEmptyDay, err := availability.ComputeAvailableSlots(date, employee, cfg, totalDuration, nil)
				if err != nil {
					return nil, err
				}
				if availability.Contains(onEmptyDay, startTime) {
					conflict = true
				} else {
					verr.Add(domain.FieldStartTime, "start time is not an available slot")
				}
			}
		}
	}

	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}
	if conflict {
		return nil, fmt.Errorf("%w: employee %s is already booked at %s on %s",
			domain.ErrConflict, employee.ID, startTime, date.Format(domain.DateFormat))
	}

	endTime, err := startTime.AddMinutes(totalDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: end time: %v", domain.ErrInvalidInput, err)
	}

	return &domain.Appointment{
		BarbershopID:    cfg.Contribuinte,
		ClientID:        candidate.ClientID,
		EmployeeID:      employee.ID,
		ServiceIDs:      append([]string(nil), candidate.ServiceIDs...),
		Date:            date,
		StartTime:       startTime,
		EndTime:         endTime,
		DurationMinutes: totalDuration,
		TotalPrice:      domain.TotalPrice(services),
		Notes:           candidate.Notes,
	}, nil
}

// validateServices проверяет выбор услуг и возвращает их в порядке выбора
func validateServices(ids []string, catalog map[string]*domain.Service, verr *domain.ValidationError) ([]*domain.Service, bool) {
	if len(ids) == 0 {
		verr.Add(domain.FieldServiceIDs, "at least one service is required")
		return nil, false
	}
	if len(ids) > domain.MaxServicesPerAppointment {
		verr.Add(domain.FieldServiceIDs,
			fmt.Sprintf("at most %d services per appointment", domain.MaxServicesPerAppointment))
		return nil, false
	}

	selected := make([]*domain.Service, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			verr.Add(domain.FieldServiceIDs, fmt.Sprintf("service %s is selected twice", id))
			return nil, false
		}
		seen[id] = struct{}{}

		svc, ok := catalog[id]
		if !ok || svc == nil || !svc.Active {
			verr.AddNotFound(domain.FieldServiceIDs, fmt.Sprintf("service %s not found or inactive", id))
			return nil, false
		}
		selected = append(selected, svc)
	}
	return selected, true
}
