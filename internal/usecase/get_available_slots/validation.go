package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if err := domain.ValidateContribuinte(req.BarbershopID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.EmployeeID == "" {
		return fmt.Errorf("%w: employeeId is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one serviceId is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) > domain.MaxServicesPerAppointment {
		return fmt.Errorf("%w: at most %d services", ErrInvalidInput, domain.MaxServicesPerAppointment)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// selectServices возвращает услуги в порядке запроса; все должны существовать и быть активными
func selectServices(ids []string, found []*domain.Service) ([]*domain.Service, error) {
	byID := make(map[string]*domain.Service, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	selected := make([]*domain.Service, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: service %s is selected twice", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}

		svc, ok := byID[id]
		if !ok || !svc.Active {
			return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, id)
		}
		selected = append(selected, svc)
	}
	return selected, nil
}
