package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

// workDayJSON формат дня графика в колонке employees.work_schedule
type workDayJSON struct {
	Start     string `json:"inicio"`
	End       string `json:"fim"`
	IsWorking bool   `json:"trabalhando"`
}

// EncodeWorkSchedule сериализует график сотрудника в JSONB
func EncodeWorkSchedule(schedule map[domain.Weekday]domain.WorkDay) ([]byte, error) {
	raw := make(map[string]workDayJSON, len(schedule))
	for day, wd := range schedule {
		raw[string(day)] = workDayJSON{
			Start:     wd.Start.String(),
			End:       wd.End.String(),
			IsWorking: wd.IsWorking,
		}
	}
	return json.Marshal(raw)
}

// DecodeWorkSchedule разбирает JSONB графика. Нерабочие дни могут не иметь времени.
func DecodeWorkSchedule(data []byte) (map[domain.Weekday]domain.WorkDay, error) {
	schedule := make(map[domain.Weekday]domain.WorkDay)
	if len(data) == 0 {
		return schedule, nil
	}

	var raw map[string]workDayJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode work schedule: %w", err)
	}

	for day, wd := range raw {
		weekday, err := domain.ParseWeekday(day)
		if err != nil {
			return nil, err
		}

		entry := domain.WorkDay{IsWorking: wd.IsWorking}
		if wd.IsWorking {
			if entry.Start, err = types.NewTimeStringFromString(wd.Start); err != nil {
				return nil, fmt.Errorf("decode work schedule %s start: %w", day, err)
			}
			if entry.End, err = types.NewTimeStringFromString(wd.End); err != nil {
				return nil, fmt.Errorf("decode work schedule %s end: %w", day, err)
			}
		}
		schedule[weekday] = entry
	}

	return schedule, nil
}
