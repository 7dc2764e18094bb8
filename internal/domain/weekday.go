package domain

import (
	"fmt"
	"time"
)

// Weekday weekday identifier as stored in barbershop and employee schedules
type Weekday string

const (
	Sunday    Weekday = "domingo"
	Monday    Weekday = "segunda"
	Tuesday   Weekday = "terça"
	Wednesday Weekday = "quarta"
	Thursday  Weekday = "quinta"
	Friday    Weekday = "sexta"
	Saturday  Weekday = "sábado"
)

// weekdays indexed by time.Weekday (0 = Sunday)
var weekdays = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// AllWeekdays returns weekdays starting from Sunday
func AllWeekdays() []Weekday {
	out := make([]Weekday, len(weekdays))
	copy(out, weekdays[:])
	return out
}

// WeekdayOf returns the weekday identifier of the date's calendar day
func WeekdayOf(date time.Time) Weekday {
	return weekdays[date.Weekday()]
}

// ParseWeekday checks that s is a known weekday identifier
func ParseWeekday(s string) (Weekday, error) {
	for _, w := range weekdays {
		if string(w) == s {
			return w, nil
		}
	}
	return "", fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, s)
}
