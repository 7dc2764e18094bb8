package domain

import (
	"fmt"
	"regexp"
	"slices"
	"time"
	_ "time/tzdata"

	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

var contribuintePattern = regexp.MustCompile(`^\d{1,9}$`)

// BarbershopConfig tenant settings: operating hours and booking policy.
// A tenant is identified by its registration number (Contribuinte).
type BarbershopConfig struct {
	Contribuinte string
	Name         string
	Address      string
	Phone        string
	Email        string

	OpeningTime   types.TimeString
	ClosingTime   types.TimeString
	OperatingDays []Weekday

	SlotIntervalMinutes     int
	MinLeadHours            int
	MaxLeadDays             int
	AllowsCancellation      bool
	CancellationCutoffHours int
	Timezone                string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDefaultBarbershopConfig returns the settings a freshly registered barbershop starts with
func NewDefaultBarbershopConfig(contribuinte string) *BarbershopConfig {
	return &BarbershopConfig{
		Contribuinte:            contribuinte,
		OpeningTime:             types.TimeString(DefaultOpeningTime),
		ClosingTime:             types.TimeString(DefaultClosingTime),
		OperatingDays:           []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday},
		SlotIntervalMinutes:     DefaultSlotIntervalMinutes,
		MinLeadHours:            DefaultMinLeadHours,
		MaxLeadDays:             DefaultMaxLeadDays,
		AllowsCancellation:      DefaultAllowsCancellation,
		CancellationCutoffHours: DefaultCancellationCutoffHours,
		Timezone:                DefaultTimezone,
	}
}

// ValidateContribuinte checks the tenant registration number format (1 to 9 digits)
func ValidateContribuinte(contribuinte string) error {
	if !contribuintePattern.MatchString(contribuinte) {
		return fmt.Errorf("%w: contribuinte must have 1 to %d digits", ErrInvalidInput, MaxContribuinteDigits)
	}
	return nil
}

// Validate checks every invariant and reports all violations at once
func (c *BarbershopConfig) Validate() error {
	var reasons []string

	if err := ValidateContribuinte(c.Contribuinte); err != nil {
		reasons = append(reasons, "contribuinte must have 1 to 9 digits")
	}

	openErr := c.OpeningTime.Validate()
	closeErr := c.ClosingTime.Validate()
	if openErr != nil {
		reasons = append(reasons, fmt.Sprintf("invalid opening time %q", c.OpeningTime))
	}
	if closeErr != nil {
		reasons = append(reasons, fmt.Sprintf("invalid closing time %q", c.ClosingTime))
	}
	if openErr == nil && closeErr == nil && !c.OpeningTime.IsBefore(c.ClosingTime) {
		reasons = append(reasons, "opening time must be before closing time")
	}

	if len(c.OperatingDays) == 0 {
		reasons = append(reasons, "at least one operating day is required")
	}
	for _, d := range c.OperatingDays {
		if _, err := ParseWeekday(string(d)); err != nil {
			reasons = append(reasons, fmt.Sprintf("unknown operating day %q", d))
		}
	}

	if !slices.Contains(AllowedSlotIntervals, c.SlotIntervalMinutes) {
		reasons = append(reasons, fmt.Sprintf("slot interval must be one of %v minutes", AllowedSlotIntervals))
	}
	if c.MinLeadHours < 0 || c.MinLeadHours > MaxMinLeadHours {
		reasons = append(reasons, fmt.Sprintf("minimum lead must be between 0 and %d hours", MaxMinLeadHours))
	}
	if c.MaxLeadDays < MinMaxLeadDays || c.MaxLeadDays > MaxMaxLeadDays {
		reasons = append(reasons, fmt.Sprintf("maximum lead must be between %d and %d days", MinMaxLeadDays, MaxMaxLeadDays))
	}
	if c.CancellationCutoffHours < 0 || c.CancellationCutoffHours > MaxCancellationCutoffHours {
		reasons = append(reasons, fmt.Sprintf("cancellation cutoff must be between 0 and %d hours", MaxCancellationCutoffHours))
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			reasons = append(reasons, fmt.Sprintf("unknown timezone %q", c.Timezone))
		}
	}

	if len(reasons) > 0 {
		return &ConfigurationError{Reasons: reasons}
	}
	return nil
}

// IsOperatingDay reports whether the barbershop opens on the given weekday
func (c *BarbershopConfig) IsOperatingDay(day Weekday) bool {
	return slices.Contains(c.OperatingDays, day)
}

// Location returns the barbershop timezone, falling back to DefaultTimezone and then UTC
func (c *BarbershopConfig) Location() *time.Location {
	for _, tz := range []string{c.Timezone, DefaultTimezone} {
		if tz == "" {
			continue
		}
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}
