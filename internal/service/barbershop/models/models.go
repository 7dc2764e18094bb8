package models

import (
	"time"

	"github.com/m04kA/SMC-BarberBookingService/internal/domain"
	"github.com/m04kA/SMC-BarberBookingService/pkg/types"
)

// Request модели

// UpdateConfigRequest запрос на изменение настроек барбершопа.
// Все поля опциональны - обновляются только переданные значения.
// Если барбершопа еще нет, недостающие значения берутся по умолчанию.
type UpdateConfigRequest struct {
	IsStaff bool `json:"-"`

	Name                    *string  `json:"name,omitempty"`
	Address                 *string  `json:"address,omitempty"`
	Phone                   *string  `json:"phone,omitempty"`
	Email                   *string  `json:"email,omitempty"`
	OpeningTime             *string  `json:"openingTime,omitempty"`             // "08:00"
	ClosingTime             *string  `json:"closingTime,omitempty"`             // "18:00"
	OperatingDays           []string `json:"operatingDays,omitempty"`           // ["segunda", "terça", ...]
	SlotIntervalMinutes     *int     `json:"slotIntervalMinutes,omitempty"`     // 15, 30, 45, 60
	MinLeadHours            *int     `json:"minLeadHours,omitempty"`            // 0..48
	MaxLeadDays             *int     `json:"maxLeadDays,omitempty"`             // 1..90
	AllowsCancellation      *bool    `json:"allowsCancellation,omitempty"`      //
	CancellationCutoffHours *int     `json:"cancellationCutoffHours,omitempty"` // 0..48
	Timezone                *string  `json:"timezone,omitempty"`                // IANA
}

// ApplyToConfig применяет обновления к настройкам.
// Время нормализуется к HH:MM; неразбираемое значение остается как есть и отклоняется при валидации.
func (r *UpdateConfigRequest) ApplyToConfig(cfg *domain.BarbershopConfig) {
	if r.Name != nil {
		cfg.Name = *r.Name
	}
	if r.Address != nil {
		cfg.Address = *r.Address
	}
	if r.Phone != nil {
		cfg.Phone = *r.Phone
	}
	if r.Email != nil {
		cfg.Email = *r.Email
	}
	if r.OpeningTime != nil {
		cfg.OpeningTime = normalizeTime(*r.OpeningTime)
	}
	if r.ClosingTime != nil {
		cfg.ClosingTime = normalizeTime(*r.ClosingTime)
	}
	if r.OperatingDays != nil {
		cfg.OperatingDays = make([]domain.Weekday, 0, len(r.OperatingDays))
		for _, d := range r.OperatingDays {
			cfg.OperatingDays = append(cfg.OperatingDays, domain.Weekday(d))
		}
	}
	if r.SlotIntervalMinutes != nil {
		cfg.SlotIntervalMinutes = *r.SlotIntervalMinutes
	}
	if r.MinLeadHours != nil {
		cfg.MinLeadHours = *r.MinLeadHours
	}
	if r.MaxLeadDays != nil {
		cfg.MaxLeadDays = *r.MaxLeadDays
	}
	if r.AllowsCancellation != nil {
		cfg.AllowsCancellation = *r.AllowsCancellation
	}
	if r.CancellationCutoffHours != nil {
		cfg.CancellationCutoffHours = *r.CancellationCutoffHours
	}
	if r.Timezone != nil {
		cfg.Timezone = *r.Timezone
	}
}

func normalizeTime(s string) types.TimeString {
	if t, err := types.NewTimeStringFromString(s); err == nil {
		return t
	}
	return types.TimeString(s)
}

// Response модели

// ConfigResponse ответ с настройками барбершопа
type ConfigResponse struct {
	Contribuinte            string    `json:"contribuinte"`
	Name                    string    `json:"name"`
	Address                 string    `json:"address"`
	Phone                   string    `json:"phone"`
	Email                   string    `json:"email"`
	OpeningTime             string    `json:"openingTime"`
	ClosingTime             string    `json:"closingTime"`
	OperatingDays           []string  `json:"operatingDays"`
	SlotIntervalMinutes     int       `json:"slotIntervalMinutes"`
	MinLeadHours            int       `json:"minLeadHours"`
	MaxLeadDays             int       `json:"maxLeadDays"`
	AllowsCancellation      bool      `json:"allowsCancellation"`
	CancellationCutoffHours int       `json:"cancellationCutoffHours"`
	Timezone                string    `json:"timezone"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.BarbershopConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	days := make([]string, 0, len(c.OperatingDays))
	for _, d := range c.OperatingDays {
		days = append(days, string(d))
	}

	return &ConfigResponse{
		Contribuinte:            c.Contribuinte,
		Name:                    c.Name,
		Address:                 c.Address,
		Phone:                   c.Phone,
		Email:                   c.Email,
		OpeningTime:             c.OpeningTime.String(),
		ClosingTime:             c.ClosingTime.String(),
		OperatingDays:           days,
		SlotIntervalMinutes:     c.SlotIntervalMinutes,
		MinLeadHours:            c.MinLeadHours,
		MaxLeadDays:             c.MaxLeadDays,
		AllowsCancellation:      c.AllowsCancellation,
		CancellationCutoffHours: c.CancellationCutoffHours,
		Timezone:                c.Timezone,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
}
