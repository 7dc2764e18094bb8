package domain

import "math"

// Service catalog item offered by the barbershop
type Service struct {
	ID              string
	BarbershopID    string
	Name            string
	DurationMinutes int
	Price           float64
	Category        string
	Active          bool
}

// TotalDuration sums the durations of the selected services
func TotalDuration(services []*Service) int {
	total := 0
	for _, s := range services {
		total += s.DurationMinutes
	}
	return total
}

// TotalPrice sums the prices of the selected services rounded to cents
func TotalPrice(services []*Service) float64 {
	total := 0.0
	for _, s := range services {
		total += s.Price
	}
	return math.Round(total*100) / 100
}

// Client customer of the barbershop
type Client struct {
	ID           string
	BarbershopID string
	Name         string
	Email        string
	Phone        string
	Active       bool
}
