package domain

// Default barbershop configuration values
const (
	DefaultOpeningTime             = "08:00"
	DefaultClosingTime             = "18:00"
	DefaultSlotIntervalMinutes     = 30
	DefaultMinLeadHours            = 1
	DefaultMaxLeadDays             = 30
	DefaultAllowsCancellation      = true
	DefaultCancellationCutoffHours = 2
	DefaultTimezone                = "America/Sao_Paulo"
)

// Business validation constants
const (
	MaxMinLeadHours             = 48
	MinMaxLeadDays              = 1
	MaxMaxLeadDays              = 90
	MaxCancellationCutoffHours  = 48
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxServicesPerAppointment   = 10
	MaxContribuinteDigits       = 9

	// AllEmployeesID "Todos os funcionários" filter sentinel, never bookable
	AllEmployeesID = "0"
)

// AllowedSlotIntervals допустимые шаги сетки слотов в минутах
var AllowedSlotIntervals = []int{15, 30, 45, 60}

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Appointment field names used in validation errors
const (
	FieldClientID   = "clientId"
	FieldEmployeeID = "employeeId"
	FieldServiceIDs = "serviceIds"
	FieldDate       = "date"
	FieldStartTime  = "startTime"
	FieldNotes      = "notes"
)
