package domain

// Значения по умолчанию
const (
	DefaultSlotDurationMinutes = 60 // длительность класса, если бэкенд её не прислал
	DefaultCutoffMinutes       = 0
	DefaultRefreshInterval     = 60 // секунды
	DefaultCreditPeriodDays    = 30 // период кредитов, если не указана дата активации
	MaxDisplayedCredits        = 9999
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
