package models

import "time"

// Impact is the scheduled importance level of a calendar event.
type Impact string

const (
	ImpactHigh   Impact = "HIGH"
	ImpactMedium Impact = "MEDIUM"
	ImpactLow    Impact = "LOW"
)

// Rank orders impact levels so HIGH > MEDIUM > LOW for comparisons.
func (i Impact) Rank() int {
	switch i {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	default:
		return 1
	}
}

// CalendarEvent is one scheduled economic release. Supplied by the event
// store; read-only to the analysis core.
type CalendarEvent struct {
	ID          int64     `json:"id"`
	Currency    string    `json:"currency"`
	EventTime   time.Time `json:"event_time"` // UTC
	Impact      Impact    `json:"impact"`
	Description string    `json:"description"`
	Actual      *float64  `json:"actual,omitempty"`
	Forecast    *float64  `json:"forecast,omitempty"`
	Previous    *float64  `json:"previous,omitempty"`
}

// CurrencyToCountry maps an ISO currency code to its reporting country.
func CurrencyToCountry(currency string) string {
	switch currency {
	case "USD":
		return "United States"
	case "EUR":
		return "Eurozone"
	case "GBP":
		return "United Kingdom"
	case "JPY":
		return "Japan"
	case "CHF":
		return "Switzerland"
	case "CAD":
		return "Canada"
	case "AUD":
		return "Australia"
	case "NZD":
		return "New Zealand"
	case "CNY":
		return "China"
	case "INR":
		return "India"
	case "ZAR":
		return "South Africa"
	case "MXN":
		return "Mexico"
	default:
		return "Unknown"
	}
}
