package weather

import "time"

// Place is a resolved location. All four fields come from a single
// conditions lookup, so a Place is never partially constructed.
type Place struct {
	Name        string  `json:"name"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// CurrentConditions is the last known weather for a Place.
type CurrentConditions struct {
	TemperatureCelsius float64 `json:"temperature_celsius"`
	Description        string  `json:"description"`
	IconID             string  `json:"icon_id"`
}

// SlotKind distinguishes the two forecast sequences.
type SlotKind string

const (
	Hourly SlotKind = "hourly"
	Daily  SlotKind = "daily"
)

// ForecastSlot is one rendered forecast entry derived from a 3-hour sample.
type ForecastSlot struct {
	Timestamp          time.Time `json:"timestamp"`
	TemperatureCelsius float64   `json:"temperature_celsius"`
	Description        string    `json:"description"`
	IconID             string    `json:"icon_id"`
	Kind               SlotKind  `json:"kind"`
}

// Label formats the slot's time the way the dashboard shows it: hour with
// meridiem for hourly slots ("3 PM"), abbreviated weekday for daily ("Tue").
func (s ForecastSlot) Label() string {
	if s.Kind == Daily {
		return s.Timestamp.Format("Mon")
	}
	return s.Timestamp.Format("3 PM")
}

// IconURL returns the provider's image URL for an icon code.
func IconURL(iconID string) string {
	return "https://openweathermap.org/img/wn/" + iconID + "@2x.png"
}
