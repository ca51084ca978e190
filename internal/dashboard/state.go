// Package dashboard owns the state behind the city dashboard: the active
// place, its conditions, the bucketed forecast with its single selected
// slot, the news panel view, and the map viewport. All previously free-
// floating pieces live in one State so the unordered completion of panel
// refreshes stays inspectable.
package dashboard

import (
	"fmt"
	"sync"

	"github.com/cityscope/cityscope/internal/news"
	"github.com/cityscope/cityscope/internal/weather"
)

// Fixed user-facing panel messages.
const (
	LocationErrorMessage = "Location not found. Please try again."
	ForecastErrorMessage = "Could not load forecast."
)

// WeatherView is the rendered weather panel.
type WeatherView struct {
	Temperature string `json:"temperature"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	Label       string `json:"label,omitempty"`
}

// SlotView is one clickable forecast tile.
type SlotView struct {
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Temperature string `json:"temperature"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	Selected    bool   `json:"selected"`
}

// ForecastView is the rendered forecast panel.
type ForecastView struct {
	Hourly []SlotView `json:"hourly,omitempty"`
	Daily  []SlotView `json:"daily,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// Snapshot is one consistent read of the whole dashboard.
type Snapshot struct {
	Generation uint64         `json:"generation"`
	Location   string         `json:"location"`
	Place      *weather.Place `json:"place,omitempty"`
	Weather    WeatherView    `json:"weather"`
	Forecast   ForecastView   `json:"forecast"`
	News       news.View      `json:"news"`
	Map        MapView        `json:"map"`
}

// State holds the dashboard's mutable state. A generation counter guards
// against stale panel completions: each refresh takes a new generation,
// and a completed fetch is applied only if its generation is still
// current.
type State struct {
	mu         sync.Mutex
	generation uint64

	place       *weather.Place
	current     *weather.CurrentConditions
	hourly      []weather.ForecastSlot
	daily       []weather.ForecastSlot
	forecastErr string
	selected    int
	newsView    news.View
	mapView     MapView
}

// NewState returns an empty dashboard state with no slot selected.
func NewState() *State {
	return &State{selected: -1}
}

// BeginRefresh starts a new refresh generation and returns it.
func (s *State) BeginRefresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// Generation returns the current refresh generation.
func (s *State) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// ApplyResolved installs a freshly resolved place and its conditions,
// clears any forecast selection, and recenters the map with a marker
// summarizing the conditions. Returns false if gen is stale.
func (s *State) ApplyResolved(gen uint64, place weather.Place, conditions weather.CurrentConditions, zoom int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}

	s.place = &place
	s.current = &conditions
	s.selected = -1
	s.hourly = nil
	s.daily = nil
	s.forecastErr = ""
	s.newsView = news.View{}

	s.mapView.Recenter(place.Latitude, place.Longitude, zoom)
	s.mapView.SetMarker(place.Latitude, place.Longitude,
		fmt.Sprintf("%s: %s, %s", place.Name, FormatTemperature(conditions.TemperatureCelsius), conditions.Description))
	return true
}

// ApplyForecast installs the bucketed forecast sequences. Returns false if
// gen is stale.
func (s *State) ApplyForecast(gen uint64, hourly, daily []weather.ForecastSlot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.hourly = hourly
	s.daily = daily
	s.forecastErr = ""
	return true
}

// ApplyForecastError marks the forecast panel failed. Returns false if gen
// is stale.
func (s *State) ApplyForecastError(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.hourly = nil
	s.daily = nil
	s.forecastErr = ForecastErrorMessage
	return true
}

// ApplyNews installs the news panel view. Returns false if gen is stale.
func (s *State) ApplyNews(gen uint64, view news.View) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.newsView = view
	return true
}

// ToggleSlot selects or deselects one forecast slot. Slots are indexed
// across both sequences: hourly first, then daily. Selecting an unselected
// slot clears any other selection; selecting the already-selected slot
// clears it and the weather panel reverts to the last fetched conditions.
// Returns the weather panel view after the toggle and whether the index
// was valid.
func (s *State) ToggleSlot(index int) (WeatherView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.hourly)+len(s.daily) {
		return s.weatherViewLocked(), false
	}

	if s.selected == index {
		s.selected = -1
	} else {
		s.selected = index
	}
	return s.weatherViewLocked(), true
}

// Snapshot returns a consistent copy of the whole dashboard.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Generation: s.generation,
		Weather:    s.weatherViewLocked(),
		Forecast:   s.forecastViewLocked(),
		News:       s.newsView,
		Map:        s.mapView,
	}
	if s.place != nil {
		place := *s.place
		snap.Place = &place
		snap.Location = fmt.Sprintf("%s, %s", place.Name, place.CountryCode)
	}
	return snap
}

func (s *State) weatherViewLocked() WeatherView {
	if slot, ok := s.selectedSlotLocked(); ok {
		return WeatherView{
			Temperature: FormatTemperature(slot.TemperatureCelsius),
			Description: slot.Description,
			IconURL:     weather.IconURL(slot.IconID),
			Label:       fmt.Sprintf("(Forecast: %s)", slot.Label()),
		}
	}
	if s.current == nil {
		return WeatherView{}
	}
	return WeatherView{
		Temperature: FormatTemperature(s.current.TemperatureCelsius),
		Description: s.current.Description,
		IconURL:     weather.IconURL(s.current.IconID),
	}
}

func (s *State) selectedSlotLocked() (weather.ForecastSlot, bool) {
	if s.selected < 0 {
		return weather.ForecastSlot{}, false
	}
	if s.selected < len(s.hourly) {
		return s.hourly[s.selected], true
	}
	if i := s.selected - len(s.hourly); i < len(s.daily) {
		return s.daily[i], true
	}
	return weather.ForecastSlot{}, false
}

func (s *State) forecastViewLocked() ForecastView {
	if s.forecastErr != "" {
		return ForecastView{Error: s.forecastErr}
	}

	view := ForecastView{}
	for i, slot := range s.hourly {
		view.Hourly = append(view.Hourly, s.slotViewLocked(i, slot))
	}
	for i, slot := range s.daily {
		view.Daily = append(view.Daily, s.slotViewLocked(len(s.hourly)+i, slot))
	}
	return view
}

func (s *State) slotViewLocked(index int, slot weather.ForecastSlot) SlotView {
	return SlotView{
		Index:       index,
		Label:       slot.Label(),
		Temperature: FormatTemperature(slot.TemperatureCelsius),
		Description: slot.Description,
		IconURL:     weather.IconURL(slot.IconID),
		Selected:    index == s.selected,
	}
}

// FormatTemperature renders a temperature to one decimal place with the
// metric suffix.
func FormatTemperature(celsius float64) string {
	return fmt.Sprintf("%.1f°C", celsius)
}
