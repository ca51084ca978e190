package dashboard

import (
	"context"
	"log"
	"sync"

	"github.com/cityscope/cityscope/internal/news"
	"github.com/cityscope/cityscope/internal/weather"
)

// Controller drives full dashboard refreshes. One refresh resolves the
// place (which also yields current conditions, so the weather and map
// panels update from the same response) and then fans out the forecast and
// news fetches as independent goroutines. The panels complete in any
// order; a failure in one never touches another.
type Controller struct {
	state      *State
	weather    *weather.Service
	news       *news.Service
	markerZoom int
}

// NewController creates a controller around shared dashboard state.
func NewController(state *State, wsvc *weather.Service, nsvc *news.Service, markerZoom int) *Controller {
	return &Controller{
		state:      state,
		weather:    wsvc,
		news:       nsvc,
		markerZoom: markerZoom,
	}
}

// State exposes the controller's dashboard state for selection toggles.
func (c *Controller) State() *State {
	return c.state
}

// RefreshByName refreshes the whole dashboard for a free-text query. When
// resolution fails, nothing is applied and the error is returned.
func (c *Controller) RefreshByName(ctx context.Context, query string) (Snapshot, error) {
	place, conditions, err := c.weather.ResolveByName(ctx, query)
	if err != nil {
		return Snapshot{}, err
	}
	return c.refresh(ctx, place, conditions), nil
}

// RefreshByCoords refreshes the whole dashboard for a coordinate pair
// (geolocation or an autocomplete pick).
func (c *Controller) RefreshByCoords(ctx context.Context, lat, lon float64) (Snapshot, error) {
	place, conditions, err := c.weather.ResolveByCoords(ctx, lat, lon)
	if err != nil {
		return Snapshot{}, err
	}
	return c.refresh(ctx, place, conditions), nil
}

func (c *Controller) refresh(ctx context.Context, place weather.Place, conditions weather.CurrentConditions) Snapshot {
	gen := c.state.BeginRefresh()
	if !c.state.ApplyResolved(gen, place, conditions, c.markerZoom) {
		// A newer refresh already started; report its state.
		return c.state.Snapshot()
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		hourly, daily, err := c.weather.Forecast(ctx, place.Latitude, place.Longitude)
		if err != nil {
			log.Printf("forecast refresh failed for %s: %v", place.Name, err)
			c.state.ApplyForecastError(gen)
			return
		}
		if !c.state.ApplyForecast(gen, hourly, daily) {
			log.Printf("discarding stale forecast for %s (generation %d)", place.Name, gen)
		}
	}()

	go func() {
		defer wg.Done()
		view := c.news.Headlines(ctx, place.Name)
		if !c.state.ApplyNews(gen, view) {
			log.Printf("discarding stale news for %s (generation %d)", place.Name, gen)
		}
	}()

	wg.Wait()
	return c.state.Snapshot()
}
