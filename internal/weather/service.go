package weather

import (
	"context"
	"time"
)

// Service resolves places and shapes forecast data for the dashboard.
type Service struct {
	client *Client
}

// NewService creates a weather service around a client.
func NewService(client *Client) *Service {
	return &Service{client: client}
}

// ResolveByName resolves a free-text query into a Place and its current
// conditions in one upstream call. Either both values are produced or the
// resolution fails and no panel update should be attempted.
func (s *Service) ResolveByName(ctx context.Context, query string) (Place, CurrentConditions, error) {
	cr, err := s.client.CurrentByName(ctx, query)
	if err != nil {
		return Place{}, CurrentConditions{}, err
	}
	return fromConditions(cr)
}

// ResolveByCoords resolves a coordinate pair the same way. Symmetric
// contract with ResolveByName; used by geolocation and suggestion picks.
func (s *Service) ResolveByCoords(ctx context.Context, lat, lon float64) (Place, CurrentConditions, error) {
	cr, err := s.client.CurrentByCoords(ctx, lat, lon)
	if err != nil {
		return Place{}, CurrentConditions{}, err
	}
	return fromConditions(cr)
}

func fromConditions(cr *ConditionsResponse) (Place, CurrentConditions, error) {
	if len(cr.Weather) == 0 {
		return Place{}, CurrentConditions{}, ErrLocationNotFound
	}
	place := Place{
		Name:        cr.Name,
		CountryCode: cr.Sys.Country,
		Latitude:    cr.Coord.Lat,
		Longitude:   cr.Coord.Lon,
	}
	conditions := CurrentConditions{
		TemperatureCelsius: cr.Main.Temp,
		Description:        cr.Weather[0].Description,
		IconID:             cr.Weather[0].Icon,
	}
	return place, conditions, nil
}

// Forecast fetches and buckets the forecast series for a place.
func (s *Service) Forecast(ctx context.Context, lat, lon float64) (hourly, daily []ForecastSlot, err error) {
	fr, err := s.client.Forecast(ctx, lat, lon)
	if err != nil {
		return nil, nil, err
	}
	hourly, daily = BucketForecast(fr.List)
	return hourly, daily, nil
}

// BucketForecast splits a raw 3-hour series into the two dashboard
// sequences: the first 8 samples cover the next 24 hours, and every 8th
// sample starting at index 7 approximates one entry per day.
func BucketForecast(samples []ForecastSample) (hourly, daily []ForecastSlot) {
	for i, sample := range samples {
		if i >= 8 {
			break
		}
		hourly = append(hourly, toSlot(sample, Hourly))
	}
	for i := 7; i < len(samples); i += 8 {
		daily = append(daily, toSlot(samples[i], Daily))
	}
	return hourly, daily
}

func toSlot(sample ForecastSample, kind SlotKind) ForecastSlot {
	slot := ForecastSlot{
		Timestamp:          time.Unix(sample.Dt, 0),
		TemperatureCelsius: sample.Main.Temp,
		Kind:               kind,
	}
	if len(sample.Weather) > 0 {
		slot.Description = sample.Weather[0].Description
		slot.IconID = sample.Weather[0].Icon
	}
	return slot
}
