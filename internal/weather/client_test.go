package weather

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockRoundTripper is a custom RoundTripper for testing
type mockRoundTripper struct {
	handler http.Handler
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	m.handler.ServeHTTP(rec, req)
	return rec.Result(), nil
}

func newTestClient(handler http.Handler) *Client {
	return &Client{
		APIKey:    "test-key",
		BaseURL:   "https://weather.test/data/2.5",
		UserAgent: "test-agent",
		HTTPClient: &http.Client{
			Transport: &mockRoundTripper{handler: handler},
		},
	}
}

func conditionsBody(name, country string, lat, lon, temp float64, description, icon string) map[string]any {
	return map[string]any{
		"coord": map[string]any{"lat": lat, "lon": lon},
		"name":  name,
		"sys":   map[string]any{"country": country},
		"main":  map[string]any{"temp": temp},
		"weather": []map[string]any{
			{"description": description, "icon": icon},
		},
	}
}

func TestCurrentByName(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "Singapore" {
			t.Errorf("expected q=Singapore, got %s", r.URL.Query().Get("q"))
		}
		if r.URL.Query().Get("units") != "metric" {
			t.Errorf("expected units=metric, got %s", r.URL.Query().Get("units"))
		}
		if r.URL.Query().Get("appid") != "test-key" {
			t.Errorf("expected appid=test-key, got %s", r.URL.Query().Get("appid"))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(conditionsBody("Singapore", "SG", 1.3521, 103.8198, 28.3, "light rain", "10d"))
	})

	client := newTestClient(handler)

	cr, err := client.CurrentByName(context.Background(), "Singapore")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cr.Name != "Singapore" {
		t.Errorf("expected name Singapore, got %q", cr.Name)
	}
	if cr.Sys.Country != "SG" {
		t.Errorf("expected country SG, got %q", cr.Sys.Country)
	}
	if cr.Coord.Lat != 1.3521 || cr.Coord.Lon != 103.8198 {
		t.Errorf("unexpected coordinates: %v, %v", cr.Coord.Lat, cr.Coord.Lon)
	}
	if cr.Main.Temp != 28.3 {
		t.Errorf("expected temp 28.3, got %v", cr.Main.Temp)
	}
	if cr.Weather[0].Icon != "10d" {
		t.Errorf("expected icon 10d, got %q", cr.Weather[0].Icon)
	}
}

func TestCurrentByCoords(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lat") == "" || r.URL.Query().Get("lon") == "" {
			t.Error("expected lat and lon parameters")
		}
		if r.URL.Query().Get("q") != "" {
			t.Errorf("expected no q parameter, got %s", r.URL.Query().Get("q"))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(conditionsBody("Singapore", "SG", 1.3521, 103.8198, 28.3, "light rain", "10d"))
	})

	client := newTestClient(handler)

	cr, err := client.CurrentByCoords(context.Background(), 1.3521, 103.8198)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cr.Name != "Singapore" {
		t.Errorf("expected name Singapore, got %q", cr.Name)
	}
}

func TestCurrentByName_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client := newTestClient(handler)

	_, err := client.CurrentByName(context.Background(), "Nowheresville")
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestCurrentByName_InvalidJSON(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("invalid json {"))
	})

	client := newTestClient(handler)

	_, err := client.CurrentByName(context.Background(), "Singapore")
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestCurrentByName_EmptyWeatherList(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"coord":{"lat":1,"lon":2},"name":"X","sys":{"country":"YY"},"main":{"temp":20},"weather":[]}`))
	})

	client := newTestClient(handler)

	_, err := client.CurrentByName(context.Background(), "X")
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestForecast(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("units") != "metric" {
			t.Errorf("expected units=metric, got %s", r.URL.Query().Get("units"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"list":[
			{"dt":1700000000,"main":{"temp":27.5},"weather":[{"description":"clouds","icon":"03d"}]},
			{"dt":1700010800,"main":{"temp":26.1},"weather":[{"description":"rain","icon":"10n"}]}
		]}`))
	})

	client := newTestClient(handler)

	fr, err := client.Forecast(context.Background(), 1.3521, 103.8198)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fr.List) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(fr.List))
	}
	if fr.List[0].Dt != 1700000000 {
		t.Errorf("expected dt 1700000000, got %d", fr.List[0].Dt)
	}
	if fr.List[1].Weather[0].Icon != "10n" {
		t.Errorf("expected icon 10n, got %q", fr.List[1].Weather[0].Icon)
	}
}

func TestForecast_APIError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := newTestClient(handler)

	_, err := client.Forecast(context.Background(), 1.0, 2.0)
	if !errors.Is(err, ErrForecastUnavailable) {
		t.Fatalf("expected ErrForecastUnavailable, got %v", err)
	}
}
