package store

import (
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	// Use in-memory database for testing
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	testData := []Place{
		{Name: "Singapore", Country: "SG", Latitude: 1.3521, Longitude: 103.8198},
		{Name: "Singaraja", State: "Bali", Country: "ID", Latitude: -8.112, Longitude: 115.088},
		{Name: "San Francisco", State: "CA", Country: "US", Latitude: 37.7749, Longitude: -122.4194},
		{Name: "San Diego", State: "CA", Country: "US", Latitude: 32.7157, Longitude: -117.1611},
		{Name: "Paris", Country: "FR", Latitude: 48.8566, Longitude: 2.3522},
	}
	if err := s.InsertPlaces(testData); err != nil {
		t.Fatalf("Failed to insert test data: %v", err)
	}

	return s
}

func TestSearchPlaces(t *testing.T) {
	s := setupTestStore(t)

	tests := []struct {
		name       string
		query      string
		limit      int
		minResults int
		maxResults int
	}{
		{"prefix match", "Sin", 5, 2, 2},
		{"case insensitive", "sin", 5, 2, 2},
		{"full name", "Singapore", 5, 1, 1},
		{"multi-word", "San Fran", 5, 1, 1},
		{"empty query", "", 5, 0, 0},
		{"whitespace only", "   ", 5, 0, 0},
		{"limit applies", "S", 2, 2, 2},
		{"percent is literal", "S%", 5, 0, 0},
		{"underscore is literal", "S_n", 5, 0, 0},
		{"no results", "xyz123notfound", 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			places, err := s.SearchPlaces(tt.query, tt.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(places) < tt.minResults || len(places) > tt.maxResults {
				t.Errorf("expected %d-%d results, got %d", tt.minResults, tt.maxResults, len(places))
			}
		})
	}
}

func TestSearchPlaces_Fields(t *testing.T) {
	s := setupTestStore(t)

	places, err := s.SearchPlaces("Singaraja", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("expected 1 result, got %d", len(places))
	}

	p := places[0]
	if p.Name != "Singaraja" || p.State != "Bali" || p.Country != "ID" {
		t.Errorf("unexpected place: %+v", p)
	}
	if p.Latitude != -8.112 || p.Longitude != 115.088 {
		t.Errorf("unexpected coordinates: %v, %v", p.Latitude, p.Longitude)
	}
}

func TestTheme_DefaultsToLight(t *testing.T) {
	s := setupTestStore(t)

	theme, err := s.Theme("unknown-visitor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if theme != ThemeLight {
		t.Errorf("expected default %q, got %q", ThemeLight, theme)
	}
}

func TestSetTheme_RoundTrip(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SetTheme("visitor-1", ThemeDark); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	theme, err := s.Theme("visitor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if theme != ThemeDark {
		t.Errorf("expected %q, got %q", ThemeDark, theme)
	}

	// Flipping back overwrites rather than duplicating.
	if err := s.SetTheme("visitor-1", ThemeLight); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	theme, err = s.Theme("visitor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if theme != ThemeLight {
		t.Errorf("expected %q, got %q", ThemeLight, theme)
	}
}

func TestSetTheme_RejectsUnknownValue(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SetTheme("visitor-1", "sepia"); err == nil {
		t.Fatal("expected error for unknown theme, got nil")
	}
}

// The persisted theme must survive a close-and-reopen cycle, the durable
// storage equivalent of a page reload.
func TestTheme_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := s.SetTheme("visitor-1", ThemeDark); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error on close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer reopened.Close()

	theme, err := reopened.Theme("visitor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if theme != ThemeDark {
		t.Errorf("expected persisted %q, got %q", ThemeDark, theme)
	}
}
