package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cityscope/cityscope/internal/dashboard"
	"github.com/cityscope/cityscope/internal/geo"
	"github.com/cityscope/cityscope/internal/store"
	"github.com/cityscope/cityscope/internal/weather"
)

const visitorCookie = "cityscope_visitor"

// Database defines the store operations the handlers need.
type Database interface {
	SearchPlaces(query string, limit int) ([]store.Place, error)
	Theme(visitorID string) (string, error)
	SetTheme(visitorID, theme string) error
	Ping() error
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db          Database
	controller  *dashboard.Controller
	geo         *geo.Client
	templates   *template.Template
	defaultCity string
}

// New creates a new Handlers instance.
func New(db Database, controller *dashboard.Controller, geoClient *geo.Client, defaultCity string) *Handlers {
	tmpl, err := template.ParseGlob("templates/*.html")
	if err != nil {
		log.Printf("Warning: Failed to parse templates: %v", err)
	}

	return &Handlers{
		db:          db,
		controller:  controller,
		geo:         geoClient,
		templates:   tmpl,
		defaultCity: defaultCity,
	}
}

// indexData feeds the page template.
type indexData struct {
	Theme       string
	DefaultCity string
	Date        string
}

// HandleIndex serves the dashboard page with the visitor's persisted theme
// applied to the body before first paint.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	theme := store.ThemeLight
	if h.db != nil {
		if saved, err := h.db.Theme(h.visitorID(w, r)); err != nil {
			log.Printf("theme lookup error: %v", err)
		} else {
			theme = saved
		}
	}

	data := indexData{
		Theme:       theme,
		DefaultCity: h.defaultCity,
		Date:        time.Now().Format("Monday, January 2, 2006"),
	}

	if h.templates != nil {
		if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
			log.Printf("Error executing template: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>cityscope</title></head>
<body class="%s-mode">
	<h1>cityscope</h1>
	<p>City dashboard - templates not loaded</p>
</body>
</html>`, template.HTMLEscapeString(data.Theme))
}

// HandleHealth handles the health check endpoint.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ok"
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status = "degraded"
		}
	} else {
		status = "no_database"
	}

	w.Write([]byte(`{"status":"` + status + `"}`))
}

// HandleDashboard refreshes the whole dashboard for either a free-text
// query (?q=) or a coordinate pair (?lat=&lon=) and returns the combined
// panel snapshot. A failed resolution updates nothing.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")

	var snap dashboard.Snapshot
	var err error

	switch {
	case query != "":
		snap, err = h.controller.RefreshByName(r.Context(), query)
	case latStr != "" && lonStr != "":
		var lat, lon float64
		if _, convErr := fmt.Sscanf(latStr, "%f", &lat); convErr != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid latitude")
			return
		}
		if _, convErr := fmt.Sscanf(lonStr, "%f", &lon); convErr != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid longitude")
			return
		}
		snap, err = h.controller.RefreshByCoords(r.Context(), lat, lon)
	default:
		writeJSONError(w, http.StatusBadRequest, "Please provide a location")
		return
	}

	if err != nil {
		log.Printf("dashboard refresh error: %v", err)
		if errors.Is(err, weather.ErrLocationNotFound) {
			writeJSONError(w, http.StatusNotFound, dashboard.LocationErrorMessage)
			return
		}
		writeJSONError(w, http.StatusInternalServerError, dashboard.LocationErrorMessage)
		return
	}

	writeJSON(w, snap)
}

// HandleSuggest performs location autocomplete. Queries under the minimum
// length return an empty list without an upstream call, and a failed
// lookup degrades to an empty list rather than an error.
func (h *Handlers) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(q) < geo.MinQueryLen {
		writeJSON(w, []geo.Suggestion{})
		return
	}

	var suggestions []geo.Suggestion
	if h.geo.Configured() {
		var err error
		suggestions, err = h.geo.Suggest(r.Context(), q)
		if err != nil {
			log.Printf("suggestions error: %v", err)
			writeJSON(w, []geo.Suggestion{})
			return
		}
	} else if h.db != nil {
		places, err := h.db.SearchPlaces(q, geo.MaxSuggestions)
		if err != nil {
			log.Printf("place search error: %v", err)
			writeJSON(w, []geo.Suggestion{})
			return
		}
		for _, p := range places {
			suggestions = append(suggestions, geo.Suggestion{
				Name:    p.Name,
				State:   p.State,
				Country: p.Country,
				Lat:     p.Latitude,
				Lon:     p.Longitude,
			})
		}
	}

	if suggestions == nil {
		suggestions = []geo.Suggestion{}
	}
	writeJSON(w, suggestions)
}

// HandleSelectSlot toggles a forecast slot selection and returns the
// weather panel view after the toggle.
func (h *Handlers) HandleSelectSlot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	index, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid slot index")
		return
	}

	view, ok := h.controller.State().ToggleSlot(index)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Unknown slot index")
		return
	}
	writeJSON(w, view)
}

// HandleTheme persists the visitor's theme preference.
func (h *Handlers) HandleTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	theme := r.FormValue("theme")
	if theme != store.ThemeLight && theme != store.ThemeDark {
		writeJSONError(w, http.StatusBadRequest, "Unknown theme")
		return
	}

	if h.db != nil {
		if err := h.db.SetTheme(h.visitorID(w, r), theme); err != nil {
			log.Printf("theme save error: %v", err)
			writeJSONError(w, http.StatusInternalServerError, "Failed to save theme")
			return
		}
	}
	writeJSON(w, map[string]string{"theme": theme})
}

// visitorID returns the visitor cookie, minting one when absent.
func (h *Handlers) visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(visitorCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
	})
	return id
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("JSON encode error: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
