package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/cityscope/cityscope/internal/config"
	"github.com/cityscope/cityscope/internal/dashboard"
	"github.com/cityscope/cityscope/internal/geo"
	"github.com/cityscope/cityscope/internal/handlers"
	"github.com/cityscope/cityscope/internal/news"
	"github.com/cityscope/cityscope/internal/store"
	"github.com/cityscope/cityscope/internal/weather"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	configFile := flag.String("config", "cityscope.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open the local store; the dashboard works without it, minus
	// persisted themes and the offline autocomplete fallback.
	var db *store.Store
	db, err = store.Open(cfg.Server.DatabasePath)
	if err != nil {
		log.Printf("Warning: Database connection failed: %v", err)
		log.Println("Continuing without database connection...")
		db = nil
	} else {
		defer db.Close()
		log.Println("Database connected successfully")
	}

	weatherKey := os.Getenv("OPENWEATHER_KEY")
	if weatherKey == "" {
		log.Fatal("OPENWEATHER_KEY is required")
	}
	newsKey := os.Getenv("GNEWS_KEY")
	if newsKey == "" {
		log.Println("Warning: GNEWS_KEY not set; news panel will show demo headlines")
	}

	weatherClient := weather.NewClient(weatherKey, cfg.Weather.BaseURL,
		cfg.Weather.RequestsPerSecond, cfg.Weather.Burst)
	geoClient := geo.NewClient(weatherKey, cfg.Geocoding.BaseURL,
		cfg.Geocoding.RequestsPerSecond, cfg.Geocoding.Burst)
	newsClient := news.NewClient(newsKey, cfg.News.BaseURL,
		cfg.News.RequestsPerSecond, cfg.News.Burst)

	weatherService := weather.NewService(weatherClient)
	newsService := news.NewService(newsClient, cfg.News.MaxArticles)

	state := dashboard.NewState()
	controller := dashboard.NewController(state, weatherService, newsService, cfg.Dashboard.MarkerZoom)

	// Setup routes
	mux := http.NewServeMux()

	// Serve static files
	fs := http.FileServer(http.Dir("static"))
	mux.Handle("/static/", http.StripPrefix("/static/", fs))

	var database handlers.Database
	if db != nil {
		database = db
	}
	h := handlers.New(database, controller, geoClient, cfg.Dashboard.DefaultCity)
	mux.HandleFunc("/", h.HandleIndex)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/api/dashboard", h.HandleDashboard)
	mux.HandleFunc("/api/suggest", h.HandleSuggest)
	mux.HandleFunc("/api/forecast/select", h.HandleSelectSlot)
	mux.HandleFunc("/api/theme", h.HandleTheme)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server starting on http://localhost%s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}
