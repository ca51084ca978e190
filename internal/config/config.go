// Package config loads the dashboard configuration: a YAML file for
// non-secret settings with environment variables layered on top.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full dashboard configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Weather   UpstreamConfig  `yaml:"weather"`
	Geocoding UpstreamConfig  `yaml:"geocoding"`
	News      NewsConfig      `yaml:"news"`
}

type ServerConfig struct {
	Port         string `yaml:"port"`
	DatabasePath string `yaml:"database_path"`
}

type DashboardConfig struct {
	DefaultCity string `yaml:"default_city"`
	MapZoom     int    `yaml:"map_zoom"`
	MarkerZoom  int    `yaml:"marker_zoom"`
}

// UpstreamConfig describes one upstream JSON API.
type UpstreamConfig struct {
	BaseURL           string  `yaml:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type NewsConfig struct {
	UpstreamConfig `yaml:",inline"`
	MaxArticles    int `yaml:"max_articles"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			DatabasePath: "cityscope.db",
		},
		Dashboard: DashboardConfig{
			DefaultCity: "Singapore",
			MapZoom:     10,
			MarkerZoom:  12,
		},
		Weather: UpstreamConfig{
			BaseURL:           "https://api.openweathermap.org/data/2.5",
			RequestsPerSecond: 1.0,
			Burst:             5,
		},
		Geocoding: UpstreamConfig{
			BaseURL:           "https://api.openweathermap.org/geo/1.0",
			RequestsPerSecond: 1.0,
			Burst:             5,
		},
		News: NewsConfig{
			UpstreamConfig: UpstreamConfig{
				BaseURL:           "https://gnews.io/api/v4",
				RequestsPerSecond: 0.5,
				Burst:             2,
			},
			MaxArticles: 5,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing path is not
// an error; the defaults are returned. Environment variables override the
// file: PORT and CITYSCOPE_DB.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("CITYSCOPE_DB"); dbPath != "" {
		cfg.Server.DatabasePath = dbPath
	}

	return cfg, nil
}
