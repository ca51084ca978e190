// Package store is the embedded sqlite store: a places table seeded by
// cmd/import-geo for local autocomplete, and per-visitor preferences.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ThemeLight and ThemeDark are the two persisted theme values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Place is a locally stored place used for autocomplete suggestions.
type Place struct {
	ID        int64   `db:"id" json:"-"`
	Name      string  `db:"name" json:"name"`
	State     string  `db:"state" json:"state,omitempty"`
	Country   string  `db:"country" json:"country"`
	Latitude  float64 `db:"latitude" json:"lat"`
	Longitude float64 `db:"longitude" json:"lon"`
}

// Store wraps the sqlite connection.
type Store struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the sqlite database at path and ensures
// the schema exists. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS places (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  state TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT '',
  latitude REAL NOT NULL,
  longitude REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_places_name ON places(name);

CREATE TABLE IF NOT EXISTS preferences (
  visitor_id TEXT PRIMARY KEY,
  theme TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the connection for health checks.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// SearchPlaces returns up to limit places whose name starts with the
// query, case-insensitively. Blank queries return no rows.
func (s *Store) SearchPlaces(query string, limit int) ([]Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	var places []Place
	err := s.db.Select(&places,
		`SELECT id, name, state, country, latitude, longitude
		 FROM places
		 WHERE name LIKE ? ESCAPE '\' COLLATE NOCASE
		 ORDER BY name
		 LIMIT ?`,
		likePrefix(query), limit)
	if err != nil {
		return nil, err
	}
	return places, nil
}

// likePrefix escapes LIKE metacharacters so user input matches literally.
func likePrefix(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(query) + "%"
}

// InsertPlaces bulk-inserts places inside one transaction.
func (s *Store) InsertPlaces(places []Place) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO places (name, state, country, latitude, longitude) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range places {
		if _, err := stmt.Exec(p.Name, p.State, p.Country, p.Latitude, p.Longitude); err != nil {
			return fmt.Errorf("insert place %q: %w", p.Name, err)
		}
	}
	return tx.Commit()
}

// Theme returns the persisted theme for a visitor, defaulting to light
// when no preference has been stored.
func (s *Store) Theme(visitorID string) (string, error) {
	var theme string
	err := s.db.Get(&theme, `SELECT theme FROM preferences WHERE visitor_id = ?`, visitorID)
	if errors.Is(err, sql.ErrNoRows) {
		return ThemeLight, nil
	}
	if err != nil {
		return ThemeLight, err
	}
	return theme, nil
}

// SetTheme persists a visitor's theme preference.
func (s *Store) SetTheme(visitorID, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	_, err := s.db.Exec(
		`INSERT INTO preferences (visitor_id, theme, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(visitor_id) DO UPDATE SET theme = excluded.theme, updated_at = excluded.updated_at`,
		visitorID, theme, time.Now().UTC())
	return err
}
