// import-geo seeds the local places table from a GeoNames cities dump
// (cities15000 format). The resulting table backs autocomplete when no
// geocoding API key is configured.
package main

import (
	"archive/zip"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cityscope/cityscope/internal/store"
)

const (
	citiesURL = "https://download.geonames.org/export/dump/cities15000.zip"
	dataDir   = "data"
	batchSize = 1000
)

func main() {
	dbPath := flag.String("db", "cityscope.db", "Path to the sqlite database")
	flag.Parse()

	if err := run(*dbPath); err != nil {
		log.Fatal(err)
	}
}

func run(dbPath string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer db.Close()

	zipPath := filepath.Join(dataDir, "cities.zip")
	if _, err := os.Stat(zipPath); os.IsNotExist(err) {
		fmt.Println("Downloading cities dataset...")
		if err := downloadFile(citiesURL, zipPath); err != nil {
			return err
		}
	} else {
		fmt.Println("Using existing cities.zip")
	}

	fmt.Println("Processing cities...")
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if strings.HasSuffix(f.Name, ".txt") {
			rc, err := f.Open()
			if err != nil {
				return err
			}
			defer rc.Close()
			return importCities(db, rc)
		}
	}
	return fmt.Errorf("no txt file found in %s", zipPath)
}

func downloadFile(url, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	_, err = io.Copy(out, resp.Body)
	return err
}

func importCities(db *store.Store, r io.Reader) error {
	// GeoNames city record layout (tab separated):
	// geonameid(0) name(1) asciiname(2) alternatenames(3) latitude(4)
	// longitude(5) featureclass(6) featurecode(7) countrycode(8) ...
	// admin1(10) ...
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	count := 0
	batch := make([]store.Place, 0, batchSize)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // Skip malformed lines
		}
		if len(record) < 11 {
			continue
		}

		name := strings.TrimSpace(record[1])
		country := strings.TrimSpace(record[8])
		admin := strings.TrimSpace(record[10])

		lat, lon, err := parseAndValidateCoordinates(record[4], record[5])
		if err != nil {
			log.Printf("Error parsing coordinates for %s: %v", name, err)
			continue
		}

		batch = append(batch, store.Place{
			Name:      name,
			State:     admin,
			Country:   country,
			Latitude:  lat,
			Longitude: lon,
		})
		if len(batch) == batchSize {
			if err := db.InsertPlaces(batch); err != nil {
				return err
			}
			count += len(batch)
			batch = batch[:0]
			fmt.Printf("Imported %d places...\r", count)
		}
	}

	if len(batch) > 0 {
		if err := db.InsertPlaces(batch); err != nil {
			return err
		}
		count += len(batch)
	}
	fmt.Printf("\nFinished importing %d places.\n", count)
	return nil
}

// parseAndValidateCoordinates parses and range-checks a lat/lon pair.
func parseAndValidateCoordinates(latStr, lonStr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude: %w", err)
	}
	if lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("latitude out of range: %f", lat)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude: %w", err)
	}
	if lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("longitude out of range: %f", lon)
	}

	return lat, lon, nil
}
