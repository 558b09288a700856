package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/config"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/repository"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/db"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

const batchSize = 500

// Columns recognised in the header row. Matching is case-insensitive and
// unknown columns are ignored.
const (
	colName        = "name"
	colAddress     = "address"
	colCity        = "city"
	colState       = "state"
	colZip         = "zip"
	colPhone       = "phone"
	colWebsite     = "website"
	colEmail       = "email"
	colLatitude    = "latitude"
	colLongitude   = "longitude"
	colSpecialties = "specialties"
	colStoreType   = "store_type"
)

var headerAliases = map[string]string{
	"store name": colName,
	"zip code":   colZip,
	"zipcode":    colZip,
	"lat":        colLatitude,
	"lng":        colLongitude,
	"lon":        colLongitude,
	"tags":       colSpecialties,
	"type":       colStoreType,
}

type importStats struct {
	Rows       int
	Imported   int
	Skipped    int
	Duplicates int
	NoCoords   int
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: go run ./cmd/seed <stores.xlsx>")
		os.Exit(2)
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	storeRepo := repository.NewStoreRepository(db.GetDB())

	logger.Info("Reading XLSX file", map[string]interface{}{"path": filePath})
	rows, err := readRows(filePath)
	if err != nil {
		logger.Fatal("Failed to read XLSX", err)
	}

	stores, stats, err := parseStoreRows(rows, time.Now())
	if err != nil {
		logger.Fatal("Failed to parse XLSX", err)
	}
	logger.Info("Parsed store rows", map[string]interface{}{
		"rows":       stats.Rows,
		"importable": stats.Imported,
		"skipped":    stats.Skipped,
		"duplicates": stats.Duplicates,
		"no_coords":  stats.NoCoords,
	})

	fmt.Print("Proceed with the import? (yes/no): ")
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "yes" && answer != "y" {
		logger.Info("Import cancelled")
		return
	}

	if err := storeRepo.BulkCreate(stores, batchSize); err != nil {
		logger.Fatal("Failed to import stores", err)
	}
	logger.Info("Import completed", map[string]interface{}{"stores": len(stores)})
}

func readRows(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filePath, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in %s", filePath)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// parseStoreRows turns spreadsheet rows into store listings. The first row is
// the header. Imported stores are active and reviewed since they come from a
// curated list.
func parseStoreRows(rows [][]string, now time.Time) ([]model.Store, importStats, error) {
	var stats importStats
	if len(rows) == 0 {
		return nil, stats, fmt.Errorf("no data found")
	}

	index := headerIndex(rows[0])
	for _, required := range []string{colName, colCity, colState} {
		if _, ok := index[required]; !ok {
			return nil, stats, fmt.Errorf("missing required column %q", required)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var stores []model.Store
	seen := make(map[string]bool)

	for n, row := range rows[1:] {
		stats.Rows++

		name := cell(row, colName)
		city := cell(row, colCity)
		state, ok := util.LookupState(cell(row, colState))
		if name == "" || city == "" || !ok {
			stats.Skipped++
			continue
		}

		key := strings.ToLower(name + "|" + city + "|" + state.Abbr)
		if seen[key] {
			stats.Duplicates++
			continue
		}
		seen[key] = true

		store := model.Store{
			Name:               name,
			Address:            cell(row, colAddress),
			City:               city,
			State:              state.Abbr,
			Phone:              cell(row, colPhone),
			Website:            cell(row, colWebsite),
			StoreType:          model.StoreTypeIndependent,
			ListingTier:        model.ListingTierFree,
			VerificationStatus: model.StatusActive,
			IsReviewed:         true,
			IsActive:           true,
			SpecialtyTags:      splitTags(cell(row, colSpecialties)),
		}
		// Rows in the same spreadsheet share a timestamp; the row offset keeps slugs unique.
		store.Slug = util.SubmissionSlug(name, city, state.Abbr, now.Add(time.Duration(n)*time.Millisecond))

		if zip := cell(row, colZip); util.IsValidZip(zip) {
			store.Zip = zip
		}
		if email := cell(row, colEmail); util.IsValidEmail(email) {
			store.Email = email
		}
		if strings.EqualFold(cell(row, colStoreType), model.StoreTypeChain) {
			store.StoreType = model.StoreTypeChain
		}

		lat, latErr := strconv.ParseFloat(cell(row, colLatitude), 64)
		lng, lngErr := strconv.ParseFloat(cell(row, colLongitude), 64)
		if latErr == nil && lngErr == nil && validCoordinates(lat, lng) {
			store.Latitude = &lat
			store.Longitude = &lng
		} else {
			stats.NoCoords++
		}

		stores = append(stores, store)
	}

	stats.Imported = len(stores)
	return stores, stats, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if alias, ok := headerAliases[key]; ok {
			key = alias
		}
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	return index
}

// splitTags accepts "saltwater, reef; plants" style cells.
func splitTags(value string) model.StringList {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	tags := make(model.StringList, 0, len(fields))
	for _, f := range fields {
		if t := strings.ToLower(strings.TrimSpace(f)); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func validCoordinates(lat, lng float64) bool {
	if lat == 0 && lng == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
