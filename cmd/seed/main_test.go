package main

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}

	path := filepath.Join(t.TempDir(), "stores.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadAndParseWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Store Name", "Address", "City", "State", "Zip", "Lat", "Lng", "Tags", "Type"},
		{"Coral Cove", "1 Reef Rd", "Austin", "Texas", "78701", "30.2672", "-97.7431", "Saltwater, Reef", "independent"},
		{"Petco #12", "", "Dallas", "TX", "7520", "", "", "freshwater", "chain"},
		{"coral cove", "", "austin", "tx", "", "", "", "", ""},
		{"", "", "Austin", "TX", "", "", "", "", ""},
		{"Nowhere Fish", "", "Springfield", "Narnia", "", "", "", "", ""},
	})

	rows, err := readRows(path)
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stores, stats, err := parseStoreRows(rows, now)
	require.NoError(t, err)

	assert.Equal(t, importStats{Rows: 5, Imported: 2, Skipped: 2, Duplicates: 1, NoCoords: 1}, stats)
	require.Len(t, stores, 2)

	coral := stores[0]
	assert.Equal(t, "TX", coral.State)
	assert.Equal(t, "78701", coral.Zip)
	assert.Equal(t, model.StringList{"saltwater", "reef"}, coral.SpecialtyTags)
	assert.Equal(t, model.StatusActive, coral.VerificationStatus)
	assert.True(t, coral.IsActive)
	assert.True(t, coral.IsReviewed)
	require.NotNil(t, coral.Latitude)
	assert.InDelta(t, 30.2672, *coral.Latitude, 1e-9)
	assert.Equal(t, fmt.Sprintf("coral-cove-austin-tx-%d", now.UnixMilli()), coral.Slug)

	petco := stores[1]
	assert.Equal(t, model.StoreTypeChain, petco.StoreType)
	assert.Empty(t, petco.Zip)
	assert.Nil(t, petco.Latitude)
	assert.NotEqual(t, coral.Slug, petco.Slug)
}

func TestParseStoreRows_Errors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
	}{
		{"empty", nil},
		{"missing state column", [][]string{{"name", "city"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseStoreRows(tt.rows, time.Now())
			assert.Error(t, err)
		})
	}
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, validCoordinates(30.1, -97.2))
	assert.False(t, validCoordinates(0, 0))
	assert.False(t, validCoordinates(91, 0))
	assert.False(t, validCoordinates(10, 181))
}
