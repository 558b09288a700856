package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func ptr(f float64) *float64 { return &f }

var storeSeq int

func seedStore(t *testing.T, conn *gorm.DB, mutate func(*model.Store)) *model.Store {
	t.Helper()
	storeSeq++
	s := &model.Store{
		Slug:               fmt.Sprintf("store-%d", storeSeq),
		Name:               fmt.Sprintf("Reef Shop %d", storeSeq),
		City:               "Austin",
		State:              "TX",
		Zip:                "78701",
		Latitude:           ptr(30.2672),
		Longitude:          ptr(-97.7431),
		VerificationStatus: model.StatusActive,
		IsReviewed:         true,
		SpecialtyTags:      model.StringList{"saltwater", "reef"},
		CreatedAt:          time.Now().UTC().Add(time.Duration(storeSeq) * time.Second),
	}
	if mutate != nil {
		mutate(s)
	}
	require.NoError(t, conn.Create(s).Error)
	return s
}
