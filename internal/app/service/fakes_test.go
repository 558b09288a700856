package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/db"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/storage"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/geocode"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/mailer"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func f64(v float64) *float64 { return &v }

var seq int

func createStore(t *testing.T, conn *gorm.DB, mutate func(*model.Store)) *model.Store {
	t.Helper()
	seq++
	s := &model.Store{
		Slug:               fmt.Sprintf("test-store-%d", seq),
		Name:               fmt.Sprintf("Aquatic Test %d", seq),
		City:               "Austin",
		State:              "TX",
		Zip:                "78701",
		Latitude:           f64(30.2672),
		Longitude:          f64(-97.7431),
		VerificationStatus: model.StatusActive,
		IsReviewed:         true,
		SpecialtyTags:      model.StringList{"freshwater"},
	}
	if mutate != nil {
		mutate(s)
	}
	require.NoError(t, conn.Create(s).Error)
	return s
}

type fakeGeocoder struct {
	loc   *geocode.Location
	err   error
	calls []string
}

func (f *fakeGeocoder) Geocode(_ context.Context, query string) (*geocode.Location, error) {
	f.calls = append(f.calls, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.loc, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

type publishedEvent struct {
	Type    string
	Payload interface{}
}

type fakeFeed struct {
	events []publishedEvent
}

func (f *fakeFeed) Publish(eventType string, payload interface{}) {
	f.events = append(f.events, publishedEvent{Type: eventType, Payload: payload})
}

func (f *fakeFeed) types() []string {
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeCaptcha struct {
	ok  bool
	err error
}

func (f fakeCaptcha) Verify(context.Context, string, string) (bool, error) {
	return f.ok, f.err
}

type fakeRevoker struct {
	revoked   map[string]time.Duration
	lookupErr error
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: map[string]time.Duration{}}
}

func (f *fakeRevoker) RevokeToken(_ context.Context, id string, ttl time.Duration) error {
	f.revoked[id] = ttl
	return nil
}

func (f *fakeRevoker) IsTokenRevoked(_ context.Context, id string) (bool, error) {
	if f.lookupErr != nil {
		return false, f.lookupErr
	}
	_, ok := f.revoked[id]
	return ok, nil
}

type fakePhotoStorage struct{}

func (fakePhotoStorage) PresignStorePhoto(_ context.Context, storeID uint, contentType string) (*storage.PresignedURLResponse, error) {
	ext, err := storage.ValidateContentType(contentType)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("stores/%d/photo%s", storeID, ext)
	return &storage.PresignedURLResponse{
		UploadURL: "https://upload.example.com/" + key,
		FileURL:   "https://cdn.example.com/" + key,
		Key:       key,
	}, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
