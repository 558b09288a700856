package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/repository"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/geocode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type submissionFixture struct {
	svc  *submissionService
	conn *gorm.DB
	mail *fakeMailer
	feed *fakeFeed
	geo  *fakeGeocoder
}

func setupSubmissionTest(t *testing.T) submissionFixture {
	conn := setupServiceDB(t)
	f := submissionFixture{
		conn: conn,
		mail: &fakeMailer{},
		feed: &fakeFeed{},
		geo:  &fakeGeocoder{loc: &geocode.Location{Lat: 40.7, Lng: -74.0}},
	}
	f.svc = NewSubmissionService(
		repository.NewStoreRepository(conn),
		f.geo,
		f.mail,
		MailConfig{SiteURL: "https://lfsdirectory.com", AdminNotify: "admin@lfsdirectory.com"},
		f.feed,
		nil,
	).(*submissionService)
	f.svc.now = fixedClock(time.UnixMilli(1700000000000))
	return f
}

func validSubmission() SubmissionInput {
	return SubmissionInput{
		StoreName:     "Joe's Fish & Reef!",
		StreetAddress: "12 Main St",
		City:          "New York",
		State:         "New York",
		Zip:           "10001",
		YourName:      "Joe",
		YourEmail:     "joe@example.com",
		IsOwner:       "yes",
		Specialties:   []string{"saltwater", " "},
		Hours: []HoursInput{
			{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00"},
			{DayOfWeek: 0, IsClosed: true},
			{DayOfWeek: 2},
		},
	}
}

func TestSubmissionService_Submit(t *testing.T) {
	f := setupSubmissionTest(t)

	res, err := f.svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Equal(t, &SubmissionResult{StoreName: "Joe's Fish & Reef!", City: "New York", State: "NY"}, res)

	var store model.Store
	require.NoError(t, f.conn.Preload("Hours").First(&store).Error)
	assert.Equal(t, "joes-fish-reef-new-york-ny-1700000000000", store.Slug)
	assert.Equal(t, "12 Main St, New York, NY 10001", store.Address)
	assert.Equal(t, model.StatusPendingReview, store.VerificationStatus)
	assert.False(t, store.IsReviewed)
	assert.False(t, store.IsClaimed)
	assert.False(t, store.IsVerified)
	assert.True(t, store.SubmittedByOwner)
	assert.Equal(t, model.StringList{"saltwater"}, store.SpecialtyTags)
	require.NotNil(t, store.Latitude)
	assert.Equal(t, 40.7, *store.Latitude)
	assert.Len(t, store.Hours, 2)

	require.Len(t, f.mail.sent, 2)
	assert.Equal(t, []string{"joe@example.com"}, f.mail.sent[0].To)
	assert.Contains(t, f.mail.sent[0].HTML, "claiming")
	assert.Equal(t, []string{"admin@lfsdirectory.com"}, f.mail.sent[1].To)
	assert.Equal(t, []string{EventStoreSubmitted}, f.feed.types())
}

func TestSubmissionService_MailFailureDoesNotFail(t *testing.T) {
	f := setupSubmissionTest(t)
	f.mail.err = errors.New("resend down")
	f.geo.err = geocode.ErrNotFound

	_, err := f.svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	var store model.Store
	require.NoError(t, f.conn.First(&store).Error)
	assert.Nil(t, store.Latitude)
}

func TestSubmissionService_Validation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*SubmissionInput)
		wantField string
	}{
		{name: "missing store name", mutate: func(in *SubmissionInput) { in.StoreName = "" }, wantField: "storeName"},
		{name: "bad email", mutate: func(in *SubmissionInput) { in.YourEmail = "joe@example" }, wantField: "yourEmail"},
		{name: "bad zip", mutate: func(in *SubmissionInput) { in.Zip = "1234" }, wantField: "zip"},
		{name: "zip plus four", mutate: func(in *SubmissionInput) { in.Zip = "10001-1234" }, wantField: "zip"},
		{name: "no specialties", mutate: func(in *SubmissionInput) { in.Specialties = []string{""} }, wantField: "specialties"},
		{name: "unknown state", mutate: func(in *SubmissionInput) { in.State = "Ontario" }, wantField: "state"},
		{name: "bad hours", mutate: func(in *SubmissionInput) { in.Hours[0].CloseTime = "8am" }, wantField: "hours[1]"},
		{name: "closing before opening", mutate: func(in *SubmissionInput) { in.Hours[0].CloseTime = "08:00" }, wantField: "hours[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupSubmissionTest(t)
			in := validSubmission()
			tt.mutate(&in)

			_, err := f.svc.Submit(context.Background(), in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.wantField)
			assert.Empty(t, f.mail.sent)

			var count int64
			f.conn.Model(&model.Store{}).Count(&count)
			assert.Zero(t, count)
		})
	}
}

func TestSubmissionService_QuickAdd(t *testing.T) {
	f := setupSubmissionTest(t)

	store, err := f.svc.QuickAdd(context.Background(), QuickAddInput{Name: "  Fish Hut ", City: "Tulsa", State: "Oklahoma"})
	require.NoError(t, err)
	assert.Equal(t, "fish-hut-tulsa-ok-1700000000000", store.Slug)
	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9-]+$`), store.Slug)
	assert.Equal(t, "OK", store.State)
	assert.Equal(t, model.ListingTierFree, store.ListingTier)
	assert.Equal(t, model.StatusPendingReview, store.VerificationStatus)
	assert.False(t, store.IsClaimed)

	_, err = f.svc.QuickAdd(context.Background(), QuickAddInput{Name: "Fish Hut"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "city")
	assert.Contains(t, ve.Fields, "state")
}
