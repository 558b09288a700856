package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/repository"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/storage"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAdminServiceTest(t *testing.T, photos storage.PhotoStorage) (AdminService, *gorm.DB) {
	conn := setupServiceDB(t)
	svc := NewAdminService(
		repository.NewStoreRepository(conn),
		repository.NewClaimRepository(conn),
		repository.NewReviewRepository(conn),
		photos,
	)
	return svc, conn
}

func strPtr(s string) *string { return &s }

func TestAdminService_Dashboard(t *testing.T) {
	svc, conn := setupAdminServiceTest(t, nil)

	claimed := createStore(t, conn, func(s *model.Store) { s.IsClaimed = true })
	createStore(t, conn, func(s *model.Store) { s.VerificationStatus = model.StatusFlaggedClosed })
	createStore(t, conn, func(s *model.Store) { s.VerificationStatus = model.StatusPendingReview })
	require.NoError(t, conn.Create(&model.StoreClaim{
		StoreID: claimed.ID, ClaimantName: "A", ClaimantEmail: "a@example.com",
		VerificationToken: "tok-1", Status: model.ClaimStatusPending,
	}).Error)
	require.NoError(t, conn.Create(&model.Review{
		StoreID: claimed.ID, Rating: 4, AuthorName: "R", Status: model.ReviewStatusPending,
	}).Error)

	d, err := svc.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.Total)
	assert.Equal(t, int64(1), d.FlaggedClosed)
	assert.Equal(t, int64(1), d.PendingReview)
	assert.Equal(t, int64(1), d.Claimed)
	assert.Equal(t, int64(2), d.Unclaimed)
	assert.Equal(t, int64(1), d.PendingClaims)
	assert.Equal(t, int64(1), d.PendingReviews)
	assert.Len(t, d.Flagged, 1)
	assert.Len(t, d.Recent, 3)

	queue, err := svc.ModerationQueue()
	require.NoError(t, err)
	assert.Len(t, queue, 2)
}

func TestAdminService_ModerateStore(t *testing.T) {
	tests := []struct {
		action     string
		wantStatus model.VerificationStatus
		wantActive bool
		wantErr    error
	}{
		{action: ActionApprove, wantStatus: model.StatusActive, wantActive: true},
		{action: ActionKeep, wantStatus: model.StatusPendingReview, wantActive: false},
		{action: ActionReject, wantStatus: model.StatusRejected, wantActive: false},
		{action: "archive", wantErr: ErrInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			svc, conn := setupAdminServiceTest(t, nil)
			store := createStore(t, conn, func(s *model.Store) {
				s.VerificationStatus = model.StatusFlaggedClosed
				s.IsReviewed = false
			})
			require.NoError(t, conn.Model(store).Update("is_active", false).Error)

			got, err := svc.ModerateStore(store.ID, tt.action)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.VerificationStatus)
			assert.Equal(t, tt.wantActive, got.IsActive)
			if tt.action == ActionApprove {
				assert.True(t, got.IsReviewed)
			}
		})
	}

	svc, _ := setupAdminServiceTest(t, nil)
	_, err := svc.ModerateStore(999, ActionApprove)
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestAdminService_ListStores(t *testing.T) {
	svc, conn := setupAdminServiceTest(t, nil)
	for i := 0; i < 27; i++ {
		createStore(t, conn, nil)
	}
	createStore(t, conn, func(s *model.Store) { s.Name = "Coral Cove" })

	page, err := svc.ListStores("", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(28), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Stores, 3)

	page, err = svc.ListStores("coral", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Stores, 1)
	assert.Equal(t, "Coral Cove", page.Stores[0].Name)
}

func TestAdminService_UpdateStore(t *testing.T) {
	svc, conn := setupAdminServiceTest(t, nil)
	store := createStore(t, conn, nil)
	originalSlug := store.Slug

	hours := []HoursInput{
		{DayOfWeek: 1, OpenTime: "10:00", CloseTime: "19:00"},
		{DayOfWeek: 0, IsClosed: true},
	}
	got, err := svc.UpdateStore(store.ID, StoreUpdate{
		Name:          strPtr("  Renamed Reef  "),
		State:         strPtr("Texas"),
		SpecialtyTags: &[]string{"reef", " ", "saltwater"},
		Hours:         &hours,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Reef", got.Name)
	assert.Equal(t, originalSlug, got.Slug)
	assert.Equal(t, "TX", got.State)
	assert.Equal(t, model.StringList{"reef", "saltwater"}, got.SpecialtyTags)
	require.Len(t, got.Hours, 2)
	assert.Equal(t, 0, got.Hours[0].DayOfWeek)
	assert.True(t, got.Hours[0].IsClosed)

	got, err = svc.UpdateStore(store.ID, StoreUpdate{})
	require.NoError(t, err)
	assert.Len(t, got.Hours, 2)

	tests := []struct {
		name  string
		input StoreUpdate
		field string
	}{
		{name: "blank name", input: StoreUpdate{Name: strPtr(" ")}, field: "name"},
		{name: "unknown state", input: StoreUpdate{State: strPtr("Narnia")}, field: "state"},
		{name: "bad status", input: StoreUpdate{VerificationStatus: strPtr("gone")}, field: "verification_status"},
		{name: "bad store type", input: StoreUpdate{StoreType: strPtr("kiosk")}, field: "store_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateStore(store.ID, tt.input)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}

	_, err = svc.UpdateStore(999, StoreUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrStoreNotFound)
	_, err = svc.UpdateStore(999, StoreUpdate{})
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestAdminService_BulkActions(t *testing.T) {
	svc, conn := setupAdminServiceTest(t, nil)
	a := createStore(t, conn, nil)
	b := createStore(t, conn, nil)

	_, err := svc.BulkSetStatus([]uint{a.ID}, "bogus")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	res, err := svc.BulkSetStatus([]uint{a.ID, b.ID, 999}, string(model.StatusRejected))
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, b.ID}, res.Succeeded)
	assert.Equal(t, []uint{999}, res.Failed)

	got, err := svc.GetStore(a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, got.VerificationStatus)
	assert.False(t, got.IsActive)

	del := svc.BulkDelete([]uint{a.ID, 999})
	assert.Equal(t, []uint{a.ID}, del.Succeeded)
	require.Len(t, del.Errors(), 1)
	assert.ErrorIs(t, del.Errors()[0], ErrStoreNotFound)

	_, err = svc.GetStore(a.ID)
	assert.ErrorIs(t, err, ErrStoreNotFound)
	assert.ErrorIs(t, svc.DeleteStore(a.ID), ErrStoreNotFound)
}

func TestAdminService_Photos(t *testing.T) {
	t.Run("storage not configured", func(t *testing.T) {
		svc, conn := setupAdminServiceTest(t, nil)
		store := createStore(t, conn, nil)
		_, err := svc.PresignPhoto(context.Background(), store.ID, "image/png")
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})

	svc, conn := setupAdminServiceTest(t, fakePhotoStorage{})
	store := createStore(t, conn, func(s *model.Store) {
		s.Photos = model.StringList{util.NoPhotosSentinel}
	})

	_, err := svc.PresignPhoto(context.Background(), store.ID, "image/gif")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
	_, err = svc.PresignPhoto(context.Background(), 999, "image/png")
	assert.ErrorIs(t, err, ErrStoreNotFound)

	presigned, err := svc.PresignPhoto(context.Background(), store.ID, "image/png")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("stores/%d/photo.png", store.ID), presigned.Key)

	got, err := svc.AttachPhoto(store.ID, presigned.FileURL)
	require.NoError(t, err)
	assert.Equal(t, model.StringList{presigned.FileURL}, got.Photos)

	got, err = svc.AttachPhoto(store.ID, presigned.FileURL)
	require.NoError(t, err)
	assert.Len(t, got.Photos, 1)

	_, err = svc.AttachPhoto(store.ID, " ")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	for i := 1; i < util.MaxStorePhotos; i++ {
		_, err = svc.AttachPhoto(store.ID, fmt.Sprintf("https://cdn.example.com/%d.png", i))
		require.NoError(t, err)
	}
	_, err = svc.AttachPhoto(store.ID, "https://cdn.example.com/overflow.png")
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "file_url")
}
