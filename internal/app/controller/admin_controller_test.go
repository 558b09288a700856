package controller

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/repository"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/service"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/middleware"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testJWTSecret  = "controller-test-secret"
	testAdminEmail = "admin@lfsdirectory.com"
)

func adminHeader(t *testing.T, email string) []string {
	t.Helper()
	tokens, err := util.GenerateTokenPair(email, service.AdminRole, testJWTSecret, time.Hour, 24*time.Hour)
	require.NoError(t, err)
	return []string{"Authorization", "Bearer " + tokens.AccessToken}
}

func setupAdminRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	conn := setupControllerDB(t)
	storeRepo := repository.NewStoreRepository(conn)
	claimRepo := repository.NewClaimRepository(conn)
	reviewRepo := repository.NewReviewRepository(conn)

	adminSvc := service.NewAdminService(storeRepo, claimRepo, reviewRepo, nil)
	submissionSvc := service.NewSubmissionService(storeRepo, nil, nil, service.MailConfig{}, nil, nil)
	reviewSvc := service.NewReviewService(reviewRepo, storeRepo, nil, nil)

	admin := NewAdminController(adminSvc, submissionSvc)
	uploads := NewUploadController(adminSvc)
	reviews := NewReviewController(reviewSvc)
	auth := middleware.NewAuthMiddleware(testJWTSecret, testAdminEmail, nil)

	router := gin.New()
	router.POST("/api/v1/reviews", reviews.CreateReview)
	router.GET("/api/v1/reviews", reviews.GetStoreReviews)

	g := router.Group("/api/v1/admin", auth.RequireAdmin())
	g.GET("/dashboard", admin.Dashboard)
	g.GET("/queue", admin.ModerationQueue)
	g.GET("/stores", admin.ListStores)
	g.POST("/stores", admin.QuickAdd)
	g.GET("/stores/:id", admin.GetStore)
	g.PATCH("/stores/:id", admin.UpdateStore)
	g.DELETE("/stores/:id", admin.DeleteStore)
	g.POST("/stores/:id/moderate", admin.ModerateStore)
	g.POST("/stores/bulk-delete", admin.BulkDelete)
	g.POST("/stores/bulk-status", admin.BulkStatus)
	g.POST("/stores/:id/photos/presign", uploads.PresignPhoto)
	g.POST("/stores/:id/photos", uploads.AttachPhoto)
	g.GET("/reviews", reviews.ListPending)
	g.POST("/reviews/:id/approve", reviews.Approve)
	g.POST("/reviews/recompute", reviews.RecomputeRatings)
	return router, conn
}

func TestAdminController_RequiresAdmin(t *testing.T) {
	router, _ := setupAdminRouter(t)

	tests := []struct {
		name       string
		headers    []string
		wantStatus int
	}{
		{"no token", nil, http.StatusUnauthorized},
		{"garbage token", []string{"Authorization", "Bearer nope"}, http.StatusUnauthorized},
		{"other email", adminHeader(t, "someone@example.com"), http.StatusForbidden},
		{"admin", adminHeader(t, testAdminEmail), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(t, router, http.MethodGet, "/api/v1/admin/dashboard", nil, tt.headers...)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAdminController_Moderation(t *testing.T) {
	router, conn := setupAdminRouter(t)
	auth := adminHeader(t, testAdminEmail)

	pending := seedStore(t, conn, func(s *model.Store) {
		s.VerificationStatus = model.StatusPendingReview
		s.IsReviewed = false
		s.IsActive = false
	})
	seedStore(t, conn, func(s *model.Store) { s.VerificationStatus = model.StatusFlaggedClosed })

	w := perform(t, router, http.MethodGet, "/api/v1/admin/queue", nil, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["count"])

	path := fmt.Sprintf("/api/v1/admin/stores/%d/moderate", pending.ID)

	w = perform(t, router, http.MethodPost, path, map[string]string{"action": "delete"}, auth...)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldsOf(t, decode(t, w)), "action")

	w = perform(t, router, http.MethodPost, path, map[string]string{"action": "approve"}, auth...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	store := decode(t, w)["store"].(map[string]interface{})
	assert.Equal(t, "active", store["verification_status"])
	assert.Equal(t, true, store["is_reviewed"])
	assert.Equal(t, true, store["is_active"])

	w = perform(t, router, http.MethodPost, "/api/v1/admin/stores/99999/moderate", map[string]string{"action": "keep"}, auth...)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminController_UpdateStore(t *testing.T) {
	router, conn := setupAdminRouter(t)
	auth := adminHeader(t, testAdminEmail)
	store := seedStore(t, conn, nil)
	path := fmt.Sprintf("/api/v1/admin/stores/%d", store.ID)

	w := perform(t, router, http.MethodPatch, path, map[string]interface{}{
		"name":           "Reef Shop Renamed",
		"state":          "Texas",
		"specialty_tags": []string{"reef", " ", "corals"},
	}, auth...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decode(t, w)["store"].(map[string]interface{})
	assert.Equal(t, "Reef Shop Renamed", updated["name"])
	assert.Equal(t, "TX", updated["state"])
	assert.Equal(t, store.Slug, updated["slug"])
	assert.Equal(t, []interface{}{"reef", "corals"}, updated["specialty_tags"])

	w = perform(t, router, http.MethodPatch, path, map[string]interface{}{"zip": "abc"}, auth...)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldsOf(t, decode(t, w)), "zip")

	w = perform(t, router, http.MethodPatch, "/api/v1/admin/stores/99999", map[string]interface{}{"name": "x"}, auth...)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminController_BulkAndDelete(t *testing.T) {
	router, conn := setupAdminRouter(t)
	auth := adminHeader(t, testAdminEmail)
	a := seedStore(t, conn, nil)
	b := seedStore(t, conn, nil)
	c := seedStore(t, conn, nil)

	w := perform(t, router, http.MethodPost, "/api/v1/admin/stores/bulk-status", map[string]interface{}{
		"ids":    []uint{a.ID, b.ID},
		"status": "rejected",
	}, auth...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Len(t, body["succeeded"], 2)
	assert.NotContains(t, body, "error")

	w = perform(t, router, http.MethodPost, "/api/v1/admin/stores/bulk-status", map[string]interface{}{
		"ids":    []uint{a.ID},
		"status": "sparkling",
	}, auth...)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(t, router, http.MethodPost, "/api/v1/admin/stores/bulk-delete", map[string]interface{}{
		"ids": []uint{a.ID, 99999},
	}, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, []interface{}{float64(a.ID)}, body["succeeded"])
	assert.Equal(t, []interface{}{float64(99999)}, body["failed"])
	assert.Equal(t, "BULK_PARTIAL_FAILURE", body["error"])

	w = perform(t, router, http.MethodPost, "/api/v1/admin/stores/bulk-delete", map[string]interface{}{
		"ids": []uint{},
	}, auth...)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/admin/stores/%d", c.ID), nil, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	w = perform(t, router, http.MethodGet, fmt.Sprintf("/api/v1/admin/stores/%d", c.ID), nil, auth...)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminController_QuickAddAndList(t *testing.T) {
	router, _ := setupAdminRouter(t)
	auth := adminHeader(t, testAdminEmail)

	w := perform(t, router, http.MethodPost, "/api/v1/admin/stores", map[string]interface{}{
		"name":  "Blue Lagoon Fish",
		"city":  "Portland",
		"state": "OR",
	}, auth...)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = perform(t, router, http.MethodPost, "/api/v1/admin/stores", map[string]interface{}{
		"name":  "Nowhere Fish",
		"city":  "Atlantis",
		"state": "ZZ",
	}, auth...)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldsOf(t, decode(t, w)), "state")

	w = perform(t, router, http.MethodGet, "/api/v1/admin/stores?search=lagoon", nil, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])
}

func TestUploadController_StorageNotConfigured(t *testing.T) {
	router, conn := setupAdminRouter(t)
	auth := adminHeader(t, testAdminEmail)
	store := seedStore(t, conn, nil)

	w := perform(t, router, http.MethodPost, fmt.Sprintf("/api/v1/admin/stores/%d/photos/presign", store.ID),
		map[string]string{"content_type": "image/png"}, auth...)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "INTERNAL_CONFIG_ERROR", decode(t, w)["error"])

	w = perform(t, router, http.MethodPost, fmt.Sprintf("/api/v1/admin/stores/%d/photos", store.ID),
		map[string]string{"file_url": "https://cdn.example.com/stores/1/photo.png"}, auth...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []interface{}{"https://cdn.example.com/stores/1/photo.png"}, decode(t, w)["photos"])

	w = perform(t, router, http.MethodPost, fmt.Sprintf("/api/v1/admin/stores/%d/photos", store.ID),
		map[string]string{"file_url": "not a url"}, auth...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewController_Flow(t *testing.T) {
	router, conn := setupAdminRouter(t)
	auth := adminHeader(t, testAdminEmail)
	store := seedStore(t, conn, nil)
	reviewsPath := fmt.Sprintf("/api/v1/reviews?store_id=%d", store.ID)

	w := perform(t, router, http.MethodPost, "/api/v1/reviews", map[string]interface{}{
		"store_id":    store.ID,
		"rating":      6,
		"author_name": "Lee",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldsOf(t, decode(t, w)), "rating")

	w = perform(t, router, http.MethodPost, "/api/v1/reviews", map[string]interface{}{
		"store_id":    store.ID,
		"rating":      4,
		"author_name": "Lee",
		"comment":     "Healthy livestock",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reviewID := decode(t, w)["review"].(map[string]interface{})["id"].(float64)

	// pending reviews are not public
	w = perform(t, router, http.MethodGet, reviewsPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["total"])

	w = perform(t, router, http.MethodPost, fmt.Sprintf("/api/v1/admin/reviews/%d/approve", int(reviewID)), nil, auth...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = perform(t, router, http.MethodGet, reviewsPath, nil)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = perform(t, router, http.MethodPost, "/api/v1/admin/reviews/recompute", nil, auth...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["updated"])

	w = perform(t, router, http.MethodGet, "/api/v1/reviews", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(t, router, http.MethodPost, "/api/v1/reviews", map[string]interface{}{
		"store_id":    99999,
		"rating":      5,
		"author_name": "Lee",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
