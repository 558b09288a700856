package controller

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/repository"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSubmissionRouter(t *testing.T) (*gin.Engine, *gorm.DB, *fakeMailer) {
	t.Helper()
	conn := setupControllerDB(t)
	mail := &fakeMailer{}
	svc := service.NewSubmissionService(
		repository.NewStoreRepository(conn),
		nil,
		mail,
		service.MailConfig{SiteURL: testSiteURL, AdminNotify: "admin@lfsdirectory.com"},
		nil,
		nil,
	)
	router := gin.New()
	router.POST("/submit-store", NewSubmissionController(svc).Submit)
	return router, conn, mail
}

func validSubmission() map[string]interface{} {
	return map[string]interface{}{
		"storeName":     "Coral Cove Aquatics",
		"streetAddress": "500 W 5th St",
		"city":          "Austin",
		"state":         "TX",
		"zip":           "78701",
		"specialties":   []string{"Saltwater & Reef"},
		"yourName":      "Dana",
		"yourEmail":     "dana@example.com",
		"isOwner":       "yes",
	}
}

func TestSubmissionController_Submit(t *testing.T) {
	router, conn, mail := setupSubmissionRouter(t)

	w := perform(t, router, http.MethodPost, "/submit-store", validSubmission())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Store submitted successfully", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Coral Cove Aquatics", data["storeName"])

	var store model.Store
	require.NoError(t, conn.Where("name = ?", "Coral Cove Aquatics").First(&store).Error)
	assert.Equal(t, model.StatusPendingReview, store.VerificationStatus)
	assert.False(t, store.IsReviewed)
	assert.True(t, store.SubmittedByOwner)
	assert.NotEmpty(t, mail.sent)
}

func TestSubmissionController_Validation(t *testing.T) {
	router, _, _ := setupSubmissionRouter(t)

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		field  string
	}{
		{"bad zip", func(b map[string]interface{}) { b["zip"] = "7870" }, "zip"},
		{"unknown state", func(b map[string]interface{}) { b["state"] = "ZZ" }, "state"},
		{"no specialties", func(b map[string]interface{}) { b["specialties"] = []string{} }, "specialties"},
		{"bad email", func(b map[string]interface{}) { b["yourEmail"] = "not-an-email" }, "yourEmail"},
		{"missing name", func(b map[string]interface{}) { delete(b, "storeName") }, "storeName"},
		{"bad owner flag", func(b map[string]interface{}) { b["isOwner"] = "maybe" }, "isOwner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSubmission()
			tt.mutate(req)

			w := perform(t, router, http.MethodPost, "/submit-store", req)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, fieldsOf(t, decode(t, w)), tt.field)
		})
	}
}

func TestSubmissionController_MalformedBody(t *testing.T) {
	router, _, _ := setupSubmissionRouter(t)

	w := perform(t, router, http.MethodPost, "/submit-store", "not an object")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_FORMAT", decode(t, w)["error"])
}
