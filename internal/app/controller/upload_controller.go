package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/service"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/middleware"
)

// UploadController issues presigned S3 uploads for store photos.
type UploadController struct {
	adminService service.AdminService
}

func NewUploadController(adminService service.AdminService) *UploadController {
	return &UploadController{adminService: adminService}
}

type PresignRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// PresignPhoto returns a PUT URL the browser uploads to directly
// POST /api/v1/admin/stores/:id/photos/presign
func (ctrl *UploadController) PresignPhoto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req PresignRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := ctrl.adminService.PresignPhoto(c.Request.Context(), id, req.ContentType)
	if err != nil {
		respondServiceError(c, err, "photo presign")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Photo upload presigned", map[string]interface{}{
		"store_id": id,
		"key":      res.Key,
	})
	c.JSON(http.StatusOK, res)
}

type AttachPhotoRequest struct {
	FileURL string `json:"file_url" binding:"required,url"`
}

// AttachPhoto records an uploaded photo on the store
// POST /api/v1/admin/stores/:id/photos
func (ctrl *UploadController) AttachPhoto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req AttachPhotoRequest
	if !bindJSON(c, &req) {
		return
	}

	store, err := ctrl.adminService.AttachPhoto(id, req.FileURL)
	if err != nil {
		respondServiceError(c, err, "photo attach")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"photos": store.Photos,
	})
}
