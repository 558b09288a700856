package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/service"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/middleware"
)

type AdminController struct {
	adminService      service.AdminService
	submissionService service.SubmissionService
}

func NewAdminController(adminService service.AdminService, submissionService service.SubmissionService) *AdminController {
	return &AdminController{
		adminService:      adminService,
		submissionService: submissionService,
	}
}

// Dashboard GET /api/v1/admin/dashboard
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	d, err := ctrl.adminService.Dashboard()
	if err != nil {
		respondServiceError(c, err, "dashboard")
		return
	}
	c.JSON(http.StatusOK, d)
}

// ModerationQueue returns pending_review and flagged_closed stores
// GET /api/v1/admin/queue
func (ctrl *AdminController) ModerationQueue(c *gin.Context) {
	stores, err := ctrl.adminService.ModerationQueue()
	if err != nil {
		respondServiceError(c, err, "moderation queue")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}

type ModerateRequest struct {
	Action string `json:"action" binding:"required,oneof=approve keep reject"`
}

// ModerateStore POST /api/v1/admin/stores/:id/moderate
func (ctrl *AdminController) ModerateStore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ModerateRequest
	if !bindJSON(c, &req) {
		return
	}
	store, err := ctrl.adminService.ModerateStore(id, req.Action)
	if err != nil {
		respondServiceError(c, err, "store moderate")
		return
	}
	c.JSON(http.StatusOK, gin.H{"store": store})
}

// ListStores GET /api/v1/admin/stores?search=&page=
func (ctrl *AdminController) ListStores(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	result, err := ctrl.adminService.ListStores(c.Query("search"), page)
	if err != nil {
		respondServiceError(c, err, "store list")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetStore GET /api/v1/admin/stores/:id
func (ctrl *AdminController) GetStore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	store, err := ctrl.adminService.GetStore(id)
	if err != nil {
		respondServiceError(c, err, "store fetch")
		return
	}
	c.JSON(http.StatusOK, gin.H{"store": store})
}

type UpdateStoreRequest struct {
	Name               *string               `json:"name" binding:"omitempty,max=200"`
	Address            *string               `json:"address"`
	City               *string               `json:"city"`
	State              *string               `json:"state"`
	Zip                *string               `json:"zip" binding:"omitempty,zip5"`
	Latitude           *float64              `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude          *float64              `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Timezone           *string               `json:"timezone"`
	Phone              *string               `json:"phone"`
	Website            *string               `json:"website"`
	Email              *string               `json:"email"`
	Description        *string               `json:"description"`
	SpecialtyTags      *[]string             `json:"specialty_tags"`
	Services           *[]string             `json:"services"`
	Supplies           *[]string             `json:"supplies"`
	StoreType          *string               `json:"store_type"`
	PriceLevel         *int                  `json:"price_level"`
	VerificationStatus *string               `json:"verification_status"`
	IsReviewed         *bool                 `json:"is_reviewed"`
	IsVerified         *bool                 `json:"is_verified"`
	IsActive           *bool                 `json:"is_active"`
	Hours              *[]service.HoursInput `json:"hours"`
}

// UpdateStore applies a partial edit. The slug cannot be changed.
// PATCH /api/v1/admin/stores/:id
func (ctrl *AdminController) UpdateStore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateStoreRequest
	if !bindJSON(c, &req) {
		return
	}

	store, err := ctrl.adminService.UpdateStore(id, service.StoreUpdate{
		Name:               req.Name,
		Address:            req.Address,
		City:               req.City,
		State:              req.State,
		Zip:                req.Zip,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		Timezone:           req.Timezone,
		Phone:              req.Phone,
		Website:            req.Website,
		Email:              req.Email,
		Description:        req.Description,
		SpecialtyTags:      req.SpecialtyTags,
		Services:           req.Services,
		Supplies:           req.Supplies,
		StoreType:          req.StoreType,
		PriceLevel:         req.PriceLevel,
		VerificationStatus: req.VerificationStatus,
		IsReviewed:         req.IsReviewed,
		IsVerified:         req.IsVerified,
		IsActive:           req.IsActive,
		Hours:              req.Hours,
	})
	if err != nil {
		respondServiceError(c, err, "store update")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Store updated", map[string]interface{}{
		"store_id": id,
	})
	c.JSON(http.StatusOK, gin.H{"store": store})
}

// DeleteStore DELETE /api/v1/admin/stores/:id
func (ctrl *AdminController) DeleteStore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.adminService.DeleteStore(id); err != nil {
		respondServiceError(c, err, "store delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Store deleted"})
}

// BulkDelete POST /api/v1/admin/stores/bulk-delete
func (ctrl *AdminController) BulkDelete(c *gin.Context) {
	var req bulkRequest
	if !bindJSON(c, &req) {
		return
	}
	respondBulk(c, ctrl.adminService.BulkDelete(req.IDs), "store bulk delete")
}

type bulkStatusRequest struct {
	IDs    []uint `json:"ids" binding:"required,min=1,max=500"`
	Status string `json:"status" binding:"required"`
}

// BulkStatus POST /api/v1/admin/stores/bulk-status
func (ctrl *AdminController) BulkStatus(c *gin.Context) {
	var req bulkStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := ctrl.adminService.BulkSetStatus(req.IDs, req.Status)
	if err != nil {
		respondServiceError(c, err, "store bulk status")
		return
	}
	respondBulk(c, res, "store bulk status")
}

type QuickAddRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Address     string   `json:"address"`
	City        string   `json:"city" binding:"required"`
	State       string   `json:"state" binding:"required,usstate"`
	Zip         string   `json:"zip" binding:"omitempty,zip5"`
	Phone       string   `json:"phone"`
	Website     string   `json:"website"`
	Specialties []string `json:"specialties"`
}

// QuickAdd creates a bare listing from the admin panel
// POST /api/v1/admin/stores
func (ctrl *AdminController) QuickAdd(c *gin.Context) {
	var req QuickAddRequest
	if !bindJSON(c, &req) {
		return
	}
	store, err := ctrl.submissionService.QuickAdd(c.Request.Context(), service.QuickAddInput{
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Zip:         req.Zip,
		Phone:       req.Phone,
		Website:     req.Website,
		Specialties: req.Specialties,
	})
	if err != nil {
		respondServiceError(c, err, "store create")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"store": store})
}
