package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/service"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/middleware"
)

type SubmissionController struct {
	submissionService service.SubmissionService
}

func NewSubmissionController(submissionService service.SubmissionService) *SubmissionController {
	return &SubmissionController{submissionService: submissionService}
}

type SubmitStoreRequest struct {
	StoreName     string               `json:"storeName" binding:"required,max=200"`
	StreetAddress string               `json:"streetAddress" binding:"required,max=300"`
	City          string               `json:"city" binding:"required,max=100"`
	State         string               `json:"state" binding:"required,usstate"`
	Zip           string               `json:"zip" binding:"required,zip5"`
	Phone         string               `json:"phone" binding:"max=30"`
	Website       string               `json:"website" binding:"max=500"`
	Specialties   []string             `json:"specialties" binding:"required,min=1"`
	Services      []string             `json:"services"`
	YourName      string               `json:"yourName" binding:"required,max=100"`
	YourEmail     string               `json:"yourEmail" binding:"required,lfsemail"`
	IsOwner       string               `json:"isOwner" binding:"omitempty,oneof=yes no"`
	Notes         string               `json:"notes" binding:"max=2000"`
	Hours         []service.HoursInput `json:"hours" binding:"max=7"`
}

// Submit accepts a public store submission for moderation
// POST /api/v1/submit-store
func (ctrl *SubmissionController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SubmitStoreRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ctrl.submissionService.Submit(c.Request.Context(), service.SubmissionInput{
		StoreName:     req.StoreName,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		State:         req.State,
		Zip:           req.Zip,
		Phone:         req.Phone,
		Website:       req.Website,
		Specialties:   req.Specialties,
		Services:      req.Services,
		YourName:      req.YourName,
		YourEmail:     req.YourEmail,
		IsOwner:       req.IsOwner,
		Notes:         req.Notes,
		Hours:         req.Hours,
	})
	if err != nil {
		respondServiceError(c, err, "store submit")
		return
	}

	log.Info("Store submitted", map[string]interface{}{
		"store_name": result.StoreName,
		"state":      result.State,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Store submitted successfully",
		"data":    result,
	})
}
