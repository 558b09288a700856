package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/service"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/errors"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/middleware"
)

type VerificationController struct {
	verificationService service.VerificationService
}

func NewVerificationController(verificationService service.VerificationService) *VerificationController {
	return &VerificationController{verificationService: verificationService}
}

type SubmitVerificationRequest struct {
	StoreID          uint   `json:"store_id" binding:"required"`
	VerificationType string `json:"verification_type" binding:"required"`
	Notes            string `json:"notes" binding:"max=1000"`
}

// Submit records a community "still open", "visited" or "closed" report
// POST /api/v1/verifications
func (ctrl *VerificationController) Submit(c *gin.Context) {
	var req SubmitVerificationRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ctrl.verificationService.Submit(service.VerificationInput{
		StoreID:          req.StoreID,
		VerificationType: req.VerificationType,
		Notes:            req.Notes,
		ClientIP:         middleware.ClientIP(c),
	})
	if err != nil {
		respondServiceError(c, err, "verification submit")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       result.Message,
		"confirmations": result.Confirmations,
	})
}

// Confirmations returns the 90-day still-open count for a store
// GET /api/v1/verifications?store_id=
func (ctrl *VerificationController) Confirmations(c *gin.Context) {
	raw := c.Query("store_id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		errors.BadRequest(c, errors.ValidationInvalidID, "store_id is required")
		return
	}

	count, err := ctrl.verificationService.Confirmations(uint(id))
	if err != nil {
		respondServiceError(c, err, "verification count")
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmations": count})
}
