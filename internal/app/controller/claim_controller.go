package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/service"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/middleware"
)

type ClaimController struct {
	claimService service.ClaimService
	siteURL      string
}

func NewClaimController(claimService service.ClaimService, siteURL string) *ClaimController {
	return &ClaimController{
		claimService: claimService,
		siteURL:      strings.TrimRight(siteURL, "/"),
	}
}

type SubmitClaimRequest struct {
	StoreSlug string `json:"storeSlug" binding:"required"`
	Name      string `json:"name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,lfsemail"`
	Role      string `json:"role" binding:"omitempty,oneof=owner manager employee Owner Manager Employee"`
	Phone     string `json:"phone" binding:"max=30"`
	Tenure    string `json:"tenure" binding:"max=100"`
	Notes     string `json:"notes" binding:"max=2000"`
}

// Submit records an ownership claim and emails a verification link
// POST /api/v1/claims
func (ctrl *ClaimController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SubmitClaimRequest
	if !bindJSON(c, &req) {
		return
	}

	claim, err := ctrl.claimService.Submit(c.Request.Context(), service.ClaimInput{
		StoreSlug: req.StoreSlug,
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		Phone:     req.Phone,
		Tenure:    req.Tenure,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(c, err, "claim submit")
		return
	}

	log.Info("Claim submitted", map[string]interface{}{
		"claim_id": claim.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Claim submitted. Check your email to verify.",
		"data": gin.H{
			"id":       claim.ID,
			"store_id": claim.StoreID,
			"status":   claim.Status,
		},
	})
}

// Verify consumes the emailed token and redirects back to the site
// GET /api/v1/claims/verify?token=
func (ctrl *ClaimController) Verify(c *gin.Context) {
	ok, err := ctrl.claimService.VerifyEmail(c.Query("token"))
	if err != nil || !ok {
		c.Redirect(http.StatusFound, ctrl.siteURL+"/?claim=invalid")
		return
	}
	c.Redirect(http.StatusFound, ctrl.siteURL+"/?claim=verified")
}

// ListPending returns the claim queue
// GET /api/v1/admin/claims
func (ctrl *ClaimController) ListPending(c *gin.Context) {
	claims, err := ctrl.claimService.ListPending()
	if err != nil {
		respondServiceError(c, err, "claim list")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"claims": claims,
		"count":  len(claims),
	})
}

// Approve marks the claim approved and the store claimed
// POST /api/v1/admin/claims/:id/approve
func (ctrl *ClaimController) Approve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	claim, err := ctrl.claimService.Approve(id)
	if err != nil {
		respondServiceError(c, err, "claim approve")
		return
	}
	c.JSON(http.StatusOK, gin.H{"claim": claim})
}

// Reject closes a pending claim
// POST /api/v1/admin/claims/:id/reject
func (ctrl *ClaimController) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	claim, err := ctrl.claimService.Reject(id)
	if err != nil {
		respondServiceError(c, err, "claim reject")
		return
	}
	c.JSON(http.StatusOK, gin.H{"claim": claim})
}

// BulkApprove POST /api/v1/admin/claims/bulk-approve
func (ctrl *ClaimController) BulkApprove(c *gin.Context) {
	var req bulkRequest
	if !bindJSON(c, &req) {
		return
	}
	respondBulk(c, ctrl.claimService.BulkApprove(req.IDs), "claim bulk approve")
}

// BulkReject POST /api/v1/admin/claims/bulk-reject
func (ctrl *ClaimController) BulkReject(c *gin.Context) {
	var req bulkRequest
	if !bindJSON(c, &req) {
		return
	}
	respondBulk(c, ctrl.claimService.BulkReject(req.IDs), "claim bulk reject")
}
