package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/service"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/errors"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type CreateReviewRequest struct {
	StoreID     uint   `json:"store_id" binding:"required"`
	Rating      int    `json:"rating" binding:"required,min=1,max=5"`
	Comment     string `json:"comment" binding:"max=2000"`
	AuthorName  string `json:"author_name" binding:"required,max=100"`
	AuthorEmail string `json:"author_email" binding:"omitempty,lfsemail"`
}

// CreateReview submits a review for moderation
// POST /api/v1/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := ctrl.reviewService.Create(service.ReviewInput{
		StoreID:     req.StoreID,
		Rating:      req.Rating,
		Comment:     req.Comment,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
	})
	if err != nil {
		respondServiceError(c, err, "review create")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Thanks! Your review will appear once approved.",
		"review":  review,
	})
}

// GetStoreReviews lists approved reviews
// GET /api/v1/reviews?store_id=
func (ctrl *ReviewController) GetStoreReviews(c *gin.Context) {
	storeID, err := strconv.ParseUint(c.Query("store_id"), 10, 32)
	if err != nil || storeID == 0 {
		errors.BadRequest(c, errors.ValidationInvalidID, "store_id is required")
		return
	}
	reviews, err := ctrl.reviewService.ListApproved(uint(storeID))
	if err != nil {
		respondServiceError(c, err, "review list")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  reviews,
		"total": len(reviews),
	})
}

// ListPending returns the review moderation queue
// GET /api/v1/admin/reviews
func (ctrl *ReviewController) ListPending(c *gin.Context) {
	reviews, err := ctrl.reviewService.ListPending()
	if err != nil {
		respondServiceError(c, err, "review list")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// Approve POST /api/v1/admin/reviews/:id/approve
func (ctrl *ReviewController) Approve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	review, err := ctrl.reviewService.Approve(id)
	if err != nil {
		respondServiceError(c, err, "review approve")
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

// Reject POST /api/v1/admin/reviews/:id/reject
func (ctrl *ReviewController) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	review, err := ctrl.reviewService.Reject(id)
	if err != nil {
		respondServiceError(c, err, "review reject")
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

// BulkApprove POST /api/v1/admin/reviews/bulk-approve
func (ctrl *ReviewController) BulkApprove(c *gin.Context) {
	var req bulkRequest
	if !bindJSON(c, &req) {
		return
	}
	respondBulk(c, ctrl.reviewService.BulkApprove(req.IDs), "review bulk approve")
}

// BulkReject POST /api/v1/admin/reviews/bulk-reject
func (ctrl *ReviewController) BulkReject(c *gin.Context) {
	var req bulkRequest
	if !bindJSON(c, &req) {
		return
	}
	respondBulk(c, ctrl.reviewService.BulkReject(req.IDs), "review bulk reject")
}

// RecomputeRatings runs the nightly rating job on demand
// POST /api/v1/admin/reviews/recompute
func (ctrl *ReviewController) RecomputeRatings(c *gin.Context) {
	updated, err := ctrl.reviewService.RecomputeRatings()
	if err != nil {
		respondServiceError(c, err, "rating recompute")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
