package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/service"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/errors"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/middleware"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/validation"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var serviceErrors = []errorMapping{
	{service.ErrStoreNotFound, http.StatusNotFound, errors.StoreNotFound, "Store not found"},
	{service.ErrStateNotFound, http.StatusNotFound, errors.StoreStateNotFound, "State not found"},
	{service.ErrStoreAlreadyClaimed, http.StatusConflict, errors.StoreAlreadyClaimed, "This store has already been claimed"},
	{service.ErrClaimNotFound, http.StatusNotFound, errors.ClaimNotFound, "Claim not found"},
	{service.ErrClaimAlreadyReviewed, http.StatusConflict, errors.ClaimAlreadyReviewed, "Claim has already been reviewed"},
	{service.ErrInvalidVerificationType, http.StatusBadRequest, errors.VerificationInvalidType, "Invalid verification type"},
	{service.ErrVerificationRateLimited, http.StatusTooManyRequests, errors.VerificationRateLimited, "You already submitted a verification for this store today."},
	{service.ErrReviewNotFound, http.StatusNotFound, errors.ReviewNotFound, "Review not found"},
	{service.ErrReviewAlreadyReviewed, http.StatusConflict, errors.ReviewAlreadyReviewed, "Review has already been moderated"},
	{service.ErrCaptchaFailed, http.StatusBadRequest, errors.CaptchaFailed, "Captcha verification failed"},
	{service.ErrAdminOnly, http.StatusForbidden, errors.AuthzAdminOnly, "Access denied"},
	{service.ErrInvalidToken, http.StatusUnauthorized, errors.AuthTokenInvalid, "This link is invalid or has expired"},
	{service.ErrInvalidStatus, http.StatusBadRequest, errors.ValidationInvalidInput, "Invalid status"},
	{service.ErrInvalidAction, http.StatusBadRequest, errors.ValidationInvalidInput, "Invalid action"},
	{service.ErrUnsupportedContentType, http.StatusBadRequest, errors.UploadInvalidFileType, "Only JPEG, PNG and WebP images are allowed"},
	{service.ErrStorageUnavailable, http.StatusServiceUnavailable, errors.InternalConfigError, "Photo uploads are not configured"},
}

// respondServiceError writes the response for an error returned by a service.
// op names the operation for logs and for the generic message.
func respondServiceError(c *gin.Context, err error, op string) {
	log := middleware.GetLoggerFromContext(c)

	var ve *service.ValidationError
	if stderrors.As(err, &ve) {
		log.Warn("Validation failed", map[string]interface{}{
			"op":     op,
			"fields": ve.Fields,
		})
		errors.RespondWithValidationError(c, ve.Fields)
		return
	}

	for _, m := range serviceErrors {
		if stderrors.Is(err, m.target) {
			log.Warn("Request rejected", map[string]interface{}{
				"op":    op,
				"error": err.Error(),
			})
			errors.RespondWithError(c, m.status, m.code, m.message)
			return
		}
	}

	log.Error("Request failed", err, map[string]interface{}{
		"op": op,
	})
	info := errors.ParseError(err, op)
	status := http.StatusInternalServerError
	if info.Code == errors.ResourceAlreadyExists {
		status = http.StatusConflict
	}
	errors.RespondWithError(c, status, info.Code, info.Message)
}

// bindJSON binds the body and writes the 400 itself on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		if fields, ok := validation.FieldErrors(err); ok {
			errors.RespondWithValidationError(c, fields)
			return false
		}
		errors.BadRequest(c, errors.ValidationInvalidFormat, "Invalid request body")
		return false
	}
	return true
}

func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID format", map[string]interface{}{
			param: raw,
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

type bulkRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1,max=500"`
}

// respondBulk reports per-id outcomes. A partial failure still answers 200
// with the failed ids listed.
func respondBulk(c *gin.Context, res *service.BulkResult, op string) {
	body := gin.H{
		"succeeded": res.Succeeded,
		"failed":    res.Failed,
	}
	if errs := res.Errors(); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		body["errors"] = msgs
		body["error"] = errors.BulkPartialFailure
		middleware.GetLoggerFromContext(c).Warn("Bulk operation partially failed", map[string]interface{}{
			"op":     op,
			"failed": len(res.Failed),
		})
	}
	c.JSON(http.StatusOK, body)
}
