package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrStoreNotFound           = errors.New("store not found")
	ErrStoreAlreadyClaimed     = errors.New("store has already been claimed")
	ErrStateNotFound           = errors.New("state not found")
	ErrClaimNotFound           = errors.New("claim not found")
	ErrClaimAlreadyReviewed    = errors.New("claim has already been reviewed")
	ErrInvalidVerificationType = errors.New("invalid verification type")
	ErrVerificationRateLimited = errors.New("verification already submitted for this store today")
	ErrReviewNotFound          = errors.New("review not found")
	ErrReviewAlreadyReviewed   = errors.New("review has already been moderated")
	ErrCaptchaFailed           = errors.New("captcha verification failed")
	ErrAdminOnly               = errors.New("admin access only")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrInvalidAction           = errors.New("invalid action")
	ErrUnsupportedContentType  = errors.New("unsupported content type")
	ErrStorageUnavailable      = errors.New("photo storage is not configured")
)

// ValidationError lists per-field problems with a write request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

type fieldErrors map[string]string

func (f fieldErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f[field] = "is required"
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

func isClientError(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	for _, target := range []error{
		ErrStoreNotFound, ErrStoreAlreadyClaimed, ErrStateNotFound, ErrClaimNotFound,
		ErrClaimAlreadyReviewed, ErrInvalidVerificationType, ErrVerificationRateLimited,
		ErrReviewNotFound, ErrReviewAlreadyReviewed, ErrCaptchaFailed, ErrAdminOnly,
		ErrInvalidToken, ErrInvalidStatus, ErrInvalidAction, ErrUnsupportedContentType,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
