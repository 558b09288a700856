package errors

// Error codes returned in ErrorResponse.Error.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map messages from these codes.

const (
	// ==================== AUTH_ ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked = "AUTH_TOKEN_REVOKED"

	// ==================== AUTHZ_ ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== VALIDATION_ ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== RESOURCE_ ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== RATE_ ====================
	RateLimitExceeded = "RATE_LIMIT_EXCEEDED"

	// ==================== STORE_ ====================
	StoreNotFound       = "STORE_NOT_FOUND"
	StoreAlreadyClaimed = "STORE_ALREADY_CLAIMED"
	StoreStateNotFound  = "STORE_STATE_NOT_FOUND"

	// ==================== CLAIM_ ====================
	ClaimNotFound        = "CLAIM_NOT_FOUND"
	ClaimAlreadyReviewed = "CLAIM_ALREADY_REVIEWED"

	// ==================== VERIFICATION_ ====================
	VerificationInvalidType = "VERIFICATION_INVALID_TYPE"
	VerificationRateLimited = "VERIFICATION_RATE_LIMITED"

	// ==================== REVIEW_ ====================
	ReviewNotFound        = "REVIEW_NOT_FOUND"
	ReviewInvalidRating   = "REVIEW_INVALID_RATING"
	ReviewAlreadyReviewed = "REVIEW_ALREADY_REVIEWED"

	// ==================== CONTACT_ ====================
	CaptchaFailed = "CAPTCHA_FAILED"

	// ==================== UPLOAD_ ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== BULK_ ====================
	BulkPartialFailure = "BULK_PARTIAL_FAILURE"

	// ==================== INTERNAL_ ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
