package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns a storage or transport error into a client-safe code and message.
// context names the operation, e.g. "store update" or "claim create".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: getNotFoundMessage(context)}
	}

	// PostgreSQL 23505 and the sqlite equivalent
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// 23503
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower, context)
	}

	// 23502
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return parseNotNullError(errStrLower)
	}

	// 23514
	if strings.Contains(errStrLower, "check constraint") {
		return parseCheckConstraintError(errStrLower)
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An upstream service is unavailable. Please try again later.",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(context)}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "slug"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "A store with this URL already exists"}
	case strings.Contains(errLower, "verification_token"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Please submit the claim again"}
	case strings.Contains(errLower, "store_hours") || strings.Contains(errLower, "day_of_week"):
		return ErrorInfo{Code: ResourceConflict, Message: "Hours were given twice for the same day"}
	default:
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This record already exists"}
	}
}

func parseForeignKeyError(errLower, context string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		if strings.Contains(strings.ToLower(context), "store") {
			return ErrorInfo{Code: ResourceConflict, Message: "The store still has related records"}
		}
		return ErrorInfo{Code: ResourceConflict, Message: "The record still has related records"}
	}
	if strings.Contains(errLower, "store_id") || strings.Contains(errLower, "fk_stores") {
		return ErrorInfo{Code: StoreNotFound, Message: "Store not found"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record was not found"}
}

func parseNotNullError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: ValidationRequired, Message: "Email is required"}
	case strings.Contains(errLower, "city"):
		return ErrorInfo{Code: ValidationRequired, Message: "City is required"}
	case strings.Contains(errLower, "name"):
		return ErrorInfo{Code: ValidationRequired, Message: "Name is required"}
	default:
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}
}

func parseCheckConstraintError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "rating"):
		return ErrorInfo{Code: ReviewInvalidRating, Message: "Rating must be between 1 and 5"}
	case strings.Contains(errLower, "latitude") || strings.Contains(errLower, "longitude"):
		return ErrorInfo{Code: ValidationInvalidRange, Message: "Coordinates are out of range"}
	case strings.Contains(errLower, "day_of_week"):
		return ErrorInfo{Code: ValidationInvalidRange, Message: "Day of week must be between 0 and 6"}
	default:
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Invalid input"}
	}
}

func getNotFoundMessage(context string) string {
	c := strings.ToLower(context)
	switch {
	case strings.Contains(c, "claim"):
		return "Claim not found"
	case strings.Contains(c, "review"):
		return "Review not found"
	case strings.Contains(c, "store"):
		return "Store not found"
	default:
		return "The requested record was not found"
	}
}

func getDefaultErrorMessage(context string) string {
	c := strings.ToLower(context)
	switch {
	case strings.Contains(c, "create") || strings.Contains(c, "submit"):
		return "Failed to save. Please try again later."
	case strings.Contains(c, "update"):
		return "Failed to update. Please try again later."
	case strings.Contains(c, "delete"):
		return "Failed to delete. Please try again later."
	default:
		return "Something went wrong. Please try again later."
	}
}

// ParseAndRespond writes the parsed error with statusCode.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
