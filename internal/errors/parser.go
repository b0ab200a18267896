package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps database and transport errors to user-facing codes.
// Sensitive details stay out of the message; the context string hints
// at which entity the caller was touching.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// PostgreSQL constraint violations, matched on the driver message
	// the way GORM surfaces them

	// unique_violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// foreign_key_violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower)
	}

	// not_null_violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// network errors from external collaborators (S3, Redis)
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Failed to reach an external service. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email is already in use",
		}
	}

	if strings.Contains(errLower, "slug") || strings.Contains(errLower, "idx_stores_slug") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This store identifier is already in use",
		}
	}

	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "idx_stores_user_id") {
		return ErrorInfo{
			Code:    StoreAlreadyOwned,
			Message: "This account already owns a store",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Linked records exist, the record cannot be deleted",
		}
	}

	if strings.Contains(errLower, "store_id") || strings.Contains(errLower, "fk_stores") {
		return ErrorInfo{
			Code:    StoreNotFound,
			Message: "The referenced store does not exist",
		}
	}
	if strings.Contains(errLower, "category_id") || strings.Contains(errLower, "fk_categories") {
		return ErrorInfo{
			Code:    CategoryNotFound,
			Message: "The referenced category does not exist",
		}
	}
	if strings.Contains(errLower, "product_id") || strings.Contains(errLower, "fk_products") {
		return ErrorInfo{
			Code:    ProductNotFound,
			Message: "The referenced product does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record could not be found",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "store"):
		return "Store not found"
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "category"):
		return "Category not found"
	case strings.Contains(contextLower, "bank"):
		return "Bank account not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}

	return "The requested record could not be found"
}

// ParseAndRespond parses the error and writes the standard payload,
// for controllers that have no more specific mapping
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create the record. Please try again later"
	case strings.Contains(contextLower, "update"), strings.Contains(contextLower, "save"):
		return "Failed to save the record. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete the record. Please try again later"
	}

	return "An internal error occurred. Please try again later"
}
