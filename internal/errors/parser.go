package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// IsUniqueViolation reports whether err is a unique-constraint violation from
// the underlying store. The license issuance path leans on this: a concurrent
// insert losing the race is recovered, not surfaced.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique constraint failed")
}

// ParseError maps database and driver errors to a stable code plus a message
// that is safe to show. Sensitive driver detail stays out of responses.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "internal server error",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	if IsUniqueViolation(err) {
		return parseDuplicateKeyError(errStrLower)
	}

	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "the record is referenced by other data",
		}
	}

	if strings.Contains(errStrLower, "null value") &&
		strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "a required field is missing",
		}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "an external service is unreachable, please retry shortly",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "internal server error, please try again later",
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "venue_id") || strings.Contains(errLower, "idx_licenses_venue_id") {
		return ErrorInfo{
			Code:    LicenseAlreadyPaid,
			Message: "a license already exists for this venue",
		}
	}
	if strings.Contains(errLower, "code") || strings.Contains(errLower, "idx_venues_code") {
		return ErrorInfo{
			Code:    VenueCodeExists,
			Message: "venue code collision, please retry",
		}
	}
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "email is already registered",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "the record already exists",
	}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "venue"):
		return "venue not found"
	case strings.Contains(contextLower, "license"):
		return "license not found"
	case strings.Contains(contextLower, "user"):
		return "user not found"
	case strings.Contains(contextLower, "verification"):
		return "verification not found"
	default:
		return "requested record not found"
	}
}
