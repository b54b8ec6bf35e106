package errors

// Error code constants returned in API responses.
// Format: CATEGORY_SPECIFIC_DETAIL — the frontend maps these to messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"       // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED" // caller does not own the resource
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Venues (VENUE_) ====================
	VenueNotFound     = "VENUE_NOT_FOUND"
	VenueCodeExists   = "VENUE_CODE_EXISTS"
	VenueLocked       = "VENUE_LOCKED"        // licensed venues reject edits
	VenueInvalidTier  = "VENUE_INVALID_TIER"  // capacity tier outside 1-5

	// ==================== Licenses / payments (LICENSE_, PAYMENT_) ====================
	LicenseNotFound      = "LICENSE_NOT_FOUND"
	LicenseAlreadyPaid   = "LICENSE_ALREADY_PAID"
	OrderInvalid         = "ORDER_INVALID"         // malformed or mismatched order id
	PaymentNotConfirmed  = "PAYMENT_NOT_CONFIRMED" // gateway has not settled the transaction
	PaymentSignatureInvalid = "PAYMENT_SIGNATURE_INVALID"
	GatewayUnavailable   = "GATEWAY_UNAVAILABLE" // transient, safe to retry

	// ==================== Field verification (VERIFICATION_) ====================
	VerificationNotFound        = "VERIFICATION_NOT_FOUND"
	VerificationAlreadyReviewed = "VERIFICATION_ALREADY_REVIEWED"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
