package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The dashboard maps these codes to localized messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Store (STORE_) ====================
	StoreNotFound       = "STORE_NOT_FOUND"
	StoreProfileMissing = "STORE_PROFILE_MISSING"
	StoreAlreadyOwned   = "STORE_ALREADY_OWNED"

	// ==================== Catalog (PRODUCT_ / CATEGORY_) ====================
	ProductNotFound    = "PRODUCT_NOT_FOUND"
	ProductSaveFailed  = "PRODUCT_SAVE_FAILED"
	CategoryNotFound   = "CATEGORY_NOT_FOUND"
	BankAccountMissing = "BANK_ACCOUNT_NOT_FOUND"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
