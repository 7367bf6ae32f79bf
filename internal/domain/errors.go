package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeTooLarge      = "TOO_LARGE"
	ErrCodeExtraction    = "EXTRACTION_ERROR"
	ErrCodeProvider      = "PROVIDER_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Upload and extraction errors
var (
	ErrUnsupportedFormat = NewDomainError(ErrCodeValidation, "unsupported file format, allowed: pdf, docx, csv, txt")
	ErrFileTooLarge      = NewDomainError(ErrCodeTooLarge, "uploaded file exceeds the size limit")
	ErrEmptyDocument     = NewDomainError(ErrCodeExtraction, "document contains no extractable text")
	ErrEmptyMessage      = NewDomainError(ErrCodeValidation, "message cannot be empty")
)

// Not found errors
var (
	ErrArtifactNotFound = NewDomainError(ErrCodeNotFound, "knowledge artifact not found")
	ErrBindingNotFound  = NewDomainError(ErrCodeNotFound, "bot binding not found")
	ErrTenantNotFound   = NewDomainError(ErrCodeNotFound, "tenant not found")
	ErrAPIKeyNotFound   = NewDomainError(ErrCodeNotFound, "api key not found")
)

// Conflict errors
var (
	ErrTenantAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "tenant already exists")
	ErrBotTokenTaken       = NewDomainError(ErrCodeAlreadyExists, "bot token is already registered by another tenant")
)

// Authorization errors
var (
	ErrAPIKeyRevoked         = NewDomainError(ErrCodeUnauthorized, "api key has been revoked")
	ErrInvalidAPIKey         = NewDomainError(ErrCodeUnauthorized, "invalid api key")
	ErrWebhookSecretMismatch = NewDomainError(ErrCodeForbidden, "webhook secret token mismatch")
)

// Provider errors, one per user-facing category
var (
	ErrProviderNotConfigured = NewDomainError(ErrCodeProvider, "ai provider credential missing or invalid")
	ErrProviderQuota         = NewDomainError(ErrCodeProvider, "ai provider quota or rate limit exceeded")
	ErrProviderUnavailable   = NewDomainError(ErrCodeProvider, "ai provider temporarily unavailable")
)

// NewExtractionError wraps a parser failure with its detail.
func NewExtractionError(detail string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeExtraction, detail, err)
}
