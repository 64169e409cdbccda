package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error. The set is stable so
// the HTTP layer can always render a specific, non-generic response.
type ErrorCode string

const (
	// ErrCodeInvalidCredentials indicates a bad username/password pair. The
	// message never distinguishes unknown user from wrong password.
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"
	// ErrCodeTokenInvalid indicates an unknown, malformed, or revoked bearer token.
	ErrCodeTokenInvalid ErrorCode = "token_invalid"
	// ErrCodeSessionUnauthenticated indicates a session with no bound identity.
	ErrCodeSessionUnauthenticated ErrorCode = "session_unauthenticated"
	// ErrCodeCSRFMismatch indicates a missing, stale, or reused anti-forgery token.
	ErrCodeCSRFMismatch ErrorCode = "csrf_mismatch"
	// ErrCodeUpstreamAuth indicates the identity provider rejected the code exchange.
	ErrCodeUpstreamAuth ErrorCode = "upstream_auth"
	// ErrCodeUpstreamProfile indicates the identity provider's profile endpoint failed.
	ErrCodeUpstreamProfile ErrorCode = "upstream_profile"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a unique constraint violation surfaced to the caller.
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError is a structured application error with a code, message, and
// optional cause. It supports errors.Is and errors.As via Unwrap.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	// Field is the specific field that caused the error (validation/conflict).
	Field string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf creates an AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error, preserving the cause. Returns nil for nil err.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// InvalidCredentials creates the uniform credential-failure error.
func InvalidCredentials() *AppError {
	return New(ErrCodeInvalidCredentials, "invalid username or password")
}

// TokenInvalid creates the uniform bearer-token failure error.
func TokenInvalid() *AppError {
	return New(ErrCodeTokenInvalid, "invalid or revoked token")
}

// SessionUnauthenticated creates the anonymous-session error.
func SessionUnauthenticated() *AppError {
	return New(ErrCodeSessionUnauthenticated, "no authenticated session")
}

// CSRFMismatch creates the anti-forgery failure error.
func CSRFMismatch() *AppError {
	return New(ErrCodeCSRFMismatch, "missing or invalid anti-forgery token")
}

// NotFound creates a NotFound error.
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// Conflict creates a Conflict error.
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message)
}

// Validation creates a Validation error.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// Internal creates an Internal error.
func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

// isCode checks whether err carries a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsInvalidCredentials reports whether err is a credential failure.
func IsInvalidCredentials(err error) bool { return isCode(err, ErrCodeInvalidCredentials) }

// IsTokenInvalid reports whether err is a bearer-token failure.
func IsTokenInvalid(err error) bool { return isCode(err, ErrCodeTokenInvalid) }

// IsSessionUnauthenticated reports whether err is an anonymous-session failure.
func IsSessionUnauthenticated(err error) bool { return isCode(err, ErrCodeSessionUnauthenticated) }

// IsCSRFMismatch reports whether err is an anti-forgery failure.
func IsCSRFMismatch(err error) bool { return isCode(err, ErrCodeCSRFMismatch) }

// IsUpstreamAuth reports whether err came from a rejected code exchange.
func IsUpstreamAuth(err error) bool { return isCode(err, ErrCodeUpstreamAuth) }

// IsUpstreamProfile reports whether err came from a failed profile fetch.
func IsUpstreamProfile(err error) bool { return isCode(err, ErrCodeUpstreamProfile) }

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsConflict reports whether err is a Conflict error.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation reports whether err is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
