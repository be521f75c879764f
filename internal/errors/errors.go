package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches wrapped domain errors by code so errors.Is works across WrapError
func (e *DomainError) Is(target error) bool {
	var domainErr *DomainError
	if errors.As(target, &domainErr) {
		return e.Code == domainErr.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Validation errors
	ErrMissingFields = NewDomainError("MISSING_FIELDS", "required fields are missing")
	ErrEmptyUpdate   = NewDomainError("EMPTY_UPDATE", "missing inputs")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "invalid input")

	// User errors
	ErrUserNotFound      = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrEmailExists       = NewDomainError("EMAIL_EXISTS", "email already exists")
	ErrIncorrectPassword = NewDomainError("INCORRECT_PASSWORD", "incorrect password")

	// Authentication errors
	ErrUnauthorized      = NewDomainError("UNAUTHORIZED", "require authentication")
	ErrInvalidToken      = NewDomainError("INVALID_TOKEN", "invalid access token")
	ErrNotAllowed        = NewDomainError("NOT_ALLOWED", "you are not allowed")
	ErrRefreshNotMatched = NewDomainError("REFRESH_NOT_MATCHED", "refresh token not matched")
	ErrInvalidResetToken = NewDomainError("INVALID_RESET_TOKEN", "invalid or expired reset token")

	// Movie errors
	ErrMovieNotFound = NewDomainError("MOVIE_NOT_FOUND", "movie not found")

	// System errors
	ErrInternal = NewDomainError("INTERNAL_ERROR", "internal server error")
	ErrMailSend = NewDomainError("MAIL_SEND_FAILED", "failed to send email")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

// domainErrorToHTTPStatus maps specific domain errors to HTTP status codes.
// Duplicate email and wrong password surface as 400, matching the public API
// contract rather than the usual 409/401.
func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	case "MISSING_FIELDS", "EMPTY_UPDATE", "INVALID_INPUT",
		"EMAIL_EXISTS", "INCORRECT_PASSWORD":
		return http.StatusBadRequest

	case "UNAUTHORIZED", "INVALID_TOKEN", "NOT_ALLOWED", "INVALID_RESET_TOKEN":
		return http.StatusUnauthorized

	case "USER_NOT_FOUND", "MOVIE_NOT_FOUND":
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
