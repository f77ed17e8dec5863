package services

import (
	"errors"
	"fmt"
	"net/http"

	"badgehub/internal/validation"
)

// ===============================
// ERROR TYPES
// ===============================

const (
	ErrTypeValidation          = "VALIDATION_ERROR"
	ErrTypeNotFound            = "NOT_FOUND"
	ErrTypeUnauthorized        = "UNAUTHORIZED"
	ErrTypeInternal            = "INTERNAL_ERROR"
	ErrTypeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	ErrTypeConnection          = "CONNECTION_ERROR"
	ErrTypeRegistration        = "REGISTRATION_ERROR"
	ErrTypeAward               = "AWARD_ERROR"
	ErrTypeUpload              = "UPLOAD_ERROR"
)

// ServiceError represents a structured service error
type ServiceError struct {
	Type       string                 `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	Cause      error                  `json:"-"`
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// Is matches another ServiceError by Type, so errors.Is(err, ErrProviderUnavailable) works
// for any provider-unavailable error regardless of message.
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// GetStatusCode returns the HTTP status code for this error
func (e *ServiceError) GetStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// Sentinels for errors.Is checks.
var (
	ErrProviderUnavailable = &ServiceError{Type: ErrTypeProviderUnavailable}
	ErrConnection          = &ServiceError{Type: ErrTypeConnection}
	ErrRegistration        = &ServiceError{Type: ErrTypeRegistration}
	ErrAward               = &ServiceError{Type: ErrTypeAward}
	ErrNotFound            = &ServiceError{Type: ErrTypeNotFound}
	ErrValidation          = &ServiceError{Type: ErrTypeValidation}
)

// ===============================
// ERROR CONSTRUCTORS
// ===============================

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *ServiceError {
	err := &ServiceError{
		Type:       ErrTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
	var fields validation.Errors
	if errors.As(cause, &fields) {
		details := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			details[f.Field] = f.Tag
		}
		err.Details = details
	}
	return err
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewProviderUnavailableError reports that no wallet provider is reachable.
func NewProviderUnavailableError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeProviderUnavailable,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
	}
}

// NewConnectionError reports a provider rejection during connect.
func NewConnectionError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeConnection,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewRegistrationError reports a failed badge registration round-trip.
func NewRegistrationError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeRegistration,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewAwardError reports a failed award round-trip.
func NewAwardError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeAward,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewUploadError reports a failed image upload.
func NewUploadError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeUpload,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// ===============================
// ERROR UTILITIES
// ===============================

// GetServiceError extracts a ServiceError from an error, or creates a generic one
func GetServiceError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr
	}
	return NewInternalError(err.Error())
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType string) bool {
	if serviceErr := GetServiceError(err); serviceErr != nil {
		return serviceErr.Type == errorType
	}
	return false
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return IsErrorType(err, ErrTypeNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return IsErrorType(err, ErrTypeValidation)
}

// EntityNotFoundError creates a standard entity not found error
func EntityNotFoundError(entityType string, id interface{}) *ServiceError {
	err := NewNotFoundError(fmt.Sprintf("%s not found", entityType))
	err.Details = map[string]interface{}{
		"resource": entityType,
		"id":       id,
	}
	return err
}

// messageOf extracts the human-readable part of an error for state snapshots.
func messageOf(err error, fallback string) string {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		if serviceErr.Cause != nil && serviceErr.Cause.Error() != "" {
			return serviceErr.Cause.Error()
		}
		if serviceErr.Message != "" {
			return serviceErr.Message
		}
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
