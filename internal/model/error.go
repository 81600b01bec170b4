package model

import (
	"errors"
	"net/http"
)

// Standard error codes for API responses
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConfiguration    = "CONFIGURATION_ERROR"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeAuthorization    = "AUTHORIZATION_ERROR"
	ErrCodeGateway          = "GATEWAY_ERROR"
	ErrCodeInvalidSignature = "INVALID_SIGNATURE"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError carries a machine-readable code, a human-readable message and
// the HTTP status the handler layer should respond with.
type DomainError struct {
	Code    string
	Message string
	Status  int
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// NewValidationError reports missing or malformed required input (400).
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message, http.StatusBadRequest)
}

// NewNotFoundError reports an absent entity (404).
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(ErrCodeNotFound, message, http.StatusNotFound)
}

// NewConfigurationError reports an absent external credential (503).
func NewConfigurationError(message string) *DomainError {
	return NewDomainError(ErrCodeConfiguration, message, http.StatusServiceUnavailable)
}

// NewConflictError reports a duplicate unique key (400).
func NewConflictError(message string) *DomainError {
	return NewDomainError(ErrCodeConflict, message, http.StatusBadRequest)
}

// NewAuthorizationError reports a role mismatch (403).
func NewAuthorizationError(message string) *DomainError {
	return NewDomainError(ErrCodeAuthorization, message, http.StatusForbidden)
}

// NewGatewayError reports an upstream provider rejection. The status is
// mirrored from the provider when it is a client error, else 500.
func NewGatewayError(message string, providerStatus int) *DomainError {
	status := http.StatusInternalServerError
	if providerStatus >= 400 && providerStatus < 500 {
		status = providerStatus
	}
	return NewDomainError(ErrCodeGateway, message, status)
}

// NewInvalidSignatureError reports a payment signature mismatch (400).
func NewInvalidSignatureError(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidSignature, message, http.StatusBadRequest)
}

// AsDomainError unwraps err into a *DomainError if one is in the chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
