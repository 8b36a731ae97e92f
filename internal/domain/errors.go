package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Payment Gateway Errors (GATEWAY_*)
	ErrorCodeMalformedURL ErrorCode = "GATEWAY_MALFORMED_URL"
	ErrorCodeProtocol     ErrorCode = "GATEWAY_PROTOCOL_ERROR"
	ErrorCodeTransport    ErrorCode = "GATEWAY_TRANSPORT_ERROR"

	// Validation Errors (VALIDATION_*)
	ErrorCodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
	ErrorCodeValidationAmountInvalid ErrorCode = "VALIDATION_AMOUNT_INVALID"
	ErrorCodeValidationMissingField  ErrorCode = "VALIDATION_MISSING_FIELD"

	// Configuration Errors (CONFIG_*)
	ErrorCodeInvalidEnvironment ErrorCode = "CONFIG_INVALID_ENVIRONMENT"
)

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so the sentinel values
// below work with errors.Is even when a copy with details is returned.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// WithDetail adds a detail field to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// withField copies a sentinel so its details are not shared
func (e *DomainError) withField(field string) *DomainError {
	c := *e
	c.Details = map[string]interface{}{"field": field}
	c.Message = fmt.Sprintf("%s: %s", e.Message, field)
	return &c
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// IsDomainError checks if an error is a DomainError with the given code
func IsDomainError(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeValidationFailed ||
		code == ErrorCodeValidationAmountInvalid ||
		code == ErrorCodeValidationMissingField
}

// IsGatewayError checks if an error came from talking to the payment gateway
func IsGatewayError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeMalformedURL ||
		code == ErrorCodeProtocol ||
		code == ErrorCodeTransport
}

var (
	ErrMalformedURL = NewDomainError(ErrorCodeMalformedURL, "malformed gateway URL")
	ErrProtocol     = NewDomainError(ErrorCodeProtocol, "unexpected gateway response")
	ErrTransport    = NewDomainError(ErrorCodeTransport, "gateway request failed")

	ErrValidationFailed        = NewDomainError(ErrorCodeValidationFailed, "validation failed")
	ErrValidationAmountInvalid = NewDomainError(ErrorCodeValidationAmountInvalid, "invalid amount")
	ErrValidationMissingField  = NewDomainError(ErrorCodeValidationMissingField, "required field missing")

	ErrInvalidEnvironment = NewDomainError(ErrorCodeInvalidEnvironment, "invalid environment")
)
