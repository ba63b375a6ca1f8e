// Package errors provides standardized error handling for the notification service.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Dispatch path
	ErrCodeEventNotFound          ErrorCode = "EVENT_NOT_FOUND"
	ErrCodeTemplateNotFound       ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeEmailSendFailed        ErrorCode = "EMAIL_SEND_FAILED"
	ErrCodeInAppInsertFailed      ErrorCode = "IN_APP_INSERT_FAILED"
	ErrCodeSMSSendFailed          ErrorCode = "SMS_SEND_FAILED"
	ErrCodeRecipientLookupFailed  ErrorCode = "RECIPIENT_LOOKUP_FAILED"
	ErrCodeSettingsLookupFailed   ErrorCode = "SETTINGS_LOOKUP_FAILED"
	ErrCodeDeliveryLogWriteFailed ErrorCode = "DELIVERY_LOG_WRITE_FAILED"

	// HTTP/context-building path
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden           ErrorCode = "FORBIDDEN"
	ErrCodeEntityNotFound      ErrorCode = "ENTITY_NOT_FOUND"
	ErrCodeOrganizationUnknown ErrorCode = "ORGANIZATION_UNKNOWN"

	// Infrastructure
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewEventNotFoundError is the dispatcher's only hard-stop error.
func NewEventNotFoundError(code string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEventNotFound,
		Message:   "Notification event not found",
		Details:   fmt.Sprintf("no event registered for code %q", code),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateNotFoundError signals that no template resolved at any
// precedence level (org, default, embedded catalog).
func NewTemplateNotFoundError(eventCode string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateNotFound,
		Message:   "No email template found",
		Details:   fmt.Sprintf("event %q has no org, default, or built-in template", eventCode),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewEmailSendError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmailSendFailed,
		Message:   "Email delivery failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewInAppInsertError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInAppInsertFailed,
		Message:   "In-app notification insert failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewSMSSendError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSMSSendFailed,
		Message:   "SMS delivery failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewEntityNotFoundError(entity, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEntityNotFound,
		Message:   fmt.Sprintf("%s not found", entity),
		Details:   fmt.Sprintf("%s %q does not exist", entity, id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewQueryError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Tables
// ==========================

// httpStatus maps error codes to HTTP response statuses for the API layer.
var httpStatus = map[ErrorCode]int{
	ErrCodeValidationFailed:         http.StatusBadRequest,
	ErrCodeUnauthorized:             http.StatusUnauthorized,
	ErrCodeForbidden:                http.StatusForbidden,
	ErrCodeEventNotFound:            http.StatusNotFound,
	ErrCodeEntityNotFound:           http.StatusNotFound,
	ErrCodeOrganizationUnknown:      http.StatusNotFound,
	ErrCodeTemplateNotFound:         http.StatusUnprocessableEntity,
	ErrCodeDatabaseConnectionFailed: http.StatusServiceUnavailable,
	ErrCodeCacheUnavailable:         http.StatusServiceUnavailable,
}

// HTTPStatus returns the HTTP status for an error code, defaulting to 500.
func HTTPStatus(code ErrorCode) int {
	if status, ok := httpStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// errorCategory groups codes for metrics labels.
var errorCategory = map[ErrorCode]string{
	ErrCodeEventNotFound:            "reference",
	ErrCodeTemplateNotFound:         "template",
	ErrCodeEmailSendFailed:          "delivery",
	ErrCodeInAppInsertFailed:        "delivery",
	ErrCodeSMSSendFailed:            "delivery",
	ErrCodeRecipientLookupFailed:    "query",
	ErrCodeSettingsLookupFailed:     "query",
	ErrCodeDeliveryLogWriteFailed:   "audit",
	ErrCodeValidationFailed:         "request",
	ErrCodeUnauthorized:             "auth",
	ErrCodeForbidden:                "auth",
	ErrCodeEntityNotFound:           "reference",
	ErrCodeOrganizationUnknown:      "reference",
	ErrCodeDatabaseConnectionFailed: "infrastructure",
	ErrCodeQueryExecutionFailed:     "infrastructure",
	ErrCodeCacheUnavailable:         "infrastructure",
}

// GetErrorCategory returns the metrics category for a code.
func GetErrorCategory(code ErrorCode) string {
	if cat, ok := errorCategory[code]; ok {
		return cat
	}
	return "internal"
}

// Normalize ensures any error is represented as a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err.Error())
}
