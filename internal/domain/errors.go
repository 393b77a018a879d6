package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies every terminal outcome of webhook processing.
type ErrorCode string

const (
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeMalformedPayload   ErrorCode = "MALFORMED_PAYLOAD"
	CodeMissingFields      ErrorCode = "MISSING_FIELDS"
	CodeInvalidExternalID  ErrorCode = "INVALID_EXTERNAL_ID"
	CodeBookingNotFound    ErrorCode = "BOOKING_NOT_FOUND"
	CodePaymentNotFound    ErrorCode = "PAYMENT_NOT_FOUND"
	CodeInvalidRecipient   ErrorCode = "INVALID_RECIPIENT"
	CodeMissingBookingCode ErrorCode = "MISSING_BOOKING_CODE"
	CodeRenderFailure      ErrorCode = "RENDER_FAILURE"
	CodeDeliveryFailure    ErrorCode = "DELIVERY_FAILURE"
	CodeInternal           ErrorCode = "INTERNAL"
)

// DomainError carries an error code, a short human-readable message for the
// webhook response body, and an optional underlying cause.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewError creates a DomainError with the given code and message.
func NewError(code ErrorCode, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WrapError creates a DomainError around an underlying cause.
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// CodeOf extracts the ErrorCode from err, or CodeInternal if err is not a
// DomainError.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the response message from err. Non-domain errors map to
// a generic message so internal details never leak to the provider.
func MessageOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return "Internal server error"
}

// HTTPStatus maps an error to the status code reported back to the payment
// provider. The provider retries on 5xx, so only genuinely retryable
// failures should map there.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeMalformedPayload, CodeMissingFields, CodeInvalidExternalID,
		CodeInvalidRecipient, CodeMissingBookingCode:
		return http.StatusBadRequest
	case CodeBookingNotFound, CodePaymentNotFound:
		return http.StatusNotFound
	case CodeRenderFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
