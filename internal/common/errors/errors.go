// Package errors provides standardized error handling for the funnel service.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidSubmission ErrorCode = "INVALID_SUBMISSION"
	ErrCodeInvalidPlan       ErrorCode = "INVALID_PLAN"
	ErrCodeInvalidOption     ErrorCode = "INVALID_PAYMENT_OPTION"
	ErrCodeInvalidChannelURL ErrorCode = "INVALID_CHANNEL_URL"

	ErrCodeSignatureInvalid ErrorCode = "SIGNATURE_INVALID"
	ErrCodeTokenInvalid     ErrorCode = "TOKEN_INVALID"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"

	ErrCodePaymentNotConfirmed ErrorCode = "PAYMENT_NOT_CONFIRMED"
	ErrCodeSessionLookupFailed ErrorCode = "SESSION_LOOKUP_FAILED"
	ErrCodeCheckoutFailed      ErrorCode = "CHECKOUT_FAILED"

	ErrCodeCRMRequestFailed     ErrorCode = "CRM_REQUEST_FAILED"
	ErrCodeSheetUpdateFailed    ErrorCode = "SHEET_UPDATE_FAILED"
	ErrCodeSheetColumnsMissing  ErrorCode = "SHEET_COLUMNS_MISSING"
	ErrCodeSheetRowNotFound     ErrorCode = "SHEET_ROW_NOT_FOUND"
	ErrCodeInviteCreationFailed ErrorCode = "INVITE_CREATION_FAILED"
	ErrCodeNotificationFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeUnrecognizedPayload ErrorCode = "UNRECOGNIZED_PAYLOAD"

	ErrCodeStorageFailed ErrorCode = "STORAGE_FAILED"
	ErrCodeLedgerFailed  ErrorCode = "LEDGER_FAILED"
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

// IsClientError reports whether the error maps to a 4xx response.
func (e *StandardError) IsClientError() bool {
	switch e.Code {
	case ErrCodeInvalidSubmission, ErrCodeInvalidPlan, ErrCodeInvalidOption,
		ErrCodeInvalidChannelURL, ErrCodeSignatureInvalid, ErrCodeTokenInvalid,
		ErrCodeUnauthorized, ErrCodePaymentNotConfirmed, ErrCodeUnrecognizedPayload:
		return true
	}
	return false
}

// --- Error Constructors ---

// NewInvalidSubmissionError creates a non-retryable client input error.
func NewInvalidSubmissionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSubmission,
		Message:   "Invalid submission payload",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPlanError creates a non-retryable unknown-plan error.
func NewInvalidPlanError(planCode string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPlan,
		Message:   "Invalid plan",
		Details:   fmt.Sprintf("planCode: %s", planCode),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidOptionError creates a non-retryable unknown-payment-option error.
func NewInvalidOptionError(planCode, optionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidOption,
		Message:   "Invalid payment option",
		Details:   fmt.Sprintf("planCode: %s, optionId: %s", planCode, optionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidChannelURLError creates a non-retryable malformed-URL error.
func NewInvalidChannelURLError(url string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidChannelURL,
		Message:   "Could not resolve channel identifier from URL",
		Details:   url,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSignatureInvalidError creates a non-retryable webhook signature error.
func NewSignatureInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSignatureInvalid,
		Message:   "Webhook signature verification failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTokenInvalidError creates a non-retryable shared-secret token error.
func NewTokenInvalidError() *StandardError {
	return &StandardError{
		Code:      ErrCodeTokenInvalid,
		Message:   "Invalid or missing invite token",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnauthorizedError creates a non-retryable cron auth error.
func NewUnauthorizedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorized,
		Message:   "Unauthorized",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentNotConfirmedError creates a non-retryable payment-status error.
func NewPaymentNotConfirmedError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodePaymentNotConfirmed,
		Message:   "Payment not confirmed",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionLookupFailedError creates a retryable payment-processor error.
func NewSessionLookupFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionLookupFailed,
		Message:   "Checkout session lookup failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCheckoutFailedError creates a retryable session-creation error.
func NewCheckoutFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCheckoutFailed,
		Message:   "Failed to create checkout session",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCRMRequestFailedError creates a retryable CRM platform error.
func NewCRMRequestFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCRMRequestFailed,
		Message:   "CRM request failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSheetUpdateFailedError creates a retryable spreadsheet error.
func NewSheetUpdateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSheetUpdateFailed,
		Message:   "Spreadsheet update failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSheetColumnsMissingError creates a non-retryable sheet layout error.
func NewSheetColumnsMissingError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSheetColumnsMissing,
		Message:   "Required columns not found in sheet",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSheetRowNotFoundError creates a non-retryable no-match error.
func NewSheetRowNotFoundError(email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSheetRowNotFound,
		Message:   "Email not found in sheet",
		Details:   email,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInviteCreationFailedError creates a retryable chat platform error.
func NewInviteCreationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInviteCreationFailed,
		Message:   "Failed to generate invite",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationFailedError creates a retryable notification delivery error.
func NewNotificationFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnrecognizedPayloadError creates a non-retryable payload shape error.
func NewUnrecognizedPayloadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnrecognizedPayload,
		Message:   "Unrecognized webhook payload shape",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageFailedError creates a retryable submission store error.
func NewStorageFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFailed,
		Message:   "Submission store operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLedgerFailedError creates a retryable idempotency ledger error.
func NewLedgerFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLedgerFailed,
		Message:   "Idempotency ledger operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
