// Package domainerrors provides coded errors for the service boundary.
//
// Services translate store sentinels and oracle failures into coded errors;
// the HTTP transport translates codes into statuses. Codes mirror the
// protocol's error kinds so callers can branch without string matching.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	// CodeNotFound: unknown registration or credential id. Recoverable; the
	// caller retries with a correct id.
	CodeNotFound Code = "not_found"
	// CodeUnknownRequest: unrecognized or already-consumed oracle request id.
	// Treated as a security signal and never silently swallowed.
	CodeUnknownRequest Code = "unknown_request"
	// CodeInvalidProof: cryptographic verification of an oracle callback
	// failed. Fatal for that callback; the pending request is left intact so
	// an out-of-band recovery process can resubmit.
	CodeInvalidProof Code = "invalid_proof"
	// CodeNotEligible: terminal verification outcome; not retryable for the
	// registration it concerns.
	CodeNotEligible Code = "not_eligible"
	// CodeAlreadyIssued, CodeCommitmentReused, CodeAlreadyConsumed are the
	// idempotency guards. Always surfaced, never masked.
	CodeAlreadyIssued    Code = "already_issued"
	CodeCommitmentReused Code = "commitment_reused"
	CodeAlreadyConsumed  Code = "already_consumed"

	CodeValidation   Code = "validation"
	CodeUnauthorized Code = "unauthorized"
	CodeInternal     Code = "internal"
)

// Error is a coded domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeNotFound, CodeUnknownRequest:
		// Unknown request ids deliberately look identical to missing
		// resources from the outside; the security signal is logged, not
		// leaked to the caller.
		return http.StatusNotFound
	case CodeInvalidProof:
		return http.StatusBadRequest
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotEligible:
		return http.StatusForbidden
	case CodeAlreadyIssued, CodeCommitmentReused, CodeAlreadyConsumed:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
