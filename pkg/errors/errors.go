// Package errors defines the service-wide error vocabulary. Domain and
// transport layers agree on codes here so handlers can translate any error
// into a consistent HTTP response without inspecting message text.
package errors

import (
	"errors"
	"net/http"
)

// Code classifies an error for transport translation and metrics labels.
type Code string

const (
	// CodeBadRequest covers malformed input the caller can fix trivially.
	CodeBadRequest Code = "bad_request"
	// CodeValidation covers field-scoped validation failures. These are
	// expected, frequent outcomes returned as values, never panics.
	CodeValidation Code = "validation_failed"
	// CodeTransitionDenied means the requested status change is illegal from
	// the current status.
	CodeTransitionDenied Code = "transition_denied"
	// CodeLocked means an edit was attempted on a locked manifest. Recovery
	// goes through the external process named by the lock reason.
	CodeLocked Code = "locked"
	// CodeInvariant marks a structural invariant broken by the caller. It is
	// an integration error, not something a user can correct field by field.
	CodeInvariant Code = "invariant_violation"
	// CodeNotFound means the record does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict covers uniqueness and concurrent-update conflicts reported
	// by the persistence layer.
	CodeConflict Code = "conflict"
	// CodeInternal is the fallback for unexpected faults.
	CodeInternal Code = "internal"
)

// Error carries a code and a human-readable message.
type Error struct {
	Code    Code
	Message string
}

func (e Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// New builds an Error with the given code and message.
func New(code Code, message string) Error {
	return Error{Code: code, Message: message}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var e Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var e Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps an error code to an HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvariant:
		return http.StatusBadRequest
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeTransitionDenied, CodeConflict:
		return http.StatusConflict
	case CodeLocked:
		return http.StatusLocked
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
