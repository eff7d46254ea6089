// Package httpjson centralizes JSON response writing so every handler speaks
// the same envelope and domain errors translate to HTTP statuses in exactly
// one place.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "emanifest/pkg/errors"
)

// Write encodes v with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the error envelope returned to clients.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteError translates a domain error into the JSON error envelope. Errors
// without a code are reported as internal without leaking detail.
func WriteError(w http.ResponseWriter, err error) {
	var e pkgerrors.Error
	if errors.As(err, &e) {
		Write(w, pkgerrors.ToHTTPStatus(e.Code), ErrorBody{Error: string(e.Code), Message: e.Message})
		return
	}
	Write(w, http.StatusInternalServerError, ErrorBody{Error: string(pkgerrors.CodeInternal)})
}
