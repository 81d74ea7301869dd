// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/fairyhunter13/product-option-service/internal/catalog"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, jsonError{Error: message, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// viewStatus maps catalog view error codes to HTTP statuses.
var viewStatus = map[string]int{
	"not_found":            http.StatusNotFound,
	"invalid_filter":       http.StatusBadRequest,
	"matrix_too_large":     http.StatusUnprocessableEntity,
	"invalid_catalog":      http.StatusUnprocessableEntity,
	"internal_consistency": http.StatusInternalServerError,
}

// writeViewError reports a matrix or nesting failure. Details are only
// exposed for errors caused by the request or the catalog contents.
func writeViewError(w http.ResponseWriter, err error) {
	code := catalog.ErrorCode(err)
	status, ok := viewStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	details := ""
	if status < http.StatusInternalServerError && status != http.StatusNotFound {
		details = err.Error()
	}
	WriteJSONError(w, status, code, details)
}
