package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cipherworks/hybrid-kms/internal/registry"
)

// Error codes for API responses.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeMalformedKey   = "MALFORMED_KEY"
	CodeIncompleteKey  = "INCOMPLETE_KEY"
	CodeInvalidFormat  = "INVALID_KEY_FORMAT"
	CodeKeyVersion     = "KEY_VERSION_UNSUPPORTED"
	CodeUnsupported    = "UNSUPPORTED_OPERATION"
	CodeInternal       = "INTERNAL_ERROR"
)

// ErrKeyNotFound indicates no stored key matches the requested identifier.
var ErrKeyNotFound = errors.New("key not found")

// MapError maps an internal error to an HTTP status code and APIError.
func MapError(err error) (int, *APIError) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case errors.Is(err, ErrKeyNotFound), errors.Is(err, registry.ErrManagerNotFound):
		return http.StatusNotFound, &APIError{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, registry.ErrInvalidArgument):
		return http.StatusBadRequest, &APIError{Code: CodeInvalidRequest, Message: err.Error()}
	case errors.Is(err, registry.ErrMalformedKey):
		return http.StatusBadRequest, &APIError{Code: CodeMalformedKey, Message: err.Error()}
	case errors.Is(err, registry.ErrIncompleteKey):
		return http.StatusBadRequest, &APIError{Code: CodeIncompleteKey, Message: err.Error()}
	case errors.Is(err, registry.ErrInvalidKeyFormat):
		return http.StatusBadRequest, &APIError{Code: CodeInvalidFormat, Message: err.Error()}
	case errors.Is(err, registry.ErrKeyVersion):
		return http.StatusBadRequest, &APIError{Code: CodeKeyVersion, Message: err.Error()}
	case errors.Is(err, registry.ErrUnsupportedOperation):
		return http.StatusNotImplemented, &APIError{Code: CodeUnsupported, Message: err.Error()}
	}

	// KeyError with operation context but no known sentinel
	var keyErr *registry.KeyError
	if errors.As(err, &keyErr) {
		return http.StatusInternalServerError, &APIError{
			Code:    CodeInternal,
			Message: keyErr.Error(),
			Details: map[string]string{
				"operation": keyErr.Op,
				"type_url":  keyErr.TypeURL,
			},
		}
	}

	return http.StatusInternalServerError, &APIError{
		Code:    CodeInternal,
		Message: "an internal error occurred",
	}
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes an APIError response.
func respondError(w http.ResponseWriter, status int, apiErr *APIError) {
	respondJSON(w, status, map[string]*APIError{"error": apiErr})
}

// respondMappedError maps err and writes the resulting APIError.
func respondMappedError(w http.ResponseWriter, err error) {
	status, apiErr := MapError(err)
	respondError(w, status, apiErr)
}
