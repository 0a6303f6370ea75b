package catalog

import (
	"errors"
	"net/http"
)

var (
	// Validation errors
	ErrValidation = errors.New("validation failed")

	// Business rule errors
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("id already exists")

	// Storage errors
	ErrObjectNotFound = errors.New("object not found")
	ErrDocumentBusy   = errors.New("catalog document busy")
)

// ToHTTPStatus converts a service error to an HTTP status code.
// Anything not in the taxonomy is a storage failure and surfaces as 500
// with the causing message in the body for operator diagnosis.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateID):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
