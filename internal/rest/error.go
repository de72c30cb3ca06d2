// Package rest holds small helpers shared by the HTTP handlers.
package rest

import (
	"errors"
	"net/http"

	"github.com/mulahmanage/mulah/internal/fault"
)

// WriteError maps a service error onto an HTTP status: validation failures
// become 400, missing entities 404, everything else (storage failures
// included) 500.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fault.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, fault.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
