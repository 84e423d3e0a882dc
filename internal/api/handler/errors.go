package handler

import (
	"net/http"

	"github.com/TheBigR/diceGame-back/internal/api/apierr"
)

// WriteError writes an error response (re-exported for handler convenience)
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}
