// Package handlers implements the REST surface over the lifecycle engine,
// the identity service, and the spin hub.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nithinkp/kurihub/internal/identity"
	"github.com/nithinkp/kurihub/internal/scheme"
)

// writeError maps engine and identity errors to an HTTP status and a
// machine-readable code. Anything unrecognized is a 500.
func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "Internal"
	switch {
	case errors.Is(err, scheme.ErrValidation), errors.Is(err, identity.ErrMissingFields):
		status, code = http.StatusBadRequest, "Validation"
	case errors.Is(err, scheme.ErrInvalidMember):
		status, code = http.StatusBadRequest, "InvalidMember"
	case errors.Is(err, identity.ErrDuplicateEmail):
		status, code = http.StatusBadRequest, "DuplicateEmail"
	case errors.Is(err, scheme.ErrForbidden):
		status, code = http.StatusForbidden, "Forbidden"
	case errors.Is(err, scheme.ErrNotFound):
		status, code = http.StatusNotFound, "NotFound"
	case errors.Is(err, scheme.ErrConflict):
		status, code = http.StatusConflict, "Conflict"
	case errors.Is(err, scheme.ErrRotationPolicy):
		status, code = http.StatusConflict, "RotationPolicy"
	case errors.Is(err, scheme.ErrTooEarly):
		status, code = http.StatusUnprocessableEntity, "TooEarly"
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Repository/infra failures are reported generically.
		msg = "internal error"
	}
	c.JSON(status, gin.H{"success": false, "error": msg, "code": code})
}
