package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	billingdomain "github.com/nhatrolabs/nhatro/internal/billing/domain"
	roomdomain "github.com/nhatrolabs/nhatro/internal/room/domain"
	tenantdomain "github.com/nhatrolabs/nhatro/internal/tenant/domain"
)

type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return e.Message }

func invalidRequestError() *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "invalid request body"}
}

// AbortWithError maps domain sentinel errors onto the HTTP taxonomy:
// 400 validation (malformed ids included, distinct from 404), 404 missing
// entity, 409 integrity breach or lost update, 500 anything unclassified.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		_ = c.Error(err)
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	status := http.StatusInternalServerError
	code := "internal_error"
	switch {
	case isValidationError(err):
		status = http.StatusBadRequest
		code = err.Error()
	case isNotFoundError(err):
		status = http.StatusNotFound
		code = err.Error()
	case isIntegrityError(err):
		status = http.StatusConflict
		code = err.Error()
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": &APIError{
		Status:  status,
		Code:    code,
		Message: messageFor(status, err),
	}})
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, roomdomain.ErrInvalidID),
		errors.Is(err, roomdomain.ErrNameRequired),
		errors.Is(err, roomdomain.ErrNegativePrice),
		errors.Is(err, tenantdomain.ErrInvalidID),
		errors.Is(err, tenantdomain.ErrNameRequired),
		errors.Is(err, billingdomain.ErrInvalidID),
		errors.Is(err, billingdomain.ErrNegativeUsage):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, roomdomain.ErrNotFound),
		errors.Is(err, tenantdomain.ErrNotFound),
		errors.Is(err, billingdomain.ErrNotFound):
		return true
	default:
		return false
	}
}

func isIntegrityError(err error) bool {
	switch {
	case errors.Is(err, roomdomain.ErrOccupied),
		errors.Is(err, roomdomain.ErrVersionConflict),
		errors.Is(err, billingdomain.ErrVersionConflict),
		errors.Is(err, billingdomain.ErrRoomMissing):
		return true
	default:
		return false
	}
}

func messageFor(status int, err error) string {
	if status == http.StatusInternalServerError {
		// Persistence failures propagate uncaught; don't leak them.
		return "an unknown error occurred"
	}
	return err.Error()
}
