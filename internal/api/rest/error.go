package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/openmint-xyz/openmint/internal/api/shared/errors"
	"github.com/openmint-xyz/openmint/internal/logger"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error apierrors.APIError `json:"error"`
}

// statusForCode maps an API error code to its HTTP status
func statusForCode(code apierrors.ErrorCode) int {
	switch code {
	case apierrors.ErrCodeBadRequest, apierrors.ErrCodeValidationFailed:
		return http.StatusBadRequest
	case apierrors.ErrCodeUnauthorized, apierrors.ErrCodeSignatureMismatch:
		return http.StatusUnauthorized
	case apierrors.ErrCodeForbidden, apierrors.ErrCodeOwnershipMismatch, apierrors.ErrCodeNotOwner:
		return http.StatusForbidden
	case apierrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apierrors.ErrCodeDuplicateRecord:
		return http.StatusConflict
	case apierrors.ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// respondError sends the structured error response for an executor error.
// Unrecognized errors become opaque 500s; their details are logged, not leaked.
func respondError(c *gin.Context, err error) {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
		apiErr = apierrors.NewInternalError("Internal server error")
	}

	status := statusForCode(apiErr.Code)
	if status >= http.StatusInternalServerError {
		logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))
		// Database and service failures are reported without internals
		apiErr = &apierrors.APIError{Code: apiErr.Code, Message: apiErr.Message}
	}

	c.JSON(status, errorResponse{Error: *apiErr})
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondError(c, apierrors.NewValidationError(details))
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondError(c, apierrors.NewBadRequestError(message, details...))
}
