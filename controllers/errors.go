package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serviyapp/serviyapp-api/auth"
	"github.com/serviyapp/serviyapp-api/services"
	"github.com/serviyapp/serviyapp-api/store"
	"github.com/serviyapp/serviyapp-api/utils"
	"go.uber.org/zap"
)

// apiError is the HTTP form of a domain error
type apiError struct {
	status  int
	code    string
	message string
}

var internalError = apiError{http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"}

// classify maps every error the controllers can see onto one HTTP response
func classify(err error) apiError {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		switch authErr {
		case auth.ErrPrincipalNotFound, auth.ErrCredentialMismatch:
			return apiError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
		case auth.ErrDuplicateEmail, auth.ErrDuplicateHandle, auth.ErrHandleCollision:
			return apiError{http.StatusConflict, authErr.Code, authErr.Message}
		case auth.ErrTokenInvalid, auth.ErrTokenExpired:
			return apiError{http.StatusUnauthorized, authErr.Code, authErr.Message}
		case auth.ErrForbidden:
			return apiError{http.StatusForbidden, authErr.Code, authErr.Message}
		case auth.ErrUnknownVariant:
			return apiError{http.StatusNotFound, authErr.Code, authErr.Message}
		default:
			return apiError{http.StatusBadRequest, authErr.Code, authErr.Message}
		}
	}

	var fileErr *utils.FileUploadError
	if errors.As(err, &fileErr) {
		return apiError{http.StatusBadRequest, fileErr.Code, fileErr.Message}
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return apiError{http.StatusNotFound, "NOT_FOUND", "Resource not found"}
	case errors.Is(err, store.ErrDuplicateEmail):
		return apiError{http.StatusConflict, auth.ErrDuplicateEmail.Code, auth.ErrDuplicateEmail.Message}
	case errors.Is(err, store.ErrDuplicateHandle):
		return apiError{http.StatusConflict, auth.ErrDuplicateHandle.Code, auth.ErrDuplicateHandle.Message}
	case errors.Is(err, store.ErrLocationMismatch):
		return apiError{http.StatusBadRequest, auth.ErrInvalidLocation.Code, auth.ErrInvalidLocation.Message}
	case errors.Is(err, services.ErrInvalidState):
		return apiError{http.StatusBadRequest, "INVALID_STATE", err.Error()}
	case errors.Is(err, services.ErrEmailNotVerified):
		return apiError{http.StatusUnauthorized, "EMAIL_NOT_VERIFIED", err.Error()}
	case errors.Is(err, services.ErrStorageUnavailable):
		return apiError{http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", err.Error()}
	}
	return internalError
}

// respondError writes the error envelope. Server-side failures are logged with the cause.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	apiErr := classify(err)
	if apiErr.status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	writeError(c, apiErr.status, apiErr.code, apiErr.message)
}

// respondValidationError reports a request body that failed binding
func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func forbidden(c *gin.Context) {
	writeError(c, http.StatusForbidden, auth.ErrForbidden.Code, "You can only access your own resources")
}
