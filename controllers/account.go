package controllers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/serviyapp/serviyapp-api/auth"
	"github.com/serviyapp/serviyapp-api/middleware"
	"github.com/serviyapp/serviyapp-api/models"
	"github.com/serviyapp/serviyapp-api/services"
	"github.com/serviyapp/serviyapp-api/utils"
	"go.uber.org/zap"
)

// principal returns the authenticated caller or writes a 401 and returns nil
func principal(c *gin.Context) *auth.Claims {
	claims, err := middleware.GetPrincipal(c)
	if err != nil {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return nil
	}
	return claims
}

// authorizeTarget returns the caller when it may act on the :id record
func authorizeTarget(c *gin.Context) (*auth.Claims, string, bool) {
	claims := principal(c)
	if claims == nil {
		return nil, "", false
	}
	id := c.Param("id")
	if !auth.CanActOn(claims, id) {
		forbidden(c)
		return nil, "", false
	}
	return claims, id, true
}

// prepareAccountUpdate strips fields the caller may not change, normalizes
// the email and replaces a plaintext password by its hash
func prepareAccountUpdate(claims *auth.Claims, fields map[string]interface{}, hash func(string) (string, error)) (map[string]interface{}, error) {
	clean := auth.SanitizeUpdate(claims, fields)

	if email, ok := clean["email"].(string); ok {
		clean["email"] = models.NormalizeEmail(email)
	}
	if password, ok := clean["password"].(string); ok {
		delete(clean, "password")
		hashed, err := hash(password)
		if err != nil {
			return nil, err
		}
		clean["password_hash"] = hashed
	}

	if len(clean) == 0 {
		return nil, auth.ErrInvalidInput
	}
	return clean, nil
}

// setString copies a present optional string into fields under column
func setString(fields map[string]interface{}, column string, value *string) {
	if value != nil {
		fields[column] = strings.TrimSpace(*value)
	}
}

// formImage returns the uploaded "image" part, validated for format and size
func formImage(c *gin.Context) (*multipart.FileHeader, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, utils.ValidateImageFile(nil)
		}
		return nil, &utils.FileUploadError{Code: "INVALID_UPLOAD", Message: "Could not read the uploaded file"}
	}
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return nil, err
	}
	return fileHeader, nil
}

// replacePicture removes the previous picture once the new key is stored.
// A failed removal only leaves an orphaned object behind.
func replacePicture(ctx context.Context, images services.ImageService, logger *zap.Logger, previous, current string) {
	if previous == "" || previous == current {
		return
	}
	if err := images.DeleteImage(ctx, previous); err != nil {
		logger.Warn("Failed to delete previous profile picture", zap.String("key", previous), zap.Error(err))
	}
}

func parseStatusFilter(raw string) (models.Status, error) {
	status := models.Status(strings.ToLower(strings.TrimSpace(raw)))
	if status != "" && !status.Valid() {
		return "", auth.ErrInvalidInput
	}
	return status, nil
}
