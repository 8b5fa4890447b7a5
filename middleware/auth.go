package middleware

import (
	"errors"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/gin-gonic/gin"
	"github.com/serviyapp/serviyapp-api/auth"
	"github.com/serviyapp/serviyapp-api/models"
	"go.uber.org/zap"
)

const (
	principalKey = "principal"
	userIDKey    = "user_id"
)

// RequireAuth is a middleware that checks the bearer token, reloads the
// account it names and attaches the principal to the context. The stored
// role replaces the one in the token; deleted or missing accounts get 401.
func RequireAuth(verifier auth.TokenVerifier, principals auth.PrincipalRefresher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := jwtmiddleware.AuthHeaderTokenExtractor(c.Request)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Authorization header format must be Bearer {token}")
			return
		}
		if token == "" {
			abortWithError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Authorization token is required")
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired")
				return
			}
			logger.Debug("Rejected bearer token", zap.Error(err))
			abortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Failed to validate token")
			return
		}

		principal, err := principals.Refresh(c.Request.Context(), claims)
		if errors.Is(err, auth.ErrPrincipalNotFound) {
			logger.Info("Rejected token of inactive account", zap.String("id", claims.ID))
			abortWithError(c, http.StatusUnauthorized, "ACCOUNT_INACTIVE", "Account is deleted or does not exist")
			return
		}
		if err != nil {
			logger.Error("Failed to load principal", zap.String("id", claims.ID), zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load account")
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

// RequireRoles is a middleware that admits only principals holding one of roles.
// It must run after RequireAuth.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetPrincipal(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "MISSING_PRINCIPAL", "Could not retrieve token claims")
			return
		}

		if !auth.HasRole(claims, roles...) {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions to access this resource")
			return
		}

		c.Next()
	}
}

// GetPrincipal extracts the authenticated principal from the Gin context
func GetPrincipal(c *gin.Context) (*auth.Claims, error) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_PRINCIPAL", Message: "Principal not found in context"}
	}

	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_PRINCIPAL", Message: "Principal is not in the expected format"}
	}

	return claims, nil
}

// GetUserID extracts the authenticated principal's id from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// SetPrincipal attaches claims to the context the way RequireAuth does
func SetPrincipal(c *gin.Context, claims *auth.Claims) {
	c.Set(principalKey, claims)
	c.Set(userIDKey, claims.ID)
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
