package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serviyapp/serviyapp-api/auth"
	"github.com/serviyapp/serviyapp-api/models"
	"github.com/serviyapp/serviyapp-api/services"
	"go.uber.org/zap"
)

// GoogleTokenRequest is the body of a native Google sign-in
type GoogleTokenRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// AuthController serves registration, password login and Google sign-in for both variants
type AuthController struct {
	service *auth.Service
	google  map[models.Variant]services.GoogleOAuth
	states  services.StateStore
	logger  *zap.Logger
}

// NewAuthController creates an AuthController. A variant without a Google
// client answers its Google routes with 503.
func NewAuthController(service *auth.Service, google map[models.Variant]services.GoogleOAuth, states services.StateStore, logger *zap.Logger) *AuthController {
	if google == nil {
		google = map[models.Variant]services.GoogleOAuth{}
	}
	return &AuthController{
		service: service,
		google:  google,
		states:  states,
		logger:  logger,
	}
}

// RegisterUser handles POST /auth/register/user
func (ac *AuthController) RegisterUser(c *gin.Context) {
	var req auth.RegisterUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := ac.service.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}
	respondAuth(c, http.StatusCreated, result)
}

// RegisterProvider handles POST /auth/register/provider
func (ac *AuthController) RegisterProvider(c *gin.Context) {
	var req auth.RegisterProviderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := ac.service.RegisterProvider(c.Request.Context(), req)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}
	respondAuth(c, http.StatusCreated, result)
}

// LoginUser handles POST /auth/login/user
func (ac *AuthController) LoginUser(c *gin.Context) {
	ac.login(c, models.VariantUser)
}

// LoginProvider handles POST /auth/login/provider
func (ac *AuthController) LoginProvider(c *gin.Context) {
	ac.login(c, models.VariantProvider)
}

func (ac *AuthController) login(c *gin.Context, variant models.Variant) {
	var req auth.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	var (
		result *auth.Result
		err    error
	)
	if variant == models.VariantProvider {
		result, err = ac.service.LoginProvider(c.Request.Context(), req.Email, req.Password)
	} else {
		result, err = ac.service.LoginUser(c.Request.Context(), req.Email, req.Password)
	}
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}
	respondAuth(c, http.StatusOK, result)
}

// GoogleRedirect handles GET /auth/google/{variant} by sending the browser to Google
func (ac *AuthController) GoogleRedirect(variant models.Variant) gin.HandlerFunc {
	return func(c *gin.Context) {
		client, ok := ac.google[variant]
		if !ok {
			googleUnavailable(c)
			return
		}

		state, err := ac.states.Issue(c.Request.Context(), variant)
		if err != nil {
			respondError(c, ac.logger, err)
			return
		}
		c.Redirect(http.StatusFound, client.AuthCodeURL(state))
	}
}

// GoogleCallback handles GET /auth/google/{variant}/callback. Every outcome
// is a redirect to the frontend; failures carry an error code.
func (ac *AuthController) GoogleCallback(variant models.Variant) gin.HandlerFunc {
	return func(c *gin.Context) {
		client, ok := ac.google[variant]
		if !ok {
			googleUnavailable(c)
			return
		}

		fail := func(code string, err error) {
			ac.logger.Warn("Google callback failed",
				zap.String("variant", string(variant)),
				zap.String("code", code),
				zap.Error(err),
			)
			c.Redirect(http.StatusFound, ac.service.FrontendError(code))
		}

		if denied := c.Query("error"); denied != "" {
			fail("ACCESS_DENIED", errors.New(denied))
			return
		}
		code := c.Query("code")
		if code == "" {
			fail("MISSING_CODE", nil)
			return
		}

		ctx := c.Request.Context()
		if err := ac.states.Consume(ctx, c.Query("state"), variant); err != nil {
			fail("INVALID_STATE", err)
			return
		}

		profile, err := client.ExchangeProfile(ctx, code)
		if err != nil {
			if errors.Is(err, services.ErrEmailNotVerified) {
				fail("EMAIL_NOT_VERIFIED", err)
				return
			}
			fail("GOOGLE_ERROR", err)
			return
		}

		target, err := ac.service.FederatedRedirect(ctx, variant, *profile)
		if err != nil {
			fail(classify(err).code, err)
			return
		}
		c.Redirect(http.StatusFound, target)
	}
}

// GoogleToken handles POST /auth/google/{variant}/token with an ID token
// obtained by a native Google sign-in
func (ac *AuthController) GoogleToken(variant models.Variant) gin.HandlerFunc {
	return func(c *gin.Context) {
		client, ok := ac.google[variant]
		if !ok {
			googleUnavailable(c)
			return
		}

		var req GoogleTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		profile, err := client.VerifyIDToken(c.Request.Context(), req.IDToken)
		if err != nil {
			if errors.Is(err, services.ErrEmailNotVerified) {
				respondError(c, ac.logger, err)
				return
			}
			ac.logger.Info("Rejected Google ID token", zap.String("variant", string(variant)), zap.Error(err))
			respondError(c, ac.logger, auth.ErrTokenInvalid)
			return
		}

		result, err := ac.service.FederatedLogin(c.Request.Context(), variant, *profile)
		if err != nil {
			respondError(c, ac.logger, err)
			return
		}
		respondAuth(c, http.StatusOK, result)
	}
}

func googleUnavailable(c *gin.Context) {
	writeError(c, http.StatusServiceUnavailable, "GOOGLE_NOT_CONFIGURED", "Google sign-in is not configured")
}

// respondAuth writes {success, message, access_token, user|provider}
func respondAuth(c *gin.Context, status int, result *auth.Result) {
	body := gin.H{
		"success":      true,
		"message":      result.Message,
		"access_token": result.AccessToken,
	}
	body[string(result.Account.Variant())] = result.Account
	c.JSON(status, body)
}
