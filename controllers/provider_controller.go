package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/serviyapp/serviyapp-api/auth"
	"github.com/serviyapp/serviyapp-api/models"
	"github.com/serviyapp/serviyapp-api/services"
	"github.com/serviyapp/serviyapp-api/store"
	"go.uber.org/zap"
)

// UpdateProviderRequest represents the request body for updating a provider profile.
// A location change must name all three levels.
type UpdateProviderRequest struct {
	Names     *string `json:"names" binding:"omitempty,min=2,max=150"`
	Surnames  *string `json:"surnames" binding:"omitempty,max=50,personname"`
	Handle    *string `json:"handle" binding:"omitempty,handle"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,password"`
	Phone     *string `json:"phone" binding:"omitempty,min=7,max=20"`
	Address   *string `json:"address" binding:"omitempty,max=150"`
	CountryID *string `json:"country_id" binding:"omitempty,max=36"`
	RegionID  *string `json:"region_id" binding:"omitempty,max=36"`
	CityID    *string `json:"city_id" binding:"omitempty,max=36"`
	Status    *string `json:"status" binding:"omitempty,oneof=active pending deleted"`
}

func (r UpdateProviderRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	setString(fields, "names", r.Names)
	setString(fields, "surnames", r.Surnames)
	setString(fields, "handle", r.Handle)
	setString(fields, "email", r.Email)
	setString(fields, "phone", r.Phone)
	setString(fields, "address", r.Address)
	setString(fields, "country_id", r.CountryID)
	setString(fields, "region_id", r.RegionID)
	setString(fields, "city_id", r.CityID)
	setString(fields, "status", r.Status)
	if r.Password != nil {
		fields["password"] = *r.Password
	}
	return fields
}

// CompleteProviderRequest carries the profile a Google-created provider fills in before first use
type CompleteProviderRequest struct {
	Names     string `json:"names" binding:"required,min=2,max=150"`
	Surnames  string `json:"surnames" binding:"required,max=50,personname"`
	Handle    string `json:"handle" binding:"omitempty,handle"`
	Phone     string `json:"phone" binding:"required,min=7,max=20"`
	Address   string `json:"address" binding:"required,max=150"`
	CountryID string `json:"country_id" binding:"required,max=36"`
	RegionID  string `json:"region_id" binding:"required,max=36"`
	CityID    string `json:"city_id" binding:"required,max=36"`
}

// ProviderController serves the /providers resource
type ProviderController struct {
	providers *store.ProviderStore
	locations *store.LocationStore
	service   *auth.Service
	images    services.ImageService
	logger    *zap.Logger
}

// NewProviderController creates a ProviderController
func NewProviderController(providers *store.ProviderStore, locations *store.LocationStore, service *auth.Service, images services.ImageService, logger *zap.Logger) *ProviderController {
	return &ProviderController{
		providers: providers,
		locations: locations,
		service:   service,
		images:    images,
		logger:    logger,
	}
}

// ListProviders handles GET /providers. Admins see every provider and may
// filter by ?status=; everyone else sees active providers only.
func (pc *ProviderController) ListProviders(c *gin.Context) {
	claims := principal(c)
	if claims == nil {
		return
	}

	status := models.StatusActive
	if claims.Role == models.RoleAdmin {
		var err error
		if status, err = parseStatusFilter(c.Query("status")); err != nil {
			respondError(c, pc.logger, err)
			return
		}
	}

	providers, err := pc.providers.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    providers,
		"count":   len(providers),
	})
}

// GetCurrentProvider handles GET /providers/me
func (pc *ProviderController) GetCurrentProvider(c *gin.Context) {
	claims := principal(c)
	if claims == nil {
		return
	}

	provider, err := pc.providers.FindByID(c.Request.Context(), claims.ID)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": provider})
}

// GetProvider handles GET /providers/:id. Active providers are public to any
// authenticated caller; other states only to the owner or an Admin.
func (pc *ProviderController) GetProvider(c *gin.Context) {
	claims := principal(c)
	if claims == nil {
		return
	}

	provider, err := pc.providers.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	if provider.Status != models.StatusActive && !auth.CanActOn(claims, provider.ID) {
		respondError(c, pc.logger, store.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": provider})
}

// UpdateProvider handles PATCH /providers/:id for the owner or an Admin
func (pc *ProviderController) UpdateProvider(c *gin.Context) {
	claims, id, ok := authorizeTarget(c)
	if !ok {
		return
	}

	var req UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	fields, err := prepareAccountUpdate(claims, req.fields(), pc.service.HashPassword)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	if err := pc.checkLocation(ctx, fields); err != nil {
		respondError(c, pc.logger, err)
		return
	}
	if handle, ok := fields["handle"].(string); ok {
		handle = models.NormalizeHandle(handle)
		fields["handle"] = handle
		if err := pc.checkHandle(ctx, id, handle); err != nil {
			respondError(c, pc.logger, err)
			return
		}
	}

	provider, err := pc.providers.Update(ctx, id, fields)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	if !provider.IsCompleted && provider.HasCompleteProfile() {
		provider, err = pc.providers.Update(ctx, id, map[string]interface{}{"is_completed": true})
		if err != nil {
			respondError(c, pc.logger, err)
			return
		}
	}

	pc.logger.Info("Provider updated", zap.String("provider_id", id), zap.String("by", claims.ID))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": provider})
}

// CompleteProvider handles PATCH /providers/complete/:id. The response
// carries a fresh interactive token replacing the registration token.
func (pc *ProviderController) CompleteProvider(c *gin.Context) {
	_, id, ok := authorizeTarget(c)
	if !ok {
		return
	}

	var req CompleteProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	fields := map[string]interface{}{"is_completed": true}
	setString(fields, "names", &req.Names)
	setString(fields, "surnames", &req.Surnames)
	setString(fields, "phone", &req.Phone)
	setString(fields, "address", &req.Address)
	setString(fields, "country_id", &req.CountryID)
	setString(fields, "region_id", &req.RegionID)
	setString(fields, "city_id", &req.CityID)
	if req.Handle != "" {
		setString(fields, "handle", &req.Handle)
	}

	ctx := c.Request.Context()
	if err := pc.checkLocation(ctx, fields); err != nil {
		respondError(c, pc.logger, err)
		return
	}
	if handle, ok := fields["handle"].(string); ok {
		handle = models.NormalizeHandle(handle)
		fields["handle"] = handle
		if err := pc.checkHandle(ctx, id, handle); err != nil {
			respondError(c, pc.logger, err)
			return
		}
	}

	provider, err := pc.providers.Update(ctx, id, fields)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	token, err := pc.service.IssueAccessToken(provider)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Profile completed",
		"access_token": token,
		"provider":     provider,
	})
}

// DeleteProvider handles DELETE /providers/:id. Accounts are soft deleted.
func (pc *ProviderController) DeleteProvider(c *gin.Context) {
	claims, id, ok := authorizeTarget(c)
	if !ok {
		return
	}

	if _, err := pc.providers.Update(c.Request.Context(), id, map[string]interface{}{"status": models.StatusDeleted}); err != nil {
		respondError(c, pc.logger, err)
		return
	}

	pc.logger.Info("Provider deleted", zap.String("provider_id", id), zap.String("by", claims.ID))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Provider deleted successfully"})
}

// ReactivateProvider handles PATCH /providers/:id/reactivate (Admin). It also
// activates providers still pending verification.
func (pc *ProviderController) ReactivateProvider(c *gin.Context) {
	provider, err := pc.providers.Update(c.Request.Context(), c.Param("id"), map[string]interface{}{"status": models.StatusActive})
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": provider})
}

// UploadPicture handles POST /providers/:id/picture with a multipart "image" field
func (pc *ProviderController) UploadPicture(c *gin.Context) {
	_, id, ok := authorizeTarget(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	current, err := pc.providers.FindByID(ctx, id)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	fileHeader, err := formImage(c)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	key, err := pc.images.UploadProfilePicture(ctx, models.VariantProvider, id, fileHeader)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	provider, err := pc.providers.Update(ctx, id, map[string]interface{}{"profile_picture": key})
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	replacePicture(ctx, pc.images, pc.logger, current.ProfilePicture, key)

	imageURL, err := pc.images.GetImageURL(ctx, key)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"provider":  provider,
			"image_url": imageURL,
		},
	})
}

// checkLocation validates a location change. Either none or all of the three
// levels are present, and they must nest.
func (pc *ProviderController) checkLocation(ctx context.Context, fields map[string]interface{}) error {
	country, hasCountry := fields["country_id"].(string)
	region, hasRegion := fields["region_id"].(string)
	city, hasCity := fields["city_id"].(string)
	if !hasCountry && !hasRegion && !hasCity {
		return nil
	}
	if country == "" || region == "" || city == "" {
		return auth.ErrInvalidLocation
	}
	return pc.locations.Validate(ctx, country, region, city)
}

// checkHandle rejects a handle owned by another provider
func (pc *ProviderController) checkHandle(ctx context.Context, id, handle string) error {
	existing, err := pc.providers.FindByHandle(ctx, strings.TrimSpace(handle))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != id {
		return auth.ErrDuplicateHandle
	}
	return nil
}
