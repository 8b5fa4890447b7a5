package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serviyapp/serviyapp-api/auth"
	"github.com/serviyapp/serviyapp-api/models"
	"github.com/serviyapp/serviyapp-api/services"
	"github.com/serviyapp/serviyapp-api/store"
	"go.uber.org/zap"
)

// UpdateUserRequest represents the request body for updating a user profile.
// Role, status and email are applied for Admin callers only.
type UpdateUserRequest struct {
	Names    *string `json:"names" binding:"omitempty,min=2,max=50,personname"`
	Surnames *string `json:"surnames" binding:"omitempty,min=2,max=50,personname"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,password"`
	Phone    *string `json:"phone" binding:"omitempty,min=7,max=20"`
	Role     *string `json:"role" binding:"omitempty,oneof=user admin"`
	Status   *string `json:"status" binding:"omitempty,oneof=active deleted"`
}

func (r UpdateUserRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	setString(fields, "names", r.Names)
	setString(fields, "surnames", r.Surnames)
	setString(fields, "email", r.Email)
	setString(fields, "phone", r.Phone)
	setString(fields, "role", r.Role)
	setString(fields, "status", r.Status)
	if r.Password != nil {
		fields["password"] = *r.Password
	}
	return fields
}

// CompleteUserRequest carries the fields a Google-created user fills in before first use
type CompleteUserRequest struct {
	Names    string `json:"names" binding:"required,min=2,max=50,personname"`
	Surnames string `json:"surnames" binding:"required,min=2,max=50,personname"`
	Phone    string `json:"phone" binding:"required,min=7,max=20"`
}

// UserController serves the /users resource
type UserController struct {
	users   *store.UserStore
	service *auth.Service
	images  services.ImageService
	logger  *zap.Logger
}

// NewUserController creates a UserController
func NewUserController(users *store.UserStore, service *auth.Service, images services.ImageService, logger *zap.Logger) *UserController {
	return &UserController{
		users:   users,
		service: service,
		images:  images,
		logger:  logger,
	}
}

// ListUsers handles GET /users (Admin), optionally filtered by ?status=
func (uc *UserController) ListUsers(c *gin.Context) {
	status, err := parseStatusFilter(c.Query("status"))
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}

	users, err := uc.users.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
		"count":   len(users),
	})
}

// GetCurrentUser handles GET /users/me
func (uc *UserController) GetCurrentUser(c *gin.Context) {
	claims := principal(c)
	if claims == nil {
		return
	}

	user, err := uc.users.FindByID(c.Request.Context(), claims.ID)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// GetUser handles GET /users/:id for the owner or an Admin
func (uc *UserController) GetUser(c *gin.Context) {
	_, id, ok := authorizeTarget(c)
	if !ok {
		return
	}

	user, err := uc.users.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// UpdateUser handles PATCH /users/:id for the owner or an Admin
func (uc *UserController) UpdateUser(c *gin.Context) {
	claims, id, ok := authorizeTarget(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	fields, err := prepareAccountUpdate(claims, req.fields(), uc.service.HashPassword)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}

	user, err := uc.users.Update(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}

	uc.logger.Info("User updated", zap.String("user_id", id), zap.String("by", claims.ID))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// CompleteUser handles PATCH /users/complete/:id. The response carries a
// fresh interactive token replacing the registration token.
func (uc *UserController) CompleteUser(c *gin.Context) {
	_, id, ok := authorizeTarget(c)
	if !ok {
		return
	}

	var req CompleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	fields := map[string]interface{}{"is_completed": true}
	setString(fields, "names", &req.Names)
	setString(fields, "surnames", &req.Surnames)
	setString(fields, "phone", &req.Phone)

	user, err := uc.users.Update(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}

	token, err := uc.service.IssueAccessToken(user)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Profile completed",
		"access_token": token,
		"user":         user,
	})
}

// DeleteUser handles DELETE /users/:id. Accounts are soft deleted.
func (uc *UserController) DeleteUser(c *gin.Context) {
	claims, id, ok := authorizeTarget(c)
	if !ok {
		return
	}

	if _, err := uc.users.Update(c.Request.Context(), id, map[string]interface{}{"status": models.StatusDeleted}); err != nil {
		respondError(c, uc.logger, err)
		return
	}

	uc.logger.Info("User deleted", zap.String("user_id", id), zap.String("by", claims.ID))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}

// ReactivateUser handles PATCH /users/:id/reactivate (Admin)
func (uc *UserController) ReactivateUser(c *gin.Context) {
	id := c.Param("id")
	user, err := uc.users.Update(c.Request.Context(), id, map[string]interface{}{"status": models.StatusActive})
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// UploadPicture handles POST /users/:id/picture with a multipart "image" field
func (uc *UserController) UploadPicture(c *gin.Context) {
	_, id, ok := authorizeTarget(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	current, err := uc.users.FindByID(ctx, id)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}

	fileHeader, err := formImage(c)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}

	key, err := uc.images.UploadProfilePicture(ctx, models.VariantUser, id, fileHeader)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}

	user, err := uc.users.Update(ctx, id, map[string]interface{}{"profile_picture": key})
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}
	replacePicture(ctx, uc.images, uc.logger, current.ProfilePicture, key)

	imageURL, err := uc.images.GetImageURL(ctx, key)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":      user,
			"image_url": imageURL,
		},
	})
}
