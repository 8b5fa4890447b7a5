package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/serviyapp/serviyapp-api/middleware"
	"github.com/serviyapp/serviyapp-api/models"
)

// Controllers bundles every resource controller mounted by RegisterRoutes
type Controllers struct {
	Auth      *AuthController
	Users     *UserController
	Providers *ProviderController
	Orders    *OrderController
	Messages  *MessageController
	Locations *LocationController
}

// RegisterRoutes mounts the API on r. requireAuth guards every route that
// needs a principal.
func RegisterRoutes(r gin.IRouter, ctl Controllers, requireAuth gin.HandlerFunc) {
	RegisterValidators()

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register/user", ctl.Auth.RegisterUser)
		authGroup.POST("/register/provider", ctl.Auth.RegisterProvider)
		authGroup.POST("/login/user", ctl.Auth.LoginUser)
		authGroup.POST("/login/provider", ctl.Auth.LoginProvider)

		for _, variant := range []models.Variant{models.VariantUser, models.VariantProvider} {
			base := "/google/" + string(variant)
			authGroup.GET(base, ctl.Auth.GoogleRedirect(variant))
			authGroup.GET(base+"/callback", ctl.Auth.GoogleCallback(variant))
			authGroup.POST(base+"/token", ctl.Auth.GoogleToken(variant))
		}
	}

	admin := middleware.RequireRoles(models.RoleAdmin)

	users := r.Group("/users", requireAuth, middleware.RequireRoles(models.RoleUser, models.RoleAdmin))
	{
		users.GET("", admin, ctl.Users.ListUsers)
		users.GET("/me", ctl.Users.GetCurrentUser)
		users.PATCH("/complete/:id", ctl.Users.CompleteUser)
		users.GET("/:id", ctl.Users.GetUser)
		users.PATCH("/:id", ctl.Users.UpdateUser)
		users.DELETE("/:id", ctl.Users.DeleteUser)
		users.PATCH("/:id/reactivate", admin, ctl.Users.ReactivateUser)
		users.POST("/:id/picture", ctl.Users.UploadPicture)
	}

	providers := r.Group("/providers", requireAuth)
	{
		providers.GET("", ctl.Providers.ListProviders)
		providers.GET("/me", middleware.RequireRoles(models.RoleProvider), ctl.Providers.GetCurrentProvider)
		providers.PATCH("/complete/:id", ctl.Providers.CompleteProvider)
		providers.GET("/:id", ctl.Providers.GetProvider)
		providers.PATCH("/:id", ctl.Providers.UpdateProvider)
		providers.DELETE("/:id", ctl.Providers.DeleteProvider)
		providers.PATCH("/:id/reactivate", admin, ctl.Providers.ReactivateProvider)
		providers.POST("/:id/picture", ctl.Providers.UploadPicture)
	}

	orders := r.Group("/orders", requireAuth)
	{
		orders.POST("", middleware.RequireRoles(models.RoleUser), ctl.Orders.CreateOrder)
		orders.GET("", ctl.Orders.ListOrders)
		orders.GET("/:id", ctl.Orders.GetOrder)
		orders.PATCH("/:id/status", ctl.Orders.UpdateOrderStatus)
		orders.POST("/:id/messages", ctl.Messages.CreateMessage)
		orders.GET("/:id/messages", ctl.Messages.ListMessages)
	}

	locations := r.Group("/locations")
	{
		locations.GET("/countries", ctl.Locations.ListCountries)
		locations.GET("/countries/:id/regions", ctl.Locations.ListRegions)
		locations.GET("/regions/:id/cities", ctl.Locations.ListCities)
	}
}
