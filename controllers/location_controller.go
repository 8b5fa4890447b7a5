package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serviyapp/serviyapp-api/store"
	"go.uber.org/zap"
)

// LocationController serves the read-only /locations tree
type LocationController struct {
	locations *store.LocationStore
	logger    *zap.Logger
}

// NewLocationController creates a LocationController
func NewLocationController(locations *store.LocationStore, logger *zap.Logger) *LocationController {
	return &LocationController{locations: locations, logger: logger}
}

// ListCountries handles GET /locations/countries
func (lc *LocationController) ListCountries(c *gin.Context) {
	countries, err := lc.locations.ListCountries(c.Request.Context())
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": countries})
}

// ListRegions handles GET /locations/countries/:id/regions
func (lc *LocationController) ListRegions(c *gin.Context) {
	regions, err := lc.locations.ListRegions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": regions})
}

// ListCities handles GET /locations/regions/:id/cities
func (lc *LocationController) ListCities(c *gin.Context) {
	cities, err := lc.locations.ListCities(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": cities})
}
