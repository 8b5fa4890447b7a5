package store

import (
	"context"
	"errors"

	"github.com/serviyapp/serviyapp-api/models"
	"gorm.io/gorm"
)

// LocationStore reads the country → region → city hierarchy
type LocationStore struct {
	db *gorm.DB
}

// NewLocationStore creates a LocationStore
func NewLocationStore(db *gorm.DB) *LocationStore {
	return &LocationStore{db: db}
}

func (s *LocationStore) ListCountries(ctx context.Context) ([]models.Country, error) {
	var countries []models.Country
	if err := s.db.WithContext(ctx).Order("name").Find(&countries).Error; err != nil {
		return nil, translate(err)
	}
	return countries, nil
}

func (s *LocationStore) ListRegions(ctx context.Context, countryID string) ([]models.Region, error) {
	var regions []models.Region
	err := s.db.WithContext(ctx).Where("country_id = ?", countryID).Order("name").Find(&regions).Error
	if err != nil {
		return nil, translate(err)
	}
	return regions, nil
}

func (s *LocationStore) ListCities(ctx context.Context, regionID string) ([]models.City, error) {
	var cities []models.City
	err := s.db.WithContext(ctx).Where("region_id = ?", regionID).Order("name").Find(&cities).Error
	if err != nil {
		return nil, translate(err)
	}
	return cities, nil
}

// Validate checks that the region belongs to the country and the city to the region
func (s *LocationStore) Validate(ctx context.Context, countryID, regionID, cityID string) error {
	db := s.db.WithContext(ctx)

	var country models.Country
	if err := db.Where("id = ?", countryID).First(&country).Error; err != nil {
		return mismatch(err)
	}

	var region models.Region
	if err := db.Where("id = ? AND country_id = ?", regionID, country.ID).First(&region).Error; err != nil {
		return mismatch(err)
	}

	var city models.City
	if err := db.Where("id = ? AND region_id = ?", cityID, region.ID).First(&city).Error; err != nil {
		return mismatch(err)
	}
	return nil
}

func mismatch(err error) error {
	if err = translate(err); errors.Is(err, ErrNotFound) {
		return ErrLocationMismatch
	}
	return err
}
