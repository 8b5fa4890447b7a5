package store

import (
	"context"

	"github.com/serviyapp/serviyapp-api/models"
	"gorm.io/gorm"
)

// ProviderStore persists Provider accounts
type ProviderStore struct {
	db *gorm.DB
}

// NewProviderStore creates a ProviderStore backed by db
func NewProviderStore(db *gorm.DB) *ProviderStore {
	return &ProviderStore{db: db}
}

func (s *ProviderStore) withLocation(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Country").Preload("Region").Preload("City")
}

// FindByEmail returns the provider with the given email regardless of status
func (s *ProviderStore) FindByEmail(ctx context.Context, email string) (*models.Provider, error) {
	var provider models.Provider
	err := s.withLocation(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&provider).Error
	if err != nil {
		return nil, translate(err)
	}
	return &provider, nil
}

// FindByHandle returns the provider owning handle
func (s *ProviderStore) FindByHandle(ctx context.Context, handle string) (*models.Provider, error) {
	var provider models.Provider
	if err := s.db.WithContext(ctx).Where("handle = ?", handle).First(&provider).Error; err != nil {
		return nil, translate(err)
	}
	return &provider, nil
}

// FindByID returns the provider with the given id
func (s *ProviderStore) FindByID(ctx context.Context, id string) (*models.Provider, error) {
	var provider models.Provider
	if err := s.withLocation(ctx).Where("id = ?", id).First(&provider).Error; err != nil {
		return nil, translate(err)
	}
	return &provider, nil
}

// List returns providers, newest first, optionally filtered by status
func (s *ProviderStore) List(ctx context.Context, status models.Status) ([]models.Provider, error) {
	query := s.withLocation(ctx).Order("registration_date DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var providers []models.Provider
	if err := query.Find(&providers).Error; err != nil {
		return nil, translate(err)
	}
	return providers, nil
}

// Create inserts a new provider. The email is normalized before insert.
func (s *ProviderStore) Create(ctx context.Context, provider *models.Provider) error {
	provider.Email = models.NormalizeEmail(provider.Email)
	return translate(s.db.WithContext(ctx).Omit("Country", "Region", "City").Create(provider).Error)
}

// Update applies fields to the provider and returns the fresh record
func (s *ProviderStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Provider, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		err := s.db.WithContext(ctx).Model(&models.Provider{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			return nil, translate(err)
		}
	}
	return s.FindByID(ctx, id)
}
