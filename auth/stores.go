package auth

import (
	"context"

	"github.com/serviyapp/serviyapp-api/models"
)

// UserStore is the persistence the auth flows need for users.
// Lookups return store.ErrNotFound when no row matches.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// ProviderStore is the persistence the auth flows need for providers
type ProviderStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Provider, error)
	FindByHandle(ctx context.Context, handle string) (*models.Provider, error)
	Create(ctx context.Context, provider *models.Provider) error
}

// LocationValidator checks a country/region/city triple.
// It returns store.ErrLocationMismatch when the triple is inconsistent.
type LocationValidator interface {
	Validate(ctx context.Context, countryID, regionID, cityID string) error
}
