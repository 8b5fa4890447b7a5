package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/serviyapp/serviyapp-api/models"
	"github.com/serviyapp/serviyapp-api/store"
)

// UserFinder reads users by id
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ProviderFinder reads providers by id
type ProviderFinder interface {
	FindByID(ctx context.Context, id string) (*models.Provider, error)
}

// PrincipalRefresher reloads the account named by verified claims
type PrincipalRefresher interface {
	Refresh(ctx context.Context, claims *Claims) (*Claims, error)
}

// AccountVariant returns the account kind of the claims. Tokens issued
// without a variant are resolved from the role.
func (c *Claims) AccountVariant() models.Variant {
	if c.Variant.Valid() {
		return c.Variant
	}
	if c.Role == models.RoleProvider {
		return models.VariantProvider
	}
	return models.VariantUser
}

// PrincipalLoader reads the stored account behind a token on every request,
// so role and status changes apply to tokens already handed out
type PrincipalLoader struct {
	users     UserFinder
	providers ProviderFinder
}

// NewPrincipalLoader creates a PrincipalLoader over the account stores
func NewPrincipalLoader(users UserFinder, providers ProviderFinder) *PrincipalLoader {
	return &PrincipalLoader{users: users, providers: providers}
}

// Refresh returns a copy of claims carrying the stored role and email.
// Missing and deleted accounts yield ErrPrincipalNotFound.
func (l *PrincipalLoader) Refresh(ctx context.Context, claims *Claims) (*Claims, error) {
	if claims == nil {
		return nil, ErrPrincipalNotFound
	}

	account, err := l.load(ctx, claims)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPrincipalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load principal: %w", err)
	}
	if account.GetStatus() == models.StatusDeleted {
		return nil, ErrPrincipalNotFound
	}

	refreshed := *claims
	refreshed.Role = account.GetRole()
	refreshed.Email = account.GetEmail()
	refreshed.Variant = account.Variant()
	return &refreshed, nil
}

func (l *PrincipalLoader) load(ctx context.Context, claims *Claims) (models.Account, error) {
	if claims.AccountVariant() == models.VariantProvider {
		provider, err := l.providers.FindByID(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		return provider, nil
	}

	user, err := l.users.FindByID(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
