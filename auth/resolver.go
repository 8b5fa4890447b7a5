package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/serviyapp/serviyapp-api/models"
	"github.com/serviyapp/serviyapp-api/store"
	"go.uber.org/zap"
)

// ExternalProfile is the identity returned by an external identity provider
type ExternalProfile struct {
	Subject     string
	Email       string
	DisplayName string
	GivenName   string
	FamilyName  string
	Picture     string
}

// displayName prefers the full name and falls back to given + family names
func (p ExternalProfile) displayName() string {
	if name := strings.TrimSpace(p.DisplayName); name != "" {
		return name
	}
	return strings.TrimSpace(p.GivenName + " " + p.FamilyName)
}

// IdentityResolver maps an external profile to a local account, creating one
// on first sight. Repeated calls with the same email return the same account.
type IdentityResolver struct {
	users     UserStore
	providers ProviderStore
	handles   *handleAllocator
	logger    *zap.Logger
}

// ResolverOption customizes an IdentityResolver
type ResolverOption func(*IdentityResolver)

// WithHandleSuffix replaces the random suffix source used on handle collisions
func WithHandleSuffix(suffix func() int) ResolverOption {
	return func(r *IdentityResolver) {
		r.handles.suffix = suffix
	}
}

// NewIdentityResolver creates a resolver over the user and provider stores
func NewIdentityResolver(users UserStore, providers ProviderStore, logger *zap.Logger, opts ...ResolverOption) *IdentityResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &IdentityResolver{
		users:     users,
		providers: providers,
		handles:   &handleAllocator{providers: providers, suffix: randomSuffix},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveOrCreate returns the account of the given variant owning the
// profile's email, provisioning an incomplete one when none exists.
// Deleted accounts resolve to ErrPrincipalNotFound.
func (r *IdentityResolver) ResolveOrCreate(ctx context.Context, variant models.Variant, profile ExternalProfile) (models.Account, error) {
	email := models.NormalizeEmail(profile.Email)
	if email == "" {
		return nil, ErrInvalidProfile
	}

	switch variant {
	case models.VariantUser:
		user, err := r.resolveUser(ctx, email, profile)
		if err != nil {
			return nil, err
		}
		return user, nil
	case models.VariantProvider:
		provider, err := r.resolveProvider(ctx, email, profile)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, ErrUnknownVariant
	}
}

func (r *IdentityResolver) resolveUser(ctx context.Context, email string, profile ExternalProfile) (*models.User, error) {
	existing, err := r.users.FindByEmail(ctx, email)
	if err == nil {
		return existing, ensureUsable(existing)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	names, surnames := splitName(profile.displayName(), email)
	user := &models.User{
		Names:          names,
		Surnames:       surnames,
		Email:          email,
		ProfilePicture: profile.Picture,
		Role:           models.VariantUser.DefaultRole(),
		Status:         models.VariantUser.DefaultStatus(),
		IsCompleted:    false,
	}

	if err := r.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			// a concurrent first login won the insert
			winner, findErr := r.users.FindByEmail(ctx, email)
			if findErr != nil {
				return nil, fmt.Errorf("failed to re-read user after conflict: %w", findErr)
			}
			return winner, ensureUsable(winner)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("Provisioned user from external profile", zap.String("user_id", user.ID))
	return user, nil
}

func (r *IdentityResolver) resolveProvider(ctx context.Context, email string, profile ExternalProfile) (*models.Provider, error) {
	existing, err := r.providers.FindByEmail(ctx, email)
	if err == nil {
		return existing, ensureUsable(existing)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up provider: %w", err)
	}

	handle, err := r.handles.allocate(ctx, baseHandle(profile.displayName(), email))
	if err != nil {
		return nil, err
	}

	names, surnames := splitName(profile.displayName(), email)
	provider := &models.Provider{
		Names:          names,
		Surnames:       surnames,
		Handle:         handle,
		Email:          email,
		ProfilePicture: profile.Picture,
		Role:           models.VariantProvider.DefaultRole(),
		Status:         models.VariantProvider.DefaultStatus(),
		IsCompleted:    false,
	}

	if err := r.providers.Create(ctx, provider); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateEmail):
			winner, findErr := r.providers.FindByEmail(ctx, email)
			if findErr != nil {
				return nil, fmt.Errorf("failed to re-read provider after conflict: %w", findErr)
			}
			return winner, ensureUsable(winner)
		case errors.Is(err, store.ErrDuplicateHandle):
			return nil, ErrHandleCollision
		default:
			return nil, fmt.Errorf("failed to create provider: %w", err)
		}
	}

	r.logger.Info("Provisioned provider from external profile",
		zap.String("provider_id", provider.ID),
		zap.String("handle", provider.Handle),
	)
	return provider, nil
}

func ensureUsable(account models.Account) error {
	if account.GetStatus() == models.StatusDeleted {
		return ErrPrincipalNotFound
	}
	return nil
}

// splitName takes the first word as names and the rest as surnames
func splitName(display, email string) (string, string) {
	parts := strings.Fields(display)
	if len(parts) == 0 {
		return localPart(email), ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
