package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/serviyapp/serviyapp-api/models"
	"github.com/serviyapp/serviyapp-api/store"
	"go.uber.org/zap"
)

// Result is what a successful registration or login hands back to the caller
type Result struct {
	Message     string
	AccessToken string
	Account     models.Account
}

// ServiceDeps wires a Service
type ServiceDeps struct {
	Users     UserStore
	Providers ProviderStore
	Locations LocationValidator
	Hasher    Hasher
	Tokens    TokenSigner
	Resolver  *IdentityResolver
	Logger    *zap.Logger

	AccessTokenTTL       time.Duration
	RegistrationTokenTTL time.Duration
	FrontendBaseURL      string
}

// Service implements registration and login for users and providers
type Service struct {
	users     UserStore
	providers ProviderStore
	locations LocationValidator
	hasher    Hasher
	tokens    TokenSigner
	resolver  *IdentityResolver
	handles   *handleAllocator
	logger    *zap.Logger

	accessTTL       time.Duration
	registrationTTL time.Duration
	frontendBaseURL string
}

// NewService creates a Service. A resolver is built from the stores when none is given.
func NewService(deps ServiceDeps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	resolver := deps.Resolver
	if resolver == nil {
		resolver = NewIdentityResolver(deps.Users, deps.Providers, logger)
	}
	return &Service{
		users:           deps.Users,
		providers:       deps.Providers,
		locations:       deps.Locations,
		hasher:          deps.Hasher,
		tokens:          deps.Tokens,
		resolver:        resolver,
		handles:         resolver.handles,
		logger:          logger,
		accessTTL:       deps.AccessTokenTTL,
		registrationTTL: deps.RegistrationTokenTTL,
		frontendBaseURL: strings.TrimRight(deps.FrontendBaseURL, "/"),
	}
}

// HashPassword hashes a replacement password for profile updates
func (s *Service) HashPassword(password string) (string, error) {
	return s.hasher.Hash(password)
}

// IssueAccessToken issues an interactive token for account.
// Deleted accounts get ErrPrincipalNotFound.
func (s *Service) IssueAccessToken(account models.Account) (string, error) {
	if account == nil || account.GetStatus() == models.StatusDeleted {
		return "", ErrPrincipalNotFound
	}
	return s.tokens.Issue(ClaimsFor(account), s.accessTTL)
}

// RegisterUser creates an active user account and returns a registration token
func (s *Service) RegisterUser(ctx context.Context, in RegisterUserInput) (*Result, error) {
	email := models.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Names:        strings.TrimSpace(in.Names),
		Surnames:     strings.TrimSpace(in.Surnames),
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         models.VariantUser.DefaultRole(),
		Status:       models.VariantUser.DefaultStatus(),
		IsCompleted:  true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID))
	return s.result(user, "User registered successfully", s.registrationTTL)
}

// RegisterProvider creates a pending provider account and returns a registration token
func (s *Service) RegisterProvider(ctx context.Context, in RegisterProviderInput) (*Result, error) {
	email := models.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.providers.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up provider: %w", err)
	}

	countryID, regionID, cityID, err := s.checkLocation(ctx, in.CountryID, in.RegionID, in.CityID)
	if err != nil {
		return nil, err
	}

	handle := models.NormalizeHandle(in.Handle)
	if handle != "" {
		taken, err := s.handles.taken(ctx, handle)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateHandle
		}
	} else {
		display := strings.TrimSpace(in.Names + " " + in.Surnames)
		if handle, err = s.handles.allocate(ctx, baseHandle(display, email)); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	provider := &models.Provider{
		Names:        strings.TrimSpace(in.Names),
		Surnames:     strings.TrimSpace(in.Surnames),
		Handle:       handle,
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		CountryID:    countryID,
		RegionID:     regionID,
		CityID:       cityID,
		Role:         models.VariantProvider.DefaultRole(),
		Status:       models.VariantProvider.DefaultStatus(),
	}
	provider.IsCompleted = provider.HasCompleteProfile()

	if err := s.providers.Create(ctx, provider); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		case errors.Is(err, store.ErrDuplicateHandle):
			return nil, ErrDuplicateHandle
		default:
			return nil, fmt.Errorf("failed to create provider: %w", err)
		}
	}

	s.logger.Info("Provider registered",
		zap.String("provider_id", provider.ID),
		zap.String("handle", provider.Handle),
	)
	return s.result(provider, "Provider registered successfully", s.registrationTTL)
}

// checkLocation accepts an empty triple or a complete, consistent one
func (s *Service) checkLocation(ctx context.Context, countryID, regionID, cityID string) (*string, *string, *string, error) {
	countryID, regionID, cityID = strings.TrimSpace(countryID), strings.TrimSpace(regionID), strings.TrimSpace(cityID)
	if countryID == "" && regionID == "" && cityID == "" {
		return nil, nil, nil, nil
	}
	if countryID == "" || regionID == "" || cityID == "" {
		return nil, nil, nil, ErrInvalidLocation
	}
	if s.locations != nil {
		if err := s.locations.Validate(ctx, countryID, regionID, cityID); err != nil {
			if errors.Is(err, store.ErrLocationMismatch) {
				return nil, nil, nil, ErrInvalidLocation
			}
			return nil, nil, nil, fmt.Errorf("failed to validate location: %w", err)
		}
	}
	return &countryID, &regionID, &cityID, nil
}

// LoginUser authenticates a user with email and password
func (s *Service) LoginUser(ctx context.Context, email, password string) (*Result, error) {
	return s.login(ctx, models.VariantUser, email, password)
}

// LoginProvider authenticates a provider with email and password
func (s *Service) LoginProvider(ctx context.Context, email, password string) (*Result, error) {
	return s.login(ctx, models.VariantProvider, email, password)
}

func (s *Service) login(ctx context.Context, variant models.Variant, email, password string) (*Result, error) {
	account, err := s.lookup(ctx, variant, models.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Info("Login rejected: no account", zap.String("variant", string(variant)))
		return nil, ErrPrincipalNotFound
	}
	if err != nil {
		return nil, err
	}

	if account.GetStatus() == models.StatusDeleted {
		s.logger.Info("Login rejected: account deleted",
			zap.String("variant", string(variant)),
			zap.String("id", account.GetID()),
		)
		return nil, ErrPrincipalNotFound
	}
	if !s.hasher.Verify(password, account.GetPasswordHash()) {
		s.logger.Info("Login rejected: credential mismatch",
			zap.String("variant", string(variant)),
			zap.String("id", account.GetID()),
		)
		return nil, ErrCredentialMismatch
	}

	s.logger.Info("Login succeeded",
		zap.String("variant", string(variant)),
		zap.String("id", account.GetID()),
	)
	return s.result(account, "Login successful", s.accessTTL)
}

func (s *Service) lookup(ctx context.Context, variant models.Variant, email string) (models.Account, error) {
	switch variant {
	case models.VariantUser:
		user, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return user, nil
	case models.VariantProvider:
		provider, err := s.providers.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, ErrUnknownVariant
	}
}

// FederatedLogin resolves an external profile and returns an interactive token
func (s *Service) FederatedLogin(ctx context.Context, variant models.Variant, profile ExternalProfile) (*Result, error) {
	account, err := s.resolver.ResolveOrCreate(ctx, variant, profile)
	if err != nil {
		return nil, err
	}
	return s.result(account, "Login with Google successful", s.accessTTL)
}

// FederatedRedirect resolves an external profile and returns the frontend URL
// the browser should land on. Complete accounts go home with an interactive
// token, incomplete ones go to profile completion with a registration token.
func (s *Service) FederatedRedirect(ctx context.Context, variant models.Variant, profile ExternalProfile) (string, error) {
	account, err := s.resolver.ResolveOrCreate(ctx, variant, profile)
	if err != nil {
		return "", err
	}

	if account.ProfileCompleted() {
		token, err := s.tokens.Issue(ClaimsFor(account), s.accessTTL)
		if err != nil {
			return "", err
		}
		return s.frontendURL("/home", url.Values{"token": {token}}), nil
	}

	token, err := s.tokens.Issue(ClaimsFor(account), s.registrationTTL)
	if err != nil {
		return "", err
	}
	return s.frontendURL("/complete-register", url.Values{
		"role":  {string(account.GetRole())},
		"token": {token},
	}), nil
}

// FrontendError returns the frontend login URL carrying an error code
func (s *Service) FrontendError(code string) string {
	return s.frontendURL("/login", url.Values{"error": {code}})
}

func (s *Service) frontendURL(path string, query url.Values) string {
	return s.frontendBaseURL + path + "?" + query.Encode()
}

func (s *Service) result(account models.Account, message string, ttl time.Duration) (*Result, error) {
	token, err := s.tokens.Issue(ClaimsFor(account), ttl)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.String("id", account.GetID()), zap.Error(err))
		return nil, err
	}
	return &Result{Message: message, AccessToken: token, Account: account}, nil
}
