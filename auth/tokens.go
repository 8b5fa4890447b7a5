package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/serviyapp/serviyapp-api/models"
	josejwt "gopkg.in/go-jose/go-jose.v2/jwt"
)

// Claims is the principal identity carried by a bearer token
type Claims struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Role      models.Role    `json:"role"`
	Variant   models.Variant `json:"variant,omitempty"`
	IssuedAt  time.Time      `json:"-"`
	ExpiresAt time.Time      `json:"-"`
}

// ClaimsFor builds the token claims of an account
func ClaimsFor(account models.Account) Claims {
	return Claims{
		ID:      account.GetID(),
		Email:   account.GetEmail(),
		Role:    account.GetRole(),
		Variant: account.Variant(),
	}
}

// TokenSigner issues bearer tokens
type TokenSigner interface {
	Issue(claims Claims, ttl time.Duration) (string, error)
}

// TokenVerifier validates bearer tokens
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// TokenConfig configures a TokenIssuer
type TokenConfig struct {
	Secret    []byte
	Issuer    string
	Audience  string
	ClockSkew time.Duration
}

// TokenOption customizes a TokenIssuer
type TokenOption func(*TokenIssuer)

// WithClock overrides the time source used when issuing tokens
func WithClock(now func() time.Time) TokenOption {
	return func(t *TokenIssuer) {
		t.now = now
	}
}

// TokenIssuer signs HS256 tokens and verifies them with the auth0 validator
type TokenIssuer struct {
	secret    []byte
	issuer    string
	audience  string
	validator *validator.Validator
	now       func() time.Time
}

// signedClaims is the JWT payload written on issue
type signedClaims struct {
	jwt.RegisteredClaims
	PrincipalID string         `json:"id"`
	Email       string         `json:"email"`
	Role        models.Role    `json:"role"`
	Variant     models.Variant `json:"variant,omitempty"`
}

// tokenClaims receives the custom part of the payload on verify
type tokenClaims struct {
	PrincipalID string         `json:"id"`
	Email       string         `json:"email"`
	Role        models.Role    `json:"role"`
	Variant     models.Variant `json:"variant,omitempty"`
}

// Validate is called by the validator after the registered claims pass
func (c *tokenClaims) Validate(ctx context.Context) error {
	if c.PrincipalID == "" {
		return errors.New("token has no principal id")
	}
	if !c.Role.Valid() {
		return fmt.Errorf("token has unknown role %q", c.Role)
	}
	if c.Variant != "" && !c.Variant.Valid() {
		return fmt.Errorf("token has unknown variant %q", c.Variant)
	}
	return nil
}

// NewTokenIssuer creates a TokenIssuer for the given secret, issuer and audience
func NewTokenIssuer(cfg TokenConfig, opts ...TokenOption) (*TokenIssuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}

	keyFunc := func(ctx context.Context) (interface{}, error) {
		return cfg.Secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.Issuer,
		[]string{cfg.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &tokenClaims{}
		}),
		validator.WithAllowedClockSkew(cfg.ClockSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}

	issuer := &TokenIssuer{
		secret:    cfg.Secret,
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		validator: jwtValidator,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer, nil
}

// Issue signs claims into a token that expires after ttl
func (t *TokenIssuer) Issue(claims Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	now := t.now()
	payload := signedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   claims.ID,
			Audience:  jwt.ClaimStrings{t.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		PrincipalID: claims.ID,
		Email:       claims.Email,
		Role:        claims.Role,
		Variant:     claims.Variant,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer, audience and expiry and returns the claims.
// Errors are ErrTokenExpired or wrap ErrTokenInvalid.
func (t *TokenIssuer) Verify(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}

	raw, err := t.validator.ValidateToken(ctx, token)
	if err != nil {
		if isExpired(err) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	validated, ok := raw.(*validator.ValidatedClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type %T", ErrTokenInvalid, raw)
	}
	custom, ok := validated.CustomClaims.(*tokenClaims)
	if !ok {
		return nil, fmt.Errorf("%w: missing principal claims", ErrTokenInvalid)
	}
	if validated.RegisteredClaims.Subject != custom.PrincipalID {
		return nil, fmt.Errorf("%w: subject does not match principal id", ErrTokenInvalid)
	}

	return &Claims{
		ID:        custom.PrincipalID,
		Email:     custom.Email,
		Role:      custom.Role,
		Variant:   custom.Variant,
		IssuedAt:  time.Unix(validated.RegisteredClaims.IssuedAt, 0),
		ExpiresAt: time.Unix(validated.RegisteredClaims.Expiry, 0),
	}, nil
}

func isExpired(err error) bool {
	return errors.Is(err, josejwt.ErrExpired) || strings.Contains(err.Error(), "token is expired")
}
