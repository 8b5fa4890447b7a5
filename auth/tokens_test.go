package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/serviyapp/serviyapp-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := newTestIssuer(t)
	claims := Claims{ID: "user-1", Email: "bob@x.com", Role: models.RoleUser}

	token, err := issuer.Issue(claims, 30*time.Minute)
	require.NoError(t, err)

	got, err := issuer.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, got.ID)
	assert.Equal(t, claims.Email, got.Email)
	assert.Equal(t, claims.Role, got.Role)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), got.ExpiresAt, 5*time.Second)
}

func TestTokenIssuerVerifyRejects(t *testing.T) {
	issuer := newTestIssuer(t)
	valid, err := issuer.Issue(Claims{ID: "user-1", Email: "bob@x.com", Role: models.RoleUser}, time.Hour)
	require.NoError(t, err)

	otherSecret, err := NewTokenIssuer(TokenConfig{
		Secret:   []byte("another-secret-key-that-is-32-bytes-long"),
		Issuer:   "serviyapp-api",
		Audience: "serviyapp",
	})
	require.NoError(t, err)
	foreign, err := otherSecret.Issue(Claims{ID: "user-1", Role: models.RoleUser}, time.Hour)
	require.NoError(t, err)

	otherAudience, err := NewTokenIssuer(TokenConfig{
		Secret:   []byte(testSecret),
		Issuer:   "serviyapp-api",
		Audience: "someone-else",
	})
	require.NoError(t, err)
	wrongAudience, err := otherAudience.Issue(Claims{ID: "user-1", Role: models.RoleUser}, time.Hour)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, signedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "serviyapp-api",
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"serviyapp"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		PrincipalID: "user-1",
		Role:        models.RoleUser,
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	unknownRole, err := issuer.Issue(Claims{ID: "user-1", Role: models.Role("superuser")}, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "tampered signature", token: tampered},
		{name: "signed with another secret", token: foreign},
		{name: "wrong audience", token: wrongAudience},
		{name: "wrong algorithm", token: hs512},
		{name: "unknown role", token: unknownRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
			assert.NotErrorIs(t, err, ErrTokenExpired)
		})
	}
}

func TestTokenIssuerVerifyExpired(t *testing.T) {
	past := func() time.Time { return time.Now().Add(-2 * time.Hour) }
	issuer := newTestIssuer(t, WithClock(past))

	token, err := issuer.Issue(Claims{ID: "user-1", Email: "bob@x.com", Role: models.RoleUser}, 30*time.Minute)
	require.NoError(t, err)

	_, err = issuer.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuerIssueRequiresPositiveTTL(t *testing.T) {
	issuer := newTestIssuer(t)
	_, err := issuer.Issue(Claims{ID: "user-1", Role: models.RoleUser}, 0)
	assert.Error(t, err)
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer(TokenConfig{Issuer: "serviyapp-api", Audience: "serviyapp"})
	assert.Error(t, err)
}
