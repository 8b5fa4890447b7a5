package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/serviyapp/serviyapp-api/models"
)

// ErrInvalidState is returned when an OAuth state is unknown, expired, already used,
// or was issued for the other account variant
var ErrInvalidState = errors.New("oauth state is invalid or expired")

const (
	stateKeyPrefix = "oauth_state:"
	stateSubject   = "oauth_state"
)

// StateStore issues and checks the anti-CSRF state of the Google redirect flow
type StateStore interface {
	Issue(ctx context.Context, variant models.Variant) (string, error)
	Consume(ctx context.Context, state string, variant models.Variant) error
}

// RedisStateStore keeps single-use states in Redis with a TTL
type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStateStore creates a state store backed by client
func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{client: client, ttl: ttl}
}

// Issue stores a fresh state bound to variant
func (s *RedisStateStore) Issue(ctx context.Context, variant models.Variant) (string, error) {
	state := uuid.NewString()
	if err := s.client.Set(ctx, stateKeyPrefix+state, string(variant), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}
	return state, nil
}

// Consume deletes the state and checks it was issued for variant
func (s *RedisStateStore) Consume(ctx context.Context, state string, variant models.Variant) error {
	if state == "" {
		return ErrInvalidState
	}

	stored, err := s.client.GetDel(ctx, stateKeyPrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidState
	}
	if err != nil {
		return fmt.Errorf("failed to read oauth state: %w", err)
	}
	if stored != string(variant) {
		return ErrInvalidState
	}
	return nil
}

// SignedStateStore issues self-contained signed states. It needs no shared
// storage, so a state stays valid until it expires rather than after first use.
type SignedStateStore struct {
	secret []byte
	ttl    time.Duration
}

// NewSignedStateStore creates a state store that signs states with secret
func NewSignedStateStore(secret []byte, ttl time.Duration) *SignedStateStore {
	return &SignedStateStore{secret: secret, ttl: ttl}
}

// Issue signs a state bound to variant
func (s *SignedStateStore) Issue(ctx context.Context, variant models.Variant) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   stateSubject,
		Audience:  jwt.ClaimStrings{string(variant)},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	}

	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign oauth state: %w", err)
	}
	return state, nil
}

// Consume verifies the signature, expiry and variant of state
func (s *SignedStateStore) Consume(ctx context.Context, state string, variant models.Variant) error {
	if state == "" {
		return ErrInvalidState
	}

	_, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(string(variant)),
		jwt.WithSubject(stateSubject),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return ErrInvalidState
	}
	return nil
}
