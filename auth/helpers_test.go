package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/serviyapp/serviyapp-api/models"
	"github.com/serviyapp/serviyapp-api/store"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-key-that-is-at-least-32-bytes"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, store.AutoMigrate(db))
	return db
}

func newTestIssuer(t *testing.T, opts ...TokenOption) *TokenIssuer {
	t.Helper()

	issuer, err := NewTokenIssuer(TokenConfig{
		Secret:   []byte(testSecret),
		Issuer:   "serviyapp-api",
		Audience: "serviyapp",
	}, opts...)
	require.NoError(t, err)
	return issuer
}

type testEnv struct {
	db        *gorm.DB
	users     *store.UserStore
	providers *store.ProviderStore
	issuer    *TokenIssuer
	service   *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	env := &testEnv{
		db:        db,
		users:     store.NewUserStore(db),
		providers: store.NewProviderStore(db),
		issuer:    newTestIssuer(t),
	}
	env.service = NewService(ServiceDeps{
		Users:                env.users,
		Providers:            env.providers,
		Locations:            store.NewLocationStore(db),
		Hasher:               NewBcryptHasher(bcrypt.MinCost),
		Tokens:               env.issuer,
		AccessTokenTTL:       30 * time.Minute,
		RegistrationTokenTTL: 24 * time.Hour,
		FrontendBaseURL:      "http://frontend.test/",
	})
	return env
}

// blindUsers never finds an existing email, forcing every create to hit the unique index
type blindUsers struct {
	*store.UserStore
}

func (blindUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, store.ErrNotFound
}

// staleUsers misses the first lookup per email, like a reader racing a concurrent insert
type staleUsers struct {
	*store.UserStore
	mu   sync.Mutex
	seen map[string]bool
}

func (s *staleUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	first := !s.seen[email]
	s.seen[email] = true
	s.mu.Unlock()
	if first {
		return nil, store.ErrNotFound
	}
	return s.UserStore.FindByEmail(ctx, email)
}

// crowdedProviders reports every handle as taken
type crowdedProviders struct {
	*store.ProviderStore
}

func (c crowdedProviders) FindByHandle(ctx context.Context, handle string) (*models.Provider, error) {
	return &models.Provider{Handle: handle}, nil
}

type failingSigner struct{}

func (failingSigner) Issue(claims Claims, ttl time.Duration) (string, error) {
	return "", context.DeadlineExceeded
}
