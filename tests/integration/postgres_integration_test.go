// Package integration runs the stores and the OAuth state store against real
// PostgreSQL and Redis servers. The suites skip unless GO_ENV=test and the
// matching DATABASE_URL or REDIS_URL is set.
package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serviyapp/serviyapp-api/auth"
	"github.com/serviyapp/serviyapp-api/config"
	"github.com/serviyapp/serviyapp-api/models"
	"github.com/serviyapp/serviyapp-api/services"
	"github.com/serviyapp/serviyapp-api/store"
	"github.com/serviyapp/serviyapp-api/tests/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PostgresIntegrationTestSuite exercises unique-constraint translation and
// identity resolution on PostgreSQL
type PostgresIntegrationTestSuite struct {
	suite.Suite
	db        *gorm.DB
	users     *store.UserStore
	providers *store.ProviderStore
}

func (s *PostgresIntegrationTestSuite) SetupSuite() {
	testutil.RequireTestEnvironmentOrSkip(s.T())
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		s.T().Skip("Skipping test: DATABASE_URL is not set")
	}
	testutil.PrintEnvironmentInfo()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := config.ConnectDatabase(ctx, databaseURL, zap.NewNop())
	s.Require().NoError(err)
	s.Require().NoError(store.AutoMigrate(db))

	s.db = db
	s.users = store.NewUserStore(db)
	s.providers = store.NewProviderStore(db)
}

func (s *PostgresIntegrationTestSuite) TearDownSuite() {
	if s.db == nil {
		return
	}
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// uniqueEmail keeps runs against a shared database independent
func uniqueEmail(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8] + "@integration.test"
}

func (s *PostgresIntegrationTestSuite) TestDuplicateEmailIsTranslated() {
	ctx := context.Background()
	email := uniqueEmail("ana")

	first := &models.User{Names: "Ana", Surnames: "Gomez", Email: email, Role: models.RoleUser, Status: models.StatusActive}
	s.Require().NoError(s.users.Create(ctx, first))

	second := &models.User{Names: "Ana", Surnames: "Gomez", Email: email, Role: models.RoleUser, Status: models.StatusActive}
	s.ErrorIs(s.users.Create(ctx, second), store.ErrDuplicateEmail)
}

func (s *PostgresIntegrationTestSuite) TestDuplicateHandleIsTranslated() {
	ctx := context.Background()
	handle := "h" + uuid.NewString()[:8]

	first := &models.Provider{Names: "Luis", Handle: handle, Email: uniqueEmail("luis"), Role: models.RoleProvider, Status: models.StatusPending}
	s.Require().NoError(s.providers.Create(ctx, first))

	second := &models.Provider{Names: "Luis", Handle: handle, Email: uniqueEmail("luis"), Role: models.RoleProvider, Status: models.StatusPending}
	s.ErrorIs(s.providers.Create(ctx, second), store.ErrDuplicateHandle)
}

func (s *PostgresIntegrationTestSuite) TestFederatedLoginIsIdempotent() {
	ctx := context.Background()
	service := auth.NewService(auth.ServiceDeps{
		Users:                s.users,
		Providers:            s.providers,
		Locations:            store.NewLocationStore(s.db),
		Hasher:               auth.NewBcryptHasher(bcrypt.MinCost),
		Tokens:               testutil.NewTestIssuer(s.T()),
		AccessTokenTTL:       time.Minute,
		RegistrationTokenTTL: time.Hour,
		FrontendBaseURL:      "http://frontend.test",
	})

	profile := auth.ExternalProfile{
		Subject:    uuid.NewString(),
		Email:      uniqueEmail("maria"),
		GivenName:  "Maria",
		FamilyName: "Lopez",
	}

	first, err := service.FederatedLogin(ctx, models.VariantProvider, profile)
	s.Require().NoError(err)
	second, err := service.FederatedLogin(ctx, models.VariantProvider, profile)
	s.Require().NoError(err)

	s.Equal(first.Account.GetID(), second.Account.GetID())
	s.Equal(models.StatusPending, second.Account.GetStatus())
}

func TestPostgresIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationTestSuite))
}

// RedisStateTestSuite checks single-use OAuth state on a real Redis server
type RedisStateTestSuite struct {
	suite.Suite
	states *services.RedisStateStore
}

func (s *RedisStateTestSuite) SetupSuite() {
	testutil.RequireTestEnvironmentOrSkip(s.T())
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		s.T().Skip("Skipping test: REDIS_URL is not set")
	}

	client, err := config.ConnectRedis(context.Background(), redisURL, zap.NewNop())
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = client.Close() })

	s.states = services.NewRedisStateStore(client, time.Minute)
}

func (s *RedisStateTestSuite) TestStateIsSingleUse() {
	ctx := context.Background()

	state, err := s.states.Issue(ctx, models.VariantUser)
	s.Require().NoError(err)

	s.NoError(s.states.Consume(ctx, state, models.VariantUser))
	s.ErrorIs(s.states.Consume(ctx, state, models.VariantUser), services.ErrInvalidState)
}

func (s *RedisStateTestSuite) TestStateIsBoundToVariant() {
	ctx := context.Background()

	state, err := s.states.Issue(ctx, models.VariantUser)
	s.Require().NoError(err)

	s.ErrorIs(s.states.Consume(ctx, state, models.VariantProvider), services.ErrInvalidState)
}

func TestRedisStateTestSuite(t *testing.T) {
	suite.Run(t, new(RedisStateTestSuite))
}
