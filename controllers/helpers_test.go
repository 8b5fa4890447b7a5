package controllers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/serviyapp/serviyapp-api/auth"
	"github.com/serviyapp/serviyapp-api/middleware"
	"github.com/serviyapp/serviyapp-api/models"
	"github.com/serviyapp/serviyapp-api/services"
	"github.com/serviyapp/serviyapp-api/store"
	"github.com/serviyapp/serviyapp-api/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testPassword = "Secret1!"
	frontendURL  = "http://frontend.test"
)

// fakeGoogle returns canned profiles keyed by authorization code or ID token
type fakeGoogle struct {
	profiles map[string]auth.ExternalProfile
	err      error
}

func (f *fakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.google.test/auth?state=" + state
}

func (f *fakeGoogle) ExchangeProfile(ctx context.Context, code string) (*auth.ExternalProfile, error) {
	return f.lookup(code)
}

func (f *fakeGoogle) VerifyIDToken(ctx context.Context, rawToken string) (*auth.ExternalProfile, error) {
	return f.lookup(rawToken)
}

func (f *fakeGoogle) lookup(key string) (*auth.ExternalProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	profile, ok := f.profiles[key]
	if !ok {
		return nil, errors.New("unknown code")
	}
	return &profile, nil
}

type testApp struct {
	db        *gorm.DB
	issuer    *auth.TokenIssuer
	service   *auth.Service
	users     *store.UserStore
	providers *store.ProviderStore
	locations *store.LocationStore
	orders    *store.OrderStore
	hasher    auth.Hasher
	images    *services.MockImageService
	google    *fakeGoogle
	states    services.StateStore
	router    *gin.Engine
	admin     *models.User
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	app := &testApp{
		db:        db,
		issuer:    testutil.NewTestIssuer(t),
		users:     store.NewUserStore(db),
		providers: store.NewProviderStore(db),
		locations: store.NewLocationStore(db),
		orders:    store.NewOrderStore(db),
		hasher:    auth.NewBcryptHasher(bcrypt.MinCost),
		images:    services.NewMockImageService(),
		google:    &fakeGoogle{profiles: map[string]auth.ExternalProfile{}},
		states:    services.NewSignedStateStore([]byte(testutil.TestSecret), 5*time.Minute),
	}
	app.service = auth.NewService(auth.ServiceDeps{
		Users:                app.users,
		Providers:            app.providers,
		Locations:            app.locations,
		Hasher:               app.hasher,
		Tokens:               app.issuer,
		Logger:               logger,
		AccessTokenTTL:       30 * time.Minute,
		RegistrationTokenTTL: 24 * time.Hour,
		FrontendBaseURL:      frontendURL,
	})

	orderController := NewOrderController(app.orders, app.providers, logger)
	google := map[models.Variant]services.GoogleOAuth{
		models.VariantUser:     app.google,
		models.VariantProvider: app.google,
	}

	app.router = gin.New()
	RegisterRoutes(app.router, Controllers{
		Auth:      NewAuthController(app.service, google, app.states, logger),
		Users:     NewUserController(app.users, app.service, app.images, logger),
		Providers: NewProviderController(app.providers, app.locations, app.service, app.images, logger),
		Orders:    orderController,
		Messages:  NewMessageController(orderController, logger),
		Locations: NewLocationController(app.locations, logger),
	}, middleware.RequireAuth(app.issuer, auth.NewPrincipalLoader(app.users, app.providers), logger))

	return app
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, testutil.NewRequest(t, method, path, body, token))
	return w
}

func (a *testApp) createUser(t *testing.T, email string, role models.Role, status models.Status) *models.User {
	t.Helper()

	hash, err := a.hasher.Hash(testPassword)
	require.NoError(t, err)
	user := &models.User{
		Names:        "Ana",
		Surnames:     "Gomez",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       status,
		IsCompleted:  true,
	}
	require.NoError(t, a.users.Create(context.Background(), user))
	return user
}

func (a *testApp) createProvider(t *testing.T, email, handle string, status models.Status) *models.Provider {
	t.Helper()

	hash, err := a.hasher.Hash(testPassword)
	require.NoError(t, err)
	provider := &models.Provider{
		Names:        "Luis",
		Surnames:     "Perez",
		Handle:       handle,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleProvider,
		Status:       status,
	}
	require.NoError(t, a.providers.Create(context.Background(), provider))
	return provider
}

func (a *testApp) token(t *testing.T, account models.Account) string {
	t.Helper()
	return testutil.BearerFor(t, a.issuer, account)
}

func (a *testApp) adminToken(t *testing.T) string {
	t.Helper()
	if a.admin == nil {
		a.admin = a.createUser(t, "admin@serviyapp.test", models.RoleAdmin, models.StatusActive)
	}
	return a.token(t, a.admin)
}

// seedLocation creates a country with one region and one city
func (a *testApp) seedLocation(t *testing.T, code string) (models.Country, models.Region, models.City) {
	t.Helper()

	country := models.Country{Name: "Country " + code, Code: code}
	require.NoError(t, a.db.Create(&country).Error)
	region := models.Region{Name: "Region " + code, CountryID: country.ID}
	require.NoError(t, a.db.Create(&region).Error)
	city := models.City{Name: "City " + code, RegionID: region.ID}
	require.NoError(t, a.db.Create(&city).Error)
	return country, region, city
}

// multipartImage builds a multipart body with one "image" file part
func multipartImage(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func (a *testApp) upload(t *testing.T, path, filename string, content []byte, token string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartImage(t, filename, content)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}
