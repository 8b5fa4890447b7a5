package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/serviyapp/serviyapp-api/auth"
	"github.com/serviyapp/serviyapp-api/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// DefaultUserInfoURL is Google's OpenID Connect userinfo endpoint
const DefaultUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// ErrEmailNotVerified is returned when Google reports the account email as unverified
var ErrEmailNotVerified = errors.New("google account email is not verified")

// GoogleUserInfo represents the user information returned from Google's userinfo endpoint
type GoogleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// Profile converts the userinfo response into an external profile
func (u GoogleUserInfo) Profile() auth.ExternalProfile {
	return auth.ExternalProfile{
		Subject:     u.Sub,
		Email:       u.Email,
		DisplayName: u.Name,
		GivenName:   u.GivenName,
		FamilyName:  u.FamilyName,
		Picture:     u.Picture,
	}
}

// GoogleOAuth is the Google sign-in surface the auth controller needs
type GoogleOAuth interface {
	AuthCodeURL(state string) string
	ExchangeProfile(ctx context.Context, code string) (*auth.ExternalProfile, error)
	VerifyIDToken(ctx context.Context, rawToken string) (*auth.ExternalProfile, error)
}

// IDTokenValidator validates a Google ID token for an audience
type IDTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleService handles the Google OAuth code flow and ID token sign-in for one client
type GoogleService struct {
	oauth       *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
	validate    IDTokenValidator
}

// GoogleOption customizes a GoogleService
type GoogleOption func(*GoogleService)

// WithEndpoint points the code flow at another authorization server
func WithEndpoint(endpoint oauth2.Endpoint) GoogleOption {
	return func(s *GoogleService) {
		s.oauth.Endpoint = endpoint
	}
}

// WithUserInfoURL overrides the userinfo endpoint
func WithUserInfoURL(url string) GoogleOption {
	return func(s *GoogleService) {
		s.userInfoURL = url
	}
}

// WithIDTokenValidator overrides ID token validation
func WithIDTokenValidator(validate IDTokenValidator) GoogleOption {
	return func(s *GoogleService) {
		s.validate = validate
	}
}

// NewGoogleService creates a Google OAuth client for the given credentials
func NewGoogleService(client config.GoogleClientConfig, opts ...GoogleOption) *GoogleService {
	s := &GoogleService{
		oauth: &oauth2.Config{
			ClientID:     client.ClientID,
			ClientSecret: client.ClientSecret,
			RedirectURL:  client.CallbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: DefaultUserInfoURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		validate: idtoken.Validate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthCodeURL returns the Google consent page URL carrying state
func (s *GoogleService) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// ExchangeProfile trades an authorization code for the signed-in account's profile
func (s *GoogleService) ExchangeProfile(ctx context.Context, code string) (*auth.ExternalProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	userInfo, err := s.getUserInfo(ctx, s.oauth.Client(ctx, token))
	if err != nil {
		return nil, err
	}
	if !userInfo.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	profile := userInfo.Profile()
	return &profile, nil
}

// getUserInfo fetches the profile of the token owner from the userinfo endpoint
func (s *GoogleService) getUserInfo(ctx context.Context, client *http.Client) (*GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("userinfo endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var userInfo GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	return &userInfo, nil
}

// VerifyIDToken validates a Google ID token issued to this client and returns its profile
func (s *GoogleService) VerifyIDToken(ctx context.Context, rawToken string) (*auth.ExternalProfile, error) {
	payload, err := s.validate(ctx, rawToken, s.oauth.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrTokenInvalid, err)
	}

	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, ErrEmailNotVerified
	}

	return &auth.ExternalProfile{
		Subject:     payload.Subject,
		Email:       claimString(payload.Claims, "email"),
		DisplayName: claimString(payload.Claims, "name"),
		GivenName:   claimString(payload.Claims, "given_name"),
		FamilyName:  claimString(payload.Claims, "family_name"),
		Picture:     claimString(payload.Claims, "picture"),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	value, _ := claims[key].(string)
	return value
}
