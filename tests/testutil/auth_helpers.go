package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/serviyapp/serviyapp-api/auth"
	"github.com/serviyapp/serviyapp-api/middleware"
	"github.com/serviyapp/serviyapp-api/models"
	"github.com/stretchr/testify/require"
)

// TestSecret signs every token issued by NewTestIssuer
const TestSecret = "test-secret-key-that-is-at-least-32-bytes"

// NewTestIssuer creates a token issuer with the test secret
func NewTestIssuer(t *testing.T, opts ...auth.TokenOption) *auth.TokenIssuer {
	t.Helper()

	issuer, err := auth.NewTokenIssuer(auth.TokenConfig{
		Secret:   []byte(TestSecret),
		Issuer:   "serviyapp-api",
		Audience: "serviyapp",
	}, opts...)
	require.NoError(t, err)
	return issuer
}

// BearerFor issues a one hour token for account
func BearerFor(t *testing.T, issuer auth.TokenSigner, account models.Account) string {
	t.Helper()

	token, err := issuer.Issue(auth.ClaimsFor(account), time.Hour)
	require.NoError(t, err)
	return token
}

// NewRequest builds a request with an optional JSON body and bearer token
func NewRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// DecodeJSON decodes a recorded response body into a generic map
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

// ErrorCode extracts error.code from an error envelope
func ErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	body := DecodeJSON(t, w)
	errBody, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "response has no error object: %s", w.Body.String())
	code, _ := errBody["code"].(string)
	return code
}

// SetMockPrincipal attaches a principal to a test context as RequireAuth would
func SetMockPrincipal(c *gin.Context, id string, role models.Role) {
	middleware.SetPrincipal(c, &auth.Claims{ID: id, Role: role})
}
