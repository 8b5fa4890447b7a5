package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/serviyapp/serviyapp-api/models"
	"github.com/serviyapp/serviyapp-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	app      *testApp
	ana      *models.User
	bob      *models.User
	luis     *models.Provider
	pending  *models.Provider
	orderID  string
	anaToken string
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	app := newTestApp(t)
	f := &orderFixture{
		app:     app,
		ana:     app.createUser(t, "ana@x.com", models.RoleUser, models.StatusActive),
		bob:     app.createUser(t, "bob@x.com", models.RoleUser, models.StatusActive),
		luis:    app.createProvider(t, "luis@x.com", "luis", models.StatusActive),
		pending: app.createProvider(t, "marta@x.com", "marta", models.StatusPending),
	}
	f.anaToken = app.token(t, f.ana)

	w := app.do(t, http.MethodPost, "/orders", map[string]interface{}{
		"provider_id": f.luis.ID,
		"name":        "Fix sink",
		"description": "Kitchen sink leaks",
	}, f.anaToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	f.orderID = testutil.DecodeJSON(t, w)["data"].(map[string]interface{})["id"].(string)
	return f
}

func TestCreateOrder(t *testing.T) {
	f := newOrderFixture(t)
	app := f.app

	order, err := app.orders.FindByID(context.Background(), f.orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, f.ana.ID, order.UserID)
	assert.Equal(t, f.luis.ID, order.ProviderID)

	tests := []struct {
		name       string
		body       map[string]interface{}
		token      string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "pending provider",
			body:       map[string]interface{}{"provider_id": f.pending.ID, "name": "Paint", "description": "Walls"},
			token:      f.anaToken,
			wantStatus: http.StatusConflict,
			wantCode:   "PROVIDER_UNAVAILABLE",
		},
		{
			name:       "unknown provider",
			body:       map[string]interface{}{"provider_id": "nope", "name": "Paint", "description": "Walls"},
			token:      f.anaToken,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "providers cannot order",
			body:       map[string]interface{}{"provider_id": f.luis.ID, "name": "Paint", "description": "Walls"},
			token:      app.token(t, f.luis),
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "missing description",
			body:       map[string]interface{}{"provider_id": f.luis.ID, "name": "Paint"},
			token:      f.anaToken,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodPost, "/orders", tt.body, tt.token)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, testutil.ErrorCode(t, w))
		})
	}
}

func TestListAndGetOrders(t *testing.T) {
	f := newOrderFixture(t)
	app := f.app

	tests := []struct {
		name      string
		token     string
		wantCount float64
		canGet    bool
	}{
		{name: "ordering user", token: f.anaToken, wantCount: 1, canGet: true},
		{name: "addressed provider", token: app.token(t, f.luis), wantCount: 1, canGet: true},
		{name: "admin", token: app.adminToken(t), wantCount: 1, canGet: true},
		{name: "unrelated user", token: app.token(t, f.bob), wantCount: 0, canGet: false},
		{name: "unrelated provider", token: app.token(t, f.pending), wantCount: 0, canGet: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodGet, "/orders", nil, tt.token)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantCount, testutil.DecodeJSON(t, w)["count"])

			w = app.do(t, http.MethodGet, "/orders/"+f.orderID, nil, tt.token)
			if tt.canGet {
				assert.Equal(t, http.StatusOK, w.Code)
			} else {
				assert.Equal(t, http.StatusNotFound, w.Code)
			}
		})
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name       string
		steps      []models.OrderStatus
		actor      string
		wantStatus int
		wantCode   string
	}{
		{name: "provider accepts", steps: []models.OrderStatus{models.OrderAccepted}, actor: "provider", wantStatus: http.StatusOK},
		{name: "user cannot accept", steps: []models.OrderStatus{models.OrderAccepted}, actor: "user", wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "user cancels", steps: []models.OrderStatus{models.OrderCancelled}, actor: "user", wantStatus: http.StatusOK},
		{name: "provider cannot complete a pending order", steps: []models.OrderStatus{models.OrderCompleted}, actor: "provider", wantStatus: http.StatusConflict, wantCode: "INVALID_TRANSITION"},
		{name: "admin completes an accepted order", steps: []models.OrderStatus{models.OrderAccepted, models.OrderCompleted}, actor: "admin", wantStatus: http.StatusOK},
		{name: "completed orders are final", steps: []models.OrderStatus{models.OrderAccepted, models.OrderCompleted, models.OrderCancelled}, actor: "admin", wantStatus: http.StatusConflict, wantCode: "INVALID_TRANSITION"},
		{name: "outsider", steps: []models.OrderStatus{models.OrderCancelled}, actor: "outsider", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)
			app := f.app
			tokens := map[string]string{
				"user":     f.anaToken,
				"provider": app.token(t, f.luis),
				"admin":    app.adminToken(t),
				"outsider": app.token(t, f.bob),
			}

			path := "/orders/" + f.orderID + "/status"
			for _, step := range tt.steps[:len(tt.steps)-1] {
				w := app.do(t, http.MethodPatch, path, map[string]interface{}{"status": step}, tokens["admin"])
				require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			}

			last := tt.steps[len(tt.steps)-1]
			w := app.do(t, http.MethodPatch, path, map[string]interface{}{"status": last}, tokens[tt.actor])
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, testutil.ErrorCode(t, w))
				return
			}
			data := testutil.DecodeJSON(t, w)["data"].(map[string]interface{})
			assert.Equal(t, string(last), data["status"])
		})
	}
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture(t)

	w := f.app.do(t, http.MethodPatch, "/orders/"+f.orderID+"/status", map[string]interface{}{"status": "pending"}, f.app.adminToken(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
