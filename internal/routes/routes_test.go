package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vending/internal/logging"
	"vending/internal/repositories/cache"
	"vending/internal/repositories/memory"
	"vending/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestApp(t *testing.T, rateLimit int) *fiber.App {
	t.Helper()
	app := fiber.New()
	SetupRoutes(app, Dependencies{
		Store:  memory.NewStore(),
		Cache:  cache.Noop{},
		Logger: logging.Nop{},
		Tokens: utils.TokenConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    time.Hour,
		},
		BcryptCost:     bcrypt.MinCost,
		VendingTimeout: 2 * time.Second,
		AuthRateLimit:  rateLimit,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func signup(t *testing.T, app *fiber.App, username, role string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/signup", "", map[string]string{
		"username": username,
		"password": "secret",
		"role":     role,
	})
	require.Equal(t, http.StatusOK, status, body)
	token, ok := body["accessToken"].(string)
	require.True(t, ok)
	return token
}

func TestPurchaseFlow(t *testing.T) {
	app := newTestApp(t, 0)

	buyer := signup(t, app, "buyer", "buyer")
	seller := signup(t, app, "seller", "seller")

	status, body := doJSON(t, app, http.MethodPost, "/products", seller, map[string]any{
		"productName":     "Cola",
		"cost":            20,
		"amountAvailable": 10,
	})
	require.Equal(t, http.StatusCreated, status, body)
	productID := body["id"].(string)

	status, body = doJSON(t, app, http.MethodPatch, "/products/"+productID, seller, map[string]any{"cost": 21})
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 21, body["cost"])

	for _, amount := range []int{100, 20} {
		status, body = doJSON(t, app, http.MethodPost, "/deposit", buyer, map[string]any{"amount": amount})
		require.Equal(t, http.StatusOK, status, body)
	}
	assert.EqualValues(t, 120, body["deposit"])

	status, body = doJSON(t, app, http.MethodPost, "/buy", buyer, map[string]any{
		"productId": productID,
		"quantity":  3,
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 63, body["totalSpent"])
	assert.EqualValues(t, 3, body["productsPurchased"])

	product := body["product"].(map[string]any)
	assert.EqualValues(t, 7, product["amountAvailable"])

	change := body["change"].([]any)
	want := [][2]float64{{100, 0}, {50, 1}, {20, 0}, {10, 0}, {5, 1}, {1, 2}}
	require.Len(t, change, len(want))
	for i, w := range want {
		entry := change[i].(map[string]any)
		assert.Equal(t, w[0], entry["coin"])
		assert.Equal(t, w[1], entry["amount"])
	}

	status, body = doJSON(t, app, http.MethodGet, "/products/"+productID, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 7, body["amountAvailable"])

	status, body = doJSON(t, app, http.MethodPost, "/buy", buyer, map[string]any{
		"productId": productID,
		"quantity":  8,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_FUNDS", body["code"])
}

func TestRoleEnforcement(t *testing.T) {
	app := newTestApp(t, 0)

	buyer := signup(t, app, "buyer", "buyer")
	seller := signup(t, app, "seller", "seller")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
	}{
		{"deposit without token", http.MethodPost, "/deposit", "", map[string]any{"amount": 5}, http.StatusUnauthorized},
		{"deposit with garbage token", http.MethodPost, "/deposit", "garbage", map[string]any{"amount": 5}, http.StatusUnauthorized},
		{"seller cannot deposit", http.MethodPost, "/deposit", seller, map[string]any{"amount": 5}, http.StatusForbidden},
		{"seller cannot buy", http.MethodPost, "/buy", seller, map[string]any{"productId": "00000000-0000-0000-0000-000000000001", "quantity": 1}, http.StatusForbidden},
		{"buyer cannot create product", http.MethodPost, "/products", buyer, map[string]any{"productName": "x", "cost": 5}, http.StatusForbidden},
		{"users require auth", http.MethodGet, "/users", "", nil, http.StatusUnauthorized},
		{"products are public", http.MethodGet, "/products", "", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := doJSON(t, app, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestDepositRejectsUnknownCoin(t *testing.T) {
	app := newTestApp(t, 0)
	buyer := signup(t, app, "buyer", "buyer")

	status, body := doJSON(t, app, http.MethodPost, "/deposit", buyer, map[string]any{"amount": 7})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_AMOUNT", body["code"])
}

func TestDeletedUserTokenRejected(t *testing.T) {
	app := newTestApp(t, 0)
	buyer := signup(t, app, "buyer", "buyer")

	status, _ := doJSON(t, app, http.MethodGet, "/users", buyer, nil)
	require.Equal(t, http.StatusOK, status)

	_, claims, err := utils.ParseToken(buyer, "access-secret")
	require.NoError(t, err)
	id := claims.Subject

	status, _ = doJSON(t, app, http.MethodDelete, "/users/"+id, buyer, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPost, "/reset", buyer, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthRateLimit(t *testing.T) {
	app := newTestApp(t, 2)

	creds := map[string]string{"username": "nobody", "password": "x"}
	for i := 0; i < 2; i++ {
		status, _ := doJSON(t, app, http.MethodPost, "/login", "", creds)
		assert.NotEqual(t, http.StatusTooManyRequests, status)
	}
	status, body := doJSON(t, app, http.MethodPost, "/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMITED", body["code"])
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, 0)

	status, body := doJSON(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}
