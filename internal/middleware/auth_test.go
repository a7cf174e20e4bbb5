package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vending/internal/logging"
	"vending/internal/models"
	"vending/internal/repositories/cache"
	"vending/internal/repositories/memory"
	"vending/internal/services/user"
	"vending/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokens = utils.TokenConfig{
	AccessSecret:  "access",
	RefreshSecret: "refresh",
	AccessTTL:     time.Minute,
	RefreshTTL:    time.Hour,
}

func setup(t *testing.T) (*fiber.App, *models.User) {
	t.Helper()
	store := memory.NewStore()
	u := &models.User{Username: "alice", Password: "x", Role: models.RoleBuyer}
	require.NoError(t, store.Users().Create(context.Background(), u))

	auth := NewAuthMiddleware(user.NewService(store, cache.Noop{}), tokens.AccessSecret, logging.Nop{})

	app := fiber.New()
	app.Get("/buyer", auth.Handler, RequireRole(models.RoleBuyer), func(c *fiber.Ctx) error {
		identity, err := utils.GetIdentity(c)
		if err != nil {
			return err
		}
		return c.SendString(identity.UserID.String())
	})
	app.Get("/seller", auth.Handler, RequireRole(models.RoleSeller), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app, u
}

func request(t *testing.T, app *fiber.App, path, authorization string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	app, u := setup(t)

	access, refresh, err := utils.GenerateTokens(tokens, u.Identity())
	require.NoError(t, err)
	ghost, _, err := utils.GenerateTokens(tokens, models.Identity{UserID: uuid.New(), Role: models.RoleBuyer})
	require.NoError(t, err)

	tests := []struct {
		name          string
		path          string
		authorization string
		want          int
	}{
		{"valid buyer", "/buyer", "Bearer " + access, http.StatusOK},
		{"missing header", "/buyer", "", http.StatusUnauthorized},
		{"wrong scheme", "/buyer", "Basic " + access, http.StatusUnauthorized},
		{"refresh token used as access", "/buyer", "Bearer " + refresh, http.StatusUnauthorized},
		{"unknown user", "/buyer", "Bearer " + ghost, http.StatusUnauthorized},
		{"wrong role", "/seller", "Bearer " + access, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, request(t, app, tt.path, tt.authorization))
		})
	}
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequireRole(models.RoleBuyer), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	assert.Equal(t, http.StatusUnauthorized, request(t, app, "/", ""))
}
