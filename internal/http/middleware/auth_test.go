package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solemate/internal/auth"
	"solemate/internal/model"
	"solemate/internal/service"
)

type authenticatorFunc func(ctx context.Context, access string) (*model.User, error)

func (f authenticatorFunc) Authenticate(ctx context.Context, access string) (*model.User, error) {
	return f(ctx, access)
}

func newAuthApp(a Authenticator, staffOnly bool) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{RequireAuth(a)}
	if staffOnly {
		handlers = append(handlers, RequireStaff())
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).ID)
	})
	app.Get("/private", handlers...)
	return app
}

func TestRequireAuth(t *testing.T) {
	users := map[string]*model.User{
		"good":  {ID: "u1", IsActive: true},
		"staff": {ID: "u2", IsActive: true, IsStaff: true},
	}
	a := authenticatorFunc(func(_ context.Context, token string) (*model.User, error) {
		switch token {
		case "inactive":
			return nil, service.ErrInvalidCredentials
		case "broken":
			return nil, errors.New("db down")
		}
		if u, ok := users[token]; ok {
			return u, nil
		}
		return nil, auth.ErrTokenInvalid
	})

	tests := []struct {
		name       string
		header     string
		staffOnly  bool
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", wantStatus: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", wantStatus: fiber.StatusUnauthorized},
		{name: "empty token", header: "Bearer  ", wantStatus: fiber.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", wantStatus: fiber.StatusUnauthorized},
		{name: "inactive user", header: "Bearer inactive", wantStatus: fiber.StatusUnauthorized},
		{name: "backend failure", header: "Bearer broken", wantStatus: fiber.StatusInternalServerError},
		{name: "valid token", header: "Bearer good", wantStatus: fiber.StatusOK, wantBody: "u1"},
		{name: "lowercase scheme", header: "bearer good", wantStatus: fiber.StatusOK, wantBody: "u1"},
		{name: "staff route as user", header: "Bearer good", staffOnly: true, wantStatus: fiber.StatusForbidden},
		{name: "staff route as staff", header: "Bearer staff", staffOnly: true, wantStatus: fiber.StatusOK, wantBody: "u2"},
		{name: "staff route anonymous", staffOnly: true, wantStatus: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newAuthApp(a, tt.staffOnly)
			req := httptest.NewRequest("GET", "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantBody != "" {
				buf := make([]byte, 16)
				n, _ := resp.Body.Read(buf)
				assert.Equal(t, tt.wantBody, string(buf[:n]))
			}
		})
	}
}

func TestRequireStaff_WithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequireStaff(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
