package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"solemate/internal/auth"
	"solemate/internal/model"
	"solemate/internal/service"
)

// UserLocalKey is the key used to store the authenticated user in Fiber's context locals.
const UserLocalKey = "user"

var (
	ErrNotAuthenticated = fiber.NewError(fiber.StatusUnauthorized, "Authentication credentials were not provided.")
	ErrTokenNotValid    = fiber.NewError(fiber.StatusUnauthorized, "Given token not valid for any token type")
	ErrPermissionDenied = fiber.NewError(fiber.StatusForbidden, "You do not have permission to perform this action.")
)

// Authenticator resolves an access token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, access string) (*model.User, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer <access>" header
// and stores the user under UserLocalKey.
func RequireAuth(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return ErrNotAuthenticated
		}

		u, err := a.Authenticate(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, auth.ErrTokenInvalid) || errors.Is(err, service.ErrInvalidCredentials) {
				return ErrTokenNotValid
			}
			return err
		}

		c.Locals(UserLocalKey, u)
		return c.Next()
	}
}

// RequireStaff allows only staff users. It must run after RequireAuth.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return ErrNotAuthenticated
		}
		if !u.IsStaff {
			return ErrPermissionDenied
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(UserLocalKey).(*model.User)
	return u
}
