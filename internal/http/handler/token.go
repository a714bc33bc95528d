package handler

import (
	"github.com/gofiber/fiber/v2"

	"solemate/internal/service"
)

type tokenObtainRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type tokenRefreshRequest struct {
	Refresh string `json:"refresh" form:"refresh" validate:"required"`
}

type tokenVerifyRequest struct {
	Token string `json:"token" form:"token" validate:"required"`
}

// ObtainToken exchanges credentials for a refresh/access pair.
//
// @Summary Obtain a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body tokenObtainRequest true "credentials"
// @Success 200 {object} auth.Pair
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Failure 405 {object} errorPayload
// @Router /api/token/ [post]
func ObtainToken(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tokenObtainRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		pair, err := svc.ObtainPair(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(pair)
	}
}

// RefreshToken issues a new access token from a refresh token.
//
// @Summary Refresh an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body tokenRefreshRequest true "refresh token"
// @Success 200 {object} service.RefreshResult
// @Failure 401 {object} errorPayload
// @Router /api/token/refresh/ [post]
func RefreshToken(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tokenRefreshRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		res, err := svc.Refresh(c.UserContext(), req.Refresh)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// VerifyToken reports whether a token is valid.
//
// @Summary Verify a token
// @Tags auth
// @Accept json
// @Param body body tokenVerifyRequest true "token"
// @Success 200
// @Failure 401 {object} errorPayload
// @Router /api/token/verify/ [post]
func VerifyToken(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tokenVerifyRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		if err := svc.Verify(c.UserContext(), req.Token); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{})
	}
}

// BlacklistToken revokes a refresh token.
//
// @Summary Blacklist a refresh token (logout)
// @Tags auth
// @Accept json
// @Param body body tokenRefreshRequest true "refresh token"
// @Success 200
// @Failure 401 {object} errorPayload
// @Router /api/token/blacklist/ [post]
func BlacklistToken(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tokenRefreshRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		if err := svc.Blacklist(c.UserContext(), req.Refresh); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{})
	}
}
