package handler

import (
	"github.com/gofiber/fiber/v2"

	"solemate/internal/http/middleware"
	"solemate/internal/service"
)

type registerRequest struct {
	FirstName       string `json:"first_name" form:"first_name" validate:"required,max=150"`
	LastName        string `json:"last_name" form:"last_name" validate:"required,max=150"`
	Email           string `json:"email" form:"email" validate:"required,email,max=254"`
	Password        string `json:"password" form:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required,eqfield=Password"`
}

// Register creates an account and returns it with a token pair.
//
// @Summary Register a new user
// @Tags accounts
// @Accept json
// @Produce json
// @Param body body registerRequest true "account"
// @Success 201 {object} service.RegisterResult
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/register/ [post]
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		res, err := svc.Register(c.UserContext(), service.RegisterInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// Me returns the authenticated user.
//
// @Summary Current user
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errorPayload
// @Router /api/me/ [get]
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(middleware.CurrentUser(c))
	}
}
