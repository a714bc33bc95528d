package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"solemate/internal/http/middleware"
	"solemate/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "VALIDATION_ERROR", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

func writeInternal(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// writeServiceError maps service sentinel errors to HTTP responses.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "id is required")
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "NO_ACTIVE_ACCOUNT", "No active account found with the given credentials")
	case errors.Is(err, service.ErrTokenInvalid):
		return writeError(c, fiber.StatusUnauthorized, "TOKEN_NOT_VALID", "Token is invalid or expired")
	case errors.Is(err, service.ErrEmailTaken):
		return writeError(c, fiber.StatusConflict, "EMAIL_TAKEN", "a user with that email already exists")
	case errors.Is(err, service.ErrInsufficientStock):
		return writeError(c, fiber.StatusConflict, "INSUFFICIENT_STOCK", "quantity exceeds available stock")
	case errors.Is(err, service.ErrInvalidPeriod):
		return writeError(c, fiber.StatusBadRequest, "INVALID_PERIOD", "period must be one of last_week, last_month, last_6_months, last_year, all_time")
	case errors.Is(err, service.ErrInvalidImage):
		return writeError(c, fiber.StatusBadRequest, "INVALID_IMAGE", "file must be an image")
	case errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "image is required")
	default:
		return writeInternal(c)
	}
}

// MethodNotAllowed answers 405 and advertises the allowed methods.
func MethodNotAllowed(allowed ...string) fiber.Handler {
	allow := strings.Join(allowed, ", ")
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAllow, allow)
		return writeError(c, fiber.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", `Method "`+c.Method()+`" not allowed.`)
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			if e == middleware.ErrNotAuthenticated {
				return writeError(c, status, "NOT_AUTHENTICATED", e.Message)
			}
			return writeError(c, status, "TOKEN_NOT_VALID", e.Message)
		case fiber.StatusForbidden:
			return writeError(c, status, "PERMISSION_DENIED", e.Message)
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeInternal(c)
		}
	}
}
