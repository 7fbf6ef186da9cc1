package http

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/easytrack/backend/internal/auth"
	"github.com/easytrack/backend/internal/service"
)

// ErrorHandler renders every error as {"error": true, "message": ...}
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

// toHTTPError maps service and auth errors to status codes
func toHTTPError(err error) error {
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUnsupportedProvider):
		return fiber.NewError(fiber.StatusBadRequest, "Unsupported identity provider")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired session")
	case errors.Is(err, auth.ErrUserExists):
		return fiber.NewError(fiber.StatusConflict, "An account with this email already exists")
	case errors.Is(err, auth.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	log.Printf("Unhandled error: %v", err)
	return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
}
