package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/easytrack/backend/internal/auth"
	"github.com/easytrack/backend/internal/domain"
)

const userLocalsKey = "user"

// RequireAuth rejects requests without a valid bearer token and stores the
// signed-in user in the request locals
func RequireAuth(provider auth.Provider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing bearer token")
		}

		user, err := provider.VerifySession(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			return toHTTPError(err)
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth
func CurrentUser(c *fiber.Ctx) (domain.User, bool) {
	user, ok := c.Locals(userLocalsKey).(domain.User)
	return user, ok
}

// SignUp registers a new account
func (h *Handler) SignUp(c *fiber.Ctx) error {
	var req domain.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.auth.SignUp(c.UserContext(), req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// SignIn exchanges email and password for a session
func (h *Handler) SignIn(c *fiber.Ctx) error {
	var req domain.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	session, err := h.auth.SignIn(c.UserContext(), req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    session,
	})
}

// SignInWithIdP exchanges a Google or Azure token for a session
func (h *Handler) SignInWithIdP(c *fiber.Ctx) error {
	var req domain.IdPSignInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	session, err := h.auth.SignInWithIdP(c.UserContext(), req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    session,
	})
}

// PasswordStrength scores a candidate password for the sign-up form
func (h *Handler) PasswordStrength(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	strength := auth.PasswordStrength(req.Password)
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"strength":   strength,
			"label":      auth.StrengthLabel(strength),
			"acceptable": strength >= auth.MinPasswordStrength,
		},
	})
}

// Me returns the signed-in user
func (h *Handler) Me(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Not signed in")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}
