package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/pkg/errors"

	"github.com/easytrack/backend/internal/domain"
)

var (
	ErrInvalidCredentials  = errors.New("auth: invalid email or password")
	ErrInvalidToken        = errors.New("auth: invalid or expired token")
	ErrUserExists          = errors.New("auth: user already exists")
	ErrUserNotFound        = errors.New("auth: user not found")
	ErrUnsupportedProvider = errors.New("auth: unsupported identity provider")
)

// Provider is the hosted authentication backend used by the dashboard
type Provider interface {
	// SignUp registers a new account
	SignUp(ctx context.Context, req domain.SignUpRequest) (domain.User, error)

	// SignIn exchanges email and password for a session
	SignIn(ctx context.Context, req domain.SignInRequest) (domain.Session, error)

	// SignInWithIdP exchanges a third-party identity token for a session
	SignInWithIdP(ctx context.Context, req domain.IdPSignInRequest) (domain.Session, error)

	// VerifySession resolves an ID token to the signed-in user
	VerifySession(ctx context.Context, idToken string) (domain.User, error)

	// GetUser looks up a user by uid
	GetUser(ctx context.Context, uid string) (domain.User, error)
}

// identityProviders maps the dashboard's provider names to provider ids
var identityProviders = map[string]string{
	"google": "google.com",
	"azure":  "microsoft.com",
}

// ValidationError reports a rejected form field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateSignUp checks a registration form before it reaches the provider
func ValidateSignUp(req domain.SignUpRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return &ValidationError{Field: "email", Message: "a valid email address is required"}
	}
	if strings.TrimSpace(req.Organization) == "" {
		return &ValidationError{Field: "organization", Message: "organization is required"}
	}
	if req.Password != req.ConfirmPassword {
		return &ValidationError{Field: "confirm_password", Message: "passwords do not match"}
	}
	if PasswordStrength(req.Password) < MinPasswordStrength {
		return &ValidationError{Field: "password", Message: "choose a stronger password with uppercase, numbers, and special characters"}
	}
	return nil
}
