package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	"github.com/pkg/errors"
	"google.golang.org/api/option"

	"github.com/easytrack/backend/internal/domain"
)

const defaultIdentityURL = "https://identitytoolkit.googleapis.com/v1"

// FirebaseProvider implements Provider on Firebase Authentication.
// Account management and token verification go through the Admin SDK;
// password and identity-provider sign-in go through the Identity Toolkit REST API.
type FirebaseProvider struct {
	client      *fbauth.Client
	apiKey      string
	identityURL string
	httpClient  *http.Client
}

// NewFirebaseProvider initializes Firebase from base64-encoded service account credentials
func NewFirebaseProvider(ctx context.Context, encodedCreds, apiKey string) (*FirebaseProvider, error) {
	creds, err := base64.StdEncoding.DecodeString(encodedCreds)
	if err != nil {
		return nil, errors.Wrap(err, "auth: failed to decode firebase credentials")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, errors.Wrap(err, "auth: failed to initialize firebase")
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "auth: failed to get firebase auth client")
	}

	return &FirebaseProvider{
		client:      client,
		apiKey:      apiKey,
		identityURL: defaultIdentityURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// SignUp registers a new account and stores the organization as a custom claim
func (p *FirebaseProvider) SignUp(ctx context.Context, req domain.SignUpRequest) (domain.User, error) {
	if err := ValidateSignUp(req); err != nil {
		return domain.User{}, err
	}

	params := (&fbauth.UserToCreate{}).
		Email(strings.TrimSpace(req.Email)).
		Password(req.Password).
		DisplayName(strings.TrimSpace(req.Name))

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, errors.Wrap(err, "auth: failed to create user")
	}

	org := strings.TrimSpace(req.Organization)
	if err := p.client.SetCustomUserClaims(ctx, record.UID, map[string]interface{}{"organization": org}); err != nil {
		return domain.User{}, errors.Wrap(err, "auth: failed to set organization claim")
	}

	return domain.User{
		UID:          record.UID,
		Email:        record.Email,
		Name:         record.DisplayName,
		Organization: org,
		Provider:     "password",
	}, nil
}

// SignIn exchanges email and password for a session
func (p *FirebaseProvider) SignIn(ctx context.Context, req domain.SignInRequest) (domain.Session, error) {
	body := map[string]interface{}{
		"email":             req.Email,
		"password":          req.Password,
		"returnSecureToken": true,
	}
	return p.exchange(ctx, "accounts:signInWithPassword", body)
}

// SignInWithIdP exchanges a Google or Microsoft ID token for a session
func (p *FirebaseProvider) SignInWithIdP(ctx context.Context, req domain.IdPSignInRequest) (domain.Session, error) {
	providerID, ok := identityProviders[req.Provider]
	if !ok {
		return domain.Session{}, ErrUnsupportedProvider
	}
	if req.IDToken == "" {
		return domain.Session{}, ErrInvalidCredentials
	}

	requestURI := req.RequestURI
	if requestURI == "" {
		requestURI = "http://localhost"
	}

	postBody := url.Values{}
	postBody.Set("id_token", req.IDToken)
	postBody.Set("providerId", providerID)

	body := map[string]interface{}{
		"postBody":          postBody.Encode(),
		"requestUri":        requestURI,
		"returnSecureToken": true,
	}
	return p.exchange(ctx, "accounts:signInWithIdp", body)
}

// VerifySession verifies a Firebase ID token and reads the user from its claims
func (p *FirebaseProvider) VerifySession(ctx context.Context, idToken string) (domain.User, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return domain.User{}, errors.Wrap(ErrInvalidToken, err.Error())
	}

	return domain.User{
		UID:          token.UID,
		Email:        claimString(token.Claims, "email"),
		Name:         claimString(token.Claims, "name"),
		Organization: claimString(token.Claims, "organization"),
		Provider:     signInProvider(token.Claims),
	}, nil
}

// GetUser looks up a user by uid
func (p *FirebaseProvider) GetUser(ctx context.Context, uid string) (domain.User, error) {
	record, err := p.client.GetUser(ctx, uid)
	if err != nil {
		if fbauth.IsUserNotFound(err) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, errors.Wrap(err, "auth: failed to get user")
	}

	return domain.User{
		UID:          record.UID,
		Email:        record.Email,
		Name:         record.DisplayName,
		Organization: claimString(record.CustomClaims, "organization"),
		Provider:     record.ProviderID,
	}, nil
}

// identityResponse is the sign-in response of the Identity Toolkit API
type identityResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	ProviderID   string `json:"providerId"`
}

// identityError is the error envelope of the Identity Toolkit API
type identityError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *FirebaseProvider) exchange(ctx context.Context, method string, body map[string]interface{}) (domain.Session, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.Session{}, errors.Wrap(err, "auth: failed to marshal sign-in request")
	}

	endpoint := fmt.Sprintf("%s/%s?key=%s", p.identityURL, method, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.Session{}, errors.Wrap(err, "auth: failed to create sign-in request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domain.Session{}, errors.Wrap(err, "auth: sign-in request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr identityError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && isCredentialError(apiErr.Error.Message) {
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, errors.Errorf("auth: sign-in failed (HTTP %d): %s", resp.StatusCode, apiErr.Error.Message)
	}

	var out identityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Session{}, errors.Wrap(err, "auth: failed to decode sign-in response")
	}

	expiresIn, _ := strconv.Atoi(out.ExpiresIn)
	provider := out.ProviderID
	if provider == "" {
		provider = "password"
	}

	return domain.Session{
		User: domain.User{
			UID:      out.LocalID,
			Email:    out.Email,
			Name:     out.DisplayName,
			Provider: provider,
		},
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

func isCredentialError(message string) bool {
	switch {
	case strings.HasPrefix(message, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(message, "INVALID_PASSWORD"),
		strings.HasPrefix(message, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(message, "USER_DISABLED"),
		strings.HasPrefix(message, "INVALID_IDP_RESPONSE"):
		return true
	}
	return false
}

// signInProvider reads firebase.sign_in_provider from ID token claims
func signInProvider(claims map[string]interface{}) string {
	if fb, ok := claims["firebase"].(map[string]interface{}); ok {
		return claimString(fb, "sign_in_provider")
	}
	return ""
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
