package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	firebase "firebase.google.com/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// redirectTransport sends every request to a local test server
type redirectTransport struct {
	target *url.URL
}

func (rt redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = rt.target.Scheme
	out.URL.Host = rt.target.Host
	out.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(out)
}

// newAdminTestProvider builds a provider on the real Admin SDK client with
// all Identity Toolkit traffic served by handler
func newAdminTestProvider(t *testing.T, handler http.HandlerFunc) *FirebaseProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: "easytrack-test"},
		option.WithHTTPClient(&http.Client{Transport: redirectTransport{target: target}}),
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})),
	)
	require.NoError(t, err)

	client, err := app.Auth(ctx)
	require.NoError(t, err)

	return &FirebaseProvider{
		client:      client,
		apiKey:      "test-key",
		identityURL: server.URL,
		httpClient:  server.Client(),
	}
}

func identityToolkitError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = w.Write([]byte(`{"error":{"code":400,"message":"` + message + `"}}`))
}

func TestFirebaseAdminErrors(t *testing.T) {
	t.Run("existing email on sign up", func(t *testing.T) {
		p := newAdminTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/projects/easytrack-test/accounts"), r.URL.Path)
			identityToolkitError(w, "EMAIL_EXISTS")
		})

		_, err := p.SignUp(context.Background(), validSignUp())

		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("other sign up failures are wrapped", func(t *testing.T) {
		p := newAdminTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			identityToolkitError(w, "OPERATION_NOT_ALLOWED")
		})

		_, err := p.SignUp(context.Background(), validSignUp())

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUserExists)
		assert.Contains(t, err.Error(), "failed to create user")
	})

	t.Run("unknown uid", func(t *testing.T) {
		p := newAdminTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/accounts:lookup"), r.URL.Path)
			identityToolkitError(w, "USER_NOT_FOUND")
		})

		_, err := p.GetUser(context.Background(), "missing-uid")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("empty lookup result", func(t *testing.T) {
		p := newAdminTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"users":[]}`))
		})

		_, err := p.GetUser(context.Background(), "missing-uid")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
