package domain

// User is an authenticated account as reported by the auth provider
type User struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	Organization string `json:"organization,omitempty"`
	Provider     string `json:"provider,omitempty"`
}

// Session is the result of a successful sign-in
type Session struct {
	User         User   `json:"user"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// SignUpRequest represents the registration form
type SignUpRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Organization    string `json:"organization"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// SignInRequest represents email/password credentials
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IdPSignInRequest carries a token issued by a third-party identity provider
type IdPSignInRequest struct {
	Provider   string `json:"provider"` // "google", "azure"
	IDToken    string `json:"id_token"`
	RequestURI string `json:"request_uri,omitempty"`
}
