package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/easytrack/backend/internal/domain"
)

// MemoryProvider is an in-process Provider for development and tests.
// Accounts and sessions are lost on restart.
type MemoryProvider struct {
	mu       sync.RWMutex
	users    map[string]memoryUser // by uid
	byEmail  map[string]string     // email -> uid
	sessions map[string]string     // token -> uid
}

type memoryUser struct {
	user         domain.User
	passwordHash []byte
}

// NewMemoryProvider creates an empty in-memory provider
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		users:    make(map[string]memoryUser),
		byEmail:  make(map[string]string),
		sessions: make(map[string]string),
	}
}

// SignUp registers a new account
func (p *MemoryProvider) SignUp(ctx context.Context, req domain.SignUpRequest) (domain.User, error) {
	if err := ValidateSignUp(req); err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return domain.User{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byEmail[email]; exists {
		return domain.User{}, ErrUserExists
	}

	user := domain.User{
		UID:          uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Organization: strings.TrimSpace(req.Organization),
		Provider:     "password",
	}
	p.users[user.UID] = memoryUser{user: user, passwordHash: hash}
	p.byEmail[email] = user.UID

	return user, nil
}

// SignIn exchanges email and password for a session
func (p *MemoryProvider) SignIn(ctx context.Context, req domain.SignInRequest) (domain.Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	p.mu.Lock()
	defer p.mu.Unlock()

	uid, ok := p.byEmail[email]
	if !ok {
		return domain.Session{}, ErrInvalidCredentials
	}
	account := p.users[uid]
	if bcrypt.CompareHashAndPassword(account.passwordHash, []byte(req.Password)) != nil {
		return domain.Session{}, ErrInvalidCredentials
	}

	return p.issue(account.user), nil
}

// SignInWithIdP accepts any non-empty token from a known provider.
// The same token always maps to the same account.
func (p *MemoryProvider) SignInWithIdP(ctx context.Context, req domain.IdPSignInRequest) (domain.Session, error) {
	providerID, ok := identityProviders[req.Provider]
	if !ok {
		return domain.Session{}, ErrUnsupportedProvider
	}
	if req.IDToken == "" {
		return domain.Session{}, ErrInvalidCredentials
	}

	uid := uuid.NewSHA1(uuid.NameSpaceOID, []byte(providerID+":"+req.IDToken)).String()

	p.mu.Lock()
	defer p.mu.Unlock()

	account, exists := p.users[uid]
	if !exists {
		account = memoryUser{user: domain.User{UID: uid, Provider: providerID}}
		p.users[uid] = account
	}

	return p.issue(account.user), nil
}

// VerifySession resolves an ID token to the signed-in user
func (p *MemoryProvider) VerifySession(ctx context.Context, idToken string) (domain.User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	uid, ok := p.sessions[idToken]
	if !ok {
		return domain.User{}, ErrInvalidToken
	}
	return p.users[uid].user, nil
}

// GetUser looks up a user by uid
func (p *MemoryProvider) GetUser(ctx context.Context, uid string) (domain.User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	account, ok := p.users[uid]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return account.user, nil
}

// issue must be called with p.mu held for writing
func (p *MemoryProvider) issue(user domain.User) domain.Session {
	token := uuid.NewString()
	p.sessions[token] = user.UID
	return domain.Session{
		User:      user,
		IDToken:   token,
		ExpiresIn: 3600,
	}
}
