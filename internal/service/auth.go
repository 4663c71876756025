// Package service provides the business logic for authentication, mail and
// forum operations, delegating storage to repository interfaces.
package service

import (
	"context"
	"crypto/subtle"
)

// AuthRepository defines the storage operations required by the
// authentication service.
type AuthRepository interface {
	// UpsertCredential stores the secret for the username, replacing any existing one.
	UpsertCredential(ctx context.Context, username, secret string) error
	// Credential returns the stored secret and whether the username is registered.
	Credential(ctx context.Context, username string) (string, bool, error)
	// UserExists reports whether a credential exists for the username.
	UserExists(ctx context.Context, username string) (bool, error)
	// RecordFailedAttempt bumps the failed-attempt counter, installing a
	// lockout once the threshold is reached.
	RecordFailedAttempt(ctx context.Context, username string) error
	// RecordSuccess clears the failed-attempt counter and any lockout.
	RecordSuccess(ctx context.Context, username string) error
	// IsLockedOut reports whether an unexpired lockout exists for the username.
	IsLockedOut(ctx context.Context, username string) (bool, error)
	// LockoutMinutesRemaining returns whole minutes until the lockout expires, floored at 0.
	LockoutMinutesRemaining(ctx context.Context, username string) (int64, error)
	// CreateSession mints a fresh opaque token bound to the username.
	CreateSession(ctx context.Context, username string) (string, error)
	// EndSession removes the session for the token, ignoring unknown tokens.
	EndSession(ctx context.Context, token string) error
	// ResolveSession returns the username for the token and whether it exists.
	ResolveSession(ctx context.Context, token string) (string, bool, error)
}

// CredentialVerifier checks a presented secret against the stored one.
// The store keeps whatever the verifier expects; the bundled plaintext
// verifier mirrors the desktop client this service descends from.
type CredentialVerifier interface {
	Verify(stored, presented string) bool
}

// PlainTextVerifier compares secrets byte for byte.
type PlainTextVerifier struct{}

// Verify reports whether presented equals stored.
func (PlainTextVerifier) Verify(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

// WelcomeFunc seeds a welcome message for a freshly registered user. The
// message content and sender are caller policy; the service only triggers it.
type WelcomeFunc func(ctx context.Context, username string) error

// LoginOutcome classifies the result of a login attempt.
type LoginOutcome int

const (
	// LoginOK means the credential matched and a session was created.
	LoginOK LoginOutcome = iota
	// LoginWrongCredential means the username is unknown or the secret did not match.
	LoginWrongCredential
	// LoginLockedOut means an active lockout rejected the attempt before
	// the credential was checked.
	LoginLockedOut
)

// LoginResult carries the outcome of a login attempt. Token is set only
// for LoginOK; MinutesRemaining only for LoginLockedOut.
type LoginResult struct {
	Outcome          LoginOutcome
	Token            string
	MinutesRemaining int64
}

// AuthService implements registration, the login protocol and session
// handling over an AuthRepository.
type AuthService struct {
	repo     AuthRepository
	verifier CredentialVerifier
	welcome  WelcomeFunc
}

// NewAuthService constructs an AuthService. verifier must not be nil;
// welcome may be nil when no message should be seeded on registration.
func NewAuthService(repo AuthRepository, verifier CredentialVerifier, welcome WelcomeFunc) *AuthService {
	return &AuthService{repo: repo, verifier: verifier, welcome: welcome}
}

// Register upserts the credential and seeds the welcome message. Calling
// it for an existing username replaces the secret and seeds another
// message, exactly like the desktop client did.
func (s *AuthService) Register(ctx context.Context, username, secret string) error {
	if err := s.repo.UpsertCredential(ctx, username, secret); err != nil {
		return err
	}
	if s.welcome != nil {
		return s.welcome(ctx, username)
	}
	return nil
}

// UserExists reports whether the username is registered.
func (s *AuthService) UserExists(ctx context.Context, username string) (bool, error) {
	return s.repo.UserExists(ctx, username)
}

// Login runs the authentication protocol: an active lockout rejects the
// attempt without touching the counter; a credential mismatch records a
// failure; a match clears the counter and creates a session.
func (s *AuthService) Login(ctx context.Context, username, secret string) (LoginResult, error) {
	locked, err := s.repo.IsLockedOut(ctx, username)
	if err != nil {
		return LoginResult{}, err
	}
	if locked {
		minutes, err := s.repo.LockoutMinutesRemaining(ctx, username)
		if err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Outcome: LoginLockedOut, MinutesRemaining: minutes}, nil
	}

	stored, ok, err := s.repo.Credential(ctx, username)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok || !s.verifier.Verify(stored, secret) {
		if err := s.repo.RecordFailedAttempt(ctx, username); err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Outcome: LoginWrongCredential}, nil
	}

	if err := s.repo.RecordSuccess(ctx, username); err != nil {
		return LoginResult{}, err
	}
	token, err := s.repo.CreateSession(ctx, username)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Outcome: LoginOK, Token: token}, nil
}

// Logout ends the session for the token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.repo.EndSession(ctx, token)
}

// CurrentUser resolves the session token to a username.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (string, bool, error) {
	return s.repo.ResolveSession(ctx, token)
}
