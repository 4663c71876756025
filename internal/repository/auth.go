// Package repository provides the in-memory stores backing the ForumDesk
// services. All state is process-local and non-persistent; every store is
// guarded by its own mutex and hands out copies, never references.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/ForumDesk/internal/clock"
)

const (
	// DefaultMaxLoginAttempts is the failed-attempt count that installs a lockout.
	DefaultMaxLoginAttempts = 5
	// DefaultLockoutDuration is how long a lockout stays active once installed.
	DefaultLockoutDuration = 15 * time.Minute
)

// MemoryAuthRepository holds credentials, sessions, failed login attempt
// counters and lockout timers in memory.
type MemoryAuthRepository struct {
	mu sync.Mutex

	clock       clock.Clock
	maxAttempts int
	lockoutFor  time.Duration

	credentials   map[string]string    // username -> secret
	sessions      map[string]string    // token -> username
	loginAttempts map[string]int       // username -> failed attempts
	lockouts      map[string]time.Time // username -> lockout expiry
}

// NewMemoryAuthRepository creates an empty auth store. clk must not be nil.
// Non-positive maxAttempts or lockoutFor fall back to the defaults.
func NewMemoryAuthRepository(clk clock.Clock, maxAttempts int, lockoutFor time.Duration) *MemoryAuthRepository {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxLoginAttempts
	}
	if lockoutFor <= 0 {
		lockoutFor = DefaultLockoutDuration
	}
	return &MemoryAuthRepository{
		clock:         clk,
		maxAttempts:   maxAttempts,
		lockoutFor:    lockoutFor,
		credentials:   make(map[string]string),
		sessions:      make(map[string]string),
		loginAttempts: make(map[string]int),
		lockouts:      make(map[string]time.Time),
	}
}

// UpsertCredential stores the secret for the given username, replacing any
// existing one. Registration is an idempotent upsert; no duplicate-user
// error exists.
func (r *MemoryAuthRepository) UpsertCredential(ctx context.Context, username, secret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.credentials[username] = secret
	return nil
}

// Credential returns the stored secret for the username and whether the
// username is registered.
func (r *MemoryAuthRepository) Credential(ctx context.Context, username string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	secret, ok := r.credentials[username]
	return secret, ok, nil
}

// UserExists reports whether a credential is registered for the username.
func (r *MemoryAuthRepository) UserExists(ctx context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.credentials[username]
	return ok, nil
}

// RecordFailedAttempt increments the failed-attempt counter for the
// username. Once the counter reaches the threshold, a lockout expiring
// after the configured duration is installed; further failures re-arm it.
// The counter itself is only cleared by RecordSuccess.
func (r *MemoryAuthRepository) RecordFailedAttempt(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loginAttempts[username]++
	if r.loginAttempts[username] >= r.maxAttempts {
		r.lockouts[username] = r.clock.Now().Add(r.lockoutFor)
	}
	return nil
}

// RecordSuccess clears the failed-attempt counter and any lockout for the username.
func (r *MemoryAuthRepository) RecordSuccess(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.loginAttempts, username)
	delete(r.lockouts, username)
	return nil
}

// IsLockedOut reports whether an unexpired lockout exists for the username.
// Expired records are not removed here; they linger until overwritten,
// cleared by RecordSuccess, or swept by PurgeExpiredLockouts.
func (r *MemoryAuthRepository) IsLockedOut(ctx context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiry, ok := r.lockouts[username]
	return ok && expiry.After(r.clock.Now()), nil
}

// LockoutMinutesRemaining returns the truncated whole minutes until the
// username's lockout expires, or 0 when no active lockout exists.
func (r *MemoryAuthRepository) LockoutMinutesRemaining(ctx context.Context, username string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiry, ok := r.lockouts[username]
	if !ok {
		return 0, nil
	}
	now := r.clock.Now()
	if expiry.Before(now) {
		return 0, nil
	}
	return int64(expiry.Sub(now) / time.Minute), nil
}

// CreateSession mints a fresh random token and maps it to the username.
// Multiple concurrent sessions per username are permitted.
func (r *MemoryAuthRepository) CreateSession(ctx context.Context, username string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token := uuid.NewString()
	r.sessions[token] = username
	return token, nil
}

// EndSession removes the session for the given token. Unknown tokens are ignored.
func (r *MemoryAuthRepository) EndSession(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

// ResolveSession returns the username bound to the token, and whether the
// session exists.
func (r *MemoryAuthRepository) ResolveSession(ctx context.Context, token string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	username, ok := r.sessions[token]
	return username, ok, nil
}

// PurgeExpiredLockouts drops lockout records whose expiry has passed and
// returns how many were removed. This never changes the result of
// IsLockedOut or LockoutMinutesRemaining, which treat expired and absent
// records identically.
func (r *MemoryAuthRepository) PurgeExpiredLockouts(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock.Now()
	removed := 0
	for username, expiry := range r.lockouts {
		if !expiry.After(now) {
			delete(r.lockouts, username)
			removed++
		}
	}
	return removed, nil
}
