package session

import (
	"errors"
	"time"
)

type CapPolicy string

const (
	// BlockNew rejects a login once the identity is at the session cap.
	BlockNew CapPolicy = "block-new"
	// EvictOldest invalidates the identity's earliest-created session to
	// make room for the new one.
	EvictOldest CapPolicy = "evict-oldest"
)

const (
	DefaultMaxPerIdentity = 2
	DefaultIdleTimeout    = 30 * time.Minute
	DefaultRememberTTL    = 48 * time.Hour
)

var (
	// ErrBadCredentials never distinguishes an unknown username from a
	// wrong password.
	ErrBadCredentials = errors.New("invalid username or password")
	// ErrSessionLimit is surfaced only under the block-new policy.
	ErrSessionLimit = errors.New("session limit exceeded for identity")
	// ErrRememberDisabled is returned by Redeem when remember-me is off.
	ErrRememberDisabled = errors.New("remember-me is not enabled")
)

type Config struct {
	MaxPerIdentity int
	CapPolicy      CapPolicy
	IdleTimeout    time.Duration
	RememberMe     bool
	RememberTTL    time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxPerIdentity <= 0 {
		c.MaxPerIdentity = DefaultMaxPerIdentity
	}
	if c.CapPolicy == "" {
		c.CapPolicy = BlockNew
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.RememberTTL <= 0 {
		c.RememberTTL = DefaultRememberTTL
	}
	return c
}

// Session is server-side proof of a prior successful login. Roles are
// captured from the account at creation time and held for the session's
// lifetime.
type Session struct {
	ID         string
	Username   string
	Roles      []string
	CreatedAt  time.Time
	LastAccess time.Time
}

// LoginResult carries the registered session plus the opaque token values
// handed to the client. Token values are never stored server-side; only
// their hashes are (see token.go).
type LoginResult struct {
	Session       Session
	Token         string
	RememberToken string // empty unless remember-me was requested and enabled
}
