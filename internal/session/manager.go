// Package session owns the in-memory session table: login, logout,
// per-request touch, idle expiry, the per-identity concurrent-session cap,
// and optional remember-me tokens. State is process-local; a restart clears
// every session.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gatehouse-dev/gatehouse/internal/credential"
	"github.com/gatehouse-dev/gatehouse/internal/identity"
)

type sessionRecord struct {
	Session
	rememberHash string // hash of the linked remember-me token, if any
}

type rememberRecord struct {
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Manager struct {
	creds *credential.Store
	cfg   Config

	// mu serializes every table mutation, which makes the
	// cap-check-then-create sequence atomic per identity.
	mu       sync.Mutex
	sessions map[string]*sessionRecord  // keyed by token hash
	remember map[string]*rememberRecord // keyed by token hash

	now func() time.Time // seam for tests
}

func NewManager(creds *credential.Store, cfg Config) *Manager {
	return &Manager{
		creds:    creds,
		cfg:      cfg.withDefaults(),
		sessions: make(map[string]*sessionRecord),
		remember: make(map[string]*rememberRecord),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Login verifies the credentials and registers a new session, enforcing the
// per-identity cap. remember requests a remember-me token; it is honored
// only when the manager was configured with remember-me enabled.
func (m *Manager) Login(ctx context.Context, username, password string, remember bool) (*LoginResult, error) {
	if !m.creds.Verify(username, password) {
		return nil, ErrBadCredentials
	}
	roles, err := m.creds.RolesOf(username)
	if err != nil {
		// verify succeeded, so the account exists; treat a racing
		// lookup failure like a bad login rather than leaking state
		return nil, ErrBadCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.admitLocked(username); err != nil {
		return nil, err
	}

	res, err := m.createLocked(username, roles, remember && m.cfg.RememberMe)
	if err != nil {
		return nil, err
	}

	slog.Info("session_created",
		"identity", username,
		"session", res.Session.ID,
		"live", m.countLiveLocked(username),
		"remember", res.RememberToken != "",
	)
	return res, nil
}

// Resolve maps a presented session token to an authentication state. An
// absent, invalidated, or expired token uniformly resolves to Anonymous;
// expired records are purged on the way out. A live session gets its
// LastAccess bumped, which is the per-request touch.
func (m *Manager) Resolve(ctx context.Context, token string) identity.State {
	if token == "" {
		return identity.Anonymous()
	}
	h := hashToken(token)

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[h]
	if !ok {
		return identity.Anonymous()
	}
	now := m.now()
	if m.expiredLocked(rec, now) {
		delete(m.sessions, h)
		return identity.Anonymous()
	}
	rec.LastAccess = now
	return identity.Authenticated(rec.Username, rec.Roles)
}

// Logout removes the session immediately and unconditionally, and revokes
// any remember-me token linked to it. Unknown tokens are a no-op.
func (m *Manager) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	h := hashToken(token)

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[h]
	if !ok {
		return
	}
	delete(m.sessions, h)
	if rec.rememberHash != "" {
		delete(m.remember, rec.rememberHash)
	}
	slog.Info("session_logout", "identity", rec.Username, "session", rec.ID)
}

// Redeem re-establishes a session from a remember-me token without
// credentials, subject to the same per-identity cap as Login. The token
// stays valid for further redemptions until it expires or its session is
// logged out.
func (m *Manager) Redeem(ctx context.Context, token string) (*LoginResult, error) {
	if !m.cfg.RememberMe {
		return nil, ErrRememberDisabled
	}
	if token == "" {
		return nil, ErrBadCredentials
	}
	h := hashToken(token)

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.remember[h]
	if !ok {
		return nil, ErrBadCredentials
	}
	now := m.now()
	if now.After(rec.ExpiresAt) {
		delete(m.remember, h)
		return nil, ErrBadCredentials
	}

	roles, err := m.creds.RolesOf(rec.Username)
	if err != nil {
		delete(m.remember, h)
		return nil, ErrBadCredentials
	}

	if err := m.admitLocked(rec.Username); err != nil {
		return nil, err
	}

	value, sh, err := mintToken()
	if err != nil {
		return nil, err
	}
	s := m.registerLocked(sh, rec.Username, roles, h)
	slog.Info("session_redeemed", "identity", rec.Username, "session", s.ID)
	return &LoginResult{Session: s, Token: value}, nil
}

// Sweep purges expired sessions and remember-me tokens. Expiry is also
// checked lazily in Resolve, so sweeping is a hygiene pass, not a
// correctness requirement.
func (m *Manager) Sweep(ctx context.Context) (sessions, tokens int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for h, rec := range m.sessions {
		if m.expiredLocked(rec, now) {
			delete(m.sessions, h)
			sessions++
		}
	}
	for h, rec := range m.remember {
		if now.After(rec.ExpiresAt) {
			delete(m.remember, h)
			tokens++
		}
	}
	return sessions, tokens
}

// RememberTTL exposes the configured remember-me token lifetime, which the
// serving layer needs for cookie max-age.
func (m *Manager) RememberTTL() time.Duration {
	return m.cfg.RememberTTL
}

// CountFor returns the number of live sessions for an identity.
func (m *Manager) CountFor(username string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLiveLocked(username)
}

// admitLocked enforces the cap before a session is created. Under block-new
// it rejects; under evict-oldest it invalidates the earliest-created live
// session for the identity.
func (m *Manager) admitLocked(username string) error {
	if m.countLiveLocked(username) < m.cfg.MaxPerIdentity {
		return nil
	}
	if m.cfg.CapPolicy == BlockNew {
		return ErrSessionLimit
	}

	now := m.now()
	var oldestHash string
	var oldest *sessionRecord
	for h, rec := range m.sessions {
		if rec.Username != username || m.expiredLocked(rec, now) {
			continue
		}
		if oldest == nil || rec.CreatedAt.Before(oldest.CreatedAt) {
			oldestHash, oldest = h, rec
		}
	}
	if oldest != nil {
		delete(m.sessions, oldestHash)
		slog.Info("session_evicted", "identity", username, "session", oldest.ID)
	}
	return nil
}

func (m *Manager) createLocked(username string, roles []string, remember bool) (*LoginResult, error) {
	value, sh, err := mintToken()
	if err != nil {
		return nil, err
	}

	res := &LoginResult{}
	var rememberHash string
	if remember {
		rv, rh, err := mintToken()
		if err != nil {
			return nil, err
		}
		now := m.now()
		m.remember[rh] = &rememberRecord{
			Username:  username,
			IssuedAt:  now,
			ExpiresAt: now.Add(m.cfg.RememberTTL),
		}
		res.RememberToken = rv
		rememberHash = rh
	}

	res.Session = m.registerLocked(sh, username, roles, rememberHash)
	res.Token = value
	return res, nil
}

func (m *Manager) registerLocked(hash, username string, roles []string, rememberHash string) Session {
	now := m.now()
	s := Session{
		ID:         uuid.NewString(),
		Username:   username,
		Roles:      append([]string(nil), roles...),
		CreatedAt:  now,
		LastAccess: now,
	}
	m.sessions[hash] = &sessionRecord{Session: s, rememberHash: rememberHash}
	return s
}

func (m *Manager) countLiveLocked(username string) int {
	now := m.now()
	n := 0
	for _, rec := range m.sessions {
		if rec.Username == username && !m.expiredLocked(rec, now) {
			n++
		}
	}
	return n
}

func (m *Manager) expiredLocked(rec *sessionRecord, now time.Time) bool {
	return now.Sub(rec.LastAccess) > m.cfg.IdleTimeout
}
