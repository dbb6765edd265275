package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sourcegraph/conc"
	"golang.org/x/crypto/bcrypt"

	"github.com/gatehouse-dev/gatehouse/internal/credential"
	"github.com/gatehouse-dev/gatehouse/internal/identity"
)

func testCreds(t *testing.T) *credential.Store {
	t.Helper()
	hash := func(pw string) string {
		b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("bcrypt: %v", err)
		}
		return string(b)
	}
	return credential.NewStore([]identity.Account{
		{Username: "som", PasswordHash: hash("gupta"), Roles: []string{"USER"}},
		{Username: "zakir", PasswordHash: hash("hyd"), Roles: []string{"MANAGER"}},
	})
}

func newTestManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	return NewManager(testCreds(t), cfg)
}

// setClock pins the manager's clock to a movable instant. Not safe to
// combine with concurrent use; the concurrency test keeps the real clock.
func setClock(m *Manager, at *time.Time) {
	m.now = func() time.Time { return *at }
}

func TestLogin_BadCredentials(t *testing.T) {
	m := newTestManager(t, Config{})
	ctx := context.Background()

	for _, c := range []struct{ user, pass string }{
		{"som", "wrong"},
		{"nobody", "gupta"},
		{"", ""},
	} {
		_, err := m.Login(ctx, c.user, c.pass, false)
		if !errors.Is(err, ErrBadCredentials) {
			t.Fatalf("Login(%q, %q) err = %v, want ErrBadCredentials", c.user, c.pass, err)
		}
	}
}

func TestLogin_ResolveRoundTrip(t *testing.T) {
	m := newTestManager(t, Config{})
	ctx := context.Background()

	res, err := m.Login(ctx, "som", "gupta", false)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" || res.Session.ID == "" {
		t.Fatalf("missing token or session id")
	}
	if res.RememberToken != "" {
		t.Fatalf("remember token issued without being requested")
	}

	st := m.Resolve(ctx, res.Token)
	if !st.IsAuthenticated() || st.Username != "som" {
		t.Fatalf("Resolve = %+v, want authenticated som", st)
	}
	if !st.HasRole("USER") {
		t.Fatalf("session lost its roles")
	}

	if st := m.Resolve(ctx, "no-such-token"); st.IsAuthenticated() {
		t.Fatalf("unknown token resolved as authenticated")
	}
}

func TestLogin_CapBlockNew(t *testing.T) {
	m := newTestManager(t, Config{MaxPerIdentity: 2, CapPolicy: BlockNew})
	ctx := context.Background()

	first, err := m.Login(ctx, "som", "gupta", false)
	if err != nil {
		t.Fatalf("login 1: %v", err)
	}
	second, err := m.Login(ctx, "som", "gupta", false)
	if err != nil {
		t.Fatalf("login 2: %v", err)
	}

	_, err = m.Login(ctx, "som", "gupta", false)
	if !errors.Is(err, ErrSessionLimit) {
		t.Fatalf("login 3 err = %v, want ErrSessionLimit", err)
	}

	// existing sessions stay valid
	for i, token := range []string{first.Token, second.Token} {
		if !m.Resolve(ctx, token).IsAuthenticated() {
			t.Fatalf("session %d invalidated by rejected login", i+1)
		}
	}

	// the cap is per identity, not global
	if _, err := m.Login(ctx, "zakir", "hyd", false); err != nil {
		t.Fatalf("other identity blocked: %v", err)
	}
}

func TestLogin_CapEvictOldest(t *testing.T) {
	m := newTestManager(t, Config{MaxPerIdentity: 2, CapPolicy: EvictOldest})
	ctx := context.Background()

	now := time.Now().UTC()
	setClock(m, &now)

	first, _ := m.Login(ctx, "som", "gupta", false)
	now = now.Add(time.Second)
	second, _ := m.Login(ctx, "som", "gupta", false)
	now = now.Add(time.Second)

	third, err := m.Login(ctx, "som", "gupta", false)
	if err != nil {
		t.Fatalf("login 3: %v", err)
	}

	if m.Resolve(ctx, first.Token).IsAuthenticated() {
		t.Fatalf("earliest session survived eviction")
	}
	if !m.Resolve(ctx, second.Token).IsAuthenticated() {
		t.Fatalf("second session evicted, want oldest only")
	}
	if !m.Resolve(ctx, third.Token).IsAuthenticated() {
		t.Fatalf("new session not live")
	}
	if n := m.CountFor("som"); n != 2 {
		t.Fatalf("live sessions = %d, want 2", n)
	}
}

func TestResolve_IdleExpiry(t *testing.T) {
	m := newTestManager(t, Config{IdleTimeout: 30 * time.Minute})
	ctx := context.Background()

	now := time.Now().UTC()
	setClock(m, &now)

	res, _ := m.Login(ctx, "som", "gupta", false)

	// touches inside the window keep it alive
	now = now.Add(29 * time.Minute)
	if !m.Resolve(ctx, res.Token).IsAuthenticated() {
		t.Fatalf("session expired before idle timeout")
	}

	now = now.Add(29 * time.Minute)
	if !m.Resolve(ctx, res.Token).IsAuthenticated() {
		t.Fatalf("touch did not reset the idle window")
	}

	now = now.Add(31 * time.Minute)
	if m.Resolve(ctx, res.Token).IsAuthenticated() {
		t.Fatalf("idle session still authenticated")
	}

	// and the expired record is gone for good, even if time rewinds
	now = now.Add(-31 * time.Minute)
	if m.Resolve(ctx, res.Token).IsAuthenticated() {
		t.Fatalf("expired session resurrected")
	}
}

func TestExpired_SessionsDoNotCountTowardCap(t *testing.T) {
	m := newTestManager(t, Config{MaxPerIdentity: 2, CapPolicy: BlockNew, IdleTimeout: time.Minute})
	ctx := context.Background()

	now := time.Now().UTC()
	setClock(m, &now)

	m.Login(ctx, "som", "gupta", false)
	m.Login(ctx, "som", "gupta", false)

	now = now.Add(2 * time.Minute)
	if _, err := m.Login(ctx, "som", "gupta", false); err != nil {
		t.Fatalf("expired sessions blocked a new login: %v", err)
	}
}

func TestLogout(t *testing.T) {
	m := newTestManager(t, Config{})
	ctx := context.Background()

	res, _ := m.Login(ctx, "som", "gupta", false)
	m.Logout(ctx, res.Token)

	if m.Resolve(ctx, res.Token).IsAuthenticated() {
		t.Fatalf("session survived logout")
	}
	if n := m.CountFor("som"); n != 0 {
		t.Fatalf("live sessions after logout = %d", n)
	}

	// unknown and empty tokens are a no-op
	m.Logout(ctx, res.Token)
	m.Logout(ctx, "")
}

func TestSweep(t *testing.T) {
	m := newTestManager(t, Config{IdleTimeout: time.Minute, RememberMe: true, RememberTTL: time.Hour})
	ctx := context.Background()

	now := time.Now().UTC()
	setClock(m, &now)

	m.Login(ctx, "som", "gupta", true)
	m.Login(ctx, "zakir", "hyd", false)

	now = now.Add(2 * time.Hour)
	sessions, tokens := m.Sweep(ctx)
	if sessions != 2 {
		t.Fatalf("swept %d sessions, want 2", sessions)
	}
	if tokens != 1 {
		t.Fatalf("swept %d remember tokens, want 1", tokens)
	}
}

func TestLogin_ConcurrentUnderCap(t *testing.T) {
	const attempts = 32
	const maxSessions = 2

	m := newTestManager(t, Config{MaxPerIdentity: maxSessions, CapPolicy: BlockNew})
	ctx := context.Background()

	var ok atomic.Int32
	var wg conc.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Go(func() {
			if _, err := m.Login(ctx, "som", "gupta", false); err == nil {
				ok.Add(1)
			}
		})
	}
	wg.Wait()

	if got := ok.Load(); got != maxSessions {
		t.Fatalf("%d concurrent logins succeeded, want exactly %d", got, maxSessions)
	}
	if n := m.CountFor("som"); n != maxSessions {
		t.Fatalf("live sessions = %d, want %d", n, maxSessions)
	}
}
