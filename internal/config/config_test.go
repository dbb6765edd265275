package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gatehouse-dev/gatehouse/internal/access"
	"github.com/gatehouse-dev/gatehouse/internal/session"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":9090"
accounts:
  - username: som
    password_hash: "$2a$10$HdiYik9N/S.GsTOZnlaAVelq8BRfMsteMzp3Clf4EVYMGu8eMbbgO"
    roles: [USER]
rules:
  - pattern: "/"
    require: public
  - pattern: "/approveloan"
    require: roles
    roles: [MANAGER]
  - pattern: "*"
    require: authenticated
sessions:
  max_per_identity: 3
  cap_policy: evict-oldest
  idle_timeout: 20m
remember_me:
  enabled: true
  token_lifetime: 24h
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ListenAddr != ":9090" {
		t.Fatalf("listen_addr = %q", c.ListenAddr)
	}
	if len(c.Accounts) != 1 || c.Accounts[0].Username != "som" || c.Accounts[0].Roles[0] != "USER" {
		t.Fatalf("accounts = %+v", c.Accounts)
	}

	s := c.SessionSettings()
	if s.MaxPerIdentity != 3 || s.CapPolicy != session.EvictOldest {
		t.Fatalf("session settings = %+v", s)
	}
	if s.IdleTimeout != 20*time.Minute || s.RememberTTL != 24*time.Hour || !s.RememberMe {
		t.Fatalf("session settings = %+v", s)
	}

	rules, err := c.AccessRules()
	if err != nil {
		t.Fatalf("AccessRules: %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("rules = %d, want 3", len(rules))
	}
	if rules[1].Require.Kind != access.ReqAnyRole || rules[1].Require.Roles[0] != "MANAGER" {
		t.Fatalf("rule[1] = %+v", rules[1])
	}
	// declaration order survives loading
	if rules[0].Pattern != "/" || rules[2].Pattern != "*" {
		t.Fatalf("rule order changed: %+v", rules)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "accounts: []\n")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ListenAddr != ":8085" {
		t.Fatalf("default listen_addr = %q", c.ListenAddr)
	}
	if c.Sessions.MaxPerIdentity != 2 || c.Sessions.CapPolicy != string(session.BlockNew) {
		t.Fatalf("session defaults = %+v", c.Sessions)
	}
	if c.Sessions.IdleTimeout != 30*time.Minute {
		t.Fatalf("idle_timeout default = %v", c.Sessions.IdleTimeout)
	}
	if c.RememberMe.Enabled {
		t.Fatalf("remember-me enabled by default")
	}
	if c.RememberMe.TokenLifetime != 48*time.Hour {
		t.Fatalf("remember-me lifetime default = %v", c.RememberMe.TokenLifetime)
	}
	if c.Authz.Backend != "static" {
		t.Fatalf("authz backend default = %q", c.Authz.Backend)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := []struct{ name, yaml string }{
		{"bad cap policy", "sessions:\n  cap_policy: sometimes\n"},
		{"bad requirement", "rules:\n  - pattern: /x\n    require: maybe\n"},
		{"roles rule without roles", "rules:\n  - pattern: /x\n    require: roles\n"},
		{"bad authz backend", "authz:\n  backend: voodoo\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.yaml)); err == nil {
				t.Fatalf("Load accepted %s", tc.name)
			}
		})
	}
}

func TestDemo_Fixture(t *testing.T) {
	c := Demo()

	if len(c.Accounts) != 2 {
		t.Fatalf("demo accounts = %d", len(c.Accounts))
	}
	rules, err := c.AccessRules()
	if err != nil {
		t.Fatalf("AccessRules: %v", err)
	}
	if rules[len(rules)-1].Pattern != "*" {
		t.Fatalf("demo rule table lacks trailing catch-all")
	}
	if !c.RememberMe.Enabled {
		t.Fatalf("demo fixture should enable remember-me")
	}
}
