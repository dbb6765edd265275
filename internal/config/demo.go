package config

import (
	"time"

	"github.com/gatehouse-dev/gatehouse/internal/identity"
	"github.com/gatehouse-dev/gatehouse/internal/session"
)

// Demo returns the built-in bank fixture: two accounts and the five page
// rules, capped at two sessions per identity with remember-me on. Passwords
// are "gupta" and "hyd".
func Demo() *Config {
	return &Config{
		ListenAddr: ":8085",
		Accounts: []identity.Account{
			{
				Username:     "som",
				PasswordHash: "$2a$10$HdiYik9N/S.GsTOZnlaAVelq8BRfMsteMzp3Clf4EVYMGu8eMbbgO",
				Roles:        []string{"USER"},
			},
			{
				Username:     "zakir",
				PasswordHash: "$2a$10$XCnGIGDSdnDLZNUv6SYH/OAnS0of7mcm2JYZp0O0vCmRV1WV1OWU6",
				Roles:        []string{"MANAGER"},
			},
		},
		Rules: []RuleConfig{
			{Pattern: "/", Require: "public"},
			{Pattern: "/denied", Require: "public"},
			{Pattern: "/offers", Require: "authenticated"},
			{Pattern: "/checkBalance", Require: "roles", Roles: []string{"USER", "MANAGER"}},
			{Pattern: "/approveloan", Require: "roles", Roles: []string{"MANAGER"}},
			{Pattern: "*", Require: "authenticated"},
		},
		Sessions: SessionConfig{
			MaxPerIdentity: 2,
			CapPolicy:      string(session.BlockNew),
			IdleTimeout:    session.DefaultIdleTimeout,
			SweepInterval:  time.Minute,
		},
		RememberMe: RememberMeConfig{
			Enabled:       true,
			TokenLifetime: session.DefaultRememberTTL,
		},
		Authz: AuthzConfig{Backend: "static"},
	}
}
