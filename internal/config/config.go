// Package config loads the declarative surface: accounts, rules, session
// policy, and the remember-me switches. Everything is read once at process
// start and immutable thereafter.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gatehouse-dev/gatehouse/internal/access"
	"github.com/gatehouse-dev/gatehouse/internal/identity"
	"github.com/gatehouse-dev/gatehouse/internal/session"
)

type RuleConfig struct {
	Pattern string   `mapstructure:"pattern"`
	Require string   `mapstructure:"require"` // public | authenticated | roles
	Roles   []string `mapstructure:"roles"`
}

type SessionConfig struct {
	MaxPerIdentity int           `mapstructure:"max_per_identity"`
	CapPolicy      string        `mapstructure:"cap_policy"` // block-new | evict-oldest
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
}

type RememberMeConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime"`
}

type AuthzConfig struct {
	Backend     string `mapstructure:"backend"` // static | mock | openfga
	FGAEndpoint string `mapstructure:"fga_endpoint"`
	FGAStoreID  string `mapstructure:"fga_store_id"`
	FGAModelID  string `mapstructure:"fga_model_id"`
	FGARealm    string `mapstructure:"fga_realm"`
}

type Config struct {
	ListenAddr string             `mapstructure:"listen_addr"`
	Accounts   []identity.Account `mapstructure:"accounts"`
	Rules      []RuleConfig       `mapstructure:"rules"`
	Sessions   SessionConfig      `mapstructure:"sessions"`
	RememberMe RememberMeConfig   `mapstructure:"remember_me"`
	Authz      AuthzConfig        `mapstructure:"authz"`
}

// Load reads the YAML config at path, applying defaults and GATEHOUSE_*
// env overrides. A missing file yields the defaults without error so the
// demo fixtures can run configless.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	}
	v.SetConfigType("yaml")

	v.SetDefault("listen_addr", ":8085")
	v.SetDefault("sessions.max_per_identity", session.DefaultMaxPerIdentity)
	v.SetDefault("sessions.cap_policy", string(session.BlockNew))
	v.SetDefault("sessions.idle_timeout", session.DefaultIdleTimeout)
	v.SetDefault("sessions.sweep_interval", time.Minute)
	v.SetDefault("remember_me.enabled", false)
	v.SetDefault("remember_me.token_lifetime", session.DefaultRememberTTL)
	v.SetDefault("authz.backend", "static")

	v.SetEnvPrefix("GATEHOUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, err
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch session.CapPolicy(c.Sessions.CapPolicy) {
	case session.BlockNew, session.EvictOldest, "":
	default:
		return fmt.Errorf("unknown cap_policy %q", c.Sessions.CapPolicy)
	}
	switch c.Authz.Backend {
	case "static", "mock", "openfga", "":
	default:
		return fmt.Errorf("unknown authz backend %q", c.Authz.Backend)
	}
	for _, r := range c.Rules {
		if _, err := r.requirement(); err != nil {
			return err
		}
	}
	return nil
}

func (r RuleConfig) requirement() (access.Requirement, error) {
	switch r.Require {
	case "public":
		return access.Public(), nil
	case "authenticated":
		return access.Authenticated(), nil
	case "roles":
		if len(r.Roles) == 0 {
			return access.Requirement{}, fmt.Errorf("rule %q requires roles but lists none", r.Pattern)
		}
		return access.AnyRole(r.Roles...), nil
	default:
		return access.Requirement{}, fmt.Errorf("rule %q: unknown requirement %q", r.Pattern, r.Require)
	}
}

// AccessRules converts the declarative rule table into evaluator rules,
// preserving declaration order.
func (c *Config) AccessRules() ([]access.Rule, error) {
	out := make([]access.Rule, 0, len(c.Rules))
	for _, r := range c.Rules {
		req, err := r.requirement()
		if err != nil {
			return nil, err
		}
		out = append(out, access.Rule{Pattern: r.Pattern, Require: req})
	}
	return out, nil
}

// SessionSettings maps the config onto the session manager's knobs.
func (c *Config) SessionSettings() session.Config {
	return session.Config{
		MaxPerIdentity: c.Sessions.MaxPerIdentity,
		CapPolicy:      session.CapPolicy(c.Sessions.CapPolicy),
		IdleTimeout:    c.Sessions.IdleTimeout,
		RememberMe:     c.RememberMe.Enabled,
		RememberTTL:    c.RememberMe.TokenLifetime,
	}
}
