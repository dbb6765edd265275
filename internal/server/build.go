package server

import (
	"fmt"

	"github.com/gatehouse-dev/gatehouse/internal/access"
	"github.com/gatehouse-dev/gatehouse/internal/authz"
	"github.com/gatehouse-dev/gatehouse/internal/config"
	"github.com/gatehouse-dev/gatehouse/internal/credential"
	"github.com/gatehouse-dev/gatehouse/internal/session"
)

// New assembles the credential store, authorizer, evaluator, and session
// manager from a loaded config.
func New(cfg *config.Config) (Deps, error) {
	rules, err := cfg.AccessRules()
	if err != nil {
		return Deps{}, err
	}

	var az authz.Authorizer
	switch cfg.Authz.Backend {
	case "", "static":
		az = authz.Static{}
	case "mock":
		// permissive backend for local demos and wiring tests
		az = &authz.Mock{AlwaysAllow: true}
	case "openfga":
		az, err = authz.NewOpenFGA(authz.OpenFGAConfig{
			APIURL:  cfg.Authz.FGAEndpoint,
			StoreID: cfg.Authz.FGAStoreID,
			ModelID: cfg.Authz.FGAModelID,
			Realm:   cfg.Authz.FGARealm,
		})
		if err != nil {
			return Deps{}, fmt.Errorf("build authorizer: %w", err)
		}
	default:
		return Deps{}, fmt.Errorf("unknown authz backend %q", cfg.Authz.Backend)
	}

	creds := credential.NewStore(cfg.Accounts)
	return Deps{
		Evaluator: access.NewEvaluator(rules, az),
		Sessions:  session.NewManager(creds, cfg.SessionSettings()),
	}, nil
}
