package authz

import (
	"context"
	"fmt"
	"strings"

	fga "github.com/openfga/go-sdk/client"
)

// OpenFGA resolves role membership against a remote OpenFGA store instead
// of the session's captured role set. Role names map to lower-cased
// relations on a fixed realm object, e.g. MANAGER -> manager on realm:bank.
type OpenFGA struct {
	c     *fga.OpenFgaClient
	realm string
}

type OpenFGAConfig struct {
	APIURL  string
	StoreID string
	ModelID string // optional but recommended in prod
	Realm   string // object id, defaults to "default"
}

func NewOpenFGA(cfg OpenFGAConfig) (*OpenFGA, error) {
	conf := &fga.ClientConfiguration{
		ApiUrl:  cfg.APIURL,
		StoreId: cfg.StoreID,
	}
	if cfg.ModelID != "" {
		conf.AuthorizationModelId = cfg.ModelID
	}

	client, err := fga.NewSdkClient(conf)
	if err != nil {
		return nil, fmt.Errorf("openfga_client_init: %w", err)
	}

	realm := cfg.Realm
	if realm == "" {
		realm = "default"
	}
	return &OpenFGA{c: client, realm: realm}, nil
}

func (o *OpenFGA) Check(ctx context.Context, req Request) (Decision, error) {
	checkReq := fga.ClientCheckRequest{
		User:     "user:" + req.Username,
		Relation: strings.ToLower(req.Role),
		Object:   "realm:" + o.realm,
	}

	resp, err := o.c.Check(ctx).Body(checkReq).Execute()
	if err != nil {
		return Decision{}, fmt.Errorf("fga_check_error: %w", err)
	}

	if resp.Allowed != nil && *resp.Allowed {
		return Decision{Allowed: true}, nil
	}
	return Decision{Allowed: false, Reason: "policy_denied"}, nil
}
