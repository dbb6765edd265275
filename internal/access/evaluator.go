// Package access decides, for a request path and authentication state, one
// of permit / require-login / forbidden per an ordered declarative rule
// table. It renders a verdict only; serving redirects and page content is
// the caller's concern.
package access

import (
	"context"
	"fmt"

	"github.com/gatehouse-dev/gatehouse/internal/authz"
	"github.com/gatehouse-dev/gatehouse/internal/identity"
)

type Decision string

const (
	Permit       Decision = "permit"
	RequireLogin Decision = "require_login"
	Forbidden    Decision = "forbidden"
)

type Verdict struct {
	Decision Decision
	Pattern  string // the rule pattern that matched
	Username string // set on Permit for authenticated callers
	Roles    []string
}

type Evaluator struct {
	rules []Rule
	az    authz.Authorizer
}

// NewEvaluator builds an evaluator over an ordered rule table. If the table
// has no catch-all, a final catch-all Authenticated rule is appended, so
// every path gets a decision. A nil authorizer defaults to the static
// role-set check.
func NewEvaluator(rules []Rule, az authz.Authorizer) *Evaluator {
	if az == nil {
		az = authz.Static{}
	}
	rs := append([]Rule(nil), rules...)
	hasCatchAll := false
	for _, r := range rs {
		if r.Pattern == CatchAll || r.Pattern == "/**" {
			hasCatchAll = true
			break
		}
	}
	if !hasCatchAll {
		rs = append(rs, Rule{Pattern: CatchAll, Require: Authenticated()})
	}
	return &Evaluator{rules: rs, az: az}
}

// Evaluate walks the rule table in order and applies the first matching
// rule. With the static authorizer it is a pure decision function:
// deterministic, total, and non-blocking.
func (e *Evaluator) Evaluate(ctx context.Context, path string, st identity.State) (Verdict, error) {
	for _, rule := range e.rules {
		if !Matches(rule.Pattern, path) {
			continue
		}
		return e.apply(ctx, rule, st)
	}
	// unreachable: the table always ends with a catch-all
	return Verdict{Decision: RequireLogin, Pattern: CatchAll}, nil
}

func (e *Evaluator) apply(ctx context.Context, rule Rule, st identity.State) (Verdict, error) {
	v := Verdict{Pattern: rule.Pattern}

	switch rule.Require.Kind {
	case ReqPublic:
		v.Decision = Permit
		if st.IsAuthenticated() {
			v.Username, v.Roles = st.Username, st.Roles
		}
		return v, nil

	case ReqAuthenticated:
		if !st.IsAuthenticated() {
			v.Decision = RequireLogin
			return v, nil
		}
		v.Decision = Permit
		v.Username, v.Roles = st.Username, st.Roles
		return v, nil

	case ReqAnyRole:
		if !st.IsAuthenticated() {
			v.Decision = RequireLogin
			return v, nil
		}
		for _, role := range rule.Require.Roles {
			d, err := e.az.Check(ctx, authz.Request{
				Username: st.Username,
				Role:     role,
				Held:     st.Roles,
			})
			if err != nil {
				return Verdict{}, fmt.Errorf("authz check %q for %q: %w", role, st.Username, err)
			}
			if d.Allowed {
				v.Decision = Permit
				v.Username, v.Roles = st.Username, st.Roles
				return v, nil
			}
		}
		v.Decision = Forbidden
		v.Username, v.Roles = st.Username, st.Roles
		return v, nil

	default:
		return Verdict{}, fmt.Errorf("unknown requirement kind %q", rule.Require.Kind)
	}
}
