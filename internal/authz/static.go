package authz

import "context"

// Static authorizes purely from the role set the session carries. It never
// errors and never blocks, keeping the access evaluation deterministic.
type Static struct{}

func (Static) Check(ctx context.Context, req Request) (Decision, error) {
	for _, r := range req.Held {
		if r == req.Role {
			return Decision{Allowed: true}, nil
		}
	}
	return Decision{Allowed: false, Reason: "role_not_held"}, nil
}
