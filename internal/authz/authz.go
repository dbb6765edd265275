package authz

import "context"

type Decision struct {
	Allowed bool
	Reason  string
}

type Request struct {
	Username string   // e.g. "som"
	Role     string   // role under test, e.g. "MANAGER"
	Held     []string // roles captured into the session at login
}

// Authorizer answers "does this identity hold this role". The default
// backend is the in-process Static check over the session's role set; an
// OpenFGA backend can be swapped in for deployments with external policy.
type Authorizer interface {
	Check(ctx context.Context, req Request) (Decision, error)
}
