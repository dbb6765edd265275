package identity

import "context"

type ctxKey int

const key ctxKey = 1

// NewContext returns ctx carrying the request's authentication state. The
// state is always passed explicitly; there is no process-global current user.
func NewContext(ctx context.Context, st State) context.Context {
	return context.WithValue(ctx, key, st)
}

// FromContext returns the state stored by NewContext, or Anonymous.
func FromContext(ctx context.Context) State {
	if v := ctx.Value(key); v != nil {
		if st, ok := v.(State); ok {
			return st
		}
	}
	return Anonymous()
}
