package mw

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gatehouse-dev/gatehouse/internal/access"
	"github.com/gatehouse-dev/gatehouse/internal/httpx"
	"github.com/gatehouse-dev/gatehouse/internal/identity"
	"github.com/gatehouse-dev/gatehouse/internal/session"
	"github.com/gatehouse-dev/gatehouse/internal/trace"
)

type GuardOpts struct {
	Evaluator *access.Evaluator
	Sessions  *session.Manager

	// SkipPaths bypass evaluation entirely (the auth endpoints themselves
	// and operational endpoints like /healthz).
	SkipPaths []string

	LoginPath  string // where RequireLogin redirects, default /login
	DeniedPath string // where Forbidden redirects, default /denied

	// RememberMe enables re-establishing a session from the remember-me
	// cookie when no live session is presented.
	RememberMe bool
}

// Guard resolves the caller's authentication state from the session cookie
// (falling back to remember-me redemption) and applies the access evaluator
// to the request path. Permit passes the state down via the request context;
// RequireLogin redirects to the login page with the original path preserved;
// Forbidden redirects to the denied page.
func Guard(opts GuardOpts) func(http.Handler) http.Handler {
	if opts.LoginPath == "" {
		opts.LoginPath = "/login"
	}
	if opts.DeniedPath == "" {
		opts.DeniedPath = "/denied"
	}
	skip := make(map[string]bool, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			st := resolveState(w, r, opts)

			verdict, err := opts.Evaluator.Evaluate(r.Context(), r.URL.Path, st)
			if err != nil {
				slog.Error("access_evaluate_failed",
					"trace", trace.From(r.Context()),
					"path", r.URL.Path,
					"err", httpx.SafeErrMsg(err),
				)
				httpx.WriteError(w, http.StatusInternalServerError, "access evaluation failed")
				return
			}

			switch verdict.Decision {
			case access.Permit:
				next.ServeHTTP(w, r.WithContext(identity.NewContext(r.Context(), st)))
			case access.RequireLogin:
				http.Redirect(w, r, opts.LoginPath+"?from="+url.QueryEscape(r.URL.Path), http.StatusFound)
			case access.Forbidden:
				slog.Info("access_forbidden",
					"trace", trace.From(r.Context()),
					"identity", verdict.Username,
					"path", r.URL.Path,
					"rule", verdict.Pattern,
				)
				http.Redirect(w, r, opts.DeniedPath, http.StatusFound)
			}
		})
	}
}

// resolveState turns the presented cookies into an authentication state. A
// stale session cookie with a valid remember-me token mints a fresh session
// and rotates the session cookie on the response.
func resolveState(w http.ResponseWriter, r *http.Request, opts GuardOpts) identity.State {
	if token, ok := httpx.ReadCookie(r, httpx.SessionCookie); ok {
		if st := opts.Sessions.Resolve(r.Context(), token); st.IsAuthenticated() {
			return st
		}
	}

	if !opts.RememberMe {
		return identity.Anonymous()
	}
	token, ok := httpx.ReadCookie(r, httpx.RememberCookie)
	if !ok {
		return identity.Anonymous()
	}
	res, err := opts.Sessions.Redeem(r.Context(), token)
	if err != nil {
		// invalid, expired, or at the session cap: all just anonymous
		return identity.Anonymous()
	}
	httpx.SetToken(w, httpx.SessionCookie, res.Token, 0)
	return identity.Authenticated(res.Session.Username, res.Session.Roles)
}
