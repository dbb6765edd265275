package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gatehouse-dev/gatehouse/internal/httpx"
	"github.com/gatehouse-dev/gatehouse/internal/session"
)

type LoginHandler struct {
	Sessions   *session.Manager
	RememberMe bool
}

func NewLoginHandler(sessions *session.Manager, rememberMe bool) *LoginHandler {
	return &LoginHandler{Sessions: sessions, RememberMe: rememberMe}
}

type loginPageData struct {
	From       string
	Error      string
	RememberMe bool
}

// Page renders the login form. "from" preserves the originally requested
// path so a successful login can return there.
func (h *LoginHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.render(w, safeReturnPath(r.URL.Query().Get("from")), "")
}

// Submit handles the form post. Authentication failures are always the same
// generic message regardless of which half was wrong; the session cap gets
// its own user-facing message only under block-new.
func (h *LoginHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid form submission")
		return
	}
	username := r.Form.Get("username")
	password := r.Form.Get("password")
	remember := r.Form.Get("remember") == "on"
	from := safeReturnPath(r.Form.Get("from"))

	res, err := h.Sessions.Login(r.Context(), username, password, remember)
	switch {
	case errors.Is(err, session.ErrSessionLimit):
		h.render(w, from, "Too many active sessions for this account. Log out elsewhere and try again.")
		return
	case err != nil:
		h.render(w, from, "Invalid username or password.")
		return
	}

	httpx.SetToken(w, httpx.SessionCookie, res.Token, 0)
	if res.RememberToken != "" {
		httpx.SetToken(w, httpx.RememberCookie, res.RememberToken, int(h.Sessions.RememberTTL().Seconds()))
	}
	http.Redirect(w, r, from, http.StatusFound)
}

// Logout tears down the session and its remember-me token, clears both
// cookies, and lands on the home page.
func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := httpx.ReadCookie(r, httpx.SessionCookie); ok {
		h.Sessions.Logout(r.Context(), token)
	}
	httpx.ClearToken(w, httpx.SessionCookie)
	httpx.ClearToken(w, httpx.RememberCookie)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *LoginHandler) render(w http.ResponseWriter, from, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if errMsg != "" {
		w.WriteHeader(http.StatusUnauthorized)
	}
	data := loginPageData{From: from, Error: errMsg, RememberMe: h.RememberMe}
	if err := loginTmpl.Execute(w, data); err != nil {
		http.Error(w, "template render error: "+err.Error(), http.StatusInternalServerError)
	}
}

// safeReturnPath keeps post-login redirects on-site: local absolute paths
// only, never protocol-relative or external URLs.
func safeReturnPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return "/"
	}
	return p
}

var loginTmpl = template.Must(template.New("login").Parse(`
<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Login</title>
<style>
  body{margin:0;font-family:ui-sans-serif,system-ui,sans-serif;background:#0b0f14;color:#e5e7eb}
  .wrap{max-width:420px;margin:10vh auto;padding:24px}
  .card{background:#111827;border:1px solid #1f2937;border-radius:16px;padding:28px}
  h1{margin:0 0 16px;font-size:22px}
  form{display:grid;gap:12px}
  label{font-size:13px;color:#cbd5e1}
  input[type="text"],input[type="password"]{
    width:100%;box-sizing:border-box;color:#e2e8f0;background:#0b1220;
    border:1px solid #1f2937;border-radius:10px;padding:12px;outline:none
  }
  .remember{display:flex;gap:8px;align-items:center;font-size:13px;color:#cbd5e1}
  button{border:0;border-radius:10px;padding:12px;font-weight:700;cursor:pointer;background:#2563eb;color:#fff}
  .err{color:#ef4444;font-size:13px}
</style>
</head>
<body>
  <div class="wrap">
    <div class="card">
      <h1>Sign in</h1>
      {{if .Error}}<p class="err">{{.Error}}</p>{{end}}
      <form method="post" action="/login">
        <input type="hidden" name="from" value="{{.From}}">
        <label for="username">Username</label>
        <input id="username" name="username" type="text" autocomplete="username" required>
        <label for="password">Password</label>
        <input id="password" name="password" type="password" autocomplete="current-password" required>
        {{if .RememberMe}}
        <label class="remember"><input type="checkbox" name="remember"> Remember me</label>
        {{end}}
        <button type="submit">Login</button>
      </form>
    </div>
  </div>
</body>
</html>
`))
