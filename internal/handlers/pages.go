package handlers

import (
	"html/template"
	"net/http"

	"github.com/gatehouse-dev/gatehouse/internal/identity"
)

// Pages serves the static bank views. Access decisions happen upstream in
// the guard middleware; by the time a handler runs the request is permitted
// and its authentication state sits in the context.
type Pages struct{}

type pageData struct {
	View     string
	Title    string
	Body     string
	Username string
	Roles    []string
}

func (Pages) Welcome(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, "welcome", "Welcome", "Welcome to the bank. Use the links above to explore.")
}

func (Pages) Offers(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, "offers_page", "Offers", "Current offers for registered customers.")
}

func (Pages) Balance(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, "balance_page", "Check Balance", "Your account balance statement.")
}

func (Pages) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, "loanApprove_page", "Approve Loan", "Pending loan applications for manager approval.")
}

func (Pages) Denied(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, "denied", "Access Denied", "You don't have permission to access that page.")
}

func (Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	writePage(w, r, "not_found", "Not Found", "No such page.")
}

func renderPage(w http.ResponseWriter, r *http.Request, view, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	writePage(w, r, view, title, body)
}

func writePage(w http.ResponseWriter, r *http.Request, view, title, body string) {
	st := identity.FromContext(r.Context())
	data := pageData{View: view, Title: title, Body: body, Username: st.Username, Roles: st.Roles}
	if err := pageTmpl.Execute(w, data); err != nil {
		http.Error(w, "template render error: "+err.Error(), http.StatusInternalServerError)
	}
}

var pageTmpl = template.Must(template.New("page").Parse(`
<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}}</title>
<style>
  body{margin:0;font-family:ui-sans-serif,system-ui,sans-serif;background:#0b0f14;color:#e5e7eb}
  .wrap{max-width:640px;margin:6vh auto;padding:24px}
  .card{background:#111827;border:1px solid #1f2937;border-radius:16px;padding:28px}
  h1{margin:0 0 6px;font-size:22px}
  p{color:#9ca3af;line-height:1.5}
  nav a{color:#60a5fa;margin-right:14px;text-decoration:none}
  .who{font-size:13px;color:#94a3b8;margin-bottom:16px}
</style>
</head>
<body>
  <div class="wrap">
    <nav>
      <a href="/">Home</a>
      <a href="/offers">Offers</a>
      <a href="/checkBalance">Check Balance</a>
      <a href="/approveloan">Approve Loan</a>
      {{if .Username}}<a href="/logout">Logout</a>{{else}}<a href="/login">Login</a>{{end}}
    </nav>
    <div class="card" data-view="{{.View}}">
      {{if .Username}}<div class="who">Signed in as <b>{{.Username}}</b> {{.Roles}}</div>{{end}}
      <h1>{{.Title}}</h1>
      <p>{{.Body}}</p>
    </div>
  </div>
</body>
</html>
`))
