package httpx

import "net/http"

// Cookie names for the two client-held tokens.
const (
	SessionCookie  = "gatehouse_session"
	RememberCookie = "gatehouse_remember"
)

// ReadCookie returns the named cookie's value, or false if absent or empty.
func ReadCookie(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// SetToken writes an HttpOnly cookie holding an opaque token. maxAge <= 0
// makes it a browser-lifetime cookie.
func SetToken(w http.ResponseWriter, name, value string, maxAge int) {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		c.MaxAge = maxAge
	}
	http.SetCookie(w, c)
}

// ClearToken expires the named cookie on the client.
func ClearToken(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
