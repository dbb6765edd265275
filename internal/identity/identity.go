package identity

// Account is one entry in the fixed user store. Accounts are loaded once at
// process start and never mutated; there is no admin API.
type Account struct {
	Username     string   `json:"username" mapstructure:"username"`
	PasswordHash string   `json:"password_hash" mapstructure:"password_hash"`
	Roles        []string `json:"roles" mapstructure:"roles"`
}

// State is the per-request authentication state: either anonymous, or an
// identity plus the role set captured when its session was created. Roles
// are stale-until-relogin; they are not re-read from the account per request.
type State struct {
	Username string
	Roles    []string
	authed   bool
}

func Anonymous() State { return State{} }

func Authenticated(username string, roles []string) State {
	return State{Username: username, Roles: append([]string(nil), roles...), authed: true}
}

func (s State) IsAuthenticated() bool { return s.authed }

// HasRole reports whether the state carries the given role.
func (s State) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}
