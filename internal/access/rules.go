package access

import "strings"

// CatchAll matches every request path. A rule table always ends with a
// catch-all so evaluation is total; NewEvaluator appends one if missing.
const CatchAll = "*"

type RequirementKind string

const (
	ReqPublic        RequirementKind = "public"
	ReqAuthenticated RequirementKind = "authenticated"
	ReqAnyRole       RequirementKind = "roles"
)

type Requirement struct {
	Kind  RequirementKind
	Roles []string
}

func Public() Requirement        { return Requirement{Kind: ReqPublic} }
func Authenticated() Requirement { return Requirement{Kind: ReqAuthenticated} }
func AnyRole(roles ...string) Requirement {
	return Requirement{Kind: ReqAnyRole, Roles: roles}
}

// Rule binds a path pattern to an access requirement. Rules are ordered most
// specific first; the first matching pattern wins.
type Rule struct {
	Pattern string
	Require Requirement
}

// Matches tests pattern against a request path. Patterns are exact paths,
// "prefix/*" globs, or the "*" catch-all. No partial-match skipping: a
// pattern either matches the path or it does not.
func Matches(pattern, path string) bool {
	switch {
	case pattern == CatchAll || pattern == "/**":
		return true
	case strings.HasSuffix(pattern, "/*"):
		base := strings.TrimSuffix(pattern, "/*")
		return path == base || strings.HasPrefix(path, base+"/")
	default:
		return pattern == path
	}
}
