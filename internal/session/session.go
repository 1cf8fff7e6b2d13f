// Package session implements the authenticated-session lifecycle: the
// durable session store, the controller state machine around establishing
// and destroying sessions, and the role-based routing decisions consumed
// by navigation.
package session

import "fmt"

// Role is the closed set of membership roles the backend can assign.
//
// The backend sends roles as free-form strings; they are normalized into
// this type exactly once, at the API boundary, so unrecognized values
// collapse into the single RoleOther fallback instead of leaking
// string comparisons across call sites.
type Role int

const (
	// RoleOther covers absent, empty, and unrecognized role values.
	RoleOther Role = iota
	// RoleWebmaster is the content-publishing role.
	RoleWebmaster
	// RoleSuperAdmin is the administrative role.
	RoleSuperAdmin
	// RoleMember is a regular registered member.
	RoleMember
)

// ParseRole normalizes a backend role string into a Role.
func ParseRole(s string) Role {
	switch s {
	case "webmaster":
		return RoleWebmaster
	case "superAdmin":
		return RoleSuperAdmin
	case "member":
		return RoleMember
	default:
		return RoleOther
	}
}

// String returns the canonical wire representation of the role.
// RoleOther has no canonical representation and renders empty.
func (r Role) String() string {
	switch r {
	case RoleWebmaster:
		return "webmaster"
	case RoleSuperAdmin:
		return "superAdmin"
	case RoleMember:
		return "member"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Unknown values parse as RoleOther rather than erroring.
func (r *Role) UnmarshalText(text []byte) error {
	*r = ParseRole(string(text))
	return nil
}

// User is the cached profile of the authenticated member.
type User struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	Role    Role   `json:"role"`
}

// Session is the authenticated state of the device.
//
// Token is the opaque bearer credential issued by the backend; its absence
// means unauthenticated. User is nil when the cached profile is missing or
// could not be parsed — the token is still honored in that case.
type Session struct {
	Token string
	User  *User
}

func (s *Session) String() string {
	if s == nil {
		return "session(none)"
	}
	if s.User == nil {
		return "session(token only)"
	}
	return fmt.Sprintf("session(%s, %s)", s.User.Email, s.User.Role)
}
