package session

// Destination identifies the screen navigation should land on after a
// session decision. Screens themselves are out of scope; consumers map
// these to routes.
type Destination int

const (
	// DestinationSignupSuccess is the generic post-signup fallback for
	// accounts without a recognized role.
	DestinationSignupSuccess Destination = iota
	// DestinationFeed is the main feed, home for webmasters.
	DestinationFeed
	// DestinationAdminHome is the admin landing screen.
	DestinationAdminHome
	// DestinationMemberSearch is the member directory.
	DestinationMemberSearch
	// DestinationNotRegistered is shown when the identity provider
	// accepted the user but the backend has no member for them.
	DestinationNotRegistered
)

// String returns the route name for the destination.
func (d Destination) String() string {
	switch d {
	case DestinationFeed:
		return "feed"
	case DestinationAdminHome:
		return "admin-home"
	case DestinationMemberSearch:
		return "member-search"
	case DestinationNotRegistered:
		return "account-not-registered"
	default:
		return "signup-success"
	}
}

// DestinationFor maps a role to its post-login destination.
// Unrecognized roles land on the signup-success fallback.
func DestinationFor(role Role) Destination {
	switch role {
	case RoleWebmaster:
		return DestinationFeed
	case RoleSuperAdmin:
		return DestinationAdminHome
	case RoleMember:
		return DestinationMemberSearch
	default:
		return DestinationSignupSuccess
	}
}
