package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"webmaster", RoleWebmaster},
		{"superAdmin", RoleSuperAdmin},
		{"member", RoleMember},
		{"treasurer", RoleOther},
		{"", RoleOther},
		{"SuperAdmin", RoleOther}, // roles are case-sensitive on the wire
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRole(tt.in), tt.in)
	}
}

func TestDestinationFor_RoutingTable(t *testing.T) {
	// One row per backend role value, including the unknown and absent
	// cases, which both fall back to signup-success.
	tests := []struct {
		name string
		role Role
		want Destination
	}{
		{"webmaster", RoleWebmaster, DestinationFeed},
		{"superAdmin", RoleSuperAdmin, DestinationAdminHome},
		{"member", RoleMember, DestinationMemberSearch},
		{"unknownRole", ParseRole("unknownRole"), DestinationSignupSuccess},
		{"undefined", ParseRole(""), DestinationSignupSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DestinationFor(tt.role))
		})
	}
}

func TestDestinationNames(t *testing.T) {
	names := map[Destination]string{
		DestinationFeed:          "feed",
		DestinationAdminHome:     "admin-home",
		DestinationMemberSearch:  "member-search",
		DestinationSignupSuccess: "signup-success",
		DestinationNotRegistered: "account-not-registered",
	}

	seen := map[string]bool{}
	for dest, want := range names {
		assert.Equal(t, want, dest.String())
		assert.False(t, seen[dest.String()], "destination names must be distinct")
		seen[dest.String()] = true
	}
}

func TestUser_JSONRoleNormalization(t *testing.T) {
	var user User
	require.NoError(t, json.Unmarshal([]byte(`{"name":"A","email":"a@b.c","picture":"","role":"chairperson"}`), &user))
	assert.Equal(t, RoleOther, user.Role)

	data, err := json.Marshal(User{Name: "A", Role: RoleSuperAdmin})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"role":"superAdmin"`)
}
