package enums

import "fmt"

// Role is the one-time account designation chosen at role selection.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
)

var validRoles = []Role{
	RoleCustomer,
	RoleOwner,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// Label is the human-facing name used in user-visible messages.
func (r Role) Label() string {
	switch r {
	case RoleOwner:
		return "restaurant owner"
	default:
		return "customer"
	}
}

// ParseRole converts raw input into a Role. The legacy "user" value is
// accepted as an alias for customer.
func ParseRole(value string) (Role, error) {
	if value == "user" {
		return RoleCustomer, nil
	}
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
