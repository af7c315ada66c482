// Package guard decides what a request may do based on its session
// state. The decision table is pure so both HTTP middleware and tests
// can evaluate it without any transport wiring.
package guard

import "github.com/feastlyhq/feastly-backend/pkg/enums"

// Requirement names the access rule attached to a route.
type Requirement int

const (
	// RequireNone admits everyone, including guests.
	RequireNone Requirement = iota
	// RequireSignedIn admits any signed-in user, including those who have
	// not picked a role yet. Role selection itself relies on this.
	RequireSignedIn
	// RequireAuthenticated admits signed-in users who have completed role
	// selection. Role selection is a mandatory gate for protected routes,
	// so a role-less user is redirected there even when no specific role
	// is demanded.
	RequireAuthenticated
	// RequireCustomer admits signed-in users holding the customer role.
	RequireCustomer
	// RequireOwner admits signed-in users holding the owner role.
	RequireOwner
	// RequireGuest admits only signed-out visitors (sign-in, sign-up).
	RequireGuest
)

// Decision is the outcome of evaluating a requirement against a state.
type Decision int

const (
	// Allow lets the request through.
	Allow Decision = iota
	// Wait means session state is still being resolved; render nothing yet.
	Wait
	// RedirectSignIn sends the visitor to the sign-in page.
	RedirectSignIn
	// RedirectSelectRole sends an authenticated but role-less user to role selection.
	RedirectSelectRole
	// RedirectCustomerHome sends a customer to their landing page.
	RedirectCustomerHome
	// RedirectOwnerHome sends an owner to their dashboard.
	RedirectOwnerHome
)

// State captures the session facts a decision depends on.
type State struct {
	Loading       bool
	Authenticated bool
	HasRole       bool
	Role          enums.Role
}

// Decide evaluates the access rule for the given session state.
//
// While the state is still loading nothing is decided, so callers
// neither render protected content nor bounce the user prematurely.
func Decide(s State, req Requirement) Decision {
	if s.Loading {
		return Wait
	}

	switch req {
	case RequireNone:
		return Allow

	case RequireGuest:
		if !s.Authenticated {
			return Allow
		}
		return homeFor(s)

	case RequireSignedIn:
		if !s.Authenticated {
			return RedirectSignIn
		}
		return Allow

	case RequireAuthenticated:
		if !s.Authenticated {
			return RedirectSignIn
		}
		if !s.HasRole {
			return RedirectSelectRole
		}
		return Allow

	case RequireCustomer:
		return roleDecision(s, enums.RoleCustomer)

	case RequireOwner:
		return roleDecision(s, enums.RoleOwner)
	}

	return RedirectSignIn
}

func roleDecision(s State, want enums.Role) Decision {
	if !s.Authenticated {
		return RedirectSignIn
	}
	if !s.HasRole {
		return RedirectSelectRole
	}
	if s.Role != want {
		return homeFor(s)
	}
	return Allow
}

// homeFor routes an authenticated user to the landing page matching
// their role, or to role selection when none is assigned yet.
func homeFor(s State) Decision {
	if !s.HasRole {
		return RedirectSelectRole
	}
	if s.Role == enums.RoleOwner {
		return RedirectOwnerHome
	}
	return RedirectCustomerHome
}

// RedirectPath maps a decision to the client-side path the API reports
// alongside a denial, so the frontend can route without duplicating the
// decision table.
func RedirectPath(d Decision) string {
	switch d {
	case RedirectSignIn:
		return "/signin"
	case RedirectSelectRole:
		return "/select-role"
	case RedirectCustomerHome:
		return "/"
	case RedirectOwnerHome:
		return "/owner/dashboard"
	}
	return ""
}
