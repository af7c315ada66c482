package guard

import (
	"testing"

	"github.com/feastlyhq/feastly-backend/pkg/enums"
)

func TestDecideLoadingAlwaysWaits(t *testing.T) {
	reqs := []Requirement{RequireNone, RequireSignedIn, RequireAuthenticated, RequireCustomer, RequireOwner, RequireGuest}
	for _, req := range reqs {
		if got := Decide(State{Loading: true}, req); got != Wait {
			t.Fatalf("requirement %d: expected Wait while loading, got %d", req, got)
		}
	}
}

func TestDecideTable(t *testing.T) {
	guest := State{}
	roleless := State{Authenticated: true}
	customer := State{Authenticated: true, HasRole: true, Role: enums.RoleCustomer}
	owner := State{Authenticated: true, HasRole: true, Role: enums.RoleOwner}

	cases := []struct {
		name  string
		state State
		req   Requirement
		want  Decision
	}{
		{"guest on public route", guest, RequireNone, Allow},
		{"guest on guest route", guest, RequireGuest, Allow},
		{"guest on signed-in route", guest, RequireSignedIn, RedirectSignIn},
		{"guest on protected route", guest, RequireAuthenticated, RedirectSignIn},
		{"guest on customer route", guest, RequireCustomer, RedirectSignIn},
		{"guest on owner route", guest, RequireOwner, RedirectSignIn},

		{"roleless on signed-in route", roleless, RequireSignedIn, Allow},
		{"roleless on protected route", roleless, RequireAuthenticated, RedirectSelectRole},
		{"roleless on customer route", roleless, RequireCustomer, RedirectSelectRole},
		{"roleless on owner route", roleless, RequireOwner, RedirectSelectRole},
		{"roleless on guest route", roleless, RequireGuest, RedirectSelectRole},

		{"customer on customer route", customer, RequireCustomer, Allow},
		{"customer on owner route", customer, RequireOwner, RedirectCustomerHome},
		{"customer on guest route", customer, RequireGuest, RedirectCustomerHome},
		{"customer on public route", customer, RequireNone, Allow},

		{"owner on owner route", owner, RequireOwner, Allow},
		{"owner on customer route", owner, RequireCustomer, RedirectOwnerHome},
		{"owner on guest route", owner, RequireGuest, RedirectOwnerHome},
		{"owner on protected route", owner, RequireAuthenticated, Allow},
		{"customer on signed-in route", customer, RequireSignedIn, Allow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.state, tc.req); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestRedirectPath(t *testing.T) {
	if got := RedirectPath(RedirectSignIn); got != "/signin" {
		t.Fatalf("unexpected sign-in path %q", got)
	}
	if got := RedirectPath(RedirectSelectRole); got != "/select-role" {
		t.Fatalf("unexpected select-role path %q", got)
	}
	if got := RedirectPath(RedirectOwnerHome); got != "/owner/dashboard" {
		t.Fatalf("unexpected owner path %q", got)
	}
	if got := RedirectPath(RedirectCustomerHome); got != "/" {
		t.Fatalf("unexpected customer path %q", got)
	}
	if got := RedirectPath(Allow); got != "" {
		t.Fatalf("expected empty path for allow, got %q", got)
	}
}
