package middleware

import (
	"context"
	"net/http"

	"github.com/feastlyhq/feastly-backend/api/responses"
	"github.com/feastlyhq/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastlyhq/feastly-backend/pkg/errors"
	"github.com/feastlyhq/feastly-backend/pkg/guard"
	"github.com/feastlyhq/feastly-backend/pkg/logger"
)

// Guard enforces a route access rule against the session state seeded
// by the auth middleware. Denials carry a redirect_to path so the
// client can route the user without re-deriving the rule.
func Guard(req guard.Requirement, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := guard.Decide(guardState(r.Context()), req)
			if decision == guard.Allow {
				next.ServeHTTP(w, r)
				return
			}

			redirect := guard.RedirectPath(decision)
			switch decision {
			case guard.RedirectSignIn:
				responses.WriteErrorRedirect(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required"), redirect)
			case guard.RedirectSelectRole:
				responses.WriteErrorRedirect(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeForbidden, "choose a role to continue"), redirect)
			default:
				responses.WriteErrorRedirect(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeForbidden, "not available for this role"), redirect)
			}
		})
	}
}

func guardState(ctx context.Context) guard.State {
	state := guard.State{
		Authenticated: UserIDFromContext(ctx) != "",
	}
	if role, err := enums.ParseRole(RoleFromContext(ctx)); err == nil {
		state.HasRole = true
		state.Role = role
	}
	return state
}
