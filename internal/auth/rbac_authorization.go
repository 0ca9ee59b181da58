package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/transport"
)

// RBACAuthorization turns a RoleChecker into chi middleware. Ownership checks
// stay in the services.
type RBACAuthorization struct {
	*transport.BaseHandler
	checker RoleChecker
}

func NewRBACAuthorization(checker RoleChecker, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		checker:     checker,
	}
}

func (ra *RBACAuthorization) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				ra.Logger.Warn("authorization check failed: identity not found in context", "path", r.URL.Path)
				ra.HandleServiceError(w, internal.ErrMissingIdentity)
				return
			}

			if !ra.checker.HasAnyRole(identity, roles...) {
				ra.Logger.WarnContext(r.Context(), "access denied: insufficient role",
					"user_id", identity.UserID,
					"role", identity.Role,
					"required_roles", roles)
				ra.HandleServiceError(w, internal.ErrRoleRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireHR() func(http.Handler) http.Handler {
	return ra.RequireRole(internal.RoleHR)
}

func (ra *RBACAuthorization) RequireEmployee() func(http.Handler) http.Handler {
	return ra.RequireRole(internal.RoleEmployee)
}
