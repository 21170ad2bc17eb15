package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/job-board/internal"
	"github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/transport"
)

// RBACAuthorization gates routes on the role of the user RequireAuth attached.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

// RequireRole must run after RequireAuth. Users whose role is not in roles get 403.
func (ra *RBACAuthorization) RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	allowed := make(map[user.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := internal.UserFromContext(r.Context())
			if !ok {
				ra.Logger.WarnContext(r.Context(), "authorization check failed: user not found in context")
				ra.WriteError(w, http.StatusUnauthorized, internal.ErrUnauthorized.Message)
				return
			}

			if _, permitted := allowed[u.Role]; !permitted {
				ra.Logger.WarnContext(r.Context(), "access denied: role not permitted",
					"user_id", u.ID,
					"role", u.Role,
					"required_roles", roles)
				ra.WriteError(w, http.StatusForbidden, internal.ErrForbidden.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRole(user.RoleAdmin)
}

// RequireStaff admits admins and employees.
func (ra *RBACAuthorization) RequireStaff() func(http.Handler) http.Handler {
	return ra.RequireRole(user.RoleAdmin, user.RoleEmployee)
}

func (ra *RBACAuthorization) RequireApplicant() func(http.Handler) http.Handler {
	return ra.RequireRole(user.RoleApplicant)
}

// RequireRole is RBACAuthorization.RequireRole with the process logger.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return NewRBACAuthorization(nil).RequireRole(roles...)
}
