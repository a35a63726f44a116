package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/expensepro/internal/auth"
	"github.com/frahmantamala/expensepro/internal/role"
)

// RequireRoles creates a middleware that only lets viewers holding one of the
// listed roles through. Anything else is denied; there is no fallthrough.
func RequireRoles(roles ...role.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, ok := auth.UserFromContext(r.Context())
			if !ok || viewer == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			allowed := false
			for _, required := range roles {
				if viewer.Role == required {
					allowed = true
					break
				}
			}

			if !allowed {
				slog.Warn("access denied: viewer lacks required role",
					"user_id", viewer.ID,
					"viewer_role", viewer.Role,
					"required_roles", roles)
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin guards routes reserved for the admin role.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRoles(role.Admin)
}

// RequireApprover admits any role that can decide on at least one other
// role's submissions under the given hierarchy.
func RequireApprover(hierarchy role.Hierarchy) func(http.Handler) http.Handler {
	approvers := make([]role.Role, 0, len(hierarchy))
	for r, covered := range hierarchy {
		if len(covered) > 0 {
			approvers = append(approvers, r)
		}
	}
	return RequireRoles(approvers...)
}
