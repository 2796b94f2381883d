package auth

import (
	"log/slog"
	"net/http"
)

// RBACAuthorization guards routes that require an approver role. Fine
// grained per-request checks (ownership, status) live in the leave
// service's authorization gate; this middleware only fences off whole
// route groups.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

func (ra *RBACAuthorization) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || principal == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			ra.logger.Warn("access denied: insufficient role",
				"employee_id", principal.ID,
				"role", principal.Role,
				"required_roles", roles)
			http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
		})
	}
}

func (ra *RBACAuthorization) RequireApprover() func(http.Handler) http.Handler {
	return ra.RequireRole(RoleManager, RoleHR, RoleAdmin)
}
