package auth

import (
	"context"
	"fmt"
)

// Role is the closed set of roles the system recognizes. Authorization
// decisions key on this enum, never on a caller-supplied string.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleHR       Role = "HR"
	RoleAdmin    Role = "ADMIN"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEmployee, RoleManager, RoleHR, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// IsApprover reports whether the role may decide leave requests and
// submit requests on behalf of other employees.
func (r Role) IsApprover() bool {
	switch r {
	case RoleManager, RoleHR, RoleAdmin:
		return true
	default:
		return false
	}
}

// Principal is the authenticated actor attached to every request. The
// role is always loaded server-side from the employee record, never
// taken from the token or any client input.
type Principal struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

func (p *Principal) IsApprover() bool {
	return p.Role.IsApprover()
}

func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type ctxKey string

const ContextPrincipalKey ctxKey = "principal"

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ContextPrincipalKey).(*Principal)
	return p, ok
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ContextPrincipalKey, p)
}
