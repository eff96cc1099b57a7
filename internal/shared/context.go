package shared

import "context"

// Role names the user roles known to the back office.
type Role string

const (
	// RolePDG is the manager role allowed to override credit limits.
	RolePDG Role = "PDG"
	// RoleManager manages daily operations without credit override rights.
	RoleManager Role = "Manager"
	// RoleManagerPlus extends Manager with payment rights.
	RoleManagerPlus Role = "ManagerPlus"
	// RoleEmploye is the default restricted role.
	RoleEmploye Role = "Employé"
)

// Identity describes the acting user attached to a request.
type Identity struct {
	UserID int64
	Name   string
	Role   Role
}

// IsManager reports whether the identity may approve credit overages.
func (id Identity) IsManager() bool {
	return id.Role == RolePDG
}

type ctxKey int

const identityKey ctxKey = iota

// WithIdentity stores the acting user in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the acting user, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
