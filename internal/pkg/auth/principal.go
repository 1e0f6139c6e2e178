package auth

import "context"

const RoleAdmin = "admin"

// Principal is the authenticated caller of a request.
type Principal struct {
	Subject string
	Role    string
}

// IsAdmin reports whether the principal may use staff endpoints.
func (p Principal) IsAdmin() bool {
	return p.Subject != "" && p.Role == RoleAdmin
}

type principalKey struct{}

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
