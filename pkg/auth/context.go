package auth

import (
	"context"
)

type contextKey string

// ContextKeyPrincipal is the context key for the authenticated caller
const ContextKeyPrincipal contextKey = "principal"

// Method is how a caller proved its identity.
type Method string

const (
	MethodJWT       Method = "jwt"
	MethodSignature Method = "eip191"
)

// Principal is an authenticated caller. Address is set for signature auth,
// Subject for bearer tokens.
type Principal struct {
	Method  Method
	Subject string
	Address string
}

// WithPrincipal adds the principal to the context
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, p)
}

// PrincipalFromContext retrieves the principal from the context
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ContextKeyPrincipal).(*Principal)
	return p, ok && p != nil
}
