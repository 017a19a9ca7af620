package auth

import "context"

type ctxKeyPrincipal struct{}

// Principal is the authenticated identity every user-scoped operation
// receives. The email is the opaque key all membership and activity rows
// are stored under; it is trusted as delivered by the verifier.
type Principal struct {
	Email string
}

// WithPrincipal returns a context carrying the principal. Only the HTTP
// boundary should need this; core code takes Principal as an argument.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal{}, p)
}

// FromContext extracts the principal resolved by the verifier middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal{}).(Principal)
	return p, ok && p.Email != ""
}
