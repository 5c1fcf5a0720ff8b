package identity

import "context"

type securityContextKey struct{}

// WithSecurityContext attaches the caller's security context
func WithSecurityContext(ctx context.Context, sctx *SecurityContext) context.Context {
	return context.WithValue(ctx, securityContextKey{}, sctx)
}

// SecurityContextFrom retrieves the caller's security context, if any
func SecurityContextFrom(ctx context.Context) (*SecurityContext, bool) {
	sctx, ok := ctx.Value(securityContextKey{}).(*SecurityContext)
	return sctx, ok
}
