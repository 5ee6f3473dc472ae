package principal

import (
	"context"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
)

type ctxKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext extracts the request principal. Returns nil if the request is
// unauthenticated.
func FromContext(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(ctxKey{}).(*domain.Principal)
	return p
}
