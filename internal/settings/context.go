package settings

import "context"

type providerKey struct{}

// WithContext stores the provider in ctx.
func WithContext(ctx context.Context, p *Provider) context.Context {
	if ctx == nil || p == nil {
		return ctx
	}
	return context.WithValue(ctx, providerKey{}, p)
}

// FromContext returns the provider stored in ctx, if any.
func FromContext(ctx context.Context) *Provider {
	if ctx == nil {
		return nil
	}
	if p, ok := ctx.Value(providerKey{}).(*Provider); ok {
		return p
	}
	return nil
}
