// Package tenant routes every request to its own tenant database.
// There is no global "current tenant": the tenant key travels in the request
// context and repositories resolve their *gorm.DB handle per call.
package tenant

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// DefaultKey is the tenant used when no X-Tenant-ID header is present.
const DefaultKey = "default"

type ctxKey struct{}

// WithKey returns a context carrying the tenant key.
func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ctxKey{}, key)
}

// KeyFromContext extracts the tenant key, falling back to DefaultKey.
func KeyFromContext(ctx context.Context) string {
	if key, ok := ctx.Value(ctxKey{}).(string); ok && key != "" {
		return key
	}
	return DefaultKey
}

// Registry maps tenant keys to their database connections. Connections are
// opened once at startup; the map is read-only afterwards, so no locking.
type Registry struct {
	conns map[string]*gorm.DB
}

// NewRegistry builds a registry from pre-opened connections.
// The "default" key must be present.
func NewRegistry(conns map[string]*gorm.DB) (*Registry, error) {
	if _, ok := conns[DefaultKey]; !ok {
		return nil, fmt.Errorf("tenant: registry requires a %q connection", DefaultKey)
	}
	return &Registry{conns: conns}, nil
}

// DB resolves the database handle for the tenant carried by ctx.
func (r *Registry) DB(ctx context.Context) (*gorm.DB, error) {
	key := KeyFromContext(ctx)
	db, ok := r.conns[key]
	if !ok {
		return nil, fmt.Errorf("tenant: unknown tenant %q", key)
	}
	return db.WithContext(ctx), nil
}

// Has reports whether the registry knows the given tenant key.
func (r *Registry) Has(key string) bool {
	_, ok := r.conns[key]
	return ok
}

// Keys returns the known tenant keys, sorted (for health/diagnostics).
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.conns))
	for k := range r.conns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Each runs fn against every tenant connection (migrations, health checks).
func (r *Registry) Each(fn func(key string, db *gorm.DB) error) error {
	for _, key := range r.Keys() {
		if err := fn(key, r.conns[key]); err != nil {
			return fmt.Errorf("tenant %q: %w", key, err)
		}
	}
	return nil
}
