// Package loader defines the pluggable schema loaders that introspect a live
// database into the schema model, and the provider-keyed registry used to
// select one.
package loader

import (
	"context"
	"fmt"
	"sort"

	"github.com/scaffolddb/scaffold/internal/model"
	"github.com/scaffolddb/scaffold/internal/naming"
)

// Config holds the connection parameters for one load.
type Config struct {
	Provider                string
	DSN                     string
	Schema                  string // database schema to introspect; provider default when empty
	IncludeStoredProcedures bool
}

// Loader introspects one database provider into a model.Database.
type Loader interface {
	// Provider returns the provider identifier this loader serves.
	Provider() string
	// Connect opens the connection described by cfg.
	Connect(cfg Config) error
	// Close releases the connection.
	Close() error
	// Load introspects the connected database. Identifier shaping follows
	// the given name format.
	Load(ctx context.Context, format naming.NameFormat) (*model.Database, error)
}

// Factory creates a new, unconnected Loader.
type Factory func() Loader

// Registry maps provider identifiers to loader factories. It is built per
// run in the CLI layer and passed down; there is no global registry.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for a provider identifier.
func (r *Registry) Register(provider string, f Factory) {
	r.factories[provider] = f
}

// Providers returns the registered provider identifiers, sorted.
func (r *Registry) Providers() []string {
	out := make([]string, 0, len(r.factories))
	for p := range r.factories {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Open constructs the loader for cfg.Provider and connects it.
func (r *Registry) Open(cfg Config) (Loader, error) {
	f, ok := r.factories[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unsupported provider %q (available: %v)", cfg.Provider, r.Providers())
	}
	l := f()
	if err := l.Connect(cfg); err != nil {
		return nil, fmt.Errorf("connect provider %q: %w", cfg.Provider, err)
	}
	return l, nil
}
