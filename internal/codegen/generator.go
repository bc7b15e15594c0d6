// Package codegen holds the generator registry, dispatch, and the run
// orchestrator that sequences validation, naming, emission, and
// post-processing.
package codegen

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/scaffolddb/scaffold/internal/model"
	"github.com/scaffolddb/scaffold/internal/naming"
)

// Options carries the per-run settings a generator needs to render artifacts.
type Options struct {
	Namespace               string
	Pluralize               bool
	IncludeStoredProcedures bool
}

// Generator renders one target language. Implementations declare a language
// code and the file extensions they handle; dispatch is a pure lookup over
// those descriptors.
type Generator interface {
	// Language returns the generator's language code, e.g. "cs".
	Language() string
	// Extensions returns the file extensions the generator claims, each with
	// a leading dot.
	Extensions() []string
	// Emit renders one artifact kind for the database into w.
	Emit(w io.Writer, kind naming.ArtifactKind, db *model.Database, opts Options) error
}

// ErrNoGenerator is returned by Find when nothing in the registry matches the
// requested language or extension. Callers may fall back to a baseline
// registry before treating it as a configuration error.
var ErrNoGenerator = errors.New("no matching generator")

// Registry is the set of generators available to a run. It is constructed
// per run and passed down explicitly; there is no process-wide registry.
type Registry struct {
	generators []Generator
}

// NewRegistry creates a registry holding the given generators.
func NewRegistry(gens ...Generator) *Registry {
	return &Registry{generators: gens}
}

// Register appends a generator to the registry.
func (r *Registry) Register(g Generator) {
	r.generators = append(r.generators, g)
}

// Find selects a generator. When language is non-empty it must match exactly
// one registered language code; zero matches yield ErrNoGenerator and more
// than one is an ambiguity error, never a silent default. With no language
// the lookup falls back to the filename's extension, case-insensitively.
func (r *Registry) Find(language, filename string) (Generator, error) {
	if language != "" {
		var matches []Generator
		for _, g := range r.generators {
			if strings.EqualFold(g.Language(), language) {
				matches = append(matches, g)
			}
		}
		switch len(matches) {
		case 0:
			return nil, fmt.Errorf("language %q: %w", language, ErrNoGenerator)
		case 1:
			return matches[0], nil
		default:
			return nil, fmt.Errorf("language %q matches %d generators", language, len(matches))
		}
	}

	ext := filepath.Ext(filename)
	for _, g := range r.generators {
		for _, e := range g.Extensions() {
			if strings.EqualFold(e, ext) {
				return g, nil
			}
		}
	}
	return nil, fmt.Errorf("extension %q: %w", ext, ErrNoGenerator)
}
