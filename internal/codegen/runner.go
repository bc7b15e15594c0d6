package codegen

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/scaffolddb/scaffold/internal/model"
	"github.com/scaffolddb/scaffold/internal/naming"
	"github.com/scaffolddb/scaffold/internal/postprocess"
	"github.com/scaffolddb/scaffold/internal/validate"
)

// RunConfig is the generation configuration for a single run.
type RunConfig struct {
	Language          string // requested language code, empty for extension dispatch
	OutDir            string
	IncludeRepository bool
	Options           Options
}

// Runner sequences one generation run: validate, derive artifact names,
// dispatch a generator, emit each artifact, post-process each emitted file.
type Runner struct {
	registry *Registry
	fallback *Registry // baseline generators tried when registry dispatch finds nothing
	log      *slog.Logger
}

// NewRunner builds a Runner over the given registry. The fallback registry
// holds the baseline generator set consulted when primary dispatch yields no
// match; it may be nil.
func NewRunner(registry, fallback *Registry, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{registry: registry, fallback: fallback, log: log}
}

// Run executes one generation run. A validation failure logs every diagnostic
// and returns ErrSchemaInvalid before any file is written. An emission
// failure stops the remaining artifacts but leaves already-written files on
// disk untouched.
func (r *Runner) Run(db *model.Database, cfg RunConfig) error {
	if db.Class == "" {
		return &ConfigError{Reason: "database has no context class name"}
	}

	report, err := validate.Database(db)
	if err != nil {
		return err
	}
	if !report.Valid {
		for _, d := range report.Diagnostics {
			r.log.Error("schema violation", "table", d.Table, "association", d.Association, "detail", d.Message)
		}
		return fmt.Errorf("%d association violation(s): %w", len(report.Diagnostics), ErrSchemaInvalid)
	}

	artifacts := naming.DeriveNames(db.Class, cfg.IncludeRepository)

	gen, err := r.dispatch(cfg.Language, artifacts[0].FileName)
	if err != nil {
		return err
	}

	for _, a := range artifacts {
		if err := r.emit(gen, a, db, cfg); err != nil {
			emitErr := &EmissionError{Artifact: a.FileName, Err: err}
			r.log.Error("artifact emission failed, abandoning remaining artifacts", "artifact", a.FileName, "error", err)
			return emitErr
		}
		r.log.Info("wrote artifact", "artifact", a.FileName, "kind", string(a.Kind))
	}
	return nil
}

// dispatch resolves a generator from the primary registry, then from the
// baseline fallback. Ambiguous language selection is an error at either
// level and never falls through.
func (r *Runner) dispatch(language, filename string) (Generator, error) {
	gen, err := r.registry.Find(language, filename)
	if err == nil {
		return gen, nil
	}
	if !errors.Is(err, ErrNoGenerator) {
		return nil, &ConfigError{Reason: "generator dispatch", Err: err}
	}
	if r.fallback != nil {
		if gen, ferr := r.fallback.Find(language, filename); ferr == nil {
			return gen, nil
		}
	}
	return nil, &ConfigError{Reason: "generator dispatch", Err: err}
}

// emit renders one artifact into a freshly created file and post-processes
// it. The output handle is closed on every path before post-processing.
func (r *Runner) emit(gen Generator, a naming.Artifact, db *model.Database, cfg RunConfig) error {
	path := filepath.Join(cfg.OutDir, a.FileName)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := gen.Emit(f, a.Kind, db, cfg.Options); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	return postprocess.Normalize(path, a.Kind == naming.KindEntities)
}
