// Package config holds the run configuration and its YAML file form.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options is the full generation configuration for one run. Built once from
// defaults, the optional YAML file, and flag overrides; immutable afterwards.
type Options struct {
	// OutputName is the base class identifier the artifact names derive
	// from, e.g. "NorthwindContext". Derived from the database name when
	// empty and ContextNameMode is "database".
	OutputName string `yaml:"output"`
	// Language is the requested generator language code; empty selects by
	// the derived file extension.
	Language string `yaml:"language"`
	// Provider selects the schema loader, e.g. "postgres".
	Provider string `yaml:"provider"`
	// DSN is the connection string handed to the loader.
	DSN string `yaml:"dsn"`
	// Schema is the database schema to introspect (provider default when empty).
	Schema string `yaml:"schema"`
	// OutDir is the directory generated artifacts are written to.
	OutDir string `yaml:"out_dir"`
	// Namespace is the namespace emitted into every artifact.
	Namespace string `yaml:"namespace"`
	// ContextNameMode controls how the base class is derived: "database"
	// (always from the database name), "output" (OutputName verbatim,
	// required), or empty (OutputName when given, database name otherwise).
	ContextNameMode string `yaml:"context_name_mode"`

	IncludeSchemaQualifier      bool   `yaml:"include_schema_qualifier"`
	GenerateRepositoryArtifacts bool   `yaml:"generate_repository"`
	Pluralize                   bool   `yaml:"pluralize"`
	Case                        string `yaml:"case"`
	Culture                     string `yaml:"culture"`
	IncludeStoredProcedures     bool   `yaml:"include_stored_procedures"`
}

// Default returns an Options pre-filled with the defaults every run starts
// from.
func Default() *Options {
	return &Options{
		OutDir:    ".",
		Pluralize: true,
		Case:      "pascal",
		Culture:   "en",
	}
}

// Load reads and parses a YAML configuration file over the defaults.
// Environment variables referenced as ${VAR_NAME} in the file are expanded
// before parsing.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	content := os.ExpandEnv(string(data))

	opts := Default()
	if err := yaml.Unmarshal([]byte(content), opts); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return opts, nil
}
