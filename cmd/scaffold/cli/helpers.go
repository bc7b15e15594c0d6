package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/scaffolddb/scaffold/internal/config"
	"github.com/scaffolddb/scaffold/internal/loader"
	"github.com/scaffolddb/scaffold/internal/loader/mssql"
	"github.com/scaffolddb/scaffold/internal/loader/mysql"
	"github.com/scaffolddb/scaffold/internal/loader/postgres"
	"github.com/scaffolddb/scaffold/internal/loader/sqlite"
	"github.com/scaffolddb/scaffold/internal/model"
	"github.com/scaffolddb/scaffold/internal/naming"
)

// passwordPlaceholder marks where a prompted password is spliced into a DSN,
// so connection strings in config files never carry credentials.
const passwordPlaceholder = "{password}"

// newLoaderRegistry creates a loader registry with all supported providers
// registered.
func newLoaderRegistry() *loader.Registry {
	registry := loader.NewRegistry()
	registry.Register("postgres", func() loader.Loader { return postgres.New() })
	registry.Register("mysql", func() loader.Loader { return mysql.New() })
	registry.Register("mssql", func() loader.Loader { return mssql.New() })
	registry.Register("sqlite", func() loader.Loader { return sqlite.New() })
	return registry
}

// loadOptions assembles the run configuration: defaults, then the YAML
// config file when one is present, then SCAFFOLD_* environment values for
// connection settings left empty. Flag overrides are applied afterwards by
// each command.
func loadOptions() (*config.Options, error) {
	path := cfgFile
	if path == "" {
		path = viper.ConfigFileUsed()
	}

	opts := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		opts = loaded
	}

	if opts.DSN == "" {
		opts.DSN = viper.GetString("dsn")
	}
	if opts.Provider == "" {
		opts.Provider = viper.GetString("provider")
	}
	return opts, nil
}

func applyStringFlag(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		*dst = v
	}
}

func applyBoolFlag(cmd *cobra.Command, name string, dst *bool) {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetBool(name)
		*dst = v
	}
}

// promptPassword reads a password from the terminal without echo.
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

// loadDatabase produces the schema model for a run, either by reading an
// exported schema file or by introspecting the configured provider.
func loadDatabase(ctx context.Context, opts *config.Options, schemaFile string, askPassword bool) (*model.Database, error) {
	if schemaFile != "" {
		return model.ReadFile(schemaFile)
	}

	if opts.Provider == "" || opts.DSN == "" {
		return nil, fmt.Errorf("provider and dsn are required (or pass --schema-file)")
	}

	dsn := opts.DSN
	if askPassword || strings.Contains(dsn, passwordPlaceholder) {
		pw, err := promptPassword()
		if err != nil {
			return nil, err
		}
		dsn = strings.ReplaceAll(dsn, passwordPlaceholder, pw)
	}

	l, err := newLoaderRegistry().Open(loader.Config{
		Provider:                opts.Provider,
		DSN:                     dsn,
		Schema:                  opts.Schema,
		IncludeStoredProcedures: opts.IncludeStoredProcedures,
	})
	if err != nil {
		return nil, err
	}
	defer l.Close()

	format := naming.NewNameFormat(opts.Pluralize, opts.Case, opts.Culture)
	return l.Load(ctx, format)
}

// shape applies the pre-generation model passes: qualifier stripping when
// schema-qualified names are disabled, then the stable sort by name.
func shape(db *model.Database, opts *config.Options) {
	if !opts.IncludeSchemaQualifier {
		db.StripSchemaQualifiers()
	}
	db.SortByName()
}

// contextClass resolves the base class identifier for the run. An explicit
// output name wins unless the mode pins derivation to the database name.
func contextClass(opts *config.Options, db *model.Database) (string, error) {
	switch opts.ContextNameMode {
	case "output":
		if opts.OutputName == "" {
			return "", fmt.Errorf("context_name_mode %q requires an output name", opts.ContextNameMode)
		}
		return opts.OutputName, nil
	case "database":
		return naming.ContextClass(db.Name), nil
	case "":
		if opts.OutputName != "" {
			return opts.OutputName, nil
		}
		return naming.ContextClass(db.Name), nil
	default:
		return "", fmt.Errorf("unknown context_name_mode %q (want \"database\" or \"output\")", opts.ContextNameMode)
	}
}
