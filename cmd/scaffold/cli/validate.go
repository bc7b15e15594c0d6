package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scaffolddb/scaffold/internal/validate"
)

func newValidateCmd() *cobra.Command {
	var (
		schemaFile     string
		promptPassword bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a schema's association integrity without generating",
		Long: `Run the association validator on a schema and report every violation.
The whole schema is visited, so one run surfaces all problems at once.`,
		Example: `  scaffold validate --schema-file northwind.schema.json
  scaffold validate --provider mysql --dsn "app:{password}@tcp(localhost:3306)/shop"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				cmd.Usage()
				return err
			}

			applyStringFlag(cmd, "provider", &opts.Provider)
			applyStringFlag(cmd, "dsn", &opts.DSN)
			applyStringFlag(cmd, "db-schema", &opts.Schema)

			ctx := context.Background()
			db, err := loadDatabase(ctx, opts, schemaFile, promptPassword)
			if err != nil {
				return err
			}

			report, err := validate.Database(db)
			if err != nil {
				return err
			}
			if report.Valid {
				fmt.Printf("Schema %q is valid (%d tables checked)\n", db.Name, len(db.Tables))
				return nil
			}
			for _, d := range report.Diagnostics {
				fmt.Printf("  %s: %s\n", d.Table, d.Message)
			}
			return fmt.Errorf("%d association violation(s)", len(report.Diagnostics))
		},
	}

	cmd.Flags().String("provider", "", "Schema loader provider (postgres, mysql, mssql, sqlite)")
	cmd.Flags().String("dsn", "", "Connection string; use {password} to be prompted")
	cmd.Flags().String("db-schema", "", "Database schema to introspect (provider default when empty)")
	cmd.Flags().StringVar(&schemaFile, "schema-file", "", "Validate an exported schema file instead of a live database")
	cmd.Flags().BoolVar(&promptPassword, "prompt-password", false, "Prompt for the database password")

	return cmd
}
