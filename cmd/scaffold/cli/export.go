package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		outputFile     string
		promptPassword bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an introspected schema to a file",
		Long: `Introspect a database and write its schema description as a single JSON
document. The file can later feed generation via --schema-file, so the
database does not have to be reachable at generation time. The document is
written atomically; readers never see a partial export.`,
		Example: `  scaffold export --provider postgres --dsn "postgres://app@localhost/northwind" -o northwind.schema.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				cmd.Usage()
				return err
			}

			applyStringFlag(cmd, "provider", &opts.Provider)
			applyStringFlag(cmd, "dsn", &opts.DSN)
			applyStringFlag(cmd, "db-schema", &opts.Schema)
			applyBoolFlag(cmd, "procedures", &opts.IncludeStoredProcedures)

			if outputFile == "" {
				return fmt.Errorf("an output file is required (-o)")
			}

			ctx := context.Background()
			db, err := loadDatabase(ctx, opts, "", promptPassword)
			if err != nil {
				return err
			}

			if err := db.WriteFile(outputFile); err != nil {
				return err
			}
			fmt.Printf("Exported %d table(s) to %s\n", len(db.Tables), outputFile)
			return nil
		},
	}

	cmd.Flags().String("provider", "", "Schema loader provider (postgres, mysql, mssql, sqlite)")
	cmd.Flags().String("dsn", "", "Connection string; use {password} to be prompted")
	cmd.Flags().String("db-schema", "", "Database schema to introspect (provider default when empty)")
	cmd.Flags().Bool("procedures", false, "Include stored procedures and functions in the export")
	cmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "File to write the schema description to")
	cmd.Flags().BoolVar(&promptPassword, "prompt-password", false, "Prompt for the database password")

	return cmd
}
