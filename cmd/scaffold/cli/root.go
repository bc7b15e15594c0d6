package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	debug   bool
)

// Execute creates the root command tree and runs it. Errors are reported
// here (summary by default, the full cause chain with --debug) so main only
// has to set the exit code.
func Execute(version, commit, date string) error {
	rootCmd := newRootCmd(version, commit, date)
	err := rootCmd.Execute()
	if err != nil {
		reportError(err)
	}
	return err
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Generate a typed data-access layer from any database",
		Long: `Scaffold connects to a SQL database (or reads an exported schema file),
validates the schema's association integrity, and generates a family of
data-access source artifacts: an EF context, entity classes, and optionally
a repository layer with interface and mock implementations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./scaffold.yaml)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging and full error detail")

	cobra.OnInitialize(initConfig, initLogging)

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scaffold")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.scaffold")
	}

	viper.SetEnvPrefix("SCAFFOLD")
	viper.AutomaticEnv()
	viper.ReadInConfig() // Ignore error - config file is optional
}

func initLogging() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// reportError prints a summary message, or the whole cause chain when the
// debug flag is set.
func reportError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	if !debug {
		return
	}
	for unwrapped := errors.Unwrap(err); unwrapped != nil; unwrapped = errors.Unwrap(unwrapped) {
		fmt.Fprintln(os.Stderr, "  caused by:", unwrapped)
	}
}
