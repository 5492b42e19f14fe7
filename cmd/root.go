/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"os"

	"github.com/fulmenhq/catgen/internal/catalog"
	"github.com/fulmenhq/catgen/internal/pipeline"
	"github.com/fulmenhq/catgen/pkg/buildinfo"
	"github.com/fulmenhq/catgen/pkg/config"
	"github.com/fulmenhq/catgen/pkg/exitcode"
	"github.com/fulmenhq/catgen/pkg/logger"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// Tests use it to build isolated command trees.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catgen",
		Short: "Generate category pages for a static site",
		Long: `Catgen scans a folder of content documents, counts the categories declared
in their front matter, saves the counts to a data file and writes one page per
category from a page template.

Examples:
   catgen                          # Generate the catalog and category pages
   catgen --posts-folder content   # Use a different content folder
   catgen watch                    # Regenerate whenever content changes
   catgen catalog list             # Show the saved category catalog
   catgen version                  # Show version`,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
		RunE: runGenerate,
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("config", "", "Config file (default: catgen.yaml|yml|json|toml in the working directory)")
	addConfigFlags(cmd)

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("catgen {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newWatchCommand())
	cmd.AddCommand(newCatalogCommand())
	cmd.AddCommand(newVersionCommand())
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command and exits with a code matching the failure.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := exitCodeFor(err)
		logger.Error("Command execution failed", logger.Err(err),
			logger.Int("exit_code", code), logger.String("exit_reason", exitcode.String(code)))
		os.Exit(code)
	}
}

func init() {
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the default logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	cfg := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "catgen",
	}
	if err := logger.Initialize(cfg); err != nil {
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
}

// enableDebug lowers the default logger to debug level unless the user asked
// for trace.
func enableDebug(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	if logger.ParseLevel(logLevelStr) <= logger.DebugLevel {
		return
	}
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	_ = logger.Initialize(logger.Config{
		Level:     logger.DebugLevel,
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "catgen",
	})
}

// exitCodeFor maps a failure to the process exit code.
func exitCodeFor(err error) int {
	var (
		validation *config.ValidationError
		precond    *pipeline.PreconditionError
		pagination *pipeline.MissingPaginationError
		header     *pipeline.HeaderNotFoundError
		write      *pipeline.PersistenceWriteError
		stored     *catalog.SchemaError
		cfgErr     *configError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &cfgErr),
		errors.As(err, &precond), errors.As(err, &pagination), errors.As(err, &header):
		return exitcode.ConfigError
	case errors.As(err, &write):
		return exitcode.FileSystemError
	case errors.As(err, &stored):
		return exitcode.ValidationError
	default:
		return exitcode.GeneralError
	}
}
