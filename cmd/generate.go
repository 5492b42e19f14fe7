package cmd

import (
	"fmt"

	"github.com/fulmenhq/catgen/internal/pipeline"
	"github.com/fulmenhq/catgen/pkg/config"
	"github.com/fulmenhq/catgen/pkg/logger"
	"github.com/spf13/cobra"
)

func newGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Rebuild the category catalog and pages (default command)",
		Long: `Generate validates the configured folders, counts categories across the
content folder, writes the category data file and replaces the pages in the
categories folder with one page per category.

Errors are logged and the run carries on where it can. With --fail-fast the
first error stops the run with a non-zero exit code.`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	res, err := pipeline.New(cfg, logger.Default()).Run(cmd.Context())
	if err != nil {
		return err
	}
	logger.Debug("Run complete",
		logger.String("run_id", res.RunID),
		logger.Int("files", res.Files),
		logger.Int("categories", len(res.Catalog)),
		logger.Int("pages", len(res.Pages)),
		logger.Int("errors", len(res.Errors)),
	)
	return nil
}

// configError marks a configuration that could not be loaded.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// loadConfig reads configuration for cmd and applies --debug to the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{ConfigFile: path, Flags: cmd.Flags()})
	if err != nil {
		return nil, &configError{err: fmt.Errorf("failed to load configuration: %w", err)}
	}
	if cfg.DebugMode {
		enableDebug(cmd)
	}
	return cfg, nil
}

// addConfigFlags registers the configuration flags as persistent flags, so
// every command accepts them.
func addConfigFlags(cmd *cobra.Command) {
	d := config.Default()
	f := cmd.PersistentFlags()
	f.String("categories-folder", d.CategoriesFolder, "Output folder for generated category pages")
	f.String("data-file", d.DataFileName, "Category data file name")
	f.String("data-folder", d.DataFolder, "Folder holding the category data file")
	f.StringSlice("extensions", d.PostExtensions, "Content file extensions to read")
	f.String("posts-folder", d.PostsFolder, "Content folder to scan")
	f.String("template", d.TemplateFileName, "Category page template")
	f.Bool("image-properties", d.ImageProperties, "Add empty image fields to new categories")
	f.StringSlice("exclude", nil, "Glob patterns, relative to the content folder, to skip")
	f.Int("write-attempts", d.WriteAttempts, "Attempts when writing the category data file")
	f.Bool("fail-fast", false, "Stop at the first error with a non-zero exit code")
	f.Bool("debug", false, "Log debug output including category tables")
}
