package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fulmenhq/catgen/internal/pipeline"
	"github.com/fulmenhq/catgen/pkg/logger"
	"github.com/spf13/cobra"
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate category pages when content or the template changes",
		Long: `Watch runs generate once, then again after each burst of changes to the
content folder or the template, until interrupted. The categories folder and
the data file are never watched.`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
	cmd.Flags().Duration("debounce", pipeline.DefaultDebounce, "Quiet period after the last change before regenerating")
	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	debounce, _ := cmd.Flags().GetDuration("debounce")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Default()
	gen := pipeline.New(cfg, log)
	return pipeline.Watch(ctx, pipeline.WatchOptions{
		Dirs:  []string{cfg.PostsFolder},
		Files: []string{cfg.TemplateFileName},
		Ignore: []string{
			cfg.CategoriesFolder,
			cfg.DataFilePath(),
			// temporary files from atomic catalog writes
			filepath.Join(cfg.DataFolder, "."+cfg.DataFileName+".*.tmp"),
		},
		Debounce: debounce,
		Logger:   log,
		Run: func(ctx context.Context) error {
			_, err := gen.Run(ctx)
			return err
		},
	})
}
