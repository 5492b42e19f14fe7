package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/fulmenhq/catgen/pkg/config"
	"golang.org/x/sync/errgroup"
)

type requirement struct {
	path   string
	folder bool
}

func requirements(cfg *config.Config) []requirement {
	return []requirement{
		{path: cfg.CategoriesFolder, folder: true},
		{path: cfg.DataFolder, folder: true},
		{path: cfg.PostsFolder, folder: true},
		{path: cfg.TemplateFileName, folder: false},
	}
}

// ValidatePreconditions checks that the output, data and content folders and
// the template file exist. All checks run; failures are reported together in
// a PreconditionError, in configuration order.
func ValidatePreconditions(ctx context.Context, cfg *config.Config) error {
	reqs := requirements(cfg)
	problems := make([]string, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			problems[i] = check(req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var found []string
	for _, p := range problems {
		if p != "" {
			found = append(found, p)
		}
	}
	if len(found) > 0 {
		return &PreconditionError{Problems: found}
	}
	return nil
}

func check(req requirement) string {
	info, err := os.Stat(req.path)
	if req.folder {
		if err != nil || !info.IsDir() {
			return fmt.Sprintf("The '%s' folder is required, but does not exist.", req.path)
		}
		return ""
	}
	if err != nil {
		return fmt.Sprintf("The '%s' file is required, but does not exist.", req.path)
	}
	return ""
}
