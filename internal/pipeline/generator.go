package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/catgen/internal/catalog"
	"github.com/fulmenhq/catgen/internal/render"
	"github.com/fulmenhq/catgen/internal/scanner"
	"github.com/fulmenhq/catgen/pkg/config"
	"github.com/fulmenhq/catgen/pkg/logger"
	"github.com/fulmenhq/catgen/pkg/safeio"
	"github.com/google/uuid"
)

// Result summarizes one run.
type Result struct {
	RunID string
	// Files is the number of content documents with an allowed extension.
	Files   int
	Catalog catalog.Catalog
	// Pages holds the paths of the pages written, in catalog order.
	Pages []string
	// NoContent is set when the content folder had nothing to process.
	NoContent bool
	// Errors holds every error logged during the run.
	Errors []error
}

// Generator builds the category catalog and pages for one configuration.
type Generator struct {
	cfg *config.Config
	log *logger.Logger
}

// New returns a generator for cfg. A nil logger uses the default logger.
func New(cfg *config.Config, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Default()
	}
	return &Generator{cfg: cfg, log: log}
}

// run carries the state of a single invocation.
type run struct {
	cfg      *config.Config
	log      *logger.Logger
	failFast bool
	debug    bool
	result   *Result
}

// Run executes the pipeline once. Every error is logged and recorded in the
// result. With QuitOnError set the first error stops the run and is
// returned; otherwise the run carries on where it can and returns nil.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	id := uuid.NewString()
	r := &run{
		cfg:      g.cfg,
		log:      g.log.With(logger.String("run_id", id)),
		failFast: g.cfg.QuitOnError,
		debug:    g.cfg.DebugMode,
		result:   &Result{RunID: id},
	}
	return r.result, r.execute(ctx)
}

// fail logs and records err, and returns it when the run must stop.
func (r *run) fail(err error) error {
	r.log.Error(err.Error())
	r.result.Errors = append(r.result.Errors, err)
	if r.failFast {
		return err
	}
	return nil
}

func (r *run) execute(ctx context.Context) error {
	cfg := r.cfg
	r.log.Debug("Debug mode enabled")
	if r.debug {
		r.log.Debug("Configuration",
			logger.String("categoriesFolder", cfg.CategoriesFolder),
			logger.String("dataFile", cfg.DataFilePath()),
			logger.String("postsFolder", cfg.PostsFolder),
			logger.Strings("postExtensions", cfg.PostExtensions),
			logger.String("templateFileName", cfg.TemplateFileName),
			logger.Bool("imageProperties", cfg.ImageProperties),
			logger.Bool("quitOnError", cfg.QuitOnError),
		)
	}

	if err := ValidatePreconditions(ctx, cfg); err != nil {
		var pe *PreconditionError
		if !errors.As(err, &pe) {
			err = &UnhandledError{Op: "validate configuration", Err: err}
		}
		return r.fail(err)
	}

	r.log.Debug(fmt.Sprintf("Reading template file %s", cfg.TemplateFileName))
	tpl, err := render.LoadTemplate(cfg.TemplateFileName)
	switch {
	case errors.Is(err, render.ErrHeaderNotFound):
		// The catalog is still rebuilt; only pages depend on the header
		tpl = nil
		if err := r.fail(&HeaderNotFoundError{Template: cfg.TemplateFileName}); err != nil {
			return err
		}
	case err != nil:
		return r.fail(&UnhandledError{Op: "read template", Err: err})
	case !tpl.HasPagination():
		if err := r.fail(&MissingPaginationError{Template: cfg.TemplateFileName}); err != nil {
			return err
		}
	}

	existing, found, err := catalog.Load(cfg.DataFilePath())
	if err != nil {
		return r.fail(&UnhandledError{Op: "read category data", Err: err})
	}
	if found {
		r.log.Debug(fmt.Sprintf("Read existing categories file %s", cfg.DataFilePath()))
		r.table(existing)
	} else {
		r.log.Info("Category data file not found, creating...")
	}

	r.log.Info("Building file list...")
	files, err := scanner.Scan(cfg.PostsFolder, scanner.Options{Exclude: cfg.ExcludePatterns, Logger: r.log})
	if err != nil {
		return r.fail(&UnhandledError{Op: "scan content", Err: err})
	}
	r.result.Files = len(scanner.Filter(files, cfg.PostExtensions))
	if r.result.Files == 0 {
		r.result.NoContent = true
		r.log.Warn((&EmptyContentError{Folder: cfg.PostsFolder, Extensions: cfg.PostExtensions}).Error() + ", exiting")
		return nil
	}

	r.log.Info(fmt.Sprintf("Processing %d files", r.result.Files))
	r.log.Info("Building category list...")
	categories, err := catalog.Aggregate(existing, files, catalog.AggregateOptions{
		Extensions:      cfg.PostExtensions,
		ImageProperties: cfg.ImageProperties,
		Root:            cfg.PostsFolder,
		Logger:          r.log,
	})
	if err != nil {
		return r.fail(&UnhandledError{Op: "build category list", Err: err})
	}
	r.result.Catalog = categories
	r.log.Info(fmt.Sprintf("Identified %d categories", len(categories)))
	r.table(categories)

	r.log.Info(fmt.Sprintf("Writing categories to %s", cfg.DataFilePath()))
	if err := catalog.Save(ctx, cfg.DataFilePath(), categories, catalog.SaveOptions{
		Attempts: cfg.WriteAttempts,
		Logger:   r.log,
	}); err != nil {
		if err := r.fail(&PersistenceWriteError{Path: cfg.DataFilePath(), Err: err}); err != nil {
			return err
		}
	}

	if tpl == nil {
		r.log.Warn("Skipping category pages, the template has no front matter")
		return nil
	}
	if err := r.writePages(ctx, tpl, categories); err != nil {
		return err
	}
	r.log.Info("Finished writing category documents")
	return nil
}

func (r *run) writePages(ctx context.Context, tpl *render.Template, categories catalog.Catalog) error {
	out := r.cfg.CategoriesFolder
	r.log.Debug(fmt.Sprintf("Emptying categories folder: %s", out))
	if err := safeio.EmptyDir(out); err != nil {
		return r.fail(&PersistenceWriteError{Path: out, Err: err})
	}

	names := make(map[string]string, len(categories))
	for _, rec := range categories {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rec.Category == "" {
			continue
		}
		r.log.Debug(fmt.Sprintf("Processing category: %s", rec.Category))

		page, err := tpl.Render(rec)
		if err != nil {
			if err := r.fail(&UnhandledError{Op: "render " + rec.Category, Err: err}); err != nil {
				return err
			}
			continue
		}
		if other, ok := names[page.Name]; ok {
			r.log.Warn(fmt.Sprintf("Categories %q and %q share the page %s, the later one wins", other, rec.Category, page.Name))
		}
		names[page.Name] = rec.Category

		path, err := render.WritePage(out, page)
		if err != nil {
			if err := r.fail(&PersistenceWriteError{Path: filepath.Join(out, page.Name), Err: err}); err != nil {
				return err
			}
			continue
		}
		r.log.Debug(fmt.Sprintf("Wrote category page: %s", path))
		r.result.Pages = append(r.result.Pages, path)
	}
	return nil
}

// table logs the catalog as a table in debug mode.
func (r *run) table(c catalog.Catalog) {
	if !r.debug || !r.log.Enabled(logger.DebugLevel) {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(catalog.Table(c), "\n"), "\n") {
		r.log.Debug(line)
	}
}
