package catalog

import (
	"fmt"
	"os"

	"github.com/fulmenhq/catgen/internal/frontmatter"
	"github.com/fulmenhq/catgen/internal/scanner"
	"github.com/fulmenhq/catgen/pkg/logger"
	"github.com/fulmenhq/catgen/pkg/safeio"
)

// AggregateOptions controls how content is folded into the catalog.
type AggregateOptions struct {
	// Extensions is the allow-list of content extensions; other files are skipped.
	Extensions []string
	// ImageProperties gives new records empty image metadata fields.
	ImageProperties bool
	// Root confines document reads to the content folder when set.
	Root string
	// ReadFile replaces document reads when set.
	ReadFile func(path string) ([]byte, error)
	Logger   *logger.Logger
}

// Aggregate recounts categories across files, seeded from existing. Existing
// records are reset to zero, every matching document adds one to each of its
// categories, records left at zero are dropped and the rest are sorted.
// existing is not modified. A document whose header cannot be parsed aborts
// the aggregation.
func Aggregate(existing Catalog, files []string, opts AggregateOptions) (Catalog, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	read := opts.ReadFile
	if read == nil {
		read = func(path string) ([]byte, error) {
			if opts.Root != "" {
				return safeio.ReadFileContained(opts.Root, path)
			}
			// #nosec G304 -- paths come from scanning the content folder
			return os.ReadFile(path)
		}
	}

	result := existing.Clone()
	for i := range result {
		result[i].Count = 0
	}

	for _, file := range files {
		if !scanner.HasExtension(file, opts.Extensions) {
			log.Debug("Skipping file", logger.String("file", file))
			continue
		}
		log.Debug("Parsing file", logger.String("file", file))

		content, err := read(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		extracted, err := frontmatter.Extract(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		if extracted.Shape == frontmatter.ShapeUnsupported {
			log.Warn("Unsupported categories value, treating as uncategorized", logger.String("file", file))
		}

		for _, name := range extracted.Categories {
			if idx := result.Find(name); idx >= 0 {
				result[idx].Count++
				continue
			}
			log.Info(fmt.Sprintf("Found category: %s", name))
			result = append(result, NewRecord(name, opts.ImageProperties))
		}
	}

	result = Prune(result)
	Sort(result)
	return result, nil
}

// Prune drops records with no documents and records with an empty name.
func Prune(c Catalog) Catalog {
	out := make(Catalog, 0, len(c))
	for _, r := range c {
		if r.Count > 0 && r.Category != "" {
			out = append(out, r)
		}
	}
	return out
}
