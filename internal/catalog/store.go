package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/fulmenhq/catgen/internal/schema"
	"github.com/fulmenhq/catgen/pkg/logger"
	"github.com/fulmenhq/catgen/pkg/safeio"
)

// SchemaError reports a persisted catalog that does not have the catalog shape.
type SchemaError struct {
	Path     string
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid category catalog %s: %s", e.Path, strings.Join(e.Problems, "; "))
}

// Load reads the catalog at path. A missing file is reported as absent with
// a nil error.
func Load(path string) (Catalog, bool, error) {
	// #nosec G304 -- path is the configured catalog location
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	res, err := schema.ValidateBytes(data, schema.CategoryCatalog)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check catalog %s: %w", path, err)
	}
	if !res.Valid {
		problems := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			problems = append(problems, e.Path+": "+e.Message)
		}
		return nil, false, &SchemaError{Path: path, Problems: problems}
	}

	c, err := Unmarshal(data)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode catalog %s: %w", path, err)
	}
	return c, true, nil
}

// SaveOptions controls catalog persistence.
type SaveOptions struct {
	// Attempts bounds write retries; values below 1 mean a single attempt.
	Attempts int
	Delay    time.Duration
	Logger   *logger.Logger
}

// Save replaces the file at path with the full catalog. Each attempt writes a
// temporary file and renames it over path, so a failed save leaves the
// previous catalog intact.
func Save(ctx context.Context, path string, c Catalog, opts SaveOptions) error {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	attempts := opts.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	return retry.Do(
		func() error {
			return safeio.WriteFileAtomic(path, data)
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("Retrying catalog write", logger.Int("attempt", int(n)+1), logger.Err(err))
		}),
	)
}
