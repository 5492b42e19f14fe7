package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/catgen/pkg/logger"
)

// NotFoundError reports a scan root that does not exist.
type NotFoundError struct {
	Root string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("content folder %s does not exist", e.Root)
}

func (e *NotFoundError) Unwrap() error { return fs.ErrNotExist }

// Options controls a scan.
type Options struct {
	// Exclude holds doublestar patterns matched against slash-separated paths
	// relative to the scan root. A matching directory is pruned.
	Exclude []string
	Logger  *logger.Logger
}

// Scan recursively lists every file under root as an absolute path, in
// lexical walk order. Extension filtering is left to the caller.
func Scan(root string, opts Options) ([]string, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Root: root}
		}
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content folder %s is not a directory", root)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == absRoot {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		if excluded(filepath.ToSlash(rel), opts.Exclude) {
			log.Debug("Excluding path", logger.String("path", rel))
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				log.Debug("Skipping broken symlink", logger.String("path", rel))
				return nil
			}
			if target.IsDir() {
				log.Debug("Skipping symlinked directory", logger.String("path", rel))
				return nil
			}
			files = append(files, path)
			return nil
		}

		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	log.Debug("Scanned content folder", logger.String("root", absRoot), logger.Int("files", len(files)))
	return files, nil
}

// HasExtension reports whether path's lowercased extension is in the allow-list.
func HasExtension(path string, extensions []string) bool {
	return slices.Contains(extensions, strings.ToLower(filepath.Ext(path)))
}

// Filter returns the files whose extension is in the allow-list.
func Filter(files []string, extensions []string) []string {
	var out []string
	for _, f := range files {
		if HasExtension(f, extensions) {
			out = append(out, f)
		}
	}
	return out
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if matched, err := doublestar.Match(p, rel); err == nil && matched {
			return true
		}
	}
	return false
}
