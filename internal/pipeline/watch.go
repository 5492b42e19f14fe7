package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/fulmenhq/catgen/pkg/logger"
)

// DefaultDebounce is the quiet period after the last change before a rebuild.
const DefaultDebounce = 500 * time.Millisecond

// WatchOptions controls Watch.
type WatchOptions struct {
	// Dirs are watched recursively, including directories created later.
	Dirs []string
	// Files are watched individually.
	Files []string
	// Ignore lists files, directories or glob patterns whose changes never
	// trigger a run, such as the generated pages and the catalog.
	Ignore   []string
	Debounce time.Duration
	Run      func(context.Context) error
	Logger   *logger.Logger
}

// Watch calls Run once, then again after each burst of changes, until ctx is
// done. Runs never overlap. An error from Run stops the watch and is returned.
func Watch(ctx context.Context, opts WatchOptions) error {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	m := &matcher{dirs: absAll(opts.Dirs), files: absAll(opts.Files), ignore: absAll(opts.Ignore)}
	for _, dir := range m.dirs {
		if err := addRecursive(w, dir, m); err != nil {
			return err
		}
	}
	for _, file := range m.files {
		// Editors replace files on save, so watch the parent directory
		if err := w.Add(filepath.Dir(file)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", file, err)
		}
	}

	if err := opts.Run(ctx); err != nil {
		return err
	}
	log.Info("Watching for changes", logger.Strings("dirs", m.dirs), logger.Strings("files", m.files))

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !m.relevant(event) {
				continue
			}
			log.Debug("Change detected", logger.String("path", event.Name), logger.String("op", event.Op.String()))
			if event.Has(fsnotify.Create) && m.underDir(event.Name) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addRecursive(w, event.Name, m); err != nil {
						log.Warn("Failed to watch new directory", logger.String("path", event.Name), logger.Err(err))
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("File watcher error", logger.Err(err))
		case <-fire:
			fire = nil
			log.Info("Regenerating category pages")
			if err := opts.Run(ctx); err != nil {
				return err
			}
		}
	}
}

type matcher struct {
	dirs   []string
	files  []string
	ignore []string
}

func (m *matcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if m.ignored(event.Name) {
		return false
	}
	for _, f := range m.files {
		if event.Name == f {
			return true
		}
	}
	return m.underDir(event.Name)
}

func (m *matcher) underDir(path string) bool {
	for _, d := range m.dirs {
		if within(path, d) {
			return true
		}
	}
	return false
}

func (m *matcher) ignored(path string) bool {
	for _, ig := range m.ignore {
		if within(path, ig) {
			return true
		}
		if matched, err := doublestar.PathMatch(ig, path); err == nil && matched {
			return true
		}
	}
	return false
}

func addRecursive(w *fsnotify.Watcher, root string, m *matcher) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if m.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// within reports whether path is base or lies below it.
func within(path, base string) bool {
	if path == base {
		return true
	}
	return strings.HasPrefix(path, base+string(filepath.Separator))
}

func absAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			out = append(out, abs)
		}
	}
	return out
}
