package pipeline

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/catgen/internal/render"
)

// PreconditionError lists every missing input folder or file.
type PreconditionError struct {
	Problems []string
}

func (e *PreconditionError) Error() string {
	var b strings.Builder
	b.WriteString("Configuration file errors:\n")
	for _, p := range e.Problems {
		b.WriteString("\n")
		b.WriteString(p)
	}
	return b.String()
}

// MissingPaginationError reports a template header without pagination settings.
type MissingPaginationError struct {
	Template string
}

func (e *MissingPaginationError) Error() string {
	return fmt.Sprintf("the template file %s does not contain the pagination front matter", e.Template)
}

// EmptyContentError reports a content folder with no matching documents.
// It ends a run successfully.
type EmptyContentError struct {
	Folder     string
	Extensions []string
}

func (e *EmptyContentError) Error() string {
	return fmt.Sprintf("no post files found in %s (extensions: %s)", e.Folder, strings.Join(e.Extensions, ", "))
}

// HeaderNotFoundError reports a template without a header block. Pages cannot
// be rendered from it.
type HeaderNotFoundError struct {
	Template string
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("unable to match front matter in template file %s", e.Template)
}

func (e *HeaderNotFoundError) Unwrap() error { return render.ErrHeaderNotFound }

// PersistenceWriteError reports a failed write of the catalog or of a page.
type PersistenceWriteError struct {
	Path string
	Err  error
}

func (e *PersistenceWriteError) Error() string {
	return fmt.Sprintf("error writing %s: %v", e.Path, e.Err)
}

func (e *PersistenceWriteError) Unwrap() error { return e.Err }

// UnhandledError wraps any other failure with the step that produced it.
type UnhandledError struct {
	Op  string
	Err error
}

func (e *UnhandledError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UnhandledError) Unwrap() error { return e.Err }
