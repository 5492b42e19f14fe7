package render

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fulmenhq/catgen/internal/catalog"
	"github.com/fulmenhq/catgen/pkg/safeio"
)

// ErrEmptyCategory is returned for a record with an empty category name.
var ErrEmptyCategory = errors.New("category name is empty")

// Page is one generated category page.
type Page struct {
	Category string
	// Name is the page's file name: the category slug plus the template extension.
	Name    string
	Content []byte
}

// Render builds the page for rec. The template header is re-emitted as a
// JavaScript front matter block with category, description and the
// pagination filter set; the rest of the template is copied as is.
func (t *Template) Render(rec catalog.Record) (*Page, error) {
	if rec.Category == "" {
		return nil, ErrEmptyCategory
	}

	before, err := Predicate(rec.Category)
	if err != nil {
		return nil, err
	}

	fields := t.fields.clone()
	fields.set("category", rec.Category)
	fields.set("description", rec.Description)

	pagination := newObject()
	if v, ok := fields.get(PaginationKey); ok {
		if existing, isObject := v.(*object); isObject {
			pagination = existing.clone()
		}
	}
	pagination.set("before", code(before))
	fields.set(PaginationKey, pagination)

	var header bytes.Buffer
	header.WriteString("---js\n")
	if err := writeJSON(&header, fields, 0); err != nil {
		return nil, fmt.Errorf("failed to encode header for %s: %w", rec.Category, err)
	}
	header.WriteString("\n---")

	return &Page{
		Category: rec.Category,
		Name:     Slug(rec.Category) + t.Ext,
		Content:  t.splice(header.Bytes()),
	}, nil
}

// WritePage writes p into outputDir and returns its path. A name that would
// land outside outputDir is rejected.
func WritePage(outputDir string, p *Page) (string, error) {
	path := filepath.Join(outputDir, p.Name)
	if err := safeio.WriteFileContained(outputDir, path, p.Content); err != nil {
		return path, err
	}
	return path, nil
}
