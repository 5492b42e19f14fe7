package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aymerick/raymond"
	"github.com/fulmenhq/catgen/internal/assets"
	"github.com/fulmenhq/catgen/internal/frontmatter"
)

var (
	predicateOnce sync.Once
	predicateTpl  *raymond.Template
	predicateErr  error
)

func predicateTemplate() (*raymond.Template, error) {
	predicateOnce.Do(func() {
		src, ok := assets.GetTemplate(assets.PaginationBeforePath)
		if !ok {
			predicateErr = fmt.Errorf("embedded template %s not found", assets.PaginationBeforePath)
			return
		}
		predicateTpl, predicateErr = raymond.Parse(string(src))
	})
	return predicateTpl, predicateErr
}

// Predicate returns the source of the pagination filter for category: it
// keeps the items tagged with category, or the untagged items for
// Uncategorized, newest first.
func Predicate(category string) (string, error) {
	tpl, err := predicateTemplate()
	if err != nil {
		return "", err
	}
	literal, err := stringLiteral(category)
	if err != nil {
		return "", err
	}
	out, err := tpl.Exec(map[string]interface{}{
		"uncategorized":   category == frontmatter.Uncategorized,
		"categoryLiteral": literal,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render pagination filter: %w", err)
	}
	return strings.TrimSpace(out), nil
}
