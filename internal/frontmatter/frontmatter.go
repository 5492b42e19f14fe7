/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package frontmatter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	fm "github.com/adrg/frontmatter"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Uncategorized is the category assigned to content that declares none.
const Uncategorized = "Uncategorized"

// CategoriesKey is the header attribute holding a document's categories.
const CategoriesKey = "categories"

// Shape identifies how a document declared its categories.
type Shape int

const (
	ShapeAbsent Shape = iota
	ShapeList
	ShapeText
	ShapeUnsupported
)

func (s Shape) String() string {
	switch s {
	case ShapeAbsent:
		return "absent"
	case ShapeList:
		return "list"
	case ShapeText:
		return "text"
	default:
		return "unsupported"
	}
}

// Result is the outcome of reading one document's categories.
type Result struct {
	Categories []string
	Shape      Shape
	// HasHeader is false when the document carries no front matter block.
	HasHeader bool
}

var formats = []*fm.Format{
	fm.NewFormat("---", "---", yaml.Unmarshal),
	fm.NewFormat("+++", "+++", toml.Unmarshal),
}

var bom = []byte("\ufeff")

// Parse decodes the leading front matter block of content. A document without
// one yields a nil map and no error. A malformed or unclosed block is an error.
// A leading byte order mark is ignored.
func Parse(content []byte) (map[string]interface{}, error) {
	content = bytes.TrimPrefix(content, bom)
	if delim, ok := unclosed(content); ok {
		return nil, fmt.Errorf("failed to parse front matter: opening %q has no closing delimiter", delim)
	}

	var header map[string]interface{}
	if _, err := fm.Parse(bytes.NewReader(content), &header, formats...); err != nil {
		return nil, fmt.Errorf("failed to parse front matter: %w", err)
	}
	return header, nil
}

// unclosed reports whether content opens a front matter block that is never
// closed, and returns the block's delimiter.
func unclosed(content []byte) (string, bool) {
	lines := strings.Split(string(content), "\n")
	first := strings.TrimRight(lines[0], " \t\r")
	for _, f := range formats {
		if first != f.Start {
			continue
		}
		for _, line := range lines[1:] {
			if strings.TrimRight(line, " \t\r") == f.End {
				return "", false
			}
		}
		return f.Start, true
	}
	return "", false
}

// Extract reads the categories declared in content's front matter.
func Extract(content []byte) (*Result, error) {
	header, err := Parse(content)
	if err != nil {
		return nil, err
	}
	names, shape := Normalize(header[CategoriesKey])
	return &Result{Categories: names, Shape: shape, HasHeader: header != nil}, nil
}

// ExtractCategories returns the trimmed, non-empty category names declared in
// content, or [Uncategorized] when there are none.
func ExtractCategories(content []byte) ([]string, error) {
	res, err := Extract(content)
	if err != nil {
		return nil, err
	}
	return res.Categories, nil
}

// Normalize flattens a categories value into category names. Lists are joined
// with "," and split again, so a name cannot contain a comma. Values that are
// neither a list nor a scalar normalize to [Uncategorized].
func Normalize(value interface{}) ([]string, Shape) {
	var text string
	var shape Shape

	switch v := value.(type) {
	case nil:
		return []string{Uncategorized}, ShapeAbsent
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := scalarText(item)
			if !ok {
				return []string{Uncategorized}, ShapeUnsupported
			}
			parts = append(parts, s)
		}
		text, shape = strings.Join(parts, ","), ShapeList
	case []string:
		text, shape = strings.Join(v, ","), ShapeList
	default:
		s, ok := scalarText(v)
		if !ok {
			return []string{Uncategorized}, ShapeUnsupported
		}
		text, shape = s, ShapeText
	}

	names := splitNames(text)
	if len(names) == 0 {
		return []string{Uncategorized}, shape
	}
	return names, shape
}

func splitNames(text string) []string {
	var names []string
	for _, part := range strings.Split(text, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func scalarText(v interface{}) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", true
	case string:
		return s, true
	case bool:
		return strconv.FormatBool(s), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case uint64:
		return strconv.FormatUint(s, 10), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	default:
		return "", false
	}
}
