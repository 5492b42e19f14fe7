package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ErrHeaderNotFound is returned when a template has no ---delimited header block.
var ErrHeaderNotFound = errors.New("unable to match front matter in template file")

// headerPattern matches the first header block, marker lines included.
var headerPattern = regexp.MustCompile(`(?s)---[\r\n].*?[\r\n]---`)

// PaginationKey is the header field holding the page's pagination settings.
const PaginationKey = "pagination"

// Template is a page template split into its header block and the
// surrounding text, which is copied into every page unchanged.
type Template struct {
	Path string
	// Ext is the template's own extension, used for every generated page.
	Ext string

	content []byte
	start   int
	end     int
	fields  *object
}

// LoadTemplate reads and parses the template at path.
func LoadTemplate(path string) (*Template, error) {
	// #nosec G304 -- path is the configured template file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return ParseTemplate(path, content)
}

// ParseTemplate locates the header block in content and parses it as YAML.
// It returns ErrHeaderNotFound when there is no header block.
func ParseTemplate(path string, content []byte) (*Template, error) {
	loc := headerPattern.FindIndex(content)
	if loc == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrHeaderNotFound)
	}

	// Strip the marker and the newline on each side
	inner := content[loc[0]+4 : loc[1]-4]

	var doc yaml.Node
	if err := yaml.Unmarshal(inner, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse template header in %s: %w", path, err)
	}

	header := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := resolveAlias(doc.Content[0])
		switch {
		case root.Kind == yaml.MappingNode:
			header = root
		case root.Kind == yaml.ScalarNode && root.Tag == "!!null":
		default:
			return nil, fmt.Errorf("template header in %s is not a mapping", path)
		}
	}

	fields := newObject()
	if err := fillObject(fields, header); err != nil {
		return nil, fmt.Errorf("failed to read template header in %s: %w", path, err)
	}

	return &Template{
		Path:    path,
		Ext:     filepath.Ext(path),
		content: content,
		start:   loc[0],
		end:     loc[1],
		fields:  fields,
	}, nil
}

// HasPagination reports whether the header has a pagination mapping.
func (t *Template) HasPagination() bool {
	v, ok := t.fields.get(PaginationKey)
	if !ok {
		return false
	}
	_, isObject := v.(*object)
	return isObject
}

// splice replaces the header block with header, leaving the rest untouched.
func (t *Template) splice(header []byte) []byte {
	out := make([]byte, 0, len(t.content)-(t.end-t.start)+len(header))
	out = append(out, t.content[:t.start]...)
	out = append(out, header...)
	out = append(out, t.content[t.end:]...)
	return out
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
