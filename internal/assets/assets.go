package assets

import (
	"embed"
	"io/fs"
)

//go:embed embedded_templates
var Templates embed.FS

//go:embed embedded_schemas
var Schemas embed.FS

// CatalogSchemaPath is the embedded schema for the persisted category catalog.
const CatalogSchemaPath = "catalog/category-catalog-v1.0.0.yaml"

// PaginationBeforePath is the code template rendered into each page's pagination.before.
const PaginationBeforePath = "pagination/before.js.hbs"

func GetTemplatesFS() fs.FS {
	if sub, err := fs.Sub(Templates, "embedded_templates"); err == nil {
		return sub
	}
	return Templates
}

func GetSchemasFS() fs.FS {
	if sub, err := fs.Sub(Schemas, "embedded_schemas"); err == nil {
		return sub
	}
	return Schemas
}

// GetSchema returns the embedded schema bytes by path relative to the schema root.
func GetSchema(relPath string) ([]byte, bool) {
	data, err := fs.ReadFile(GetSchemasFS(), relPath)
	return data, err == nil && len(data) > 0
}

// GetTemplate returns the embedded template bytes by path relative to the template root.
func GetTemplate(relPath string) ([]byte, bool) {
	data, err := fs.ReadFile(GetTemplatesFS(), relPath)
	return data, err == nil && len(data) > 0
}
