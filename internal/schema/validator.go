package schema

import (
	"encoding/json"
	"fmt"

	"github.com/fulmenhq/catgen/internal/assets"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// CategoryCatalog names the schema for the persisted category catalog.
const CategoryCatalog = "category-catalog-v1.0.0"

// ValidationError represents a single validation error.
type ValidationError struct {
	Path    string `json:"path,omitempty"` // e.g. "0.category"
	Message string `json:"message"`
}

// Result holds the validation result.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// registry holds pre-compiled schemas for known schema names.
var registry = make(map[string]*gojsonschema.Schema)

func init() {
	known := map[string]string{
		CategoryCatalog: assets.CatalogSchemaPath,
	}
	for name, path := range known {
		schema, err := compile(path)
		if err != nil {
			// Unknown at lookup time
			continue
		}
		registry[name] = schema
	}
}

func compile(path string) (*gojsonschema.Schema, error) {
	schemaBytes, ok := assets.GetSchema(path)
	if !ok {
		return nil, fmt.Errorf("embedded schema %s not found", path)
	}

	// Convert YAML to JSON for gojsonschema
	var schemaData interface{}
	if err := yaml.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, err
	}
	jsonBytes, err := json.Marshal(schemaData)
	if err != nil {
		return nil, err
	}
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jsonBytes))
}

// ValidateBytes validates a raw JSON document against the named schema.
func ValidateBytes(doc []byte, schemaName string) (*Result, error) {
	return validate(gojsonschema.NewBytesLoader(doc), schemaName)
}

func validate(docLoader gojsonschema.JSONLoader, schemaName string) (*Result, error) {
	schema, ok := registry[schemaName]
	if !ok {
		return nil, fmt.Errorf("schema %s not found in registry", schemaName)
	}

	result, err := schema.Validate(docLoader)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	res := &Result{Valid: result.Valid()}
	if !result.Valid() {
		for _, verr := range result.Errors() {
			field := verr.Field()
			if field == "" {
				field = "root"
			}
			res.Errors = append(res.Errors, ValidationError{
				Path:    field,
				Message: verr.Description(),
			})
		}
	}

	return res, nil
}
