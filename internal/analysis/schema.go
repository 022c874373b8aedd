package analysis

import (
	_ "embed"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var (
	compiledSchema *gojsonschema.Schema
	schemaErr      error
	schemaOnce     sync.Once
)

// SchemaIssue is one place where a raw response departs from the expected
// analysis shape.
type SchemaIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	})
	return compiledSchema, schemaErr
}

// ValidateRaw reports how raw departs from the analysis schema. It is
// informational: Normalize accepts any input regardless of these issues.
func ValidateRaw(raw Raw) []SchemaIssue {
	schema, err := loadSchema()
	if err != nil {
		return []SchemaIssue{{Field: "(schema)", Message: err.Error()}}
	}

	doc := map[string]any(raw)
	if doc == nil {
		doc = map[string]any{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return []SchemaIssue{{Field: "(root)", Message: err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	issues := make([]SchemaIssue, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		issues = append(issues, SchemaIssue{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return issues
}
