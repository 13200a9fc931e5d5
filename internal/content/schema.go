package content

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const documentSchema = `{
  "type": "object",
  "required": ["id", "topic", "subject", "difficulty"],
  "properties": {
    "id":         {"type": "string", "minLength": 1},
    "topic":      {"type": "string", "minLength": 1},
    "subject":    {"type": "string", "minLength": 1},
    "difficulty": {"type": "string", "enum": ["EASY", "MEDIUM", "HARD"]},
    "keywords":   {"type": "array", "items": {"type": "string", "minLength": 1}},
    "content":    {"type": "string"}
  }
}`

const quizSchema = `{
  "type": "object",
  "required": ["id", "title", "subject", "difficulty", "questions"],
  "properties": {
    "id":         {"type": "string", "minLength": 1},
    "title":      {"type": "string", "minLength": 1},
    "subject":    {"type": "string", "minLength": 1},
    "difficulty": {"type": "string", "enum": ["EASY", "MEDIUM", "HARD"]},
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "text", "topic", "options", "correct_answer"],
        "properties": {
          "id":             {"type": "string", "minLength": 1},
          "text":           {"type": "string", "minLength": 1},
          "topic":          {"type": "string", "minLength": 1},
          "options":        {"type": "array", "minItems": 2, "items": {"type": "string"}},
          "correct_answer": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

var (
	documentValidator = mustSchema(documentSchema)
	quizValidator     = mustSchema(quizSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("content: invalid schema: %v", err))
	}
	return s
}

// validate checks a decoded YAML value against a schema and joins all
// violations into one error.
func validate(schema *gojsonschema.Schema, raw map[string]any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema violations: %s", strings.Join(msgs, "; "))
}
