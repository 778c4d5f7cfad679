package sentiment

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/spacesedan/sentiscope/internal/models"
)

const (
	SchemaName        = "sentiment_result"
	SchemaDescription = "Sentiment classification of a text with per-class probabilities."

	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	itemsKey                = "items"
)

var (
	schemaOnce sync.Once
	schemaMap  map[string]any
	schemaErr  error
)

// Schema returns the JSON schema of models.SentimentResult in the strict
// form accepted by OpenAI structured outputs. Callers must not mutate it.
func Schema() (map[string]any, error) {
	schemaOnce.Do(func() {
		schemaMap, schemaErr = generateSchema()
	})
	return schemaMap, schemaErr
}

func generateSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		Mapper:                     labelMapper,
	}
	schema := reflector.Reflect(models.SentimentResult{})

	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	// draft and id keys are not accepted by the responses API
	delete(m, "$schema")
	delete(m, "$id")

	ensureOpenAICompliance(m)
	return m, nil
}

// labelMapper renders SentimentLabel as a closed string enum.
func labelMapper(t reflect.Type) *jsonschema.Schema {
	if t != reflect.TypeOf(models.SentimentLabel("")) {
		return nil
	}
	enum := make([]any, 0, len(models.SentimentLabels))
	for _, l := range models.SentimentLabels {
		enum = append(enum, string(l))
	}
	return &jsonschema.Schema{Type: "string", Enum: enum}
}

func ensureOpenAICompliance(schema map[string]any) {
	if schemaType, ok := schema[typeKey].(string); ok && schemaType == "object" {
		schema[additionalPropertiesKey] = false

		if properties, ok := schema[propertiesKey].(map[string]any); ok {
			var requiredFields []string
			for propName := range properties {
				requiredFields = append(requiredFields, propName)
			}
			if len(requiredFields) > 0 {
				slices.Sort(requiredFields)
				schema[requiredKey] = requiredFields
			}
		}
	}

	if properties, ok := schema[propertiesKey].(map[string]any); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]any); ok {
				ensureOpenAICompliance(propMap)
			}
		}
	}

	if items, ok := schema[itemsKey].(map[string]any); ok {
		ensureOpenAICompliance(items)
	}
}
