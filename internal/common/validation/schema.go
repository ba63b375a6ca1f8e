// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SendRequestSchema validates the body of POST /api/notifications/send.
const SendRequestSchema = `{
	"type": "object",
	"properties": {
		"eventType": {
			"type": "string",
			"minLength": 1
		},
		"orgId": {
			"type": "string"
		},
		"data": {
			"type": "object"
		}
	},
	"required": ["eventType"],
	"additionalProperties": false
}`

// SettingUpsertSchema validates the body of the org-setting upsert endpoint.
const SettingUpsertSchema = `{
	"type": "object",
	"properties": {
		"enabled": {
			"type": "boolean"
		},
		"channels": {
			"type": "array",
			"items": {
				"type": "string",
				"enum": ["mail", "system", "sms"]
			}
		}
	},
	"required": ["enabled"],
	"additionalProperties": false
}`

// TemplateUpsertSchema validates the body of the org-template upsert endpoint.
const TemplateUpsertSchema = `{
	"type": "object",
	"properties": {
		"subject": {
			"type": "string",
			"minLength": 1
		},
		"bodyHtml": {
			"type": "string",
			"minLength": 1
		}
	},
	"required": ["subject", "bodyHtml"],
	"additionalProperties": false
}`

// Validate checks raw JSON bytes against a schema document and returns a
// single aggregated error message when validation fails.
func Validate(schema string, body []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("invalid request: %s", strings.Join(msgs, "; "))
}
