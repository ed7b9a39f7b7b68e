// Package contract pins the provider payload schema for each adapter version
// as JSON Schema, so a change to an adapter that would break the provider's
// expectations fails loudly in tests.
package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"applygate/internal/transform"
)

// ErrNoSchema is returned for versions without a pinned schema.
var ErrNoSchema = errors.New("no contract schema for version")

var stringField = map[string]any{"type": "string"}

func schemaFor(required []string, pattern map[string]string) map[string]any {
	props := make(map[string]any, len(required))
	for _, name := range required {
		props[name] = stringField
	}
	for name, re := range pattern {
		props[name] = map[string]any{"type": "string", "pattern": re}
	}
	return map[string]any{
		"type":                 "object",
		"required":             required,
		"properties":           props,
		"additionalProperties": false,
	}
}

var schemas = map[transform.Version]map[string]any{
	transform.V1: schemaFor(
		[]string{
			"name_first", "name_last",
			"address_line_1", "address_line_2", "address_city", "address_state", "address_postal_code",
			"document_ssn", "email_address", "phone_number", "birth_date",
		},
		map[string]string{"document_ssn": `^[0-9]*$`},
	),
	transform.V2: schemaFor(
		[]string{
			"name_first", "name_last",
			"address_line_1", "address_line_2", "address_city", "address_state", "address_postal_code",
			"address_country_code",
			"social_security_number", "email", "phone_number", "birth_date",
		},
		map[string]string{"social_security_number": `^[0-9]*$`},
	),
}

// Schema returns the JSON schema document pinned for version.
func Schema(version transform.Version) (map[string]any, error) {
	s, ok := schemas[version]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSchema, version)
	}
	return s, nil
}

// Validate checks payload against the schema pinned for version.
func Validate(version transform.Version, payload transform.Payload) error {
	schema, err := Schema(version)
	if err != nil {
		return err
	}

	doc := make(map[string]any, len(payload))
	for k, v := range payload {
		doc[k] = v
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("contract validation error: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			msgs[i] = desc.String()
		}
		return fmt.Errorf("payload violates %s contract: %s", version, strings.Join(msgs, "; "))
	}
	return nil
}
