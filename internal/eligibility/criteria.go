// Package eligibility matches persons against a program's criteria document.
//
// The criteria document is a free-form JSON object. Known keys are typed and
// validated against criteriaSchema; unknown keys are kept verbatim and ignored
// by matching.
package eligibility

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	dErrors "rsu/pkg/domain-errors"
	rsustrings "rsu/pkg/platform/strings"
)

const criteriaSchemaJSON = `{
	"type": "object",
	"properties": {
		"min_vulnerability_score": {"type": ["number", "null"], "minimum": 0, "maximum": 100},
		"min_age":                 {"type": ["integer", "null"], "minimum": 0, "maximum": 130},
		"max_age":                 {"type": ["integer", "null"], "minimum": 0, "maximum": 130},
		"provinces":               {"type": ["array", "null"], "items": {"type": "string", "minLength": 1}},
		"gender":                  {"type": ["string", "null"], "enum": ["M", "F", "m", "f", null]},
		"min_household_size":      {"type": ["integer", "null"], "minimum": 1}
	},
	"additionalProperties": true
}`

var criteriaSchema = mustSchema(criteriaSchemaJSON)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic("eligibility: invalid criteria schema: " + err.Error())
	}
	return schema
}

// Criteria is a parsed criteria document. Nil or empty fields are
// unspecified.
type Criteria struct {
	MinVulnerabilityScore *float64 `json:"min_vulnerability_score,omitempty"`
	MinAge                *int     `json:"min_age,omitempty"`
	MaxAge                *int     `json:"max_age,omitempty"`
	Provinces             []string `json:"provinces,omitempty"`
	Gender                string   `json:"gender,omitempty"`
	MinHouseholdSize      *int     `json:"min_household_size,omitempty"`

	raw json.RawMessage
}

// ParseCriteria validates and parses a criteria document. An empty body or
// JSON null yields empty criteria.
func ParseCriteria(raw []byte) (Criteria, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Criteria{}, nil
	}

	result, err := criteriaSchema.Validate(gojsonschema.NewBytesLoader(trimmed))
	if err != nil {
		return Criteria{}, dErrors.FieldError("criteria", "criteria must be a JSON object")
	}
	if !result.Valid() {
		fields := dErrors.FieldErrors{}
		for _, desc := range result.Errors() {
			field := "criteria"
			if f := desc.Field(); f != "" && f != "(root)" {
				field = "criteria." + f
			}
			fields.Add(field, desc.Description())
		}
		return Criteria{}, fields.Err("invalid criteria")
	}

	var c Criteria
	if err := json.Unmarshal(trimmed, &c); err != nil {
		return Criteria{}, dErrors.FieldError("criteria", "criteria must be a JSON object")
	}
	c.Gender = strings.ToUpper(c.Gender)
	c.Provinces = rsustrings.DedupeNormalized(c.Provinces)
	if c.MinAge != nil && c.MaxAge != nil && *c.MinAge > *c.MaxAge {
		return Criteria{}, dErrors.FieldError("criteria.max_age", "max_age must not be below min_age")
	}
	c.raw = append(json.RawMessage(nil), trimmed...)
	return c, nil
}

// Document returns the criteria as stored: the original document when the
// criteria were parsed, otherwise the known fields.
func (c Criteria) Document() json.RawMessage {
	if len(c.raw) > 0 {
		return c.raw
	}
	b, err := json.Marshal(c)
	if err != nil {
		return json.RawMessage("{}")
	}
	return b
}

// IsEmpty reports whether no criterion is specified.
func (c Criteria) IsEmpty() bool {
	return c.MinVulnerabilityScore == nil && c.MinAge == nil && c.MaxAge == nil &&
		len(c.Provinces) == 0 && c.Gender == "" && c.MinHouseholdSize == nil
}
