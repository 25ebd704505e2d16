package jsonschema

// Schema is a minimal JSON Schema representation used for export. It covers
// the keywords the engine emits; extend incrementally as new constraints gain
// a JSON Schema projection.
type Schema struct {
	// Core
	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Default     any    `json:"default,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Examples    []any  `json:"examples,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`

	// String
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Number
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`
	MinProperties        *int               `json:"minProperties,omitempty"`
	MaxProperties        *int               `json:"maxProperties,omitempty"`

	// Array
	Items       *Schema   `json:"items,omitempty"`
	PrefixItems []*Schema `json:"prefixItems,omitempty"`
	MinItems    *int      `json:"minItems,omitempty"`
	MaxItems    *int      `json:"maxItems,omitempty"`
	UniqueItems *bool     `json:"uniqueItems,omitempty"`

	// Union / literal
	OneOf []*Schema `json:"oneOf,omitempty"`
	Enum  []any     `json:"enum,omitempty"`
	Const any       `json:"const,omitempty"`
}

// Int returns a pointer for optional integer keywords.
func Int(v int) *int { return &v }

// Float returns a pointer for optional numeric keywords.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer for optional boolean keywords.
func Bool(v bool) *bool { return &v }
