package testdef

// FieldType is the expected JSON type of a schema field.
type FieldType string

const (
	AnyType     FieldType = "any"
	StringType  FieldType = "string"
	NumberType  FieldType = "number"
	BooleanType FieldType = "boolean"
	ObjectType  FieldType = "object"
	ArrayType   FieldType = "array"
)

func (t FieldType) IsValid() bool {
	switch t {
	case "", AnyType, StringType, NumberType, BooleanType, ObjectType, ArrayType:
		return true
	}
	return false
}

// Schema is a structural description of the expected response body shape.
// Either Fields or JSONSchema may be set; if both are set, the JSON Schema
// document is checked first.
type Schema struct {
	// Fields lists the expected top-level fields. The list is ordered:
	// validation reports the first violation in declaration order, so failure
	// reasons are deterministic.
	Fields []Field `yaml:"fields"`

	// JSONSchema is an optional raw JSON Schema document to validate the
	// whole body against.
	JSONSchema string `yaml:"jsonSchema"`
}

// Field describes one expected field of a JSON object.
type Field struct {
	Name string `yaml:"name"`

	// Type constrains the JSON type of the value. Empty means any.
	Type FieldType `yaml:"type"`

	// Optional makes a missing field acceptable. Declared fields are required
	// by default.
	Optional bool `yaml:"optional"`

	// NonEmpty rejects empty strings, empty arrays, empty objects, and null.
	NonEmpty bool `yaml:"nonEmpty"`

	// Pattern is a regex that a string value must match.
	Pattern string `yaml:"pattern"`

	// Fields describes the expected members of a nested object value.
	Fields []Field `yaml:"fields"`
}
