package validator

import (
	"regexp"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/restcheck/restcheck/testdef"
)

func checkFields(v ldvalue.Value, fields []testdef.Field, path string) Verdict {
	if v.Type() != ldvalue.ObjectType {
		where := path
		if where == "" {
			where = "response body"
		}
		return fail("expected a JSON object at %s, got %s", where, typeName(v.Type()))
	}
	for _, f := range fields {
		fieldPath := joinPath(path, f.Name)
		value, found := v.TryGetByKey(f.Name)
		if !found {
			if f.Optional {
				continue
			}
			return fail("missing required field %q", fieldPath)
		}
		if verdict := checkFieldValue(value, f, fieldPath); !verdict.Passed {
			return verdict
		}
	}
	return pass()
}

func checkFieldValue(v ldvalue.Value, f testdef.Field, path string) Verdict {
	if f.Type != "" && f.Type != testdef.AnyType && !typeMatches(f.Type, v.Type()) {
		return fail("field %q: expected %s, got %s", path, string(f.Type), typeName(v.Type()))
	}
	if f.NonEmpty && isEmpty(v) {
		return fail("field %q must not be empty", path)
	}
	if f.Pattern != "" {
		if v.Type() != ldvalue.StringType {
			return fail("field %q: pattern requires a string, got %s", path, typeName(v.Type()))
		}
		// the pattern was already checked for validity during case validation
		matched, err := regexp.MatchString(f.Pattern, v.StringValue())
		if err != nil || !matched {
			return fail("field %q value %q does not match pattern %q", path, v.StringValue(), f.Pattern)
		}
	}
	if len(f.Fields) > 0 {
		return checkFields(v, f.Fields, path)
	}
	return pass()
}

func typeMatches(expected testdef.FieldType, actual ldvalue.ValueType) bool {
	switch expected {
	case testdef.StringType:
		return actual == ldvalue.StringType
	case testdef.NumberType:
		return actual == ldvalue.NumberType
	case testdef.BooleanType:
		return actual == ldvalue.BoolType
	case testdef.ObjectType:
		return actual == ldvalue.ObjectType
	case testdef.ArrayType:
		return actual == ldvalue.ArrayType
	}
	return true
}

func isEmpty(v ldvalue.Value) bool {
	switch v.Type() {
	case ldvalue.NullType:
		return true
	case ldvalue.StringType:
		return v.StringValue() == ""
	case ldvalue.ArrayType, ldvalue.ObjectType:
		return v.Count() == 0
	}
	return false
}

func typeName(t ldvalue.ValueType) string {
	switch t {
	case ldvalue.NullType:
		return "null"
	case ldvalue.BoolType:
		return "boolean"
	case ldvalue.NumberType:
		return "number"
	case ldvalue.StringType:
		return "string"
	case ldvalue.ArrayType:
		return "array"
	case ldvalue.ObjectType:
		return "object"
	}
	return "unknown"
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
