package schema

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
)

// Violation reports a single conformance failure: the path of the
// offending field, the expected kind or constraint, and the actual
// value's kind.
type Violation struct {
	Path     string `json:"path"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: expected %s, got %s", v.Path, v.Expected, v.Actual)
}

// Result is the outcome of validating a value against a Schema.
// A conformant value has no violations.
type Result struct {
	Violations []Violation `json:"violations,omitempty"`
}

func (r Result) Valid() bool {
	return len(r.Violations) == 0
}

// Validate checks value, as decoded from JSON, against s by structural
// recursive descent. Object properties not declared in the schema are
// accepted and ignored; the schema is not a strict allow-list, so tool
// arguments stay forward compatible. A schema node with an empty kind
// accepts any value.
func Validate(s *Schema, value any) Result {
	var res Result
	validate(s, value, "$", &res.Violations)
	return res
}

// ValidateJSON decodes raw JSON and validates it against s. It returns an
// error only when the payload is not valid JSON at all.
func ValidateJSON(s *Schema, raw json.RawMessage) (Result, error) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return Result{}, errors.Wrap(err, "failed to unmarshal value")
	}
	return Validate(s, value), nil
}

func validate(s *Schema, value any, path string, out *[]Violation) {
	if s == nil || s.Type == "" {
		// Unrecognized kind: accept anything.
		return
	}

	actual := kindOf(value)

	switch s.Type {
	case Object:
		obj, ok := value.(map[string]any)
		if !ok {
			*out = append(*out, Violation{Path: path, Expected: string(Object), Actual: actual})
			return
		}
		for _, name := range s.Required {
			if _, present := obj[name]; !present {
				*out = append(*out, Violation{
					Path:     path + "." + name,
					Expected: "required",
					Actual:   "missing",
				})
			}
		}
		for name, prop := range s.Properties {
			if v, present := obj[name]; present {
				validate(prop, v, path+"."+name, out)
			}
		}

	case Array:
		seq, ok := value.([]any)
		if !ok {
			*out = append(*out, Violation{Path: path, Expected: string(Array), Actual: actual})
			return
		}
		for i, elem := range seq {
			validate(s.Items, elem, fmt.Sprintf("%s[%d]", path, i), out)
		}

	case String, Number, Boolean:
		// Exact kind match, no coercion: a numeric string is not a number.
		if actual != string(s.Type) {
			*out = append(*out, Violation{Path: path, Expected: string(s.Type), Actual: actual})
		}

	default:
		// Accept anything.
	}
}

// kindOf names the JSON kind of a decoded value.
func kindOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", value)
	}
}
