// Package schema describes the parameters a tool accepts and validates
// argument values against that description. The Schema type is a small
// tagged union (object/string/number/boolean/array) interpreted at runtime;
// it is independent of any validation library so callers can construct
// schemas by hand, from JSON, or reflect them from Go request structs.
package schema

import (
	"encoding/json"
	"reflect"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

// Kind is the type tag of a schema node.
type Kind string

const (
	Object  Kind = "object"
	String  Kind = "string"
	Number  Kind = "number"
	Boolean Kind = "boolean"
	Array   Kind = "array"
)

// Schema is a recursive description of an accepted input shape.
// An empty Type accepts any value; this is a deliberate escape hatch for
// schemas the validator does not yet understand.
type Schema struct {
	Type        Kind               `json:"type,omitempty" yaml:"type,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required    []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
}

// Wellformed checks the structural invariant that every required field
// of an object schema is also declared in its properties, recursively.
func (s *Schema) Wellformed() error {
	if s == nil {
		return nil
	}
	for _, name := range s.Required {
		if _, ok := s.Properties[name]; !ok {
			return errors.Errorf("required field %q is not declared in properties", name)
		}
	}
	for name, prop := range s.Properties {
		if err := prop.Wellformed(); err != nil {
			return errors.WithMessagef(err, "property %q", name)
		}
	}
	if s.Items != nil {
		if err := s.Items.Wellformed(); err != nil {
			return errors.WithMessage(err, "items")
		}
	}
	return nil
}

func (s *Schema) String() string {
	js, _ := json.MarshalIndent(s, "", "\t")
	return string(js)
}

var (
	cache   = make(map[reflect.Type]*Schema)
	cacheMu sync.Mutex
)

// FromType derives a Schema from a Go struct type using JSON-schema
// reflection. Field names follow the json tags; fields without omitempty
// are marked required. Results are cached by type.
func FromType(t reflect.Type) (*Schema, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if s, ok := cache[t]; ok {
		return s, nil
	}

	s, err := convert(reflectType(t))
	if err != nil {
		return nil, err
	}
	cache[t] = s

	return s, nil
}

// MustFromType is FromType that panics on error, for package-level tool
// schema declarations.
func MustFromType(t reflect.Type) *Schema {
	s, err := FromType(t)
	if err != nil {
		panic(err)
	}
	return s
}

// FromAny builds a Schema from a generic value, typically a
// map[string]any literal:
//
//	schema.FromAny(map[string]any{
//		"type": "object",
//		"properties": map[string]any{
//			"location": map[string]any{"type": "string"},
//		},
//		"required": []string{"location"},
//	})
func FromAny(v any) (*Schema, error) {
	js, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal schema value")
	}
	s := &Schema{}
	if err := json.Unmarshal(js, s); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal schema")
	}
	return s, nil
}

// MustFromAny is FromAny that panics on error.
func MustFromAny(v any) *Schema {
	s, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return s
}

func reflectType(t reflect.Type) *jsonschema.Schema {
	r := new(jsonschema.Reflector)
	r.ExpandedStruct = true
	r.DoNotReference = true
	r.AllowAdditionalProperties = true

	// Identical struct names in different packages would otherwise collide,
	// see https://github.com/invopop/jsonschema/issues/42
	r.Namer = func(t reflect.Type) string {
		name := t.Name()
		if t.Kind() == reflect.Struct {
			fullname := t.PkgPath() + "/" + t.Name()
			name = t.Name() + "@" + strconv.FormatUint(xxhash.Sum64String(fullname), 10)
		}
		return name
	}

	return r.ReflectFromType(t)
}

func convert(js *jsonschema.Schema) (*Schema, error) {
	if js == nil {
		return nil, nil
	}

	s := &Schema{
		Type:        kindOfJSONType(js.Type),
		Description: js.Description,
		Required:    js.Required,
	}

	if js.Properties != nil {
		s.Properties = make(map[string]*Schema, js.Properties.Len())
		for pair := js.Properties.Oldest(); pair != nil; pair = pair.Next() {
			child, err := convert(pair.Value)
			if err != nil {
				return nil, errors.WithMessagef(err, "property %q", pair.Key)
			}
			s.Properties[pair.Key] = child
		}
	}

	if js.Items != nil {
		items, err := convert(js.Items)
		if err != nil {
			return nil, errors.WithMessage(err, "items")
		}
		s.Items = items
	}

	return s, nil
}

// kindOfJSONType maps JSON-schema type names onto the validator's kinds.
// The integer type collapses into number; anything unrecognized stays as
// the accept-anything empty kind.
func kindOfJSONType(t string) Kind {
	switch t {
	case "object":
		return Object
	case "string":
		return String
	case "number", "integer":
		return Number
	case "boolean":
		return Boolean
	case "array":
		return Array
	default:
		return ""
	}
}
