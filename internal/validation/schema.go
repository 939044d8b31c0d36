package validation

import (
	"fmt"
	"sort"
	"time"
)

// Values holds the coerced field values of one validation run.
type Values map[string]any

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

func (v Values) Float(name string) float64 {
	f, _ := v[name].(float64)
	return f
}

// FloatPtr returns nil when the optional number was not provided.
func (v Values) FloatPtr(name string) *float64 {
	f, ok := v[name].(float64)
	if !ok {
		return nil
	}
	return &f
}

func (v Values) Time(name string) time.Time {
	t, _ := v[name].(time.Time)
	return t
}

func (v Values) Ints(name string) []int64 {
	items, _ := v[name].([]int64)
	return items
}

func (v Values) Strings(name string) []string {
	items, _ := v[name].([]string)
	return items
}

func (v Values) File(name string) *FileRef {
	f, _ := v[name].(*FileRef)
	return f
}

// Refinement is a whole-object predicate whose failure is reported on Path.
type Refinement struct {
	Path    string
	Message string
	Check   func(Values) bool
}

// Schema is a named, immutable set of field rules and refinements. Build turns
// the validated values into the typed result.
type Schema struct {
	name        string
	fields      []Field
	refinements []Refinement
	build       func(Values) any
}

func NewSchema(name string, build func(Values) any, fields ...Field) *Schema {
	return &Schema{
		name:   name,
		fields: fields,
		build:  build,
	}
}

// Refine appends a cross-field rule. It returns the schema so declarations can chain.
func (s *Schema) Refine(path, message string, check func(Values) bool) *Schema {
	s.refinements = append(s.refinements, Refinement{Path: path, Message: message, Check: check})
	return s
}

func (s *Schema) Name() string {
	return s.name
}

func (s *Schema) Fields() []Field {
	return s.fields
}

// Validate evaluates raw against the schema. On failure the returned error is
// FieldErrors, ordered by field declaration and then refinement declaration.
//
// Per field, the type check runs first and the rules follow in order; the first
// failing rule stops the remaining rules of that field. Refinements always run
// afterwards, except when their target path already carries an error.
func (s *Schema) Validate(raw map[string]any) (any, error) {
	values := make(Values, len(s.fields))
	var errs FieldErrors

	for _, f := range s.fields {
		v, present := raw[f.Name]

		if f.hasDefault && (!present || v == nil) {
			continue
		}

		if isEmpty(v, present) {
			if f.Optional || f.hasDefault {
				if str, ok := v.(string); ok && f.Type == TypeString {
					values[f.Name] = str
				}
				continue
			}
			if !present || v == nil {
				errs = append(errs, FieldError{Path: f.Name, Message: f.requiredMessage()})
				continue
			}
		}

		coerced, issues := coerce(f.Type, f.Name, v)
		if issues != nil {
			for _, is := range issues {
				errs = append(errs, FieldError{Path: is.path, Message: is.message})
			}
			continue
		}
		values[f.Name] = coerced

		for _, rule := range f.Rules {
			if !rule.passes(coerced) {
				errs = append(errs, FieldError{Path: f.Name, Message: rule.Message})
				break
			}
		}
	}

	for _, ref := range s.refinements {
		if errs.Has(ref.Path) {
			continue
		}
		if !ref.Check(values) {
			errs = append(errs, FieldError{Path: ref.Path, Message: ref.Message})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	for _, f := range s.fields {
		if _, ok := values[f.Name]; !ok && f.hasDefault {
			values[f.Name] = f.Default
		}
	}

	return s.build(values), nil
}

// Registry resolves schemas by name.
type Registry struct {
	schemas map[string]*Schema
}

func NewRegistry(schemas ...*Schema) *Registry {
	r := &Registry{schemas: make(map[string]*Schema, len(schemas))}
	for _, s := range schemas {
		r.schemas[s.name] = s
	}
	return r
}

func (r *Registry) Lookup(name string) (*Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// MustSchema panics on an unknown name; it is meant for lookups fixed at compile time.
func (r *Registry) MustSchema(name string) *Schema {
	s, ok := r.schemas[name]
	if !ok {
		panic(fmt.Sprintf("validation: %v %q", ErrUnknownSchema, name))
	}
	return s
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Validate(name string, raw map[string]any) (any, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	return s.Validate(raw)
}
