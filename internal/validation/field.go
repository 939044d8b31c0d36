package validation

// Field declares one attribute of a schema: its type, whether it may be left
// empty, an optional default and the ordered rules checked against it.
type Field struct {
	Name     string
	Type     Type
	Rules    []Rule
	Optional bool

	// Default is used on the success path when the value is absent.
	// A field with a default is implicitly optional.
	Default    any
	hasDefault bool

	// RequiredMessage overrides "Required" for a missing value.
	RequiredMessage string
}

func String(name string, rules ...Rule) Field {
	return Field{Name: name, Type: TypeString, Rules: rules}
}

func Bool(name string, rules ...Rule) Field {
	return Field{Name: name, Type: TypeBool, Rules: rules}
}

func Number(name string, rules ...Rule) Field {
	return Field{Name: name, Type: TypeNumber, Rules: rules}
}

func Date(name string, rules ...Rule) Field {
	return Field{Name: name, Type: TypeDate, Rules: rules}
}

func IntList(name string, rules ...Rule) Field {
	return Field{Name: name, Type: TypeIntList, Rules: rules}
}

func StringList(name string, rules ...Rule) Field {
	return Field{Name: name, Type: TypeStringList, Rules: rules}
}

func File(name string, rules ...Rule) Field {
	return Field{Name: name, Type: TypeFile, Rules: rules}
}

// AsOptional lets the field be absent, nil or the empty string.
func (f Field) AsOptional() Field {
	f.Optional = true
	return f
}

func (f Field) WithDefault(v any) Field {
	f.Default = v
	f.hasDefault = true
	return f
}

func (f Field) WithRequiredMessage(msg string) Field {
	f.RequiredMessage = msg
	return f
}

func (f Field) requiredMessage() string {
	if f.RequiredMessage != "" {
		return f.RequiredMessage
	}
	return "Required"
}

// isEmpty reports whether v counts as "not provided" for an optional field.
func isEmpty(v any, present bool) bool {
	if !present || v == nil {
		return true
	}
	if s, ok := v.(string); ok && s == "" {
		return true
	}
	if f, ok := v.(*FileRef); ok && f == nil {
		return true
	}
	return false
}
