package validation

import (
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"
)

type widget struct {
	Label   string
	Enabled bool
	Weight  *float64
	Tags    []string
}

func newWidgetSchema() *Schema {
	return NewSchema("widget", func(v Values) any {
		return widget{
			Label:   v.String("label"),
			Enabled: v.Bool("enabled"),
			Weight:  v.FloatPtr("weight"),
			Tags:    v.Strings("tags"),
		}
	},
		String("label",
			MinLength(1, "Label is required"),
			MinLength(3, "Label must be at least 3 characters"),
			Matches(regexp.MustCompile(`^[a-z]+$`), "Label must be lowercase"),
		),
		Bool("enabled").WithDefault(true),
		Number("weight", Min(0, "Weight must be positive")).AsOptional(),
		StringList("tags", MinItems(1, "At least one tag is required")),
	)
}

func TestSchema_Validate(t *testing.T) {
	s := newWidgetSchema()

	tests := []struct {
		name     string
		raw      map[string]any
		want     any
		wantErrs FieldErrors
	}{
		{
			name: "valid with defaults",
			raw:  map[string]any{"label": "gear", "tags": []any{"a"}},
			want: widget{Label: "gear", Enabled: true, Tags: []string{"a"}},
		},
		{
			name: "explicit false is kept",
			raw:  map[string]any{"label": "gear", "enabled": false, "tags": []any{"a"}},
			want: widget{Label: "gear", Enabled: false, Tags: []string{"a"}},
		},
		{
			name: "first failing rule stops the field",
			raw:  map[string]any{"label": "", "tags": []any{"a"}},
			wantErrs: FieldErrors{
				{Path: "label", Message: "Label is required"},
			},
		},
		{
			name: "errors keep declaration order",
			raw:  map[string]any{"label": "AB", "weight": -1.0, "tags": []any{}},
			wantErrs: FieldErrors{
				{Path: "label", Message: "Label must be at least 3 characters"},
				{Path: "weight", Message: "Weight must be positive"},
				{Path: "tags", Message: "At least one tag is required"},
			},
		},
		{
			name: "missing required fields",
			raw:  map[string]any{},
			wantErrs: FieldErrors{
				{Path: "label", Message: "Required"},
				{Path: "tags", Message: "Required"},
			},
		},
		{
			name: "type mismatch",
			raw:  map[string]any{"label": 42.0, "enabled": "yes", "tags": []any{"a", 1.0}},
			wantErrs: FieldErrors{
				{Path: "label", Message: "Expected string, received number"},
				{Path: "enabled", Message: "Expected boolean, received string"},
				{Path: "tags.1", Message: "Expected string, received number"},
			},
		},
		{
			name: "optional number empty string is absent",
			raw:  map[string]any{"label": "gear", "weight": "", "tags": []string{"x"}},
			want: widget{Label: "gear", Enabled: true, Tags: []string{"x"}},
		},
		{
			name: "zero is inside the inclusive bound",
			raw:  map[string]any{"label": "gear", "weight": 0, "tags": []string{"x"}},
			want: widget{Label: "gear", Enabled: true, Weight: floatPtr(0), Tags: []string{"x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Validate(tt.raw)

			if tt.wantErrs != nil {
				fe, ok := AsFieldErrors(err)
				if !ok {
					t.Fatalf("Validate() error = %v, want FieldErrors", err)
				}
				if !reflect.DeepEqual(fe, tt.wantErrs) {
					t.Errorf("Validate() errors = %#v, want %#v", fe, tt.wantErrs)
				}
				if got != nil {
					t.Errorf("Validate() value = %#v, want nil on failure", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("Validate() unexpected error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Validate() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSchema_Refine(t *testing.T) {
	s := NewSchema("pair", func(v Values) any { return v.String("a") },
		String("a", MinLength(2, "too short")),
		String("b"),
	).Refine("b", "must match a", func(v Values) bool {
		return v.String("a") == v.String("b")
	})

	tests := []struct {
		name     string
		raw      map[string]any
		wantErrs FieldErrors
	}{
		{
			name: "matching",
			raw:  map[string]any{"a": "xy", "b": "xy"},
		},
		{
			name:     "mismatch reported on target",
			raw:      map[string]any{"a": "xy", "b": "zz"},
			wantErrs: FieldErrors{{Path: "b", Message: "must match a"}},
		},
		{
			name: "runs after field errors",
			raw:  map[string]any{"a": "x", "b": "y"},
			wantErrs: FieldErrors{
				{Path: "a", Message: "too short"},
				{Path: "b", Message: "must match a"},
			},
		},
		{
			name:     "skipped when target already failed",
			raw:      map[string]any{"a": "xy"},
			wantErrs: FieldErrors{{Path: "b", Message: "Required"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Validate(tt.raw)
			if tt.wantErrs == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			fe, _ := AsFieldErrors(err)
			if !reflect.DeepEqual(fe, tt.wantErrs) {
				t.Errorf("Validate() errors = %#v, want %#v", fe, tt.wantErrs)
			}
		})
	}
}

func TestSchema_FileField(t *testing.T) {
	allowed := []string{"image/png", "image/jpeg"}
	s := NewSchema("upload", func(v Values) any { return v.File("image") },
		File("image", MediaType(allowed, "bad type")).AsOptional(),
	)

	tests := []struct {
		name    string
		raw     map[string]any
		wantErr bool
		wantNil bool
	}{
		{name: "absent", raw: map[string]any{}, wantNil: true},
		{name: "null", raw: map[string]any{"image": nil}, wantNil: true},
		{name: "empty string", raw: map[string]any{"image": ""}, wantNil: true},
		{name: "allowed ref", raw: map[string]any{"image": &FileRef{MediaType: "image/png"}}},
		{name: "allowed map", raw: map[string]any{"image": map[string]any{"name": "a.jpg", "type": "image/jpeg", "size": 12.0}}},
		{name: "case sensitive", raw: map[string]any{"image": &FileRef{MediaType: "IMAGE/PNG"}}, wantErr: true},
		{name: "not allowed", raw: map[string]any{"image": FileRef{MediaType: "application/pdf"}}, wantErr: true},
		{name: "not a file", raw: map[string]any{"image": 3.0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Validate(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Error("Validate() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error = %v", err)
			}
			ref := got.(*FileRef)
			if tt.wantNil != (ref == nil) {
				t.Errorf("Validate() file = %#v, wantNil %v", ref, tt.wantNil)
			}
		})
	}
}

func TestCoerce_Dates(t *testing.T) {
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, in := range []any{"2024-03-01", "2024-03-01T00:00:00Z", want, &want} {
		got, issues := coerce(TypeDate, "d", in)
		if issues != nil {
			t.Errorf("coerce(%v) issues = %v", in, issues)
			continue
		}
		if !got.(time.Time).Equal(want) {
			t.Errorf("coerce(%v) = %v, want %v", in, got, want)
		}
	}

	if _, issues := coerce(TypeDate, "d", "yesterday"); issues == nil {
		t.Error("coerce() expected issue for unparseable date")
	}
}

func TestCoerce_IntList(t *testing.T) {
	got, issues := coerce(TypeIntList, "ids", []any{1.0, 2.0})
	if issues != nil {
		t.Fatalf("coerce() issues = %v", issues)
	}
	if !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Errorf("coerce() = %v", got)
	}

	_, issues = coerce(TypeIntList, "ids", []any{1.5})
	if len(issues) != 1 || issues[0].path != "ids.0" {
		t.Errorf("coerce() issues = %v, want one on ids.0", issues)
	}

	_, issues = coerce(TypeIntList, "ids", []any{3.0, 1e20, -1e20, float64(1 << 53)})
	if len(issues) != 3 {
		t.Fatalf("coerce() issues = %v, want three out-of-range elements", issues)
	}
	for i, want := range []string{"ids.1", "ids.2", "ids.3"} {
		if issues[i].path != want || issues[i].message != "Number must be a safe integer" {
			t.Errorf("issue %d = %+v, want safe-integer error on %s", i, issues[i], want)
		}
	}

	got, issues = coerce(TypeIntList, "ids", []any{float64(maxSafeInteger)})
	if issues != nil || !reflect.DeepEqual(got, []int64{maxSafeInteger}) {
		t.Errorf("coerce() = %v, %v, want the largest safe integer accepted", got, issues)
	}
}

func TestTagRule(t *testing.T) {
	r := Tag("email", "Invalid email address")
	if !r.passes("someone@example.com") {
		t.Error("Tag(email) rejected a valid address")
	}
	if r.passes("not-an-email") {
		t.Error("Tag(email) accepted an invalid address")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(newWidgetSchema())

	if _, err := reg.Validate("missing", map[string]any{}); !errors.Is(err, ErrUnknownSchema) {
		t.Errorf("Validate() error = %v, want ErrUnknownSchema", err)
	}

	if _, err := reg.Validate("widget", map[string]any{"label": "gear", "tags": []any{"a"}}); err != nil {
		t.Errorf("Validate() unexpected error = %v", err)
	}

	if names := reg.Names(); !reflect.DeepEqual(names, []string{"widget"}) {
		t.Errorf("Names() = %v", names)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustSchema() expected panic for unknown schema")
		}
	}()
	reg.MustSchema("missing")
}

func TestFieldErrors(t *testing.T) {
	errs := FieldErrors{
		{Path: "a", Message: "first"},
		{Path: "b", Message: "other"},
		{Path: "a", Message: "second"},
	}

	if got := errs.Error(); got != "a: first; b: other; a: second" {
		t.Errorf("Error() = %q", got)
	}
	if got := errs.ByField()["a"]; got != "first" {
		t.Errorf("ByField()[a] = %q, want first", got)
	}
	if got := errs.Messages("a"); len(got) != 2 {
		t.Errorf("Messages(a) = %v", got)
	}
	if errs.Has("c") {
		t.Error("Has(c) = true")
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
