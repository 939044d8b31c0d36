package validation

import (
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// validate backs Tag rules. validator.Validate is safe for concurrent use.
var validate = validator.New()

type Kind int

const (
	KindMinLength Kind = iota
	KindPattern
	KindMin
	KindMinItems
	KindTag
	KindMediaType
	KindCustom
)

// Rule is a single declarative check on a field's coerced value.
type Rule struct {
	Kind    Kind
	Message string

	Length  int
	Pattern *regexp.Regexp
	Bound   float64
	Tag     string
	Allowed []string
	Check   func(v any) bool
}

func MinLength(n int, message string) Rule {
	return Rule{Kind: KindMinLength, Length: n, Message: message}
}

func Matches(re *regexp.Regexp, message string) Rule {
	return Rule{Kind: KindPattern, Pattern: re, Message: message}
}

// Min is an inclusive lower bound on a number.
func Min(bound float64, message string) Rule {
	return Rule{Kind: KindMin, Bound: bound, Message: message}
}

func MinItems(n int, message string) Rule {
	return Rule{Kind: KindMinItems, Length: n, Message: message}
}

// Tag delegates to a go-playground/validator tag such as "email".
func Tag(tag, message string) Rule {
	return Rule{Kind: KindTag, Tag: tag, Message: message}
}

// MediaType accepts a file whose declared type is exactly one of allowed.
func MediaType(allowed []string, message string) Rule {
	return Rule{Kind: KindMediaType, Allowed: allowed, Message: message}
}

func Custom(check func(v any) bool, message string) Rule {
	return Rule{Kind: KindCustom, Check: check, Message: message}
}

func (r Rule) passes(v any) bool {
	switch r.Kind {
	case KindMinLength:
		s, _ := v.(string)
		return utf8.RuneCountInString(s) >= r.Length
	case KindPattern:
		s, _ := v.(string)
		return r.Pattern.MatchString(s)
	case KindMin:
		f, _ := v.(float64)
		return f >= r.Bound
	case KindMinItems:
		switch items := v.(type) {
		case []int64:
			return len(items) >= r.Length
		case []string:
			return len(items) >= r.Length
		}
		return false
	case KindTag:
		return validate.Var(v, r.Tag) == nil
	case KindMediaType:
		f, ok := v.(*FileRef)
		if !ok {
			return false
		}
		for _, mt := range r.Allowed {
			if f.MediaType == mt {
				return true
			}
		}
		return false
	case KindCustom:
		return r.Check(v)
	}
	return false
}
