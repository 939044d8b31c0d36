package validation

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"time"
)

type Type int

const (
	TypeString Type = iota
	TypeBool
	TypeNumber
	TypeDate
	TypeIntList
	TypeStringList
	TypeFile
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeBool:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeDate:
		return "date"
	case TypeIntList, TypeStringList:
		return "array"
	case TypeFile:
		return "file"
	default:
		return "unknown"
	}
}

// FileRef is a file handed over by a form. Only the declared media type is
// ever inspected; the content is never sniffed.
type FileRef struct {
	Filename  string `json:"name"`
	MediaType string `json:"type"`
	Size      int64  `json:"size,omitempty"`

	Open func() (io.ReadCloser, error) `json:"-"`
}

// maxSafeInteger is the largest integer a float64 holds exactly (2^53 - 1).
const maxSafeInteger = 1<<53 - 1

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

type issue struct {
	path    string
	message string
}

// coerce converts a raw input value into the canonical Go value for t.
// It reports element-level issues with nested paths for list types.
func coerce(t Type, path string, v any) (any, []issue) {
	switch t {
	case TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case TypeBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case TypeNumber:
		if f, ok := toFloat(v); ok {
			if math.IsNaN(f) {
				return nil, []issue{{path, "Expected number, received nan"}}
			}
			return f, nil
		}
	case TypeDate:
		switch d := v.(type) {
		case time.Time:
			if d.IsZero() {
				return nil, []issue{{path, "Invalid date"}}
			}
			return d, nil
		case *time.Time:
			if d == nil || d.IsZero() {
				return nil, []issue{{path, "Invalid date"}}
			}
			return *d, nil
		case string:
			for _, layout := range dateLayouts {
				if ts, err := time.Parse(layout, d); err == nil {
					return ts, nil
				}
			}
			return nil, []issue{{path, "Invalid date"}}
		}
	case TypeIntList:
		items, ok := toSlice(v)
		if !ok {
			break
		}
		out := make([]int64, 0, len(items))
		var issues []issue
		for i, item := range items {
			f, ok := toFloat(item)
			if !ok || math.IsNaN(f) {
				issues = append(issues, issue{elemPath(path, i), "Expected number, received " + describe(item)})
				continue
			}
			if f != math.Trunc(f) {
				issues = append(issues, issue{elemPath(path, i), "Expected integer, received float"})
				continue
			}
			if math.Abs(f) > maxSafeInteger {
				issues = append(issues, issue{elemPath(path, i), "Number must be a safe integer"})
				continue
			}
			out = append(out, int64(f))
		}
		if issues != nil {
			return nil, issues
		}
		return out, nil
	case TypeStringList:
		items, ok := toSlice(v)
		if !ok {
			break
		}
		out := make([]string, 0, len(items))
		var issues []issue
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				issues = append(issues, issue{elemPath(path, i), "Expected string, received " + describe(item)})
				continue
			}
			out = append(out, s)
		}
		if issues != nil {
			return nil, issues
		}
		return out, nil
	case TypeFile:
		switch f := v.(type) {
		case *FileRef:
			return f, nil
		case FileRef:
			return &f, nil
		case map[string]any:
			mt, ok := f["type"].(string)
			if !ok {
				break
			}
			ref := &FileRef{MediaType: mt}
			ref.Filename, _ = f["name"].(string)
			if size, ok := toFloat(f["size"]); ok {
				ref.Size = int64(size)
			}
			return ref, nil
		}
		return nil, []issue{{path, "Expected a file, received " + describe(v)}}
	}

	return nil, []issue{{path, fmt.Sprintf("Expected %s, received %s", t, describe(v))}}
}

func elemPath(path string, i int) string {
	return path + "." + strconv.Itoa(i)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// describe names the received type the way the form layer reports it.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case time.Time, *time.Time:
		return "date"
	case *FileRef, FileRef:
		return "file"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	if _, ok := toSlice(v); ok {
		return "array"
	}
	return "object"
}
