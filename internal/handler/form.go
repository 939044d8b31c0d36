package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"storefront-admin-server/internal/validation"
)

var errUnsupportedMedia = errors.New("unsupported content type")

// decodeBody reads the request into raw form values. JSON bodies are decoded
// as-is. Multipart values arrive as strings, so they are converted using the
// declared field types; a value that does not convert is passed through and
// reported by the schema as a type mismatch.
func decodeBody(w http.ResponseWriter, r *http.Request, schema *validation.Schema, maxSize int64) (map[string]any, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = "application/json"
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	switch mediaType {
	case "application/json":
		raw := make(map[string]any)
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		return raw, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxSize); err != nil {
			return nil, fmt.Errorf("invalid multipart body: %w", err)
		}
		return multipartValues(r.MultipartForm, schema), nil

	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedMedia, mediaType)
	}
}

func multipartValues(form *multipart.Form, schema *validation.Schema) map[string]any {
	raw := make(map[string]any)

	types := make(map[string]validation.Type)
	if schema != nil {
		for _, f := range schema.Fields() {
			types[f.Name] = f.Type
		}
	}

	for name, values := range form.Value {
		t, known := types[name]
		if !known {
			raw[name] = values[0]
			continue
		}
		raw[name] = convertFormValue(t, values)
	}

	for name, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		raw[name] = fileRef(headers[0])
	}

	return raw
}

func convertFormValue(t validation.Type, values []string) any {
	switch t {
	case validation.TypeBool:
		// Checkboxes submit "on"; a field sent with no value is unchecked.
		switch strings.ToLower(values[0]) {
		case "on":
			return true
		case "off", "":
			return false
		}
		if b, err := strconv.ParseBool(values[0]); err == nil {
			return b
		}
	case validation.TypeNumber:
		if values[0] == "" {
			return ""
		}
		if f, err := strconv.ParseFloat(values[0], 64); err == nil {
			return f
		}
	case validation.TypeIntList:
		items := make([]any, len(values))
		for i, v := range values {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				items[i] = n
			} else {
				items[i] = v
			}
		}
		return items
	case validation.TypeStringList:
		items := make([]any, len(values))
		for i, v := range values {
			items[i] = v
		}
		return items
	}
	return values[0]
}

func fileRef(fh *multipart.FileHeader) *validation.FileRef {
	return &validation.FileRef{
		Filename:  fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Size:      fh.Size,
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}
