package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"storefront-admin-server/internal/repository"
	"storefront-admin-server/internal/schema"
	"storefront-admin-server/internal/service"
	"storefront-admin-server/internal/validation"
	"storefront-admin-server/pkg/response"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func newValidateRouter() *mux.Router {
	h := NewValidateHandler(schema.Registry, 1<<20, zap.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/validate/{schema}", h.Validate).Methods("POST")
	return r
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestValidateHandler(t *testing.T) {
	router := newValidateRouter()

	tests := []struct {
		name       string
		schema     string
		body       string
		wantStatus int
		wantPaths  []string
	}{
		{
			name:       "unknown schema",
			schema:     "review",
			body:       `{}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "valid login",
			schema:     schema.Login,
			body:       `{"email":"a@b.co","password":"secret1"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty product",
			schema:     schema.Product,
			body:       `{}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantPaths:  []string{"name", "description", "availability", "categories", "images", "price", "compareAtPrice"},
		},
		{
			name:       "malformed json",
			schema:     schema.Login,
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/validate/"+tt.schema, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantPaths == nil {
				return
			}

			body := decodeResponse(t, rec)
			if len(body.Errors) != len(tt.wantPaths) {
				t.Fatalf("errors = %v, want paths %v", body.Errors, tt.wantPaths)
			}
			for i, p := range tt.wantPaths {
				if body.Errors[i].Path != p {
					t.Errorf("errors[%d].Path = %q, want %q", i, body.Errors[i].Path, p)
				}
			}
			wantMsg := fmt.Sprintf("Required (and %d more errors)", len(tt.wantPaths)-1)
			if body.Message != wantMsg {
				t.Errorf("message = %q, want %q", body.Message, wantMsg)
			}
		})
	}
}

func multipartCategory(t *testing.T, fields map[string]string, imageType string, image []byte) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if image != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="logo.png"`)
		header.Set("Content-Type", imageType)
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("CreatePart() error = %v", err)
		}
		part.Write(image)
	}
	mw.Close()
	return buf, mw.FormDataContentType()
}

func TestDecodeBody_MultipartCategory(t *testing.T) {
	body, contentType := multipartCategory(t, map[string]string{
		"name":     "Shoes",
		"slug":     "shoes",
		"isActive": "false",
	}, "image/png", []byte("PNGDATA"))

	req := httptest.NewRequest(http.MethodPost, "/categories", body)
	req.Header.Set("Content-Type", contentType)

	raw, err := decodeBody(httptest.NewRecorder(), req, schema.Registry.MustSchema(schema.Category), 1<<20)
	if err != nil {
		t.Fatalf("decodeBody() error = %v", err)
	}

	in, err := schema.ValidateCategory(raw)
	if err != nil {
		t.Fatalf("ValidateCategory() error = %v", err)
	}

	if in.IsActive {
		t.Error("expected isActive=false from the form to be kept")
	}
	if in.Image == nil || in.Image.MediaType != "image/png" || in.Image.Filename != "logo.png" {
		t.Fatalf("image = %+v", in.Image)
	}

	rc, err := in.Image.Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "PNGDATA" {
		t.Errorf("image content = %q", data)
	}
}

func TestDecodeBody_MultipartCheckbox(t *testing.T) {
	for raw, want := range map[string]bool{"on": true, "": false} {
		body, contentType := multipartCategory(t, map[string]string{
			"name":     "Shoes",
			"slug":     "shoes",
			"isActive": raw,
		}, "image/png", []byte("PNGDATA"))

		req := httptest.NewRequest(http.MethodPost, "/categories", body)
		req.Header.Set("Content-Type", contentType)

		values, err := decodeBody(httptest.NewRecorder(), req, schema.Registry.MustSchema(schema.Category), 1<<20)
		if err != nil {
			t.Fatalf("decodeBody() error = %v", err)
		}
		in, err := schema.ValidateCategory(values)
		if err != nil {
			t.Fatalf("isActive=%q: ValidateCategory() error = %v", raw, err)
		}
		if in.IsActive != want {
			t.Errorf("isActive=%q decoded as %v, want %v", raw, in.IsActive, want)
		}
	}
}

func TestValidateHandler_MultipartRejectsMediaType(t *testing.T) {
	body, contentType := multipartCategory(t, map[string]string{
		"name": "Shoes",
		"slug": "shoes",
	}, "application/pdf", []byte("%PDF"))

	req := httptest.NewRequest(http.MethodPost, "/validate/category", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newValidateRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if len(resp.Errors) != 1 || resp.Errors[0].Path != "image" {
		t.Errorf("errors = %v, want one on image", resp.Errors)
	}
}

func TestConvertFormValue(t *testing.T) {
	if got := convertFormValue(validation.TypeBool, []string{"yes"}); got != "yes" {
		t.Errorf("unparseable bool = %v, want raw string", got)
	}
	for raw, want := range map[string]bool{"on": true, "ON": true, "true": true, "1": true, "off": false, "": false, "false": false} {
		if got := convertFormValue(validation.TypeBool, []string{raw}); got != want {
			t.Errorf("bool %q = %v, want %v", raw, got, want)
		}
	}
	if got := convertFormValue(validation.TypeNumber, []string{"12.5"}); got != 12.5 {
		t.Errorf("number = %v", got)
	}
	items := convertFormValue(validation.TypeIntList, []string{"1", "x"}).([]any)
	if items[0] != int64(1) || items[1] != "x" {
		t.Errorf("int list = %v", items)
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{err: validation.FieldErrors{{Path: "slug", Message: "Slug is already in use"}}, wantStatus: http.StatusUnprocessableEntity},
		{err: fmt.Errorf("wrapped: %w", repository.ErrCategoryNotFound), wantStatus: http.StatusNotFound},
		{err: repository.ErrImageNotFound, wantStatus: http.StatusNotFound},
		{err: repository.ErrProductExists, wantStatus: http.StatusConflict},
		{err: service.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeError(rec, zap.NewNop(), tt.err)
		if rec.Code != tt.wantStatus {
			t.Errorf("writeError(%v) status = %d, want %d", tt.err, rec.Code, tt.wantStatus)
		}
	}
}

func TestWriteDecodeError_UnsupportedMedia(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/validate/login", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	newValidateRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", rec.Code)
	}
}
