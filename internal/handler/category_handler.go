package handler

import (
	"io"
	"net/http"
	"strconv"

	"storefront-admin-server/internal/schema"
	"storefront-admin-server/internal/service"
	"storefront-admin-server/pkg/response"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
	maxUploadSize   int64
	logger          *zap.Logger
}

func NewCategoryHandler(categoryService *service.CategoryService, maxUploadSize int64, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		maxUploadSize:   maxUploadSize,
		logger:          logger,
	}
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(w, r, schema.Registry.MustSchema(schema.Category), h.maxUploadSize)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	in, err := schema.ValidateCategory(raw)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	category, err := h.categoryService.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Created(w, category)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, categories)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}

	category, err := h.categoryService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}

	raw, err := decodeBody(w, r, schema.Registry.MustSchema(schema.Category), h.maxUploadSize)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	in, err := schema.ValidateCategory(raw)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.NoContent(w)
}

// Image streams the stored category image with its declared content type.
func (h *CategoryHandler) Image(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}

	content, info, err := h.categoryService.Image(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", info.ContentType)
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, content); err != nil {
		h.logger.Warn("failed to stream category image", zap.Int64("category_id", id), zap.Error(err))
	}
}

func categoryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid category id")
		return 0, false
	}
	return id, true
}
