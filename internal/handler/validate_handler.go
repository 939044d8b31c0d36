package handler

import (
	"net/http"

	"storefront-admin-server/internal/validation"
	"storefront-admin-server/pkg/response"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ValidateHandler runs a named form schema without persisting anything, so a
// client can check a form against the same rules the write endpoints apply.
type ValidateHandler struct {
	registry      *validation.Registry
	maxUploadSize int64
	logger        *zap.Logger
}

func NewValidateHandler(registry *validation.Registry, maxUploadSize int64, logger *zap.Logger) *ValidateHandler {
	return &ValidateHandler{
		registry:      registry,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

func (h *ValidateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["schema"]

	s, ok := h.registry.Lookup(name)
	if !ok {
		response.NotFound(w, "Unknown schema: "+name)
		return
	}

	raw, err := decodeBody(w, r, s, h.maxUploadSize)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	value, err := s.Validate(raw)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, value)
}

func (h *ValidateHandler) Schemas(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.registry.Names())
}
