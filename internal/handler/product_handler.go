package handler

import (
	"net/http"

	"storefront-admin-server/internal/schema"
	"storefront-admin-server/internal/service"
	"storefront-admin-server/pkg/response"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const productBodyLimit = 1 << 20

type ProductHandler struct {
	productService *service.ProductService
	logger         *zap.Logger
}

func NewProductHandler(productService *service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(w, r, schema.Registry.MustSchema(schema.Product), productBodyLimit)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	in, err := schema.ValidateProduct(raw)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	product, err := h.productService.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Created(w, product)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(w, r, schema.Registry.MustSchema(schema.Product), productBodyLimit)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	in, err := schema.ValidateProduct(raw)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	product, err := h.productService.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.productService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.NoContent(w)
}
