package handler

import (
	"net/http"

	"storefront-admin-server/internal/domain"
	"storefront-admin-server/internal/schema"
	"storefront-admin-server/internal/service"
	"storefront-admin-server/pkg/response"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const customerBodyLimit = 64 << 10

type CustomerHandler struct {
	customerService *service.CustomerService
	logger          *zap.Logger
}

func NewCustomerHandler(customerService *service.CustomerService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// input decodes and validates the customer form. It writes the error response
// itself and returns nil when the request cannot proceed.
func (h *CustomerHandler) input(w http.ResponseWriter, r *http.Request) *domain.CustomerInput {
	raw, err := decodeBody(w, r, schema.Registry.MustSchema(schema.Customer), customerBodyLimit)
	if err != nil {
		writeDecodeError(w, err)
		return nil
	}

	in, err := schema.ValidateCustomer(raw)
	if err != nil {
		writeError(w, h.logger, err)
		return nil
	}
	return in
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := h.input(w, r)
	if in == nil {
		return
	}

	customer, err := h.customerService.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Created(w, customer)
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerService.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	in := h.input(w, r)
	if in == nil {
		return
	}

	customer, err := h.customerService.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.customerService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.NoContent(w)
}
