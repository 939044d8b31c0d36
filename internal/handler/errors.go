package handler

import (
	"errors"
	"net/http"

	"storefront-admin-server/internal/repository"
	"storefront-admin-server/internal/service"
	"storefront-admin-server/internal/validation"
	"storefront-admin-server/pkg/response"

	"go.uber.org/zap"
)

// writeError maps service and repository failures onto HTTP responses.
// Anything unrecognised is logged and reported as a 500.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if fe, ok := validation.AsFieldErrors(err); ok {
		response.ValidationError(w, fe)
		return
	}

	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		response.NotFound(w, "Category not found")
	case errors.Is(err, repository.ErrImageNotFound):
		response.NotFound(w, "Image not found")
	case errors.Is(err, repository.ErrProductNotFound):
		response.NotFound(w, "Product not found")
	case errors.Is(err, repository.ErrCustomerNotFound):
		response.NotFound(w, "Customer not found")
	case errors.Is(err, repository.ErrUserNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, repository.ErrCategoryExists),
		errors.Is(err, repository.ErrProductExists),
		errors.Is(err, repository.ErrSequenceContention):
		response.Conflict(w, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(w, "Invalid email or password")
	case errors.Is(err, service.ErrInvalidToken):
		response.Unauthorized(w, "Invalid or expired token")
	default:
		logger.Error("request failed", zap.Error(err))
		response.InternalError(w, "Internal server error")
	}
}

// writeDecodeError reports a body that could not be read at all.
func writeDecodeError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		response.Error(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.Is(err, errUnsupportedMedia):
		response.Error(w, http.StatusUnsupportedMediaType, err.Error())
	default:
		response.BadRequest(w, "Invalid request body")
	}
}
