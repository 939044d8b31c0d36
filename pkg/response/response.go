package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"storefront-admin-server/internal/validation"
)

type Response struct {
	Success bool                   `json:"success"`
	Data    any                    `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Message string                 `json:"message,omitempty"`
	Errors  validation.FieldErrors `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, statusCode int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func JSON(w http.ResponseWriter, statusCode int, data any) {
	write(w, statusCode, Response{
		Success: statusCode < 400,
		Data:    data,
	})
}

func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Error(w http.ResponseWriter, statusCode int, err string) {
	write(w, statusCode, Response{
		Success: false,
		Error:   err,
	})
}

// ValidationError reports field errors with 422. The message summarises the
// first error so clients without per-field display still show something useful.
func ValidationError(w http.ResponseWriter, errs validation.FieldErrors) {
	var message string
	switch remaining := len(errs) - 1; {
	case remaining < 0:
		message = "validation failed"
	case remaining == 0:
		message = errs[0].Message
	case remaining == 1:
		message = fmt.Sprintf("%s (and 1 more error)", errs[0].Message)
	default:
		message = fmt.Sprintf("%s (and %d more errors)", errs[0].Message, remaining)
	}

	write(w, http.StatusUnprocessableEntity, Response{
		Success: false,
		Error:   "validation_failed",
		Message: message,
		Errors:  errs,
	})
}

func BadRequest(w http.ResponseWriter, err string) {
	Error(w, http.StatusBadRequest, err)
}

func Unauthorized(w http.ResponseWriter, err string) {
	Error(w, http.StatusUnauthorized, err)
}

func Forbidden(w http.ResponseWriter, err string) {
	Error(w, http.StatusForbidden, err)
}

func NotFound(w http.ResponseWriter, err string) {
	Error(w, http.StatusNotFound, err)
}

func Conflict(w http.ResponseWriter, err string) {
	Error(w, http.StatusConflict, err)
}

func InternalError(w http.ResponseWriter, err string) {
	Error(w, http.StatusInternalServerError, err)
}
