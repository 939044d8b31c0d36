package service

import (
	"errors"

	"storefront-admin-server/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// fieldError reports a rule that needs stored state, such as slug uniqueness,
// in the same shape as schema failures so forms can show it inline.
func fieldError(path, message string) error {
	return validation.FieldErrors{{Path: path, Message: message}}
}
