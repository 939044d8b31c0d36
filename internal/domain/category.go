package domain

import (
	"time"

	"storefront-admin-server/internal/validation"
)

type Category struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	IsActive    bool       `json:"is_active"`
	Image       *ImageInfo `json:"image,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ImageInfo describes an image stored alongside its owning document.
type ImageInfo struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// CategoryInput is the validated category form. Image is nil when no file was sent.
type CategoryInput struct {
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Description string              `json:"description,omitempty"`
	IsActive    bool                `json:"isActive"`
	Image       *validation.FileRef `json:"image,omitempty"`
}
