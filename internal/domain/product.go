package domain

import "time"

type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	IsVisible      bool      `json:"is_visible"`
	Availability   time.Time `json:"availability"`
	CategoryIDs    []int64   `json:"category_ids"`
	Images         []string  `json:"images"`
	Price          float64   `json:"price"`
	CompareAtPrice float64   `json:"compare_at_price"`
	CostPerItem    *float64  `json:"cost_per_item,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ProductInput struct {
	Name           string    `json:"name"`
	Slug           string    `json:"slug,omitempty"`
	Description    string    `json:"description"`
	IsVisible      bool      `json:"isVisible"`
	Availability   time.Time `json:"availability"`
	Categories     []int64   `json:"categories"`
	Images         []string  `json:"images"`
	Price          float64   `json:"price"`
	CompareAtPrice float64   `json:"compareAtPrice"`
	CostPerItem    *float64  `json:"costPerItem,omitempty"`
}

type ProductResponse struct {
	*Product
	FormattedPrice          string `json:"formatted_price"`
	FormattedCompareAtPrice string `json:"formatted_compare_at_price"`
}
