package domain

import "time"

type Customer struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone"`
	City       string    `json:"city,omitempty"`
	Address    string    `json:"address,omitempty"`
	Occupation string    `json:"occupation,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CustomerInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	City       string `json:"city,omitempty"`
	Address    string `json:"address,omitempty"`
	Occupation string `json:"occupation,omitempty"`
}
