package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products. Products reference categories by id only, so deleting a
// category leaves those references dangling.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product represents a product in the catalog.
// Categories may hold ids of categories that no longer exist.
type Product struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	Price       float64     `json:"price"`
	Categories  []uuid.UUID `json:"categories"`
	ImageURL    *string     `json:"image_url,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NamedRef is an id with the display name it resolved to.
type NamedRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProductView is a product with its category references resolved to names.
// Orphan category ids are left out of Categories.
type ProductView struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Price       float64    `json:"price"`
	Categories  []NamedRef `json:"categories"`
	ImageURL    *string    `json:"image_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProductRef is the projection of a product the sales engine needs.
type ProductRef struct {
	ID         uuid.UUID
	Categories []uuid.UUID
}
