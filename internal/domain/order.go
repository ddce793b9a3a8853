package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is a placed order. Products is ordered and may repeat ids.
// Total is stored exactly as submitted; it is never derived from product prices.
type Order struct {
	ID        uuid.UUID   `json:"id"`
	Date      time.Time   `json:"date"`
	Products  []uuid.UUID `json:"products"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderView is an order with product names resolved. Products that no longer
// exist are omitted; the order itself is unaffected.
type OrderView struct {
	ID        uuid.UUID  `json:"id"`
	Date      time.Time  `json:"date"`
	Products  []NamedRef `json:"products"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// OrderRef is the projection of an order the sales engine folds over.
type OrderRef struct {
	ID       uuid.UUID
	Date     time.Time
	Total    float64
	Products []uuid.UUID
}
