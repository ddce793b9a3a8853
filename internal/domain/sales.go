package domain

import (
	"time"

	"github.com/google/uuid"
)

// SalesFilter narrows the orders a SalesMetrics computation covers.
// Empty slices and nil dates mean "no constraint". Both dates are inclusive.
type SalesFilter struct {
	CategoryIDs []uuid.UUID
	ProductIDs  []uuid.UUID
	StartDate   *time.Time
	EndDate     *time.Time
}

// SalesMetrics is the result of a sales computation.
type SalesMetrics struct {
	TotalOrders       int               `json:"totalOrders"`
	TotalRevenue      float64           `json:"totalRevenue"`
	AverageOrderValue float64           `json:"averageOrderValue"`
	OrdersByDate      []DailyOrderCount `json:"ordersByDate"`
}

// DailyOrderCount is the number of matching orders on one UTC calendar day.
type DailyOrderCount struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int    `json:"count"`
}
