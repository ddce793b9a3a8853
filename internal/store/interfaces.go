package store

import (
	"context"

	"github.com/google/uuid"

	"order-catalog-service/internal/analytics"
	"order-catalog-service/internal/domain"
)

// ListParams holds pagination parameters shared by the list operations.
type ListParams struct {
	Limit  int
	Offset int
}

// CategoryStorer defines the database operations for categories.
type CategoryStorer interface {
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	ListCategories(ctx context.Context, params ListParams) ([]domain.Category, int, error) // Returns categories and total count for pagination
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// ProductStorer defines the database operations for products.
// Reads return views with category names resolved.
type ProductStorer interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.ProductView, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetProductView(ctx context.Context, id uuid.UUID) (*domain.ProductView, error)
	ListProducts(ctx context.Context, params ListParams) ([]domain.ProductView, int, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.ProductView, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// OrderStorer defines the database operations for orders.
// Reads return views with product names resolved.
type OrderStorer interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.OrderView, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOrderView(ctx context.Context, id uuid.UUID) (*domain.OrderView, error)
	ListOrders(ctx context.Context, params ListParams) ([]domain.OrderView, int, error)
	UpdateOrder(ctx context.Context, order *domain.Order) (*domain.OrderView, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

var (
	_ CategoryStorer          = (*PostgresStore)(nil)
	_ ProductStorer           = (*PostgresStore)(nil)
	_ OrderStorer             = (*PostgresStore)(nil)
	_ analytics.CatalogReader = (*PostgresStore)(nil)
	_ analytics.OrderQuerier  = (*PostgresStore)(nil)
)
