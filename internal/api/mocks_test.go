package api

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"order-catalog-service/internal/domain"
	"order-catalog-service/internal/store"
)

// MockCategoryStorer is a mock implementation of store.CategoryStorer
type MockCategoryStorer struct {
	mock.Mock
}

func (m *MockCategoryStorer) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryStorer) GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryStorer) ListCategories(ctx context.Context, params store.ListParams) ([]domain.Category, int, error) {
	args := m.Called(ctx, params)
	var categories []domain.Category
	if arg0 := args.Get(0); arg0 != nil {
		categories = arg0.([]domain.Category)
	}
	return categories, args.Int(1), args.Error(2)
}

func (m *MockCategoryStorer) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryStorer) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductStorer is a mock implementation of store.ProductStorer
type MockProductStorer struct {
	mock.Mock
}

func (m *MockProductStorer) CreateProduct(ctx context.Context, product *domain.Product) (*domain.ProductView, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductView), args.Error(1)
}

func (m *MockProductStorer) GetProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) GetProductView(ctx context.Context, id uuid.UUID) (*domain.ProductView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductView), args.Error(1)
}

func (m *MockProductStorer) ListProducts(ctx context.Context, params store.ListParams) ([]domain.ProductView, int, error) {
	args := m.Called(ctx, params)
	var products []domain.ProductView
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.ProductView)
	}
	return products, args.Int(1), args.Error(2)
}

func (m *MockProductStorer) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.ProductView, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductView), args.Error(1)
}

func (m *MockProductStorer) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderStorer is a mock implementation of store.OrderStorer
type MockOrderStorer struct {
	mock.Mock
}

func (m *MockOrderStorer) CreateOrder(ctx context.Context, order *domain.Order) (*domain.OrderView, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderView), args.Error(1)
}

func (m *MockOrderStorer) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderStorer) GetOrderView(ctx context.Context, id uuid.UUID) (*domain.OrderView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderView), args.Error(1)
}

func (m *MockOrderStorer) ListOrders(ctx context.Context, params store.ListParams) ([]domain.OrderView, int, error) {
	args := m.Called(ctx, params)
	var orders []domain.OrderView
	if arg0 := args.Get(0); arg0 != nil {
		orders = arg0.([]domain.OrderView)
	}
	return orders, args.Int(1), args.Error(2)
}

func (m *MockOrderStorer) UpdateOrder(ctx context.Context, order *domain.Order) (*domain.OrderView, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderView), args.Error(1)
}

func (m *MockOrderStorer) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSalesMetricsComputer struct {
	mock.Mock
}

func (m *MockSalesMetricsComputer) Compute(ctx context.Context, f domain.SalesFilter) (*domain.SalesMetrics, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesMetrics), args.Error(1)
}

type MockImageUploader struct {
	mock.Mock
}

func (m *MockImageUploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	data, _ := io.ReadAll(body)
	args := m.Called(ctx, filename, contentType, string(data))
	return args.String(0), args.Error(1)
}

// testDeps returns fresh mocks for every handler dependency.
type testDeps struct {
	categories *MockCategoryStorer
	products   *MockProductStorer
	orders     *MockOrderStorer
	sales      *MockSalesMetricsComputer
	images     *MockImageUploader
}

func newTestDeps() *testDeps {
	return &testDeps{
		categories: new(MockCategoryStorer),
		products:   new(MockProductStorer),
		orders:     new(MockOrderStorer),
		sales:      new(MockSalesMetricsComputer),
		images:     new(MockImageUploader),
	}
}

// Helper for setting up tests with the full router and handler
func setupTestChiServer(t *testing.T, d *testDeps, withImages bool) *httptest.Server {
	t.Helper()
	deps := Dependencies{
		Categories: d.categories,
		Products:   d.products,
		Orders:     d.orders,
		Sales:      d.sales,
	}
	if withImages {
		deps.Images = d.images
	}
	return httptest.NewServer(NewRouter(NewHTTPHandler(deps), nil))
}

func PtrTo[T any](v T) *T {
	return &v
}
