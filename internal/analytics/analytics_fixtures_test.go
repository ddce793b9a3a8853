package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"order-catalog-service/internal/domain"
)

var (
	catGaming  = uuid.MustParse("6a1c2b0e-0000-4000-8000-000000000001")
	catOutdoor = uuid.MustParse("6a1c2b0e-0000-4000-8000-000000000002")
	catPets    = uuid.MustParse("6a1c2b0e-0000-4000-8000-000000000003")
	catEmpty   = uuid.MustParse("6a1c2b0e-0000-4000-8000-0000000000ff")

	prodKeyboard = uuid.MustParse("7b2d3c1f-0000-4000-8000-000000000001")
	prodTent     = uuid.MustParse("7b2d3c1f-0000-4000-8000-000000000002")
	prodFeeder   = uuid.MustParse("7b2d3c1f-0000-4000-8000-000000000003")
	prodGone     = uuid.MustParse("7b2d3c1f-0000-4000-8000-0000000000ff")
)

func day(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

// memCatalog answers FindProductsByCategories from a fixed product list.
type memCatalog struct {
	products []domain.ProductRef
	calls    int
}

func (c *memCatalog) FindProductsByCategories(_ context.Context, categoryIDs []uuid.UUID) ([]domain.ProductRef, error) {
	c.calls++
	wanted := make(map[uuid.UUID]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		wanted[id] = true
	}
	var out []domain.ProductRef
	for _, p := range c.products {
		for _, cat := range p.Categories {
			if wanted[cat] {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

// memOrders returns every stored order and leaves filtering to the caller.
type memOrders struct {
	orders []domain.OrderRef
	calls  int
}

func (o *memOrders) QueryOrders(_ context.Context, _ OrderPredicate) ([]domain.OrderRef, error) {
	o.calls++
	out := make([]domain.OrderRef, len(o.orders))
	copy(out, o.orders)
	return out, nil
}

type MockCatalogReader struct {
	mock.Mock
}

func (m *MockCatalogReader) FindProductsByCategories(ctx context.Context, categoryIDs []uuid.UUID) ([]domain.ProductRef, error) {
	args := m.Called(ctx, categoryIDs)
	var refs []domain.ProductRef
	if arg0 := args.Get(0); arg0 != nil {
		refs = arg0.([]domain.ProductRef)
	}
	return refs, args.Error(1)
}

type MockOrderQuerier struct {
	mock.Mock
}

func (m *MockOrderQuerier) QueryOrders(ctx context.Context, pred OrderPredicate) ([]domain.OrderRef, error) {
	args := m.Called(ctx, pred)
	var refs []domain.OrderRef
	if arg0 := args.Get(0); arg0 != nil {
		refs = arg0.([]domain.OrderRef)
	}
	return refs, args.Error(1)
}

func sampleCatalog() *memCatalog {
	return &memCatalog{products: []domain.ProductRef{
		{ID: prodKeyboard, Categories: []uuid.UUID{catGaming}},
		{ID: prodTent, Categories: []uuid.UUID{catOutdoor}},
		{ID: prodFeeder, Categories: []uuid.UUID{catPets, catOutdoor}},
	}}
}

// twoOrders holds order A (keyboard) and order B (feeder).
func twoOrders() *memOrders {
	return &memOrders{orders: []domain.OrderRef{
		{ID: uuid.New(), Date: day("2025-03-05T12:30:00Z"), Total: 129.99, Products: []uuid.UUID{prodKeyboard}},
		{ID: uuid.New(), Date: day("2025-03-07T09:45:00Z"), Total: 89.99, Products: []uuid.UUID{prodFeeder}},
	}}
}
