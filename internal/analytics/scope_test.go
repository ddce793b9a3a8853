package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"order-catalog-service/internal/domain"
)

func TestResolver_NoFiltersMatchesAnyProduct(t *testing.T) {
	catalog := sampleCatalog()
	pred, err := NewResolver(catalog).Resolve(context.Background(), domain.SalesFilter{})
	require.NoError(t, err)

	assert.True(t, pred.AnyProduct())
	assert.Zero(t, catalog.calls, "catalog must not be read without a category filter")
}

func TestResolver_UnionOfCategoriesAndProducts(t *testing.T) {
	pred, err := NewResolver(sampleCatalog()).Resolve(context.Background(), domain.SalesFilter{
		CategoryIDs: []uuid.UUID{catGaming},
		ProductIDs:  []uuid.UUID{prodTent},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{prodKeyboard, prodTent}, pred.ProductIDs())
}

func TestResolver_CategoryWithSharedProducts(t *testing.T) {
	pred, err := NewResolver(sampleCatalog()).Resolve(context.Background(), domain.SalesFilter{
		CategoryIDs: []uuid.UUID{catOutdoor, catPets, catOutdoor},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{prodTent, prodFeeder}, pred.ProductIDs())
}

func TestResolver_EmptyCategoryLeavesProductsOpen(t *testing.T) {
	catalog := sampleCatalog()
	pred, err := NewResolver(catalog).Resolve(context.Background(), domain.SalesFilter{
		CategoryIDs: []uuid.UUID{catEmpty},
	})
	require.NoError(t, err)

	assert.True(t, pred.AnyProduct())
	assert.Equal(t, 1, catalog.calls)
}

func TestResolver_EmptyCategoryKeepsExplicitProducts(t *testing.T) {
	pred, err := NewResolver(sampleCatalog()).Resolve(context.Background(), domain.SalesFilter{
		CategoryIDs: []uuid.UUID{catEmpty},
		ProductIDs:  []uuid.UUID{prodFeeder},
	})
	require.NoError(t, err)

	assert.False(t, pred.AnyProduct())
	assert.Equal(t, []uuid.UUID{prodFeeder}, pred.ProductIDs())
}

func TestResolver_DiscardsSupersetFromStore(t *testing.T) {
	catalog := new(MockCatalogReader)
	catalog.On("FindProductsByCategories", mock.Anything, []uuid.UUID{catGaming}).Return([]domain.ProductRef{
		{ID: prodKeyboard, Categories: []uuid.UUID{catGaming}},
		{ID: prodTent, Categories: []uuid.UUID{catOutdoor}},
	}, nil)

	pred, err := NewResolver(catalog).Resolve(context.Background(), domain.SalesFilter{CategoryIDs: []uuid.UUID{catGaming}})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{prodKeyboard}, pred.ProductIDs())
	catalog.AssertExpectations(t)
}

func TestResolver_CarriesDateRange(t *testing.T) {
	start := day("2025-03-06T00:00:00Z")
	pred, err := NewResolver(sampleCatalog()).Resolve(context.Background(), domain.SalesFilter{StartDate: &start})
	require.NoError(t, err)

	rng := pred.DateRange()
	require.NotNil(t, rng.Start)
	assert.Equal(t, start, *rng.Start)
	assert.Nil(t, rng.End)
}

func TestResolver_InvalidFilter(t *testing.T) {
	start := day("2025-03-10T00:00:00Z")
	end := day("2025-03-01T00:00:00Z")

	tests := []struct {
		name   string
		filter domain.SalesFilter
		field  string
	}{
		{"nil category id", domain.SalesFilter{CategoryIDs: []uuid.UUID{uuid.Nil}}, "categoryIds"},
		{"nil product id", domain.SalesFilter{ProductIDs: []uuid.UUID{prodTent, uuid.Nil}}, "productIds"},
		{"inverted range", domain.SalesFilter{StartDate: &start, EndDate: &end}, "startDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := sampleCatalog()
			_, err := NewResolver(catalog).Resolve(context.Background(), tt.filter)

			var invalid *InvalidFilterError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
			assert.Zero(t, catalog.calls)
		})
	}
}

func TestResolver_StoreFailure(t *testing.T) {
	cause := errors.New("connection refused")
	catalog := new(MockCatalogReader)
	catalog.On("FindProductsByCategories", mock.Anything, mock.Anything).Return(nil, cause)

	_, err := NewResolver(catalog).Resolve(context.Background(), domain.SalesFilter{CategoryIDs: []uuid.UUID{catGaming}})

	var unavailable *StoreUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "FindProductsByCategories", unavailable.Op)
	assert.ErrorIs(t, err, cause)
}
