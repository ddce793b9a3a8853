package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"order-catalog-service/internal/domain"
	"order-catalog-service/internal/telemetry"
)

// CatalogReader is the part of the catalog store the Resolver depends on.
type CatalogReader interface {
	// FindProductsByCategories returns products whose categories intersect categoryIDs.
	FindProductsByCategories(ctx context.Context, categoryIDs []uuid.UUID) ([]domain.ProductRef, error)
}

// Resolver turns a SalesFilter into an OrderPredicate.
type Resolver struct {
	catalog CatalogReader
}

// NewResolver creates a Resolver reading products from catalog.
func NewResolver(catalog CatalogReader) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve builds the predicate for f.
//
// Category ids are expanded to the ids of the products carrying them, and the result
// is merged with the explicit product ids as a set union: an order is in scope when
// it holds any product from either source. When neither filter is given the
// predicate matches every product. A category filter that resolves to no products
// adds no constraint: alone it leaves the product dimension open, and next to explicit
// product ids only those ids apply.
func (r *Resolver) Resolve(ctx context.Context, f domain.SalesFilter) (OrderPredicate, error) {
	ctx, span := telemetry.StartSpan(ctx, "analytics.Resolver.Resolve")
	defer span.End()

	if err := validateFilter(f); err != nil {
		return OrderPredicate{}, err
	}

	rng := DateRange{Start: f.StartDate, End: f.EndDate}
	if len(f.CategoryIDs) == 0 && len(f.ProductIDs) == 0 {
		return AnyProductPredicate(rng), nil
	}

	ids := make([]uuid.UUID, 0, len(f.ProductIDs))
	ids = append(ids, f.ProductIDs...)

	if len(f.CategoryIDs) > 0 {
		derived, err := r.productsInCategories(ctx, f.CategoryIDs)
		if err != nil {
			span.RecordError(err)
			return OrderPredicate{}, err
		}
		ids = append(ids, derived...)
	}
	if len(ids) == 0 {
		return AnyProductPredicate(rng), nil
	}

	return ProductSetPredicate(ids, rng), nil
}

func (r *Resolver) productsInCategories(ctx context.Context, categoryIDs []uuid.UUID) ([]uuid.UUID, error) {
	wanted := make(map[uuid.UUID]struct{}, len(categoryIDs))
	unique := make([]uuid.UUID, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		if _, seen := wanted[id]; seen {
			continue
		}
		wanted[id] = struct{}{}
		unique = append(unique, id)
	}

	start := time.Now()
	refs, err := r.catalog.FindProductsByCategories(ctx, unique)
	telemetry.StoreQueryDuration.WithLabelValues("find_products_by_categories").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &StoreUnavailableError{Op: "FindProductsByCategories", Err: err}
	}

	// The store may return a superset; membership is checked again here.
	ids := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		for _, c := range ref.Categories {
			if _, ok := wanted[c]; ok {
				ids = append(ids, ref.ID)
				break
			}
		}
	}
	return ids, nil
}

func validateFilter(f domain.SalesFilter) error {
	for _, id := range f.CategoryIDs {
		if id == uuid.Nil {
			return invalidFilter("categoryIds", "Invalid category ID format: %s", id)
		}
	}
	for _, id := range f.ProductIDs {
		if id == uuid.Nil {
			return invalidFilter("productIds", "Invalid product ID format: %s", id)
		}
	}
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return invalidFilter("startDate", "startDate must not be after endDate")
	}
	return nil
}
