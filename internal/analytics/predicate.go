package analytics

import (
	"bytes"
	"slices"
	"time"

	"github.com/google/uuid"

	"order-catalog-service/internal/domain"
)

// DateRange bounds order dates. Both ends are inclusive; a nil end is unbounded.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t lies within the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// OrderPredicate is the normalized matching rule shared by every aggregation pass.
// It is built once by the Resolver and never modified afterwards.
type OrderPredicate struct {
	anyProduct bool
	productIDs map[uuid.UUID]struct{}
	dateRange  DateRange
}

// AnyProductPredicate matches every order inside rng regardless of its products.
func AnyProductPredicate(rng DateRange) OrderPredicate {
	return OrderPredicate{anyProduct: true, dateRange: copyRange(rng)}
}

// ProductSetPredicate matches orders inside rng holding at least one of ids.
// An empty ids matches nothing.
func ProductSetPredicate(ids []uuid.UUID, rng DateRange) OrderPredicate {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return OrderPredicate{productIDs: set, dateRange: copyRange(rng)}
}

// AnyProduct reports whether the predicate skips product filtering.
func (p OrderPredicate) AnyProduct() bool {
	return p.anyProduct
}

// ProductIDs returns the product set in a stable order. It is nil for AnyProduct.
func (p OrderPredicate) ProductIDs() []uuid.UUID {
	if p.anyProduct {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(p.productIDs))
	for id := range p.productIDs {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return ids
}

// DateRange returns a copy of the date bounds.
func (p OrderPredicate) DateRange() DateRange {
	return copyRange(p.dateRange)
}

// Matches applies the rule to a single order.
func (p OrderPredicate) Matches(o domain.OrderRef) bool {
	if !p.dateRange.Contains(o.Date) {
		return false
	}
	if p.anyProduct {
		return true
	}
	for _, id := range o.Products {
		if _, ok := p.productIDs[id]; ok {
			return true
		}
	}
	return false
}

func copyRange(r DateRange) DateRange {
	var out DateRange
	if r.Start != nil {
		s := *r.Start
		out.Start = &s
	}
	if r.End != nil {
		e := *r.End
		out.End = &e
	}
	return out
}
