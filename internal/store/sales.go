package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"order-catalog-service/internal/analytics"
	"order-catalog-service/internal/domain"
	"order-catalog-service/internal/telemetry"
)

// FindProductsByCategories returns every product whose categories array overlaps
// categoryIDs.
func (s *PostgresStore) FindProductsByCategories(ctx context.Context, categoryIDs []uuid.UUID) ([]domain.ProductRef, error) {
	ctx, span := telemetry.StartSpan(ctx, "store.FindProductsByCategories")
	defer span.End()

	if len(categoryIDs) == 0 {
		return []domain.ProductRef{}, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []struct {
		ID         uuid.UUID      `db:"id"`
		Categories pq.StringArray `db:"categories"`
	}
	query := `SELECT id, categories FROM products WHERE categories && $1::uuid[];`
	if err := s.db.SelectContext(ctx, &rows, query, uuidStrings(categoryIDs)); err != nil {
		span.RecordError(err)
		s.logger.Warn("find products by categories failed", zap.Error(err))
		return nil, fmt.Errorf("store: FindProductsByCategories failed to query products: %w", err)
	}

	refs := make([]domain.ProductRef, 0, len(rows))
	for _, r := range rows {
		refs = append(refs, domain.ProductRef{ID: r.ID, Categories: parseUUIDs(r.Categories)})
	}
	return refs, nil
}

// QueryOrders pushes the predicate's date range and product set down to SQL.
// A product set predicate with no ids selects nothing without hitting the database.
func (s *PostgresStore) QueryOrders(ctx context.Context, pred analytics.OrderPredicate) ([]domain.OrderRef, error) {
	ctx, span := telemetry.StartSpan(ctx, "store.QueryOrders")
	defer span.End()

	query, args, ok := buildOrdersQuery(pred)
	if !ok {
		return []domain.OrderRef{}, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []struct {
		ID       uuid.UUID      `db:"id"`
		Date     time.Time      `db:"date"`
		Total    float64        `db:"total"`
		Products pq.StringArray `db:"products"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		span.RecordError(err)
		s.logger.Warn("query orders failed", zap.Error(err))
		return nil, fmt.Errorf("store: QueryOrders failed to query orders: %w", err)
	}

	refs := make([]domain.OrderRef, 0, len(rows))
	for _, r := range rows {
		refs = append(refs, domain.OrderRef{
			ID:       r.ID,
			Date:     r.Date.UTC(),
			Total:    r.Total,
			Products: parseUUIDs(r.Products),
		})
	}
	return refs, nil
}

func buildOrdersQuery(pred analytics.OrderPredicate) (string, []interface{}, bool) {
	var queryArgs []interface{}
	var whereClauses []string
	argID := 1

	rng := pred.DateRange()
	if rng.Start != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("date >= $%d", argID))
		queryArgs = append(queryArgs, *rng.Start)
		argID++
	}
	if rng.End != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("date <= $%d", argID))
		queryArgs = append(queryArgs, *rng.End)
		argID++
	}
	if !pred.AnyProduct() {
		ids := pred.ProductIDs()
		if len(ids) == 0 {
			return "", nil, false
		}
		whereClauses = append(whereClauses, fmt.Sprintf("products && $%d::uuid[]", argID))
		queryArgs = append(queryArgs, uuidStrings(ids))
	}

	whereCondition := ""
	if len(whereClauses) > 0 {
		whereCondition = " WHERE " + strings.Join(whereClauses, " AND ")
	}
	return "SELECT id, date, total, products FROM orders" + whereCondition + " ORDER BY date ASC;", queryArgs, true
}
