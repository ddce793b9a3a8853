package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"order-catalog-service/internal/domain"
	"order-catalog-service/internal/telemetry"
)

const dayLayout = "2006-01-02"

// OrderQuerier is the part of the order store the Aggregator depends on.
// Implementations may push the predicate down or return a superset of the matching
// orders; the Aggregator filters again in process.
type OrderQuerier interface {
	QueryOrders(ctx context.Context, pred OrderPredicate) ([]domain.OrderRef, error)
}

// Aggregator folds the orders selected by a predicate into SalesMetrics.
type Aggregator struct {
	orders OrderQuerier
}

// NewAggregator creates an Aggregator over orders.
func NewAggregator(orders OrderQuerier) *Aggregator {
	return &Aggregator{orders: orders}
}

// Run fetches the candidate orders once and derives both the global totals and the
// per-day breakdown from that single result set, so the two always cover the same scope.
func (a *Aggregator) Run(ctx context.Context, pred OrderPredicate) (*domain.SalesMetrics, error) {
	ctx, span := telemetry.StartSpan(ctx, "analytics.Aggregator.Run")
	defer span.End()

	start := time.Now()
	rows, err := a.orders.QueryOrders(ctx, pred)
	telemetry.StoreQueryDuration.WithLabelValues("query_orders").Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		return nil, &StoreUnavailableError{Op: "QueryOrders", Err: err}
	}

	matched := make([]domain.OrderRef, 0, len(rows))
	for _, o := range rows {
		if pred.Matches(o) {
			matched = append(matched, o)
		}
	}

	count, revenue, average := foldTotals(matched)
	return &domain.SalesMetrics{
		TotalOrders:       count,
		TotalRevenue:      revenue,
		AverageOrderValue: average,
		OrdersByDate:      foldDaily(matched),
	}, nil
}

// foldTotals is the global pass.
func foldTotals(orders []domain.OrderRef) (count int, revenue, average float64) {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(decimal.NewFromFloat(o.Total))
	}
	count = len(orders)
	if count == 0 {
		return 0, 0, 0
	}
	avg := sum.Div(decimal.NewFromInt(int64(count)))
	return count, sum.InexactFloat64(), avg.InexactFloat64()
}

// foldDaily is the per-day pass: UTC calendar days ascending, no gap filling.
func foldDaily(orders []domain.OrderRef) []domain.DailyOrderCount {
	perDay := make(map[string]int)
	for _, o := range orders {
		perDay[o.Date.UTC().Format(dayLayout)]++
	}

	days := make([]string, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]domain.DailyOrderCount, 0, len(days))
	for _, day := range days {
		out = append(out, domain.DailyOrderCount{Day: day, Count: perDay[day]})
	}
	return out
}
