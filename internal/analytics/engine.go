// Package analytics computes sales metrics over the order and catalog stores.
//
// A computation resolves a SalesFilter into an OrderPredicate (Resolver), then folds
// the orders matching it into totals and a per-day breakdown (Aggregator). Nothing
// is cached or mutated, so an Engine is safe for concurrent use.
package analytics

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"order-catalog-service/internal/domain"
	"order-catalog-service/internal/telemetry"
)

// Engine is the sales metrics facade consumed by the transport layers.
type Engine struct {
	resolver   *Resolver
	aggregator *Aggregator
	logger     *zap.Logger
}

// NewEngine wires a Resolver over catalog and an Aggregator over orders.
func NewEngine(catalog CatalogReader, orders OrderQuerier, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		resolver:   NewResolver(catalog),
		aggregator: NewAggregator(orders),
		logger:     logger,
	}
}

// Compute returns the sales metrics for the orders in scope of f. It either returns
// a complete result or an error, never a partial result.
func (e *Engine) Compute(ctx context.Context, f domain.SalesFilter) (*domain.SalesMetrics, error) {
	ctx, span := telemetry.StartSpan(ctx, "analytics.Engine.Compute")
	defer span.End()

	start := time.Now()
	defer func() {
		telemetry.SalesMetricsComputeDuration.Observe(time.Since(start).Seconds())
	}()

	pred, err := e.resolver.Resolve(ctx, f)
	if err != nil {
		return nil, e.fail(err)
	}

	metrics, err := e.aggregator.Run(ctx, pred)
	if err != nil {
		return nil, e.fail(err)
	}

	telemetry.SalesMetricsComputations.WithLabelValues(telemetry.ResultOK).Inc()
	e.logger.Debug("sales metrics computed",
		zap.Int("category_filters", len(f.CategoryIDs)),
		zap.Int("product_filters", len(f.ProductIDs)),
		zap.Int("total_orders", metrics.TotalOrders),
		zap.Duration("elapsed", time.Since(start)))
	return metrics, nil
}

func (e *Engine) fail(err error) error {
	var invalid *InvalidFilterError
	var unavailable *StoreUnavailableError
	switch {
	case errors.As(err, &invalid):
		telemetry.SalesMetricsComputations.WithLabelValues(telemetry.ResultInvalidFilter).Inc()
	case errors.As(err, &unavailable):
		telemetry.SalesMetricsComputations.WithLabelValues(telemetry.ResultStoreUnavailable).Inc()
		e.logger.Error("sales metrics store read failed", zap.String("op", unavailable.Op), zap.Error(unavailable.Err))
	default:
		telemetry.SalesMetricsComputations.WithLabelValues(telemetry.ResultError).Inc()
	}
	return err
}
