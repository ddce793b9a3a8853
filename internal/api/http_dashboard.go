package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"order-catalog-service/internal/analytics"
)

// GetSalesMetrics serves GET /api/v1/dashboard/sales-metrics.
//
// Query parameters: categoryIds and productIds (repeated or comma separated),
// startDate and endDate (YYYY-MM-DD or RFC 3339, both inclusive).
func (h *HTTPHandler) GetSalesMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := analytics.ParseFilter(q["categoryIds"], q["productIds"], q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		h.respondWithSalesError(w, err)
		return
	}

	metrics, err := h.sales.Compute(r.Context(), filter)
	if err != nil {
		h.respondWithSalesError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, metrics)
}

func (h *HTTPHandler) respondWithSalesError(w http.ResponseWriter, err error) {
	var invalid *analytics.InvalidFilterError
	var unavailable *analytics.StoreUnavailableError
	switch {
	case errors.As(err, &invalid):
		h.respondWithError(w, http.StatusBadRequest, invalid.Error())
	case errors.As(err, &unavailable):
		h.respondWithError(w, http.StatusServiceUnavailable, "Sales metrics are temporarily unavailable")
	default:
		h.logger.Error("sales metrics computation failed", zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to compute sales metrics")
	}
}
