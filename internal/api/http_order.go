package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"order-catalog-service/internal/domain"
	"order-catalog-service/internal/store"
)

// OrderInput is the body of order create and update requests. Total is stored as
// given; it is not checked against product prices.
type OrderInput struct {
	Date     *string  `json:"date" validate:"omitempty"`
	Products []string `json:"products" validate:"omitempty,dive,uuid"`
	Total    *float64 `json:"total" validate:"omitempty,gte=0"`
}

func (h *HTTPHandler) decodeOrder(w http.ResponseWriter, r *http.Request) (*OrderInput, bool) {
	var input OrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return nil, false
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return nil, false
	}
	return &input, true
}

// parseOrderDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD day (UTC).
func parseOrderDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeOrder(w, r)
	if !ok {
		return
	}
	if input.Date == nil || input.Total == nil || len(input.Products) == 0 {
		h.respondWithError(w, http.StatusBadRequest, "Validation failed: date, products and total are required")
		return
	}
	date, ok := parseOrderDate(*input.Date)
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid date format for date. Expected format: YYYY-MM-DD.")
		return
	}
	products, ok := parseUUIDList(input.Products)
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	created, err := h.orderStore.CreateOrder(r.Context(), &domain.Order{Date: date, Products: products, Total: *input.Total})
	if err != nil {
		h.logger.Error("CreateOrder store operation failed", zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	h.respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	params, page := pageParams(r)

	orders, totalCount, err := h.orderStore.ListOrders(r.Context(), params)
	if err != nil {
		h.logger.Error("ListOrders store operation failed", zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	h.respondWithJSON(w, http.StatusOK, newListResponse(orders, page, params.Limit, totalCount))
}

func (h *HTTPHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(r, "orderId")
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, err := h.orderStore.GetOrderView(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			h.respondWithError(w, http.StatusNotFound, store.ErrOrderNotFound.Error())
			return
		}
		h.logger.Error("GetOrderByID store operation failed", zap.Stringer("id", orderID), zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve order")
		return
	}

	h.respondWithJSON(w, http.StatusOK, order)
}

func (h *HTTPHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(r, "orderId")
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}
	input, ok := h.decodeOrder(w, r)
	if !ok {
		return
	}

	order, err := h.orderStore.GetOrderByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			h.respondWithError(w, http.StatusNotFound, store.ErrOrderNotFound.Error())
			return
		}
		h.logger.Error("UpdateOrder failed to load order", zap.Stringer("id", orderID), zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	if input.Date != nil {
		date, ok := parseOrderDate(*input.Date)
		if !ok {
			h.respondWithError(w, http.StatusBadRequest, "Invalid date format for date. Expected format: YYYY-MM-DD.")
			return
		}
		order.Date = date
	}
	if input.Products != nil {
		products, ok := parseUUIDList(input.Products)
		if !ok {
			h.respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
			return
		}
		order.Products = products
	}
	if input.Total != nil {
		order.Total = *input.Total
	}

	updated, err := h.orderStore.UpdateOrder(r.Context(), order)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			h.respondWithError(w, http.StatusNotFound, store.ErrOrderNotFound.Error())
			return
		}
		h.logger.Error("UpdateOrder store operation failed", zap.Stringer("id", orderID), zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	h.respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(r, "orderId")
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	if err := h.orderStore.DeleteOrder(r.Context(), orderID); err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			h.respondWithError(w, http.StatusNotFound, store.ErrOrderNotFound.Error())
			return
		}
		h.logger.Error("DeleteOrder store operation failed", zap.Stringer("id", orderID), zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Failed to delete order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
