package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"order-catalog-service/internal/domain"
	"order-catalog-service/internal/store"
)

// SalesMetricsComputer computes dashboard metrics for a filter.
type SalesMetricsComputer interface {
	Compute(ctx context.Context, f domain.SalesFilter) (*domain.SalesMetrics, error)
}

// ImageUploader stores a product image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies groups what the HTTP handler needs. Images may be nil when object
// storage is disabled; product images are then rejected.
type Dependencies struct {
	Categories store.CategoryStorer
	Products   store.ProductStorer
	Orders     store.OrderStorer
	Sales      SalesMetricsComputer
	Images     ImageUploader
	DB         Pinger
	Logger     *zap.Logger
}

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	categoryStore store.CategoryStorer
	productStore  store.ProductStorer
	orderStore    store.OrderStorer
	sales         SalesMetricsComputer
	images        ImageUploader
	db            Pinger
	validate      *validator.Validate
	logger        *zap.Logger
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(deps Dependencies) *HTTPHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{
		categoryStore: deps.Categories,
		productStore:  deps.Products,
		orderStore:    deps.Orders,
		sales:         deps.Sales,
		images:        deps.Images,
		db:            deps.DB,
		validate:      validator.New(),
		logger:        logger,
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, ErrorResponse{Error: message})
}

func (h *HTTPHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			h.logger.Error("failed to encode JSON response", zap.Error(err))
		}
	}
}

// Pagination matches the pagination block of every list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// ListResponse wraps one page of items.
type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func newListResponse[T any](items []T, page, limit, total int) ListResponse[T] {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return ListResponse[T]{
		Data:       items,
		Pagination: Pagination{Page: page, Limit: limit, TotalItems: total, TotalPages: totalPages},
	}
}

// pageParams reads limit and page, defaulting to 10 and 1; limit is capped at 100.
func pageParams(r *http.Request) (store.ListParams, int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	return store.ListParams{Limit: limit, Offset: (page - 1) * limit}, page
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// parseUUIDList converts validated id strings, rejecting the nil UUID.
func parseUUIDList(raw []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil || id == uuid.Nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func (h *HTTPHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			dbStatus = "unhealthy"
			h.logger.Warn("health check DB ping failed", zap.Error(err))
		}
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"serviceName": ServiceName,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"database":    dbStatus,
	})
}

// ServiceName identifies the service in health payloads.
const ServiceName = "OrderCatalogService"

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/v1/healthz", h.Healthz)

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Post("/", h.CreateCategory)
		r.Get("/", h.ListCategories)
		r.Route("/{categoryId}", func(r chi.Router) {
			r.Get("/", h.GetCategoryByID)
			r.Put("/", h.UpdateCategory)
			r.Delete("/", h.DeleteCategory)
		})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct)
		r.Get("/", h.ListProducts)
		r.Route("/{productId}", func(r chi.Router) {
			r.Get("/", h.GetProductByID)
			r.Put("/", h.UpdateProduct)
			r.Delete("/", h.DeleteProduct)
		})
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Route("/{orderId}", func(r chi.Router) {
			r.Get("/", h.GetOrderByID)
			r.Put("/", h.UpdateOrder)
			r.Delete("/", h.DeleteOrder)
		})
	})

	r.Get("/api/v1/dashboard/sales-metrics", h.GetSalesMetrics)
}
