package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"order-catalog-service/internal/domain"
	"order-catalog-service/internal/store"
)

func TestHTTPHandler_CreateOrder_Success(t *testing.T) {
	d := newTestDeps()
	server := setupTestChiServer(t, d, false)
	defer server.Close()

	p1, p2 := uuid.New(), uuid.New()
	wantDate := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

	d.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.Date.Equal(wantDate) && o.Total == 329.98 &&
			len(o.Products) == 3 && o.Products[0] == p1 && o.Products[1] == p2 && o.Products[2] == p1
	})).Return(&domain.OrderView{ID: uuid.New(), Date: wantDate, Total: 329.98}, nil).Once()

	body, _ := json.Marshal(map[string]interface{}{
		"date":     "2025-03-05",
		"products": []string{p1.String(), p2.String(), p1.String()},
		"total":    329.98,
	})
	res, err := http.Post(server.URL+"/api/v1/orders", "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode)
	var got domain.OrderView
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, 329.98, got.Total)
	d.orders.AssertExpectations(t)
}

func TestHTTPHandler_CreateOrder_Rejected(t *testing.T) {
	d := newTestDeps()
	server := setupTestChiServer(t, d, false)
	defer server.Close()

	p := uuid.New().String()
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing total", `{"date":"2025-03-05","products":["` + p + `"]}`, "Validation failed: date, products and total are required"},
		{"no products", `{"date":"2025-03-05","products":[],"total":1}`, "Validation failed: date, products and total are required"},
		{"bad date", `{"date":"05/03/2025","products":["` + p + `"],"total":1}`, "Invalid date format for date. Expected format: YYYY-MM-DD."},
		{"negative total", `{"date":"2025-03-05","products":["` + p + `"],"total":-5}`, ""},
		{"bad product id", `{"date":"2025-03-05","products":["nope"],"total":1}`, ""},
		{"not json", `{`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := http.Post(server.URL+"/api/v1/orders", "application/json", bytes.NewBufferString(tt.body))
			require.NoError(t, err)
			defer res.Body.Close()

			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			if tt.message != "" {
				var errResp ErrorResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&errResp))
				assert.Equal(t, tt.message, errResp.Error)
			}
		})
	}
	d.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestParseOrderDate(t *testing.T) {
	got, ok := parseOrderDate("2025-03-05T23:30:00-02:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 6, 1, 30, 0, 0, time.UTC), got)

	got, ok = parseOrderDate(" 2025-03-05 ")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), got)

	_, ok = parseOrderDate("yesterday")
	assert.False(t, ok)
}

func TestHTTPHandler_UpdateOrder_Partial(t *testing.T) {
	d := newTestDeps()
	server := setupTestChiServer(t, d, false)
	defer server.Close()

	id, p := uuid.New(), uuid.New()
	date := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	d.orders.On("GetOrderByID", mock.Anything, id).
		Return(&domain.Order{ID: id, Date: date, Products: []uuid.UUID{p}, Total: 89.99}, nil).Once()
	d.orders.On("UpdateOrder", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.ID == id && o.Date.Equal(date) && o.Total == 99.5 && len(o.Products) == 1
	})).Return(&domain.OrderView{ID: id, Total: 99.5}, nil).Once()

	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/v1/orders/"+id.String(), bytes.NewBufferString(`{"total":99.5}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	d.orders.AssertExpectations(t)
}

func TestHTTPHandler_OrderNotFound(t *testing.T) {
	d := newTestDeps()
	server := setupTestChiServer(t, d, false)
	defer server.Close()

	id := uuid.New()
	d.orders.On("GetOrderView", mock.Anything, id).Return(nil, store.ErrOrderNotFound).Once()
	d.orders.On("DeleteOrder", mock.Anything, id).Return(store.ErrOrderNotFound).Once()

	res, err := http.Get(server.URL + "/api/v1/orders/" + id.String())
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/orders/"+id.String(), nil)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	d.orders.AssertExpectations(t)
}

func TestHTTPHandler_ListOrders(t *testing.T) {
	d := newTestDeps()
	server := setupTestChiServer(t, d, false)
	defer server.Close()

	d.orders.On("ListOrders", mock.Anything, store.ListParams{Limit: 5, Offset: 0}).
		Return([]domain.OrderView{{ID: uuid.New()}, {ID: uuid.New()}}, 12, nil).Once()

	res, err := http.Get(server.URL + "/api/v1/orders?limit=5")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	var payload ListResponse[domain.OrderView]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	assert.Len(t, payload.Data, 2)
	assert.Equal(t, Pagination{Page: 1, Limit: 5, TotalItems: 12, TotalPages: 3}, payload.Pagination)
}
