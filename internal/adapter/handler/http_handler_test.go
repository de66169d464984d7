package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rl1809/shopdesk/internal/core/service"
)

func newTestHandler() (*service.ShopService, *HTTPHandler) {
	shop := service.NewShopService()
	return shop, NewHTTPHandler(shop, zap.NewNop())
}

func doJSON(t *testing.T, fn http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestItems_RegisterAndList(t *testing.T) {
	_, h := newTestHandler()

	rec := doJSON(t, h.Items, http.MethodPost, "/api/items",
		`{"kind":"unit","name":"Screws","price_per_unit":"0.25","weight":"0.01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	unit := decode[itemResponse](t, rec)
	assert.Equal(t, "unit", unit.Kind)
	assert.NotEmpty(t, unit.ID)
	assert.Equal(t, "Screws (0.01 kg/pc) @ 0.25", unit.Display)

	rec = doJSON(t, h.Items, http.MethodPost, "/api/items",
		`{"kind":"bulk","name":"Oil","price_per_unit":"3.5","measurement_unit":"kg"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bulk := decode[itemResponse](t, rec)
	assert.Equal(t, "kg", bulk.MeasurementUnit)

	rec = doJSON(t, h.Items, http.MethodGet, "/api/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decode[[]itemResponse](t, rec)
	require.Len(t, listing, 2)
	assert.Equal(t, "Screws", listing[0].Name, "catalog keeps registration order")
	assert.Equal(t, "Oil", listing[1].Name)
}

func TestItems_Validation(t *testing.T) {
	_, h := newTestHandler()

	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"missing name", `{"kind":"unit","price_per_unit":"1"}`},
		{"bad kind", `{"kind":"liquid","name":"Oil","price_per_unit":"1"}`},
		{"bulk without unit", `{"kind":"bulk","name":"Oil","price_per_unit":"1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h.Items, http.MethodPost, "/api/items", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := doJSON(t, h.Items, http.MethodDelete, "/api/items", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStock_SetAndGet(t *testing.T) {
	shop, h := newTestHandler()
	item := shop.RegisterUnitItem("Pump", decimal.NewFromInt(1200), decimal.RequireFromString("3.5"))

	rec := doJSON(t, h.Stock, http.MethodPut, "/api/stock",
		`{"item_id":"`+item.ID().String()+`","quantity":"5"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h.Stock, http.MethodGet, "/api/stock?item_id="+item.ID().String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[stockResponse](t, rec)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "Pump", got.Name)
}

func TestStock_Validation(t *testing.T) {
	shop, h := newTestHandler()
	item := shop.RegisterUnitItem("Pump", decimal.NewFromInt(1200), decimal.RequireFromString("3.5"))

	rec := doJSON(t, h.Stock, http.MethodPut, "/api/stock",
		`{"item_id":"`+item.ID().String()+`","quantity":"-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h.Stock, http.MethodPut, "/api/stock",
		`{"item_id":"`+uuid.NewString()+`","quantity":"5"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h.Stock, http.MethodGet, "/api/stock?item_id=not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown but well-formed handles report zero stock, not an error.
	rec = doJSON(t, h.Stock, http.MethodGet, "/api/stock?item_id="+uuid.NewString(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[stockResponse](t, rec)
	assert.True(t, got.Quantity.IsZero())
}

func TestLowStock(t *testing.T) {
	shop, h := newTestHandler()
	pump := shop.RegisterUnitItem("Pump", decimal.NewFromInt(1200), decimal.RequireFromString("3.5"))
	screws := shop.RegisterUnitItem("Screws", decimal.RequireFromString("0.25"), decimal.RequireFromString("0.01"))
	require.NoError(t, shop.SetStock(pump.ID(), decimal.NewFromInt(4)))
	require.NoError(t, shop.SetStock(screws.ID(), decimal.NewFromInt(500)))

	rec := doJSON(t, h.LowStock, http.MethodGet, "/api/stock/low", "")
	require.Equal(t, http.StatusOK, rec.Code)
	low := decode[[]stockResponse](t, rec)
	require.Len(t, low, 1)
	assert.Equal(t, "Pump", low[0].Name)

	rec = doJSON(t, h.LowStock, http.MethodGet, "/api/stock/low?threshold=1000", "")
	low = decode[[]stockResponse](t, rec)
	require.Len(t, low, 2, "custom threshold overrides the default")
	assert.Equal(t, "Pump", low[0].Name)
	assert.Equal(t, "Screws", low[1].Name)

	rec = doJSON(t, h.LowStock, http.MethodGet, "/api/stock/low?threshold=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderFlow(t *testing.T) {
	shop, h := newTestHandler()
	screws := shop.RegisterUnitItem("Screws", decimal.RequireFromString("0.25"), decimal.RequireFromString("0.01"))
	oil := shop.RegisterBulkItem("Oil", decimal.RequireFromString("3.5"), "kg")
	require.NoError(t, shop.SetStock(screws.ID(), decimal.NewFromInt(500)))
	require.NoError(t, shop.SetStock(oil.ID(), decimal.NewFromInt(200)))

	rec := doJSON(t, h.PlaceOrder, http.MethodPost, "/api/orders",
		`{"customer":"ACME Robotics","lines":[`+
			`{"item_id":"`+screws.ID().String()+`","quantity":"100"},`+
			`{"item_id":"`+oil.ID().String()+`","quantity":"20"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	placed := decode[orderResponse](t, rec)
	require.Len(t, placed.Lines, 2)
	assert.True(t, placed.TotalPrice.Equal(decimal.NewFromInt(95)))

	rec = doJSON(t, h.QueuedOrders, http.MethodGet, "/api/orders/queued", "")
	queued := decode[[]orderResponse](t, rec)
	require.Len(t, queued, 1)
	assert.Equal(t, placed.ID, queued[0].ID)

	rec = doJSON(t, h.ProcessNextOrder, http.MethodPost, "/api/orders/process", "")
	require.Equal(t, http.StatusOK, rec.Code)
	processed := decode[orderResponse](t, rec)
	assert.Equal(t, placed.ID, processed.ID)

	rec = doJSON(t, h.ProcessNextOrder, http.MethodPost, "/api/orders/process", "")
	assert.Equal(t, http.StatusNoContent, rec.Code, "an empty queue is not an error")

	rec = doJSON(t, h.ProcessedOrders, http.MethodGet, "/api/orders/processed", "")
	ledger := decode[[]orderResponse](t, rec)
	require.Len(t, ledger, 1)

	rec = doJSON(t, h.Revenue, http.MethodGet, "/api/revenue", "")
	revenue := decode[revenueResponse](t, rec)
	assert.True(t, revenue.TotalRevenue.Equal(decimal.NewFromInt(95)))

	assert.True(t, shop.GetStock(screws.ID()).Equal(decimal.NewFromInt(400)))
	assert.True(t, shop.GetStock(oil.ID()).Equal(decimal.NewFromInt(180)))
}

func TestPlaceOrder_Validation(t *testing.T) {
	shop, h := newTestHandler()
	item := shop.RegisterUnitItem("Screws", decimal.RequireFromString("0.25"), decimal.RequireFromString("0.01"))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"missing customer", `{"lines":[{"item_id":"` + item.ID().String() + `","quantity":"1"}]}`, http.StatusBadRequest},
		{"no lines", `{"customer":"ACME Robotics","lines":[]}`, http.StatusBadRequest},
		{"zero quantity", `{"customer":"ACME Robotics","lines":[{"item_id":"` + item.ID().String() + `","quantity":"0"}]}`, http.StatusBadRequest},
		{"bad item id", `{"customer":"ACME Robotics","lines":[{"item_id":"nope","quantity":"1"}]}`, http.StatusBadRequest},
		{"unknown item", `{"customer":"ACME Robotics","lines":[{"item_id":"` + uuid.NewString() + `","quantity":"1"}]}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h.PlaceOrder, http.MethodPost, "/api/orders", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	rec := doJSON(t, h.PlaceOrder, http.MethodGet, "/api/orders", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	_, h := newTestHandler()

	rec := doJSON(t, h.HealthCheck, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
