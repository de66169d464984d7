package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/shopdesk/internal/core/domain"
	"github.com/rl1809/shopdesk/internal/core/service"
)

const (
	itemKindUnit = "unit"
	itemKindBulk = "bulk"
)

// HTTPHandler exposes the shop session as a localhost JSON API. It is
// the stand-in for the desk UI: every endpoint maps to one user action
// or one bound view.
type HTTPHandler struct {
	shop   *service.ShopService
	logger *zap.Logger
}

func NewHTTPHandler(shop *service.ShopService, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{shop: shop, logger: logger}
}

type itemRequest struct {
	Kind            string          `json:"kind"`
	Name            string          `json:"name"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit"`
	Weight          decimal.Decimal `json:"weight"`
	MeasurementUnit string          `json:"measurement_unit"`
}

type itemResponse struct {
	ID              string           `json:"id"`
	Kind            string           `json:"kind"`
	Name            string           `json:"name"`
	PricePerUnit    decimal.Decimal  `json:"price_per_unit"`
	Weight          *decimal.Decimal `json:"weight,omitempty"`
	MeasurementUnit string           `json:"measurement_unit,omitempty"`
	Display         string           `json:"display"`
}

type stockRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

type stockResponse struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
}

type orderLineRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

type orderRequest struct {
	Customer string             `json:"customer"`
	Lines    []orderLineRequest `json:"lines"`
}

type orderLineResponse struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	LinePrice decimal.Decimal `json:"line_price"`
}

type orderResponse struct {
	ID         string              `json:"id"`
	CreatedAt  time.Time           `json:"created_at"`
	Lines      []orderLineResponse `json:"lines"`
	TotalPrice decimal.Decimal     `json:"total_price"`
	Display    string              `json:"display"`
}

type revenueResponse struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Items serves GET (catalog listing) and POST (register a new item).
func (h *HTTPHandler) Items(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items := h.shop.Items()
		out := make([]itemResponse, 0, len(items))
		for _, item := range items {
			out = append(out, toItemResponse(item))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var req itemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		if req.Name == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing item name"})
			return
		}

		var item domain.Item
		switch req.Kind {
		case itemKindUnit:
			item = h.shop.RegisterUnitItem(req.Name, req.PricePerUnit, req.Weight)
		case itemKindBulk:
			if req.MeasurementUnit == "" {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing measurement unit"})
				return
			}
			item = h.shop.RegisterBulkItem(req.Name, req.PricePerUnit, req.MeasurementUnit)
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "kind must be unit or bulk"})
			return
		}

		h.logger.Info("item registered",
			zap.String("item_id", item.ID().String()),
			zap.String("name", item.Name()),
			zap.String("kind", req.Kind))
		writeJSON(w, http.StatusCreated, toItemResponse(item))

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// Stock serves PUT (set stock) and GET (query one stock level).
func (h *HTTPHandler) Stock(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		var req stockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		itemID, err := uuid.Parse(req.ItemID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid item_id"})
			return
		}
		if req.Quantity.IsNegative() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "quantity must not be negative"})
			return
		}

		if err := h.shop.SetStock(itemID, req.Quantity); err != nil {
			if errors.Is(err, service.ErrUnknownItem) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown item"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, stockResponse{ItemID: req.ItemID, Quantity: req.Quantity})

	case http.MethodGet:
		itemID, err := uuid.Parse(r.URL.Query().Get("item_id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid item_id"})
			return
		}
		// Unknown items report zero stock rather than an error.
		resp := stockResponse{
			ItemID:   itemID.String(),
			Quantity: h.shop.GetStock(itemID),
		}
		if item, err := h.shop.LookupItem(itemID); err == nil {
			resp.Name = item.Name()
		}
		writeJSON(w, http.StatusOK, resp)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// LowStock lists entries below the reorder threshold. The threshold
// query parameter overrides the default of 5.
func (h *HTTPHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	threshold := domain.DefaultLowStockThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid threshold"})
			return
		}
		threshold = parsed
	}

	levels := h.shop.LowStock(threshold)
	out := make([]stockResponse, 0, len(levels))
	for _, lv := range levels {
		out = append(out, stockResponse{
			ItemID:   lv.Item.ID().String(),
			Name:     lv.Item.Name(),
			Quantity: lv.Quantity,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// PlaceOrder submits a new order for a customer.
func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Customer == "" || len(req.Lines) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing required fields"})
		return
	}

	lines := make([]service.LineRequest, 0, len(req.Lines))
	for _, l := range req.Lines {
		itemID, err := uuid.Parse(l.ItemID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid item_id"})
			return
		}
		if !l.Quantity.IsPositive() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "quantity must be positive"})
			return
		}
		lines = append(lines, service.LineRequest{ItemID: itemID, Quantity: l.Quantity})
	}

	order, err := h.shop.PlaceOrder(req.Customer, lines)
	if err != nil {
		if errors.Is(err, service.ErrUnknownItem) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown item"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	h.logger.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("customer", req.Customer),
		zap.Int("lines", len(req.Lines)))
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// ProcessNextOrder pops the next queued order and applies it to the
// inventory. An empty queue answers 204: nothing to do, not a failure.
func (h *HTTPHandler) ProcessNextOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	order, ok := h.shop.ProcessNextOrder()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.logger.Info("order processed",
		zap.String("order_id", order.ID.String()),
		zap.String("total_price", order.TotalPrice().String()))
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// QueuedOrders renders the pending queue in FIFO order.
func (h *HTTPHandler) QueuedOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(h.shop.QueuedOrders()))
}

// ProcessedOrders renders the processed ledger in processing order.
func (h *HTTPHandler) ProcessedOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(h.shop.ProcessedOrders()))
}

// Revenue reports the running total over processed orders.
func (h *HTTPHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, revenueResponse{TotalRevenue: h.shop.TotalRevenue()})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toItemResponse(item domain.Item) itemResponse {
	resp := itemResponse{
		ID:           item.ID().String(),
		Name:         item.Name(),
		PricePerUnit: item.PricePerUnit(),
		Display:      item.Render(domain.FormatPrice),
	}
	switch it := item.(type) {
	case *domain.UnitItem:
		resp.Kind = itemKindUnit
		weight := it.Weight
		resp.Weight = &weight
	case *domain.BulkItem:
		resp.Kind = itemKindBulk
		resp.MeasurementUnit = it.MeasurementUnit
	}
	return resp
}

func toOrderResponse(order *domain.Order) orderResponse {
	lines := order.Lines()
	out := orderResponse{
		ID:         order.ID.String(),
		CreatedAt:  order.CreatedAt,
		Lines:      make([]orderLineResponse, 0, len(lines)),
		TotalPrice: order.TotalPrice(),
		Display:    order.Render(domain.FormatPrice),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, orderLineResponse{
			ItemID:    l.Item.ID().String(),
			Name:      l.Item.Name(),
			Quantity:  l.Quantity,
			LinePrice: l.LinePrice(),
		})
	}
	return out
}

func toOrderResponses(orders []*domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
