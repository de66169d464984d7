package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/shopdesk/internal/core/domain"
	"github.com/rl1809/shopdesk/internal/core/service"
	"github.com/rl1809/shopdesk/internal/port"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// stateSnapshot is the full view a desk UI needs to repaint itself.
// The hub pushes one after every mutation; clients repaint everything
// rather than patching incrementally.
type stateSnapshot struct {
	Changed      string          `json:"changed"`
	Queued       []orderResponse `json:"queued"`
	Processed    []orderResponse `json:"processed"`
	LowStock     []stockResponse `json:"low_stock"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// StateHub streams shop state snapshots to connected UI clients over
// websockets. It implements port.ChangeListener, so registering it on
// the service is all the wiring it needs.
type StateHub struct {
	shop   *service.ShopService
	logger *zap.Logger

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewStateHub(shop *service.ShopService, logger *zap.Logger) *StateHub {
	return &StateHub{
		shop:    shop,
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
}

// ShopChanged builds a fresh snapshot and broadcasts it to every
// connected client. Slow clients have the frame dropped rather than
// stalling the shop: a newer snapshot always follows.
func (h *StateHub) ShopChanged(kind port.ChangeKind) {
	payload, err := h.snapshot(kind)
	if err != nil {
		h.logger.Error("snapshot encoding failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
		}
	}
}

// ServeWS upgrades the connection, sends an initial snapshot and keeps
// streaming until the client goes away.
func (h *StateHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}

	if payload, err := h.snapshot(""); err == nil {
		client.send <- payload
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("ui client connected", zap.String("remote", conn.RemoteAddr().String()))

	go h.writePump(client)
	go h.readPump(client)
}

// Shutdown disconnects every client. New connections arriving after the
// HTTP server stopped accepting cannot occur, so this is final.
func (h *StateHub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *StateHub) snapshot(kind port.ChangeKind) ([]byte, error) {
	snap := stateSnapshot{
		Changed:      string(kind),
		Queued:       toOrderResponses(h.shop.QueuedOrders()),
		Processed:    toOrderResponses(h.shop.ProcessedOrders()),
		LowStock:     make([]stockResponse, 0),
		TotalRevenue: h.shop.TotalRevenue(),
	}
	for _, lv := range h.shop.LowStock(domain.DefaultLowStockThreshold) {
		snap.LowStock = append(snap.LowStock, stockResponse{
			ItemID:   lv.Item.ID().String(),
			Name:     lv.Item.Name(),
			Quantity: lv.Quantity,
		})
	}
	return json.Marshal(snap)
}

func (h *StateHub) unregister(client *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

func (h *StateHub) writePump(client *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the stream is one-way. It exists to
// process control frames and detect disconnects.
func (h *StateHub) readPump(client *wsClient) {
	defer func() {
		h.unregister(client)
		client.conn.Close()
	}()

	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
	}
}
