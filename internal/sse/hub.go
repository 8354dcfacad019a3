package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// EventType is the SSE event name written on the wire.
type EventType string

const (
	EventOrderPlaced    EventType = "order.placed"
	EventCouponsExpired EventType = "coupon.expired"
)

// clientBuffer is how many undelivered messages a slow dashboard may lag
// behind before it starts missing events.
const clientBuffer = 64

// OrderEvent announces a confirmed order.
type OrderEvent struct {
	OrderNumber  string          `json:"orderNumber"`
	CustomerName string          `json:"customerName"`
	DeliveryTier string          `json:"deliveryTier"`
	CouponCode   *string         `json:"couponCode,omitempty"`
	Lines        int             `json:"lines"`
	Total        decimal.Decimal `json:"total"`
	Timestamp    time.Time       `json:"timestamp"`
}

// CouponsExpiredEvent lists coupons the expiry sweep switched off.
type CouponsExpiredEvent struct {
	Codes     []string  `json:"codes"`
	Timestamp time.Time `json:"timestamp"`
}

// Message is one encoded event queued for a client.
type Message struct {
	Event EventType
	Data  []byte
}

// Client is one connected admin dashboard.
type Client struct {
	ID     string
	Events chan Message
}

// Hub fans events out to connected dashboards.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Register adds a client; the caller must Unregister it when the stream ends.
func (h *Hub) Register(clientID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{ID: clientID, Events: make(chan Message, clientBuffer)}
	h.clients[clientID] = c
	log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client connected")
	return c
}

// Unregister removes a client and closes its channel. Unknown ids are ignored.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.Events)
		delete(h.clients, clientID)
		log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client disconnected")
	}
}

// Broadcast encodes payload once and queues it for every client. It never
// blocks: a client whose buffer is full misses the event.
func (h *Hub) Broadcast(event EventType, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", string(event)).Msg("Failed to marshal SSE event")
		return
	}
	msg := Message{Event: event, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		select {
		case c.Events <- msg:
		default:
			log.Warn().Str("client_id", c.ID).Str("event", string(event)).Msg("SSE client buffer full, dropping event")
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Backlog is the number of queued messages not yet written to any client.
func (h *Hub) Backlog() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, c := range h.clients {
		n += len(c.Events)
	}
	return n
}
