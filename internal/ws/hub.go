package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"paydesk/internal/events"
	"paydesk/internal/models"

	"github.com/google/uuid"
)

// Client is one status feed connection. A zero PaymentID subscribes to
// every payment.
type Client struct {
	PaymentID uuid.UUID
	Send      chan []byte
	Hub       *Hub // set by Register so Close can unregister
	mu        sync.Mutex
	closed    bool
}

func NewClient(paymentID uuid.UUID) *Client {
	return &Client{PaymentID: paymentID, Send: make(chan []byte, 256)}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.Hub != nil {
		c.Hub.unregister(c)
	}
	close(c.Send)
}

// Hub maintains the set of active clients and broadcasts to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	// paymentID -> clients watching it; uuid.Nil holds the firehose
	byPayment map[uuid.UUID]map[*Client]struct{}
	now       func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		byPayment: make(map[uuid.UUID]map[*Client]struct{}),
		now:       time.Now,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Hub = h
	h.clients[c] = struct{}{}
	if h.byPayment[c.PaymentID] == nil {
		h.byPayment[c.PaymentID] = make(map[*Client]struct{})
	}
	h.byPayment[c.PaymentID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if m := h.byPayment[c.PaymentID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byPayment, c.PaymentID)
		}
	}
}

// BroadcastPayment sends payload to clients watching paymentID and to
// firehose clients. Slow clients miss messages rather than block.
func (h *Hub) BroadcastPayment(paymentID uuid.UUID, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	h.mu.RLock()
	clients := make([]*Client, 0)
	for c := range h.byPayment[paymentID] {
		clients = append(clients, c)
	}
	if paymentID != uuid.Nil {
		for c := range h.byPayment[uuid.Nil] {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.trySend(data)
	}
	return nil
}

func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// PublishStatus lets the hub act as a payment status publisher.
func (h *Hub) PublishStatus(_ context.Context, p *models.Payment) error {
	return h.BroadcastPayment(p.ID, events.NewPaymentStatusEvent(p, h.now()))
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
