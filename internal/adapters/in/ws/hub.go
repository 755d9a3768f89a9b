// Package ws streams offer countdown events to connected driver apps.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/ports"

	"github.com/gorilla/websocket"
)

const sendBuffer = 256

var _ ports.OfferEventPublisher = (*Hub)(nil)

type Client struct {
	ID       string
	DriverID kernel.UUID
	Conn     *websocket.Conn
	Send     chan []byte
}

func NewClient(driverID kernel.UUID, conn *websocket.Conn) *Client {
	return &Client{
		ID:       kernel.NewUUID().String(),
		DriverID: driverID,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
	}
}

// Hub keeps the open connections of every driver. A driver may have several
// devices connected at once.
type Hub struct {
	clients map[kernel.UUID]map[string]*Client
	mu      sync.RWMutex
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[kernel.UUID]map[string]*Client),
		logger:  logger.With("component", "offer_ws_hub"),
	}
}

func (h *Hub) AddClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	byID, ok := h.clients[c.DriverID]
	if !ok {
		byID = make(map[string]*Client)
		h.clients[c.DriverID] = byID
	}
	byID[c.ID] = c
}

// RemoveClient unregisters the client and closes its Send channel. Removing
// an unknown client is a no-op.
func (h *Hub) RemoveClient(driverID kernel.UUID, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	byID, ok := h.clients[driverID]
	if !ok {
		return
	}
	c, ok := byID[id]
	if !ok {
		return
	}
	delete(byID, id)
	if len(byID) == 0 {
		delete(h.clients, driverID)
	}
	close(c.Send)
}

func (h *Hub) ClientCount(driverID kernel.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[driverID])
}

// Publish sends the event to every connection of the event's driver. A client
// whose buffer is full is dropped.
func (h *Hub) Publish(ctx context.Context, event offer.Event) error {
	message, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[event.DriverID] {
		select {
		case client.Send <- message:
		default:
			h.logger.WarnContext(ctx, "Dropping slow websocket client",
				"driver_id", client.DriverID.String(),
				"client_id", client.ID)
			go h.RemoveClient(client.DriverID, client.ID)
		}
	}
	return nil
}
