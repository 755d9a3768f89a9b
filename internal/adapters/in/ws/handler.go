package ws

import (
	"log/slog"
	"net/http"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
)

const (
	pingPeriod   = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
	maxReadBytes = 4096
)

var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	hub    *Hub
	logger *slog.Logger
}

func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger.With("component", "offer_ws_handler")}
}

// Serve upgrades the request and streams the driver's offer events until the
// connection goes away. Messages sent by the app are read and discarded.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, driverID kernel.UUID) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Websocket upgrade failed", "driver_id", driverID.String(), "error", err)
		return
	}

	client := NewClient(driverID, conn)
	h.hub.AddClient(client)
	h.logger.Info("Driver connected", "driver_id", driverID.String(), "client_id", client.ID)

	go h.writePump(client)
	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.RemoveClient(c.DriverID, c.ID)
		_ = c.Conn.Close()
		h.logger.Info("Driver disconnected", "driver_id", c.DriverID.String(), "client_id", c.ID)
	}()

	c.Conn.SetReadLimit(maxReadBytes)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("Websocket read failed", "client_id", c.ID, "error", err)
			}
			return
		}
	}
}

func (h *Handler) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Warn("Websocket write failed", "client_id", c.ID, "error", err)
				return
			}
		case <-ticker.C:
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
