package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/homesim/homesim-core/internal/device"
	"github.com/homesim/homesim-core/internal/infrastructure/config"
	"github.com/homesim/homesim-core/internal/infrastructure/logging"
)

// WebSocket message types.
const (
	WSTypeInitialState = "initial_state"
	WSTypeDeviceUpdate = "device_update"
	WSTypeSubscribe    = "subscribe"
	WSTypeSubscribed   = "subscribed"
)

// defaultSendBuffer is the per-client outbound buffer when the config
// leaves it unset.
const defaultSendBuffer = 64

// snapshotMessage is the first message every client receives.
type snapshotMessage struct {
	Type    string           `json:"type"`
	Devices []*device.Device `json:"devices"`
}

// updateMessage notifies subscribers of one device's post-mutation state.
type updateMessage struct {
	Type     string         `json:"type"`
	DeviceID string         `json:"deviceId"`
	Device   *device.Device `json:"device"`
}

// Hub manages WebSocket connections and broadcasts device updates.
//
// Every client receives every update; there is no per-client filtering.
// A client whose send buffer is full or closed is dropped from the live
// set during broadcast, so membership is self-healing without any
// heartbeat protocol.
type Hub struct {
	cfg     config.WebSocketConfig
	logger  *logging.Logger
	clients map[*WSClient]struct{}
	mu      sync.RWMutex
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// upgrader configures the WebSocket upgrader.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Origin checking is handled by CORS middleware
		return true
	},
}

// NewHub creates a new WebSocket hub.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[*WSClient]struct{}),
	}
}

// Run blocks until the context is cancelled, then disconnects all clients.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// DeviceUpdated implements device.Notifier by broadcasting the change.
// It is called under the registry lock and never blocks: per-client
// delivery is a buffered channel send that drops the client on failure.
func (h *Hub) DeviceUpdated(id string, d *device.Device) {
	h.Broadcast(id, d)
}

// Broadcast sends a device_update message to every connected client.
//
// Broadcasts are serialised by the caller (the registry's mutation
// path), so messages for the same device arrive on each channel in
// commit order. A failed send drops the offending client without
// affecting delivery to the others.
func (h *Hub) Broadcast(deviceID string, d *device.Device) {
	data, err := json.Marshal(updateMessage{
		Type:     WSTypeDeviceUpdate,
		DeviceID: deviceID,
		Device:   d,
	})
	if err != nil {
		h.logger.Error("failed to marshal broadcast message", "error", err)
		return
	}

	// Snapshot client list under hub lock, then release before sending.
	h.mu.RLock()
	clients := make([]*WSClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	var dropped []*WSClient
	for _, client := range clients {
		if !client.trySend(data) {
			dropped = append(dropped, client)
		}
	}
	for _, client := range dropped {
		h.logger.Warn("dropping unresponsive websocket client")
		h.Unregister(client)
	}
}

// Register adds a client to the hub after queueing its initial snapshot.
//
// The snapshot goes on the client's send channel before the client is
// visible to Broadcast, so the client always observes snapshot first,
// deltas second. Callers must invoke Register from within
// Registry.Subscribe so no mutation commits in between.
func (h *Hub) Register(client *WSClient, devices []*device.Device) error {
	data, err := json.Marshal(snapshotMessage{
		Type:    WSTypeInitialState,
		Devices: devices,
	})
	if err != nil {
		return err
	}

	h.mu.Lock()
	client.send <- data // buffered and empty at this point, never blocks
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("websocket client connected", "clients", h.ClientCount())
	return nil
}

// Unregister removes a client from the hub.
// Only the goroutine that successfully removes the client from the map
// closes the send channel, preventing double-close panics.
func (h *Hub) Unregister(client *WSClient) {
	h.mu.Lock()
	_, existed := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if existed {
		close(client.send)
	}
	h.logger.Debug("websocket client disconnected", "clients", h.ClientCount())
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// closeAll disconnects all clients and closes their send channels
// so writePump goroutines can exit cleanly.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		if client.conn != nil {
			client.conn.Close()
		}
		delete(h.clients, client)
	}
}

// handleWebSocket upgrades the HTTP connection and registers the client.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	buffer := s.wsCfg.SendBuffer
	if buffer <= 0 {
		buffer = defaultSendBuffer
	}

	client := &WSClient{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, buffer),
	}

	// Snapshot and registration happen under the registry read lock so
	// the client's baseline is never older than its first delta.
	var regErr error
	s.registry.Subscribe(func(devices []*device.Device) {
		regErr = s.hub.Register(client, devices)
	})
	if regErr != nil {
		s.logger.Error("websocket registration failed", "error", regErr)
		conn.Close()
		return
	}

	go client.writePump(s.wsCfg)
	go client.readPump(s.wsCfg)
}

// ackMessage confirms a client subscribe request.
type ackMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// readPump reads messages from the WebSocket connection.
//
// A `{"type":"subscribe"}` frame is acknowledged; every client already
// receives every update, so the ack carries no filtering state. All
// other inbound frames are ignored. The read loop also detects
// disconnects and keeps the read deadline fresh.
func (c *WSClient) readPump(cfg config.WebSocketConfig) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(int64(cfg.MaxMessageSize))
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	pongWait := time.Duration(cfg.PongTimeout) * time.Second
	//nolint:errcheck // Best-effort deadline on connection setup
	c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "error", err)
			} else {
				c.hub.logger.Debug("websocket closed", "error", err)
			}
			return
		}
		// Any client message resets the read deadline.
		//nolint:errcheck // Best-effort deadline reset
		c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))

		c.handleInbound(payload)
	}
}

// handleInbound processes one client frame. Unparsable frames and
// unknown message types are dropped silently.
func (c *WSClient) handleInbound(payload []byte) {
	var msg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil || msg.Type != WSTypeSubscribe {
		return
	}

	data, err := json.Marshal(ackMessage{
		Type:    WSTypeSubscribed,
		Message: "Successfully subscribed to device updates",
	})
	if err != nil {
		return
	}
	c.trySend(data)
}

// writePump writes queued messages to the WebSocket connection.
func (c *WSClient) writePump(cfg config.WebSocketConfig) {
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	pongWait := time.Duration(cfg.PongTimeout) * time.Second

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// Hub closed the channel
				//nolint:errcheck // Best-effort close message
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			//nolint:errcheck // Best-effort deadline; write error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			//nolint:errcheck // Best-effort deadline; ping error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend attempts a non-blocking send to the client's channel.
// Returns false when the buffer is full or the channel is closed.
func (c *WSClient) trySend(data []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false // send on closed channel: client already dropped
		}
	}()

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}
