package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

type ClientMessage struct {
	Client  *Client
	Message []byte
}

type Options struct {
	MaxConnPerUser int
	MaxMessageSize int64
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
}

// Hub tracks connected admin sessions and fans catalog events out to all of them.
type Hub struct {
	clients      map[string]*Client
	userIndex    map[string]map[string]bool
	clientsMutex sync.RWMutex

	Register      chan *Client
	Unregister    chan *Client
	HandleMessage chan *ClientMessage

	// stopped is closed once Run returns; sends on the hub channels select on it.
	stopped chan struct{}

	opts   Options
	logger *zap.Logger
}

func NewHub(opts Options, logger *zap.Logger) *Hub {
	return &Hub{
		clients:       make(map[string]*Client),
		userIndex:     make(map[string]map[string]bool),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		HandleMessage: make(chan *ClientMessage),
		stopped:       make(chan struct{}),
		opts:          opts,
		logger:        logger,
	}
}

// Run processes registrations and inbound messages until done is closed.
func (h *Hub) Run(done <-chan struct{}) {
	defer close(h.stopped)

	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case clientMsg := <-h.HandleMessage:
			h.processMessage(clientMsg)

		case <-done:
			h.closeAll()
			return
		}
	}
}

// Join hands a client to the running hub. It reports false once the hub
// has stopped, in which case the caller owns the connection.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.stopped:
		return false
	}
}

// Leave removes a client. It never blocks after the hub has stopped.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.stopped:
	}
}

func (h *Hub) dispatch(msg *ClientMessage) bool {
	select {
	case h.HandleMessage <- msg:
		return true
	case <-h.stopped:
		return false
	}
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMutex.Lock()
	defer h.clientsMutex.Unlock()

	if h.userIndex[client.UserID] == nil {
		h.userIndex[client.UserID] = make(map[string]bool)
	}

	if h.opts.MaxConnPerUser > 0 && len(h.userIndex[client.UserID]) >= h.opts.MaxConnPerUser {
		h.logger.Warn("max connections reached", zap.String("user_id", client.UserID))
		close(client.Send)
		return
	}

	h.clients[client.ID] = client
	h.userIndex[client.UserID][client.ID] = true

	h.logger.Debug("client registered", zap.String("client_id", client.ID), zap.String("user_id", client.UserID))
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMutex.Lock()
	defer h.clientsMutex.Unlock()

	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	delete(h.clients, client.ID)
	delete(h.userIndex[client.UserID], client.ID)
	if len(h.userIndex[client.UserID]) == 0 {
		delete(h.userIndex, client.UserID)
	}

	close(client.Send)
	h.logger.Debug("client unregistered", zap.String("client_id", client.ID))
}

func (h *Hub) closeAll() {
	h.clientsMutex.Lock()
	defer h.clientsMutex.Unlock()

	for _, client := range h.clients {
		h.removeLocked(client)
	}
}

func (h *Hub) processMessage(clientMsg *ClientMessage) {
	var msg Message
	if err := json.Unmarshal(clientMsg.Message, &msg); err != nil {
		h.logger.Debug("dropping malformed message", zap.String("client_id", clientMsg.Client.ID), zap.Error(err))
		return
	}

	switch msg.Type {
	case TypePing:
		pong, err := NewMessage(TypePong, "", nil)
		if err != nil {
			return
		}
		h.send(clientMsg.Client, pong)
	default:
		h.logger.Debug("unknown message type", zap.String("type", string(msg.Type)))
	}
}

func (h *Hub) send(client *Client, msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode message", zap.Error(err))
		return
	}

	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	select {
	case client.Send <- data:
	default:
		h.logger.Warn("client send buffer full", zap.String("client_id", client.ID))
	}
}

// Publish broadcasts a catalog event to every connected session. Slow clients
// whose buffers are full are disconnected.
func (h *Hub) Publish(event string, payload any) {
	msg, err := NewMessage(TypeEvent, event, payload)
	if err != nil {
		h.logger.Error("failed to encode event", zap.String("event", event), zap.Error(err))
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode event", zap.String("event", event), zap.Error(err))
		return
	}

	var slow []*Client

	h.clientsMutex.RLock()
	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.clientsMutex.RUnlock()

	if len(slow) == 0 {
		return
	}

	h.clientsMutex.Lock()
	for _, client := range slow {
		h.logger.Warn("client send buffer full, closing connection", zap.String("client_id", client.ID))
		h.removeLocked(client)
	}
	h.clientsMutex.Unlock()
}

func (h *Hub) Connections() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	return len(h.clients)
}
