package services

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dtinth/auden/store"
)

// Hub fans the realtime tree out to websocket clients. A client subscribes to
// tree paths over its socket; the hub bridges each subscription's change feed
// back as update messages. Presence bookkeeping piggybacks on register and
// unregister.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	tree       store.Store
	auth       *AuthService
	presence   *PresenceService
}

type Client struct {
	hub         *Hub
	id          string
	socket      *websocket.Conn
	send        chan []byte
	uid         string
	displayName string
	admin       bool

	sendMu     sync.Mutex
	sendClosed bool

	subMu sync.Mutex
	subs  map[string]*store.Subscription
}

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type subscribePayload struct {
	Path string `json:"path"`
}

type updatePayload struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

func NewHub(tree store.Store, auth *AuthService, presence *PresenceService) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		tree:       tree,
		auth:       auth,
		presence:   presence,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.presence.Connected(client.uid)
			log.Printf("Client registered: %s (user %s) - Total clients: %d", client.id, client.uid, h.ClientCount())

		case client := <-h.unregister:
			h.mutex.Lock()
			_, ok := h.clients[client]
			if ok {
				delete(h.clients, client)
			}
			h.mutex.Unlock()
			if !ok {
				continue
			}
			// Subscriptions go first: their pump goroutines write to
			// client.send, which must not close under them.
			client.closeSubscriptions()
			client.closeSend()
			h.presence.Disconnected(client.uid)
			log.Printf("Client unregistered: %s (user %s) - Total clients: %d", client.id, client.uid, h.ClientCount())
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) RegisterClient(conn *websocket.Conn, uid string, displayName string) *Client {
	client := &Client{
		hub:         h,
		id:          uuid.NewString(),
		socket:      conn,
		send:        make(chan []byte, 256),
		uid:         uid,
		displayName: displayName,
		admin:       h.auth.IsAdmin(uid),
		subs:        map[string]*store.Subscription{},
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.socket.Close()
	}()

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	defer c.socket.Close()

	for message := range c.send {
		w, err := c.socket.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case "ping":
		c.reply(outMessage{Type: "pong"})

	case "subscribe":
		var payload subscribePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Path == "" {
			c.reply(outMessage{Type: "error", Payload: "subscribe requires a path"})
			return
		}
		if err := c.subscribe(payload.Path); err != nil {
			c.reply(outMessage{Type: "error", Payload: err.Error()})
		}

	case "unsubscribe":
		var payload subscribePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
		c.unsubscribe(payload.Path)

	default:
		log.Printf("Unknown message type: %s from client %s", msg.Type, c.id)
	}
}

func (c *Client) subscribe(path string) error {
	if !c.admin && isSecretPath(path) {
		return validationf("path %q is not readable", path)
	}
	c.subMu.Lock()
	if _, ok := c.subs[path]; ok {
		c.subMu.Unlock()
		return nil
	}
	sub := c.hub.tree.Subscribe(path)
	c.subs[path] = sub
	c.subMu.Unlock()

	go func() {
		for value := range sub.C {
			c.reply(outMessage{Type: "update", Payload: updatePayload{Path: path, Value: value}})
		}
	}()
	return nil
}

func (c *Client) unsubscribe(path string) {
	c.subMu.Lock()
	sub, ok := c.subs[path]
	if ok {
		delete(c.subs, path)
	}
	c.subMu.Unlock()
	if ok {
		sub.Close()
	}
}

func (c *Client) closeSubscriptions() {
	c.subMu.Lock()
	subs := c.subs
	c.subs = map[string]*store.Subscription{}
	c.subMu.Unlock()
	for _, sub := range subs {
		sub.Close()
	}
}

// closeSend closes the outbound channel, stopping writePump. Safe to call
// more than once; reply never races a close.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

func (c *Client) reply(msg outMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		// A subscription pump can race the disconnect teardown; the
		// client is gone, drop the message.
		return
	}
	select {
	case c.send <- data:
	default:
		// Slow consumer; drop rather than block the feed.
	}
}

// isSecretPath guards the one partition that must never reach audience
// clients: any path segment named "secret". The private and public-read
// partitions stay naming conventions enforced at the service layer.
func isSecretPath(path string) bool {
	for _, seg := range splitPathSegments(path) {
		if seg == "secret" {
			return true
		}
	}
	return false
}

func splitPathSegments(path string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			if i > start {
				out = append(out, path[start:i])
			}
			start = i + 1
		}
	}
	return out
}
