// Package remote is a websocket control surface. Clients send text commands
// and receive the replies plus every state snapshot the viewer publishes.
//
// The hub never touches viewer state: commands are queued for the render
// loop, which answers through Command.Respond and publishes with Broadcast.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	queueSize  = 32
	sendBuffer = 16
	writeWait  = 5 * time.Second
)

// Message is what clients receive.
type Message struct {
	Type  string          `json:"type"` // "reply" or "state"
	Line  string          `json:"line,omitempty"`
	Reply string          `json:"reply,omitempty"`
	Error string          `json:"error,omitempty"`
	State json.RawMessage `json:"state,omitempty"`
}

// Command is one line received from a client.
type Command struct {
	Line   string
	client *client
}

// Respond sends the outcome of the command back to the client that sent it.
func (c Command) Respond(reply string, err error) {
	m := Message{Type: "reply", Line: c.Line, Reply: reply}
	if err != nil {
		m.Error = err.Error()
	}
	c.client.push(m)
}

// Hub tracks connected clients.
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader
	commands chan Command

	mu      sync.Mutex
	clients map[*client]bool
	last    json.RawMessage
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log: log,
		// nil CheckOrigin: only same-origin pages or non-browser clients
		upgrader: websocket.Upgrader{},
		commands: make(chan Command, queueSize),
		clients:  make(map[*client]bool),
	}
}

// Commands is drained by the render loop.
func (h *Hub) Commands() <-chan Command { return h.commands }

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends a state snapshot to every client and keeps it for clients
// that connect later. Slow clients miss snapshots rather than block.
func (h *Hub) Broadcast(state []byte) {
	raw := json.RawMessage(append([]byte(nil), state...))
	h.mu.Lock()
	h.last = raw
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.push(Message{Type: "state", State: raw})
	}
}

// Handler serves /ws and a plain JSON snapshot at /state.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWebSocket)
	mux.HandleFunc("/state", h.handleState)
	return mux
}

// Serve listens on addr until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	h.log.Info("remote control listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *Hub) handleState(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	last := h.last
	h.mu.Unlock()
	if last == nil {
		last = json.RawMessage("{}")
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(last)
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan Message, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = true
	last := h.last
	h.mu.Unlock()
	h.log.Info("remote client connected", zap.String("addr", r.RemoteAddr))

	done := make(chan struct{})
	go c.writeLoop(done)
	if last != nil {
		c.push(Message{Type: "state", State: last})
	}

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		close(done)
		conn.Close()
		h.log.Info("remote client disconnected", zap.String("addr", r.RemoteAddr))
	}()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		cmd := Command{Line: string(data), client: c}
		select {
		case h.commands <- cmd:
		default:
			cmd.Respond("", errors.New("remote: command queue full"))
		}
	}
}

type client struct {
	conn *websocket.Conn
	send chan Message
}

// push queues m without blocking; a full buffer drops it.
func (c *client) push(m Message) {
	select {
	case c.send <- m:
	default:
	}
}

// writeLoop is the only goroutine writing to conn.
func (c *client) writeLoop(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case m := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(m); err != nil {
				c.conn.Close()
				return
			}
		}
	}
}
