package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/driver"
	"github.com/san-kum/orbitsim/internal/scene"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
)

// Message types on the /ws socket.
const (
	TypeFrame       = "frame"
	TypeParams      = "params"
	TypeReset       = "reset"
	TypeResetParams = "reset_params"
	TypeError       = "error"
)

type frameMessage struct {
	Type string `json:"type"`
	*scene.Frame
}

// ClientMessage is what browsers send. For TypeParams the patch fields sit
// next to the type, e.g. {"type":"params","gm":2}.
type ClientMessage struct {
	Type string `json:"type"`
	config.Patch
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Hub fans composed frames out to every connected socket. Publish never
// blocks: a client whose buffer is full misses the frame.
type Hub struct {
	live   *driver.LiveInputs
	log    *zap.Logger
	buffer int

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	dropped atomic.Uint64
}

func NewHub(live *driver.LiveInputs, buffer int, log *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		live:    live,
		log:     log,
		buffer:  buffer,
		clients: make(map[*client]struct{}),
	}
}

// Publish is a driver.Sink.
func (h *Hub) Publish(f *scene.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(frameMessage{Type: TypeFrame, Frame: f})
	if err != nil {
		h.log.Error("frame encoding failed", zap.Error(err), zap.Uint64("frame", f.Index))
		return
	}
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.dropped.Add(1)
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped counts frames skipped for slow clients.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// reply queues a message for one client only, dropping it if the buffer
// is full.
func (h *Hub) reply(c *client, v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
		h.dropped.Add(1)
	}
}

// Handle applies one client message to the live inputs.
func (h *Hub) Handle(m ClientMessage) error {
	switch m.Type {
	case TypeParams:
		return m.Patch.ApplyTo(h.live)
	case TypeReset:
		h.live.Reset()
	case TypeResetParams:
		h.live.ResetParams()
	default:
		return &UnknownMessageError{Type: m.Type}
	}
	return nil
}

type UnknownMessageError struct {
	Type string
}

func (e *UnknownMessageError) Error() string {
	return fmt.Sprintf("unknown message type %q", e.Type)
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var m ClientMessage
		if err := c.conn.ReadJSON(&m); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("websocket read failed", zap.Error(err))
			}
			if isDecodeError(err) {
				c.hub.reply(c, errorMessage{Type: TypeError, Error: err.Error()})
				continue
			}
			return
		}
		if err := c.hub.Handle(m); err != nil {
			c.hub.reply(c, errorMessage{Type: TypeError, Error: err.Error()})
		}
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
