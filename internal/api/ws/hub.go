package ws

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/browsim/internal/domain/navigation"
	"github.com/GriffinCanCode/browsim/internal/shared/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // the presentation client may be served from anywhere
	},
}

// Recorder receives WebSocket metrics
type Recorder interface {
	RecordWSMessage(direction, msgType string)
	IncWSConnections()
	DecWSConnections()
}

type nopRecorder struct{}

func (nopRecorder) RecordWSMessage(string, string) {}
func (nopRecorder) IncWSConnections()              {}
func (nopRecorder) DecWSConnections()              {}

// Hub pushes navigation state to every connected client and forwards
// client intents to the coordinator.
type Hub struct {
	coordinator *navigation.Coordinator
	logger      *zap.Logger
	metrics     Recorder

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte // most recent encoded state
	closed  bool

	unsubscribe func()
}

// Option customises a Hub
type Option func(*Hub)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(h *Hub) {
		if r != nil {
			h.metrics = r
		}
	}
}

// NewHub creates a hub watching coordinator
func NewHub(coordinator *navigation.Coordinator, opts ...Option) *Hub {
	h := &Hub{
		coordinator: coordinator,
		logger:      zap.NewNop(),
		metrics:     nopRecorder{},
		clients:     make(map[*client]struct{}),
	}
	for _, o := range opts {
		o(h)
	}
	h.unsubscribe = coordinator.Watch(h.broadcast)
	return h
}

// HandleConnection upgrades a gin request
func (h *Hub) HandleConnection(c *gin.Context) {
	h.ServeHTTP(c.Writer, c.Request)
}

// ServeHTTP upgrades the connection and serves it until the client leaves
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	if !h.register(cl) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	h.logger.Debug("WebSocket client connected",
		zap.String("client_id", cl.id),
		zap.String("remote", r.RemoteAddr),
	)

	go cl.writePump()
	cl.readPump(r.Context())

	h.unregister(cl)
	h.logger.Debug("WebSocket client disconnected", zap.String("client_id", cl.id))
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close stops watching the coordinator and disconnects every client
func (h *Hub) Close() {
	h.unsubscribe()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for cl := range h.clients {
		h.drop(cl)
	}
}

// register adds a client and queues the latest state for it
func (h *Hub) register(cl *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[cl] = struct{}{}
	h.metrics.IncWSConnections()
	if h.last != nil {
		cl.send <- h.last
		h.metrics.RecordWSMessage("out", TypeState)
	}
	return true
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[cl]; ok {
		h.drop(cl)
	}
}

// drop removes a client; the write pump closes the socket. Caller holds mu.
func (h *Hub) drop(cl *client) {
	delete(h.clients, cl)
	close(cl.send)
	h.metrics.DecWSConnections()
}

func (h *Hub) broadcast(state navigation.State) {
	data, err := encodeState(state)
	if err != nil {
		h.logger.Error("Failed to encode state", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = data
	for cl := range h.clients {
		select {
		case cl.send <- data:
			h.metrics.RecordWSMessage("out", TypeState)
		default:
			// A client this far behind would render stale state; let it reconnect
			h.logger.Warn("Dropping slow WebSocket client", zap.String("client_id", cl.id))
			h.drop(cl)
		}
	}
}

// reply queues a message for one client if it is still connected
func (h *Hub) reply(cl *client, msgType string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[cl]; !ok {
		return
	}
	select {
	case cl.send <- data:
		h.metrics.RecordWSMessage("out", msgType)
	default:
		h.drop(cl)
	}
}

// dispatch applies one client message. State changes reach the client via
// broadcast; only pongs and errors are replied to directly.
func (h *Hub) dispatch(ctx context.Context, cl *client, msg Message) {
	h.metrics.RecordWSMessage("in", msg.Type)

	if err := h.apply(ctx, msg); err != nil {
		h.logger.Debug("WebSocket intent rejected",
			zap.String("client_id", cl.id),
			zap.String("type", msg.Type),
			zap.Error(err),
		)
		h.reply(cl, TypeError, encodeNotice(TypeError, err.Error()))
		return
	}
	if msg.Type == TypePing {
		h.reply(cl, TypePong, encodeNotice(TypePong, ""))
	}
}

func (h *Hub) apply(ctx context.Context, msg Message) error {
	switch msg.Type {
	case TypeNavigate, TypeInput:
		if err := utils.ValidateInput(msg.Text); err != nil {
			return err
		}
		if msg.Type == TypeNavigate {
			h.coordinator.Submit(ctx, msg.Text)
		} else {
			h.coordinator.SetInput(msg.Text)
		}
		return nil

	case TypeNewTab:
		h.coordinator.NewTab()
		return nil

	case TypeCloseTab, TypeSwitchTab:
		tabID, err := utils.ValidateTabID(msg.ID)
		if err != nil {
			return err
		}
		if msg.Type == TypeCloseTab {
			_, err = h.coordinator.CloseTab(tabID)
		} else {
			_, err = h.coordinator.SwitchTab(tabID)
		}
		return err

	case TypeOpenHistory:
		entryID, err := utils.ValidateEntryID(msg.ID)
		if err != nil {
			return err
		}
		_, err = h.coordinator.OpenHistoryByID(entryID)
		return err

	case TypeClearHistory:
		h.coordinator.ClearHistory(ctx)
		return nil

	case TypePing:
		return nil

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}
