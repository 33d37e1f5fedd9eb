package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"taskhub/internal/service"
	"taskhub/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// writeWait is how long a single write may block the hub loop.
const writeWait = 10 * time.Second

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client merepresentasikan satu koneksi WebSocket milik seorang user.
type Client struct {
	UserID int
	Conn   Conn
	Mu     sync.Mutex
}

type delivery struct {
	userID  int
	payload []byte
}

// Hub mengelola koneksi WebSocket dan mengirim event ke user tertentu.
type Hub struct {
	clients    map[int]map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	deliveries chan delivery
	done       chan struct{}
	stopOnce   sync.Once
	writeWait  time.Duration
}

// NewHub membuat instance Hub baru.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		deliveries: make(chan delivery, 256),
		done:       make(chan struct{}),
		writeWait:  writeWait,
	}
}

// Run menjalankan loop Hub sampai Stop dipanggil. Semua akses ke map
// client terjadi di goroutine ini.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
		case client := <-h.Unregister:
			h.remove(client)
		case d := <-h.deliveries:
			for client := range h.clients[d.userID] {
				client.Mu.Lock()
				err := client.Conn.SetWriteDeadline(time.Now().Add(h.writeWait))
				if err == nil {
					err = client.Conn.WriteMessage(websocket.TextMessage, d.payload)
				}
				client.Mu.Unlock()
				if err != nil {
					logger.SystemLogger.Warn("Websocket write failed", zap.Int("user_id", d.userID), zap.Error(err))
					h.remove(client)
				}
			}
		case <-h.done:
			for _, set := range h.clients {
				for client := range set {
					client.Conn.Close()
				}
			}
			h.clients = make(map[int]map[*Client]bool)
			return
		}
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Notify queues ev for every connection of userID. Events are dropped when
// the queue is full.
func (h *Hub) Notify(userID int, ev service.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.ErrorLogger.Error("Marshal websocket event", zap.String("type", ev.Type), zap.Error(err))
		return
	}
	select {
	case h.deliveries <- delivery{userID: userID, payload: payload}:
	case <-h.done:
	default:
		logger.SystemLogger.Warn("Websocket queue full, event dropped", zap.Int("user_id", userID), zap.String("type", ev.Type))
	}
}

func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.UserID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.UserID)
	}
	client.Conn.Close()
}
