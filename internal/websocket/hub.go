package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"farsreport/internal/infrastructure"
	"farsreport/pkg/contracts/events"
)

const broadcastBuffer = 256

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	running bool
	quit    chan struct{}
	done    chan struct{}

	// pumps counts the read and write goroutines of accepted clients.
	pumps sync.WaitGroup

	logger *slog.Logger
}

// NewHub creates a hub. Call Start before publishing.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     infrastructure.WithComponent(logger, "websocket.hub"),
	}
}

// Start runs the hub loop in the background. A stopped hub cannot be
// restarted.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running || isClosed(h.quit) {
		return
	}
	h.running = true
	go h.run()
}

// Stop ends the hub loop, closes every client and waits for their pumps to
// exit. It is idempotent.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	close(h.quit)
	h.mu.Unlock()

	<-h.done
	h.pumps.Wait()
}

// Running reports whether the hub loop is active.
func (h *Hub) Running() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// run owns client registration and every close of a client send channel.
func (h *Hub) run() {
	defer close(h.done)

	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("Hub shutting down")
			return

		case client := <-h.register:
			h.pumps.Add(2)
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.InfoContext(client.context(), "Client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", count))

			greeting := events.NewMessage(events.MessageTypeConnect, client.traceID, events.ConnectEvent{
				ClientID: client.id,
				Message:  "Connected to FARS event stream",
			})
			if data, err := json.Marshal(greeting); err == nil {
				client.enqueue(data)
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.InfoContext(client.context(), "Client unregistered",
				slog.String("client_id", client.id),
				slog.Int("total_clients", count))

		case message := <-h.broadcast:
			h.mu.Lock()
			dropped := 0
			for client := range h.clients {
				if !client.enqueue(message) {
					close(client.send)
					delete(h.clients, client)
					dropped++
				}
			}
			count := len(h.clients)
			h.mu.Unlock()

			if dropped > 0 {
				h.logger.Warn("Client send buffer full, disconnecting",
					slog.Int("dropped", dropped),
					slog.Int("total_clients", count))
			}
		}
	}
}

// Publish broadcasts msg to every client. When the hub is stopped or its
// queue is full the message is dropped.
func (h *Hub) Publish(ctx context.Context, msg events.Message) {
	if !h.Running() {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshaling message",
			slog.String("error", err.Error()),
			slog.String("message_type", string(msg.Type)))
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.quit:
	default:
		h.logger.WarnContext(ctx, "Broadcast queue full, dropping message",
			slog.String("message_type", string(msg.Type)),
			slog.String("trace_id", infrastructure.GetTraceID(ctx)))
	}
}

// Register adds a client. It returns false once the hub has stopped. After a
// successful Register the caller must start both ReadPump and WritePump.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

func isClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
