package websocket

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"farsreport/internal/infrastructure"
)

// Handler upgrades the request and subscribes the connection to hub.
// Requests without an Origin header, or whose Origin host matches the
// request host, are accepted.
func Handler(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	logger = infrastructure.WithComponent(logger, "websocket.handler")

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			logger.WarnContext(r.Context(), "WebSocket upgrade error",
				slog.Int("status", status),
				slog.String("reason", reason.Error()),
				slog.String("origin", r.Header.Get("Origin")))
			http.Error(w, http.StatusText(status), status)
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if !hub.Running() {
			http.Error(w, "event stream unavailable", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		client := NewClient(hub, conn, infrastructure.GetTraceID(ctx), logger)
		if !hub.Register(client) {
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	}
}
