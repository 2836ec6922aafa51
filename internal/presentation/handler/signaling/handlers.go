package signaling

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dev-date/media-service/internal/infrastructure/ws"
)

type Handler struct {
	relay    *ws.Relay
	upgrader websocket.Upgrader
	logger   *zap.SugaredLogger
}

func NewHandler(relay *ws.Relay, allowedOrigins []string, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		relay:  relay,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// ServeWS upgrades the request and starts the session pumps. The handler
// returns immediately; the connection lives on in its goroutines until
// the transport closes.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "remoteAddr", r.RemoteAddr, "error", err)
		return
	}

	client := ws.NewClient(conn)
	h.relay.Register(client)

	go client.WritePump()
	go client.ReadPump(h.relay)
}

func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := len(allowed) == 0
	for _, origin := range allowed {
		if origin == "*" {
			allowAll = true
		}
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}

		origin := r.Header.Get("Origin")
		if origin == "" {
			// Non-browser clients send no Origin header.
			return true
		}

		for _, candidate := range allowed {
			if candidate == origin {
				return true
			}
		}
		return false
	}
}
