package http

import (
	"log/slog"
	"net/http"

	"arithmetic-quiz-service/internal/app"
	"arithmetic-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler streams leaderboard updates over a websocket.
type WSHandler struct {
	scores   *app.ScoreService
	upgrader websocket.Upgrader
}

func NewWSHandler(scores *app.ScoreService) *WSHandler {
	return &WSHandler{
		scores: scores,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeLeaderboard upgrades the request and pushes the ranking after every save.
func (h *WSHandler) ServeLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit", app.DefaultLeaderboardLimit)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := h.scores.Subscribe(r.Context(), limit)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	// The reader only watches for the client going away; inbound frames are ignored.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[domain.Leaderboard]{Type: "leaderboard", Payload: update}); err != nil {
				slog.Debug("ws write error", "error", err)
				return
			}
		case <-closed:
			return
		}
	}
}
