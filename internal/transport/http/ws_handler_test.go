package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"arithmetic-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

func TestLeaderboardStream(t *testing.T) {
	quiz, scores := newTestServices(t)
	server := httptest.NewServer(NewRouter(quiz, scores))
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/leaderboard?limit=3"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the current (empty) leaderboard first.
	initial := readLeaderboard(t, conn)
	if len(initial.Entries) != 0 {
		t.Fatalf("expected empty leaderboard, got %+v", initial.Entries)
	}

	if _, err := scores.Save(context.Background(), "Lena", 60, 4, "Test"); err != nil {
		t.Fatalf("save: %v", err)
	}

	update := readLeaderboard(t, conn)
	if len(update.Entries) != 1 || update.Entries[0].Player != "lena" || update.Entries[0].Score != 60 {
		t.Fatalf("expected lena on the leaderboard, got %+v", update.Entries)
	}
}

func readLeaderboard(t *testing.T, conn *websocket.Conn) domain.Leaderboard {
	t.Helper()
	var msg outboundMessage[domain.Leaderboard]
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != "leaderboard" {
		t.Fatalf("expected leaderboard message, got %s", msg.Type)
	}
	return msg.Payload
}
