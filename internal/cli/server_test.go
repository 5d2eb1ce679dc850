package cli

import (
	"context"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"arithmetic-quiz-service/internal/config"
)

func TestRunServerReturnsWhenPortIsTaken(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	cfg := config.Default()
	cfg.Server.Port = strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)
	cfg.Scores.File = filepath.Join(t.TempDir(), "scores.json")

	done := make(chan error, 1)
	go func() {
		done <- runServer(context.Background(), cfg)
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected an error for a port already in use")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("runServer kept running after the listener failed")
	}
}
