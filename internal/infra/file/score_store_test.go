package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"arithmetic-quiz-service/internal/domain"
)

func TestScoreStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "scores.json")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	record := domain.ScoreRecord{Player: "anna", DisplayName: "Anna", Score: 40, Grade: 2, Mode: "Test", Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	if err := store.Put(ctx, record); err != nil {
		t.Fatalf("put: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get(ctx, "anna")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Score != 40 || got.DisplayName != "Anna" || !got.Timestamp.Equal(record.Timestamp) {
		t.Fatalf("unexpected record after reopen: %+v", got)
	}
}

func TestScoreStoreLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "scores.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = store.Put(ctx, domain.ScoreRecord{Player: "bob", Score: 90})
	_ = store.Put(ctx, domain.ScoreRecord{Player: "bob", Score: 20})

	records, _ := store.List(ctx)
	if len(records) != 1 || records[0].Score != 20 {
		t.Fatalf("expected a single overwritten record, got %+v", records)
	}
}

func TestScoreStoreCorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	store, err := Open(path)
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if store == nil {
		t.Fatalf("expected a usable store")
	}
	records, _ := store.List(context.Background())
	if len(records) != 0 {
		t.Fatalf("expected empty store, got %d records", len(records))
	}
}

func TestScoreStoreUnknownPlayer(t *testing.T) {
	store, _ := Open(filepath.Join(t.TempDir(), "scores.json"))
	if _, err := store.Get(context.Background(), "ghost"); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Fatalf("expected player not found, got %v", err)
	}
}

func TestScoreStoreRollsBackFailedWrite(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be makes every write fail.
	path := filepath.Join(dir, "scores.json")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	store := &ScoreStore{path: path, records: make(map[string]domain.ScoreRecord)}

	err := store.Put(context.Background(), domain.ScoreRecord{Player: "carl", Score: 10})
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if _, err := store.Get(context.Background(), "carl"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected rollback, got %v", err)
	}
}
