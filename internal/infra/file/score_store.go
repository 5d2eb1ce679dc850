package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"arithmetic-quiz-service/internal/domain"
)

// ScoreStore keeps score records in memory and rewrites a single JSON
// document keyed by player on every Put. There is no write-ahead log: a crash
// in the middle of a write can leave a truncated file behind.
type ScoreStore struct {
	path string

	mu      sync.RWMutex
	records map[string]domain.ScoreRecord
}

// Open loads the document at path. A missing file yields an empty store.
// When the file cannot be read or parsed the returned store is still usable
// (empty) and the error is tagged with domain.ErrPersistence for logging.
func Open(path string) (*ScoreStore, error) {
	s := &ScoreStore{path: path, records: make(map[string]domain.ScoreRecord)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read scores: %w: %w", domain.ErrPersistence, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		s.records = make(map[string]domain.ScoreRecord)
		return s, fmt.Errorf("parse scores: %w: %w", domain.ErrPersistence, err)
	}
	return s, nil
}

// Put overwrites the record of record.Player and flushes the whole document.
// On a failed flush the in-memory state is rolled back.
func (s *ScoreStore) Put(_ context.Context, record domain.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.records[record.Player]
	s.records[record.Player] = record
	if err := s.flushLocked(); err != nil {
		if existed {
			s.records[record.Player] = prev
		} else {
			delete(s.records, record.Player)
		}
		return err
	}
	return nil
}

func (s *ScoreStore) Get(_ context.Context, player string) (domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[player]
	if !ok {
		return domain.ScoreRecord{}, domain.ErrPlayerNotFound
	}
	return record, nil
}

// List returns every record ordered by player key.
func (s *ScoreStore) List(_ context.Context) ([]domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ScoreRecord, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Player < out[j].Player })
	return out, nil
}

func (s *ScoreStore) flushLocked() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scores: %w: %w", domain.ErrPersistence, err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create score dir: %w: %w", domain.ErrPersistence, err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write scores: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}
