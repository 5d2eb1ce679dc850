package app

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"arithmetic-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ScoreRepository persists the latest score record per player key.
type ScoreRepository interface {
	Put(ctx context.Context, record domain.ScoreRecord) error
	Get(ctx context.Context, player string) (domain.ScoreRecord, error)
	List(ctx context.Context) ([]domain.ScoreRecord, error)
}

var playerCaser = cases.Lower(language.Und)

// NormalizePlayer returns the lookup key for a player name.
func NormalizePlayer(name string) string {
	return playerCaser.String(strings.TrimSpace(name))
}

// ScoreService saves and loads player scores and publishes leaderboard updates.
type ScoreService struct {
	scores ScoreRepository
	now    func() time.Time
	sf     singleflight.Group
	// writes advances after every Put so reads never join a flight that
	// started before the write.
	writes atomic.Uint64

	mu          sync.Mutex
	subscribers map[chan domain.Leaderboard]int
}

func NewScoreService(scores ScoreRepository) *ScoreService {
	return NewScoreServiceWithClock(scores, time.Now)
}

// NewScoreServiceWithClock is test-only for deterministic timestamps.
func NewScoreServiceWithClock(scores ScoreRepository, now func() time.Time) *ScoreService {
	return &ScoreService{
		scores:      scores,
		now:         now,
		subscribers: make(map[chan domain.Leaderboard]int),
	}
}

// Save overwrites the record of the player; the last write wins.
func (s *ScoreService) Save(ctx context.Context, player string, score, grade int, mode string) (domain.ScoreRecord, error) {
	key := NormalizePlayer(player)
	if key == "" {
		return domain.ScoreRecord{}, domain.ErrPlayerRequired
	}
	record := domain.ScoreRecord{
		Player:      key,
		DisplayName: strings.TrimSpace(player),
		Score:       score,
		Grade:       grade,
		Mode:        mode,
		Timestamp:   s.now().UTC(),
	}
	if err := s.scores.Put(ctx, record); err != nil {
		return domain.ScoreRecord{}, err
	}
	s.writes.Add(1)
	s.publish(ctx)
	return record, nil
}

// Load returns the saved record for a player, matching names case-insensitively.
func (s *ScoreService) Load(ctx context.Context, player string) (domain.ScoreRecord, error) {
	key := NormalizePlayer(player)
	if key == "" {
		return domain.ScoreRecord{}, domain.ErrPlayerRequired
	}
	return s.scores.Get(ctx, key)
}

// Leaderboard returns the top limit records ranked by score.
func (s *ScoreService) Leaderboard(ctx context.Context, limit int) ([]domain.RankedScore, error) {
	records, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(records, limit), nil
}

// Subscribe returns a channel that receives the leaderboard after every save.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *ScoreService) Subscribe(ctx context.Context, limit int) (<-chan domain.Leaderboard, func(), error) {
	// Holding mu orders the initial ranking before any publish.
	s.mu.Lock()
	records, err := s.scores.List(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	ch := make(chan domain.Leaderboard, 8)
	ch <- domain.Leaderboard{Entries: Rank(records, limit), UpdatedAt: s.now().UTC()}
	s.subscribers[ch] = limit
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel, nil
}

// list collapses concurrent reads of the whole store into one.
func (s *ScoreService) list(ctx context.Context) ([]domain.ScoreRecord, error) {
	key := "scores:" + strconv.FormatUint(s.writes.Load(), 10)
	flightCtx := context.WithoutCancel(ctx)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.scores.List(flightCtx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.ScoreRecord), nil
}

func (s *ScoreService) publish(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subscribers) == 0 {
		return
	}

	records, err := s.scores.List(ctx)
	if err != nil {
		slog.Warn("leaderboard publish skipped", "error", err)
		return
	}
	now := s.now().UTC()
	for ch, limit := range s.subscribers {
		lb := domain.Leaderboard{Entries: Rank(records, limit), UpdatedAt: now}
		select {
		case ch <- lb:
		default:
			// Drop the stale update so a slow reader never blocks a save.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}
