package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"arithmetic-quiz-service/internal/app"
	"arithmetic-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// SessionStore is a Redis-backed implementation of app.SessionRepository.
// Notes:
//   - Live sessions are kept in a local map so grading can lock in-process.
//   - Every change is written to Redis as a JSON snapshot with a sliding TTL,
//     so a restarted instance can pick a session up again.
//   - Two instances grading the same session concurrently would race on the
//     snapshot; route a session to one instance.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group

	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Create(ctx context.Context, session *app.Session) error {
	if err := s.write(ctx, session); err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (*app.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return session, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	result, err, _ := s.sf.Do(sessionID, func() (interface{}, error) {
		// Re-check in case another goroutine restored it.
		s.mu.RLock()
		session, ok := s.sessions[sessionID]
		s.mu.RUnlock()
		if ok {
			return session, nil
		}

		raw, err := s.client.Get(flightCtx, s.key(sessionID)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		var state domain.SessionState
		if err := json.Unmarshal(raw, &state); err != nil {
			return nil, fmt.Errorf("unmarshal session: %w", err)
		}

		session = app.NewSession(state)
		s.mu.Lock()
		s.sessions[sessionID] = session
		s.mu.Unlock()
		return session, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*app.Session), nil
}

func (s *SessionStore) Save(ctx context.Context, session *app.Session) error {
	return s.write(ctx, session)
}

func (s *SessionStore) write(ctx context.Context, session *app.Session) error {
	data, err := json.Marshal(session.Snapshot())
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID()), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
