package app

import (
	"context"
	"time"

	"arithmetic-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// SessionRepository abstracts how test sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, session *Session) error
}

// QuizOptions holds request defaults and the scoring policy.
type QuizOptions struct {
	DefaultMode         string
	DefaultTimerSeconds int
	DefaultTaskCount    int
	MaxTaskCount        int
	DefaultGrade        int
	// RepeatScoring awards points every time a task is answered correctly.
	RepeatScoring bool
}

// DefaultQuizOptions mirrors the defaults of the config file.
func DefaultQuizOptions() QuizOptions {
	return QuizOptions{
		DefaultMode:         "Test",
		DefaultTimerSeconds: 300,
		DefaultTaskCount:    10,
		MaxTaskCount:        100,
		DefaultGrade:        3,
	}
}

// QuizService contains the task and test-session use cases.
type QuizService struct {
	sessions  SessionRepository
	generator *TaskGenerator
	opts      QuizOptions
	now       func() time.Time
}

func NewQuizService(store SessionRepository, generator *TaskGenerator, opts QuizOptions) *QuizService {
	return &QuizService{sessions: store, generator: generator, opts: opts, now: time.Now}
}

// Tasks generates a standalone batch of tasks without creating a session.
func (s *QuizService) Tasks(count int, operators []domain.Operator, grade int) []domain.Task {
	return s.generator.Generate(s.taskCount(count), operators, s.grade(grade))
}

// StartSession creates a session with freshly generated tasks.
func (s *QuizService) StartSession(ctx context.Context, cfg domain.SessionConfig) (domain.SessionState, error) {
	if cfg.Mode == "" {
		cfg.Mode = s.opts.DefaultMode
	}
	if cfg.TimerSeconds <= 0 {
		cfg.TimerSeconds = s.opts.DefaultTimerSeconds
	}
	if len(cfg.Operators) == 0 {
		cfg.Operators = []domain.Operator{domain.OpAdd}
	}
	grade := s.grade(cfg.Grade)

	session := NewSession(domain.SessionState{
		ID:           uuid.NewString(),
		Mode:         cfg.Mode,
		TimerSeconds: cfg.TimerSeconds,
		Grade:        grade,
		Operators:    cfg.Operators,
		Tasks:        s.generator.Generate(s.taskCount(cfg.TaskCount), cfg.Operators, grade),
		CreatedAt:    s.now(),
	})
	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.SessionState{}, err
	}
	return session.Snapshot(), nil
}

// SubmitAnswer grades an answer against the task stored in the session.
func (s *QuizService) SubmitAnswer(ctx context.Context, sessionID string, submission domain.AnswerSubmission) (domain.AnswerResult, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	session.submitMu.Lock()
	defer session.submitMu.Unlock()

	before := session.Snapshot()
	result, err := session.grade(submission, s.opts.RepeatScoring)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		// A failed save must not leave the answer counted.
		session.restore(before)
		return domain.AnswerResult{}, err
	}
	return result, nil
}

// Summary reports the progress of a session.
func (s *QuizService) Summary(ctx context.Context, sessionID string) (domain.SessionSummary, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.SessionSummary{}, err
	}
	return session.summary(), nil
}

func (s *QuizService) taskCount(count int) int {
	if count <= 0 {
		count = s.opts.DefaultTaskCount
	}
	if s.opts.MaxTaskCount > 0 && count > s.opts.MaxTaskCount {
		count = s.opts.MaxTaskCount
	}
	return count
}

func (s *QuizService) grade(grade int) int {
	if grade == 0 {
		return s.opts.DefaultGrade
	}
	return grade
}
