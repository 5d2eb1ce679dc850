package app

import (
	"strconv"
	"strings"
	"sync"

	"arithmetic-quiz-service/internal/domain"
)

// pointsPerCorrectAnswer is the fixed award for a correct submission.
const pointsPerCorrectAnswer = 10

// Session is the in-process representation of a running test.
type Session struct {
	// submitMu serializes grade, save and rollback of one submission.
	submitMu sync.Mutex

	mu    sync.Mutex
	state domain.SessionState
	index map[string]int
}

// NewSession wraps state; infrastructure layers use it to restore snapshots.
func NewSession(state domain.SessionState) *Session {
	if state.Awarded == nil {
		state.Awarded = make(map[string]bool)
	}
	index := make(map[string]int, len(state.Tasks))
	for i, task := range state.Tasks {
		index[task.ID] = i
	}
	return &Session{state: state, index: index}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.state.ID
}

// Snapshot returns a copy of the session state safe to serialize.
func (s *Session) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() domain.SessionState {
	out := s.state
	out.Tasks = append([]domain.Task(nil), s.state.Tasks...)
	out.Operators = append([]domain.Operator(nil), s.state.Operators...)
	out.Awarded = make(map[string]bool, len(s.state.Awarded))
	for id, ok := range s.state.Awarded {
		out.Awarded[id] = ok
	}
	return out
}

// restore replaces the state with an earlier snapshot.
func (s *Session) restore(state domain.SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state.Awarded == nil {
		state.Awarded = make(map[string]bool)
	}
	s.state = state
}

// grade checks a submission against the stored task and updates the score.
// Unless repeatScoring is set a task awards points only once.
func (s *Session) grade(sub domain.AnswerSubmission, repeatScoring bool) (domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[sub.TaskID]
	if !ok {
		return domain.AnswerResult{}, domain.ErrTaskNotFound
	}
	task := s.state.Tasks[i]

	correct := answersMatch(sub.Answer, task.CorrectAnswer)
	delta := 0
	if correct && (repeatScoring || !s.state.Awarded[task.ID]) {
		delta = pointsPerCorrectAnswer
		s.state.Awarded[task.ID] = true
	}

	s.state.Score += delta
	s.state.Answered++
	if correct {
		s.state.Correct++
	}
	if i+1 > s.state.CurrentIndex {
		s.state.CurrentIndex = i + 1
	}
	if sub.ElapsedSeconds > s.state.ElapsedSeconds {
		s.state.ElapsedSeconds = sub.ElapsedSeconds
	}

	return domain.AnswerResult{
		Correct:       correct,
		CorrectAnswer: task.CorrectAnswer,
		Explanation:   explain(task),
		PointsDelta:   delta,
		TotalScore:    s.state.Score,
	}, nil
}

func (s *Session) summary() domain.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.snapshotLocked()
	solved := len(state.Awarded)
	mark, label := markFor(solved, len(state.Tasks))
	return domain.SessionSummary{
		SessionID:    state.ID,
		Mode:         state.Mode,
		TimerSeconds: state.TimerSeconds,
		TaskCount:    len(state.Tasks),
		Tasks:        state.Tasks,
		CurrentIndex: state.CurrentIndex,
		Answered:     state.Answered,
		Correct:      state.Correct,
		Score:        state.Score,
		Mark:         mark,
		MarkLabel:    label,
	}
}

func explain(task domain.Task) string {
	return strings.TrimSuffix(task.Question, questionSuffix) + " = " + task.CorrectAnswer
}

// answersMatch compares loosely: whitespace is ignored, a decimal comma is
// accepted and numeric strings compare by value.
func answersMatch(given, expected string) bool {
	g := strings.ReplaceAll(strings.TrimSpace(given), ",", ".")
	e := strings.ReplaceAll(strings.TrimSpace(expected), ",", ".")
	if g == e {
		return true
	}
	gv, errG := strconv.ParseFloat(g, 64)
	ev, errE := strconv.ParseFloat(e, 64)
	return errG == nil && errE == nil && gv == ev
}

// markFor converts the share of solved tasks into a school mark from 1 to 5.
func markFor(solved, total int) (int, string) {
	if total <= 0 {
		return 5, "insufficient"
	}
	ratio := float64(solved) / float64(total)
	switch {
	case solved >= total:
		return 1, "very good"
	case ratio >= 0.8:
		return 2, "good"
	case ratio >= 0.6:
		return 3, "satisfactory"
	case ratio >= 0.4:
		return 4, "sufficient"
	default:
		return 5, "insufficient"
	}
}
