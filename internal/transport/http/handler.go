package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"arithmetic-quiz-service/internal/app"
	"arithmetic-quiz-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the quiz and score use cases as JSON endpoints.
type Handler struct {
	quiz   *app.QuizService
	scores *app.ScoreService
}

func NewHandler(quiz *app.QuizService, scores *app.ScoreService) *Handler {
	return &Handler{quiz: quiz, scores: scores}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/tasks", h.handleTasks)
	r.Post("/test/start", h.handleStart)
	r.Post("/test/answer", h.handleAnswer)
	r.Get("/test/{sessionID}", h.handleSummary)
	r.Post("/save", h.handleSave)
	r.Get("/load", h.handleLoad)
	r.Get("/leaderboard", h.handleLeaderboard)
}

type startRequest struct {
	Mode         string       `json:"mode"`
	TimerSeconds int          `json:"timerSeconds"`
	TaskCount    int          `json:"taskCount"`
	Grade        int          `json:"grade"`
	Operator     operatorList `json:"operator"`
}

type startResponse struct {
	SessionID    string        `json:"sessionId"`
	Mode         string        `json:"mode"`
	TimerSeconds int           `json:"timerSeconds"`
	TaskCount    int           `json:"taskCount"`
	Tasks        []domain.Task `json:"tasks"`
}

type answerRequest struct {
	SessionID      string     `json:"sessionId"`
	TaskID         string     `json:"taskId"`
	Answer         flexString `json:"answer"`
	ElapsedSeconds int        `json:"elapsedSeconds"`
}

type saveRequest struct {
	Player string `json:"player"`
	Score  int    `json:"score"`
	Grade  int    `json:"grade"`
	Mode   string `json:"mode"`
}

type saveResponse struct {
	Status string             `json:"status"`
	Record domain.ScoreRecord `json:"record"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleTasks(w http.ResponseWriter, r *http.Request) {
	operators := parseOperators(rawQueryParam(r, "operator"))
	grade := intParam(r, "klasse", 0)
	if grade == 0 {
		grade = intParam(r, "grade", 0)
	}
	count := intParam(r, "count", 0)

	writeJSON(w, http.StatusOK, h.quiz.Tasks(count, operators, grade))
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	state, err := h.quiz.StartSession(r.Context(), domain.SessionConfig{
		Mode:         req.Mode,
		TimerSeconds: req.TimerSeconds,
		TaskCount:    req.TaskCount,
		Grade:        req.Grade,
		Operators:    parseOperators(strings.Join(req.Operator, ",")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("test session started", "session_id", state.ID, "tasks", len(state.Tasks), "grade", state.Grade)
	writeJSON(w, http.StatusOK, startResponse{
		SessionID:    state.ID,
		Mode:         state.Mode,
		TimerSeconds: state.TimerSeconds,
		TaskCount:    len(state.Tasks),
		Tasks:        state.Tasks,
	})
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid answer payload"})
		return
	}

	result, err := h.quiz.SubmitAnswer(r.Context(), req.SessionID, domain.AnswerSubmission{
		TaskID:         req.TaskID,
		Answer:         string(req.Answer),
		ElapsedSeconds: req.ElapsedSeconds,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.quiz.Summary(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	record, err := h.scores.Save(r.Context(), req.Player, req.Score, req.Grade, req.Mode)
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("score saved", "player", record.Player, "score", record.Score)
	writeJSON(w, http.StatusOK, saveResponse{Status: "saved", Record: record})
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	record, err := h.scores.Load(r.Context(), r.URL.Query().Get("player"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.scores.Leaderboard(r.Context(), intParam(r, "limit", app.DefaultLeaderboardLimit))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}

// parseOperators falls back to addition for unrecognized tokens.
func parseOperators(raw string) []domain.Operator {
	ops, rejected := app.ParseOperators(raw)
	if len(rejected) > 0 {
		slog.Debug("ignoring unknown operators", "tokens", rejected, "using", ops)
	}
	return ops
}

// rawQueryParam reads a query value without turning '+' into a space, since
// '+' is an operator here.
func rawQueryParam(r *http.Request, name string) string {
	for _, pair := range strings.Split(r.URL.RawQuery, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if key != name {
			continue
		}
		if unescaped, err := url.PathUnescape(value); err == nil {
			return unescaped
		}
		return value
	}
	return ""
}

// intParam returns fallback when the parameter is missing or not a number.
func intParam(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// decodeJSON accepts an empty body, leaving v at its zero value.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	default:
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
