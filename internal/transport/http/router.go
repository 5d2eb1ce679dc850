package http

import (
	"arithmetic-quiz-service/internal/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the REST endpoints and the leaderboard stream.
func NewRouter(quiz *app.QuizService, scores *app.ScoreService) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	NewHandler(quiz, scores).Routes(r)
	r.Get("/ws/leaderboard", NewWSHandler(scores).ServeLeaderboard)
	return r
}
