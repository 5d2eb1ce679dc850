package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arithmetic-quiz-service/internal/app"
	"arithmetic-quiz-service/internal/config"
	"arithmetic-quiz-service/internal/infra/file"
	"arithmetic-quiz-service/internal/infra/memory"
	pgstore "arithmetic-quiz-service/internal/infra/postgres"
	redisstore "arithmetic-quiz-service/internal/infra/redis"
	transport "arithmetic-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config) error {
	scoreRepo, closeScores, err := openScoreRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeScores()

	var sessions app.SessionRepository = memory.NewSessionStore()
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		sessions = redisstore.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 2*time.Hour))
		slog.Info("using redis session store", "addr", cfg.Redis.Addr)
	}

	quiz := app.NewQuizService(sessions, app.NewTaskGenerator(app.NewTimeSeededSource()), quizOptions(cfg.Quiz))
	scores := app.NewScoreService(scoreRepo)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      transport.NewRouter(quiz, scores),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting quiz service", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		slog.Error("failed to start server", "error", err)
		return fmt.Errorf("serve: %w", err)
	case <-stop:
		slog.Info("shutting down server...")
	case <-ctx.Done():
		slog.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openScoreRepository picks Postgres when configured, otherwise the JSON file.
// An unreadable score file is logged and replaced by an empty store.
func openScoreRepository(ctx context.Context, cfg config.Config) (app.ScoreRepository, func(), error) {
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		slog.Info("using postgres score store")
		return pgstore.NewScoreStore(pool), pool.Close, nil
	}

	store, err := file.Open(cfg.Scores.File)
	if err != nil {
		slog.Warn("score file unusable, starting with an empty store", "path", cfg.Scores.File, "error", err)
	}
	slog.Info("using file score store", "path", cfg.Scores.File)
	return store, func() {}, nil
}

func quizOptions(cfg config.QuizConfig) app.QuizOptions {
	opts := app.DefaultQuizOptions()
	if cfg.DefaultMode != "" {
		opts.DefaultMode = cfg.DefaultMode
	}
	if cfg.DefaultTimerSeconds > 0 {
		opts.DefaultTimerSeconds = cfg.DefaultTimerSeconds
	}
	if cfg.DefaultCount > 0 {
		opts.DefaultTaskCount = cfg.DefaultCount
	}
	if cfg.MaxCount > 0 {
		opts.MaxTaskCount = cfg.MaxCount
	}
	if cfg.DefaultGrade > 0 {
		opts.DefaultGrade = cfg.DefaultGrade
	}
	opts.RepeatScoring = cfg.RepeatScoring
	return opts
}
