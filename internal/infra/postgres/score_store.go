package postgres

import (
	"context"
	"errors"
	"fmt"

	"arithmetic-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ScoreStore keeps one row per player in the scores table.
type ScoreStore struct {
	pool *pgxpool.Pool
}

func NewScoreStore(pool *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

// Put upserts the record; the last write wins.
func (s *ScoreStore) Put(ctx context.Context, record domain.ScoreRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scores (player, display_name, score, grade, mode, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (player) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			score = EXCLUDED.score,
			grade = EXCLUDED.grade,
			mode = EXCLUDED.mode,
			saved_at = EXCLUDED.saved_at`,
		record.Player, record.DisplayName, record.Score, record.Grade, record.Mode, record.Timestamp)
	if err != nil {
		return fmt.Errorf("save score: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (s *ScoreStore) Get(ctx context.Context, player string) (domain.ScoreRecord, error) {
	var record domain.ScoreRecord
	err := s.pool.QueryRow(ctx, `
		SELECT player, display_name, score, grade, mode, saved_at
		FROM scores WHERE player=$1`, player).
		Scan(&record.Player, &record.DisplayName, &record.Score, &record.Grade, &record.Mode, &record.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ScoreRecord{}, domain.ErrPlayerNotFound
	}
	if err != nil {
		return domain.ScoreRecord{}, fmt.Errorf("load score: %w: %w", domain.ErrPersistence, err)
	}
	return record, nil
}

func (s *ScoreStore) List(ctx context.Context) ([]domain.ScoreRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT player, display_name, score, grade, mode, saved_at
		FROM scores ORDER BY player`)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var records []domain.ScoreRecord
	for rows.Next() {
		var record domain.ScoreRecord
		if err := rows.Scan(&record.Player, &record.DisplayName, &record.Score, &record.Grade, &record.Mode, &record.Timestamp); err != nil {
			return nil, fmt.Errorf("scan score: %w: %w", domain.ErrPersistence, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scores: %w: %w", domain.ErrPersistence, err)
	}
	return records, nil
}
