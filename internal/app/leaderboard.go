package app

import (
	"sort"

	"arithmetic-quiz-service/internal/domain"
)

// DefaultLeaderboardLimit applies when no positive limit is requested.
const DefaultLeaderboardLimit = 10

// Rank orders records by score descending and numbers them from 1. Equal
// scores are ordered by who saved first, then by player key. The input slice
// is not modified.
func Rank(records []domain.ScoreRecord, limit int) []domain.RankedScore {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	sorted := append([]domain.ScoreRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].Player < sorted[j].Player
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	ranked := make([]domain.RankedScore, len(sorted))
	for i, rec := range sorted {
		ranked[i] = domain.RankedScore{Rank: i + 1, ScoreRecord: rec}
	}
	return ranked
}
