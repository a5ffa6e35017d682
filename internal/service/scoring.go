package service

import (
	"context"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
)

// ScoringService is the pipeline invoked exactly once per completed test or
// exam: persist completion statistics, add the session's deltas to the
// leaderboard, refresh the all-time rank and re-evaluate badges.
type ScoringService struct {
	stats       *StatsService
	leaderboard *LeaderboardService
	badges      *BadgeService
}

func NewScoringService(stats *StatsService, leaderboard *LeaderboardService, badges *BadgeService) *ScoringService {
	return &ScoringService{
		stats:       stats,
		leaderboard: leaderboard,
		badges:      badges,
	}
}

// CompleteTest runs the pipeline and returns the updated statistics snapshot
// together with any newly earned badges, which the caller is responsible for
// announcing.
func (s *ScoringService) CompleteTest(ctx context.Context, userID int64, username, category string, score, total int) (*entities.UserStats, []Badge) {
	snapshot := s.stats.RecordTestCompletion(ctx, userID, category, score, total)

	// Per-session deltas only: questions solved means answers submitted.
	s.leaderboard.Update(ctx, userID, username, total, score, 1)

	rank, _ := s.leaderboard.Rank(ctx, userID, entities.PeriodAllTime)
	bctx := NewBadgeContext(snapshot, rank)

	newly := s.badges.CheckAndAward(ctx, userID, bctx)

	return snapshot, newly
}
