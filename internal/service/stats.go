package service

import (
	"context"
	"time"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
)

type StatsRepo interface {
	Get(ctx context.Context, userID int64) *entities.UserStats
	Update(ctx context.Context, userID int64, mutate func(*entities.UserStats)) *entities.UserStats
}

// StatsService accumulates per-user statistics.
type StatsService struct {
	repo StatsRepo
	now  func() time.Time
}

func NewStatsService(repo StatsRepo) *StatsService {
	return &StatsService{
		repo: repo,
		now:  time.Now,
	}
}

// RecordAnswer records a single answered question.
func (s *StatsService) RecordAnswer(ctx context.Context, userID int64, questionID int, correct bool, category string) {
	s.repo.Update(ctx, userID, func(st *entities.UserStats) {
		st.ApplyAnswer(questionID, correct, category)
	})
}

// RecordTestCompletion records a finished test and returns the updated
// statistics snapshot. Leaderboard and badge updates are driven by the
// scoring pipeline, not here.
func (s *StatsService) RecordTestCompletion(ctx context.Context, userID int64, category string, score, total int) *entities.UserStats {
	return s.repo.Update(ctx, userID, func(st *entities.UserStats) {
		st.ApplyCompletion(s.now(), category, score, total)
	})
}

// Get returns the user's statistics, zero-valued for unknown users.
func (s *StatsService) Get(ctx context.Context, userID int64) *entities.UserStats {
	return s.repo.Get(ctx, userID)
}

// WrongQuestions returns the ids the user currently has wrong.
func (s *StatsService) WrongQuestions(ctx context.Context, userID int64) []int {
	return s.repo.Get(ctx, userID).WrongQuestions
}
