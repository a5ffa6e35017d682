package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
)

// memStatsRepo is an in-memory StatsRepo.
type memStatsRepo struct {
	records map[int64]*entities.UserStats
}

func newMemStatsRepo() *memStatsRepo {
	return &memStatsRepo{records: make(map[int64]*entities.UserStats)}
}

func (r *memStatsRepo) Get(_ context.Context, userID int64) *entities.UserStats {
	if st, ok := r.records[userID]; ok {
		return st
	}
	return entities.NewUserStats()
}

func (r *memStatsRepo) Update(_ context.Context, userID int64, mutate func(*entities.UserStats)) *entities.UserStats {
	st, ok := r.records[userID]
	if !ok {
		st = entities.NewUserStats()
		r.records[userID] = st
	}
	mutate(st)
	return st
}

// memLeaderboardRepo is an in-memory LeaderboardRepo.
type memLeaderboardRepo struct {
	data *entities.LeaderboardData
}

func newMemLeaderboardRepo(now time.Time) *memLeaderboardRepo {
	return &memLeaderboardRepo{data: entities.NewLeaderboardData(now)}
}

func (r *memLeaderboardRepo) Load(_ context.Context) *entities.LeaderboardData {
	return r.data
}

func (r *memLeaderboardRepo) Update(_ context.Context, mutate func(*entities.LeaderboardData)) {
	mutate(r.data)
}

// memBadgeRepo is an in-memory BadgeRepo.
type memBadgeRepo struct {
	records map[int64]*entities.EarnedBadges
}

func newMemBadgeRepo() *memBadgeRepo {
	return &memBadgeRepo{records: make(map[int64]*entities.EarnedBadges)}
}

func (r *memBadgeRepo) Get(_ context.Context, userID int64) *entities.EarnedBadges {
	if eb, ok := r.records[userID]; ok {
		return eb
	}
	return entities.NewEarnedBadges()
}

func (r *memBadgeRepo) Update(_ context.Context, userID int64, mutate func(*entities.EarnedBadges)) *entities.EarnedBadges {
	eb, ok := r.records[userID]
	if !ok {
		eb = entities.NewEarnedBadges()
		r.records[userID] = eb
	}
	mutate(eb)
	return eb
}

// staticQuestionRepo serves a fixed catalog.
type staticQuestionRepo struct {
	questions []entities.Question
}

func (r *staticQuestionRepo) GetAll(_ context.Context) []entities.Question {
	out := make([]entities.Question, len(r.questions))
	copy(out, r.questions)
	return out
}

// makeCatalog builds n four-option questions, all in the given category, with
// the correct option at index 0.
func makeCatalog(n int, category string) []entities.Question {
	questions := make([]entities.Question, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, entities.Question{
			ID:           i,
			Text:         fmt.Sprintf("question %d", i),
			Options:      []string{"right", "wrong a", "wrong b", "wrong c"},
			CorrectIndex: 0,
			Category:     category,
			Explanation:  "because",
		})
	}
	return questions
}

// testEnv bundles the full service graph over in-memory stores with an
// injectable clock.
type testEnv struct {
	clock       time.Time
	stats       *StatsService
	leaderboard *LeaderboardService
	badges      *BadgeService
	scoring     *ScoringService
	questions   *QuestionService
}

func newTestEnv(catalog []entities.Question) *testEnv {
	env := &testEnv{clock: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)}
	now := func() time.Time { return env.clock }

	env.stats = NewStatsService(newMemStatsRepo())
	env.stats.now = now
	env.leaderboard = NewLeaderboardService(newMemLeaderboardRepo(env.clock))
	env.leaderboard.now = now
	env.badges = NewBadgeService(newMemBadgeRepo())
	env.badges.now = now
	env.scoring = NewScoringService(env.stats, env.leaderboard, env.badges)
	env.questions = NewQuestionService(&staticQuestionRepo{questions: catalog})

	return env
}

func (env *testEnv) practiceRegistry(cfg PracticeConfig) *PracticeRegistry {
	r := NewPracticeRegistry(env.questions, env.stats, env.scoring, cfg, zap.NewNop())
	r.now = func() time.Time { return env.clock }
	return r
}

func (env *testEnv) examRegistry(cfg ExamConfig) *ExamRegistry {
	r := NewExamRegistry(env.questions, env.stats, env.scoring, cfg, zap.NewNop())
	r.now = func() time.Time { return env.clock }
	return r
}
