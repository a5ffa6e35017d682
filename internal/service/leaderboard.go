package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
)

type LeaderboardRepo interface {
	Load(ctx context.Context) *entities.LeaderboardData
	Update(ctx context.Context, mutate func(*entities.LeaderboardData))
}

// RankedEntry is a leaderboard entry with its ranking score computed at read
// time.
type RankedEntry struct {
	entities.LeaderboardEntry
	Points int
}

// LeaderboardService maintains the three overlapping ranking windows.
type LeaderboardService struct {
	repo LeaderboardRepo
	now  func() time.Time
}

func NewLeaderboardService(repo LeaderboardRepo) *LeaderboardService {
	return &LeaderboardService{
		repo: repo,
		now:  time.Now,
	}
}

// Update adds one completed test's deltas to every period bucket, applying
// pending period resets first.
func (s *LeaderboardService) Update(ctx context.Context, userID int64, username string, questions, correct, tests int) {
	now := s.now()
	key := strconv.FormatInt(userID, 10)

	s.repo.Update(ctx, func(data *entities.LeaderboardData) {
		data.ApplyResets(now)

		for _, period := range entities.Periods {
			bucket := data.Bucket(period)
			entry, ok := bucket[key]
			if !ok {
				entry = &entities.LeaderboardEntry{UserID: userID}
				bucket[key] = entry
			}
			entry.Apply(username, questions, correct, tests)
		}
	})
}

// Top returns up to limit entries for the period sorted descending by
// ranking score.
func (s *LeaderboardService) Top(ctx context.Context, period entities.Period, limit int) []RankedEntry {
	ranked := s.ranked(ctx, period)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Rank returns the user's 1-based rank and entry within the period, or
// (0, zero entry) if the user has no entry.
func (s *LeaderboardService) Rank(ctx context.Context, userID int64, period entities.Period) (int, RankedEntry) {
	for i, entry := range s.ranked(ctx, period) {
		if entry.UserID == userID {
			return i + 1, entry
		}
	}
	return 0, RankedEntry{}
}

// ApplyResets applies pending period resets without recording any update.
// The nightly job calls this so buckets clear even on days without traffic.
func (s *LeaderboardService) ApplyResets(ctx context.Context) {
	now := s.now()
	s.repo.Update(ctx, func(data *entities.LeaderboardData) {
		data.ApplyResets(now)
	})
}

func (s *LeaderboardService) ranked(ctx context.Context, period entities.Period) []RankedEntry {
	data := s.repo.Load(ctx)
	data.ApplyResets(s.now())

	bucket := data.Bucket(period)
	ranked := make([]RankedEntry, 0, len(bucket))
	for _, entry := range bucket {
		ranked = append(ranked, RankedEntry{
			LeaderboardEntry: *entry,
			Points:           entry.RankingScore(),
		})
	}

	// Stable sort keeps tie order deterministic within a call; ties are
	// otherwise unspecified.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	return ranked
}
