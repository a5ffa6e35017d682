package service

import (
	"context"
	"testing"
	"time"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
)

func TestLeaderboardUpdateAndTop(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(nil)

	env.leaderboard.Update(ctx, 1, "alice", 10, 9, 1)
	env.leaderboard.Update(ctx, 2, "bob", 10, 5, 1)

	top := env.leaderboard.Top(ctx, entities.PeriodAllTime, 10)
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].UserID != 1 {
		t.Fatalf("expected alice on top, got user %d", top[0].UserID)
	}
	if top[0].Points <= top[1].Points {
		t.Fatalf("expected descending points, got %d then %d", top[0].Points, top[1].Points)
	}
}

func TestLeaderboardUpdateHitsAllPeriods(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(nil)

	env.leaderboard.Update(ctx, 1, "alice", 10, 8, 1)

	for _, period := range entities.Periods {
		rank, entry := env.leaderboard.Rank(ctx, 1, period)
		if rank != 1 {
			t.Fatalf("expected rank 1 in %s, got %d", period, rank)
		}
		if entry.QuestionsSolved != 10 || entry.CorrectAnswers != 8 || entry.TestsTaken != 1 {
			t.Fatalf("unexpected %s entry: %+v", period, entry)
		}
	}
}

func TestLeaderboardRankAbsentUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(nil)

	rank, entry := env.leaderboard.Rank(ctx, 42, entities.PeriodWeekly)
	if rank != 0 {
		t.Fatalf("expected rank 0 for absent user, got %d", rank)
	}
	if entry.UserID != 0 {
		t.Fatalf("expected zero entry, got %+v", entry)
	}
}

func TestLeaderboardWeeklyResetClearsBucket(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(nil)
	// Anchor on a Monday so the next Monday triggers the reset.
	env.clock = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	env.leaderboard.repo = newMemLeaderboardRepo(env.clock)

	env.leaderboard.Update(ctx, 1, "alice", 10, 8, 1)

	env.clock = env.clock.AddDate(0, 0, 7)
	env.leaderboard.ApplyResets(ctx)

	if top := env.leaderboard.Top(ctx, entities.PeriodWeekly, 10); len(top) != 0 {
		t.Fatalf("expected empty weekly bucket after reset, got %d entries", len(top))
	}
	if top := env.leaderboard.Top(ctx, entities.PeriodAllTime, 10); len(top) != 1 {
		t.Fatalf("expected all-time bucket untouched, got %d entries", len(top))
	}
}

func TestLeaderboardAccumulates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(nil)

	env.leaderboard.Update(ctx, 1, "alice", 10, 8, 1)
	env.leaderboard.Update(ctx, 1, "alice", 10, 6, 1)

	_, entry := env.leaderboard.Rank(ctx, 1, entities.PeriodAllTime)
	if entry.QuestionsSolved != 20 || entry.CorrectAnswers != 14 || entry.TestsTaken != 2 {
		t.Fatalf("expected accumulated 20/14/2, got %+v", entry)
	}
	if entry.Accuracy != 70.0 {
		t.Fatalf("expected accuracy 70.0, got %v", entry.Accuracy)
	}
}
