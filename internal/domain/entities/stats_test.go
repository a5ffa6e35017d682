package entities

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestApplyAnswerWrongSet(t *testing.T) {
	st := NewUserStats()

	st.ApplyAnswer(1, false, CategorySigns)
	if !st.HasWrong(1) {
		t.Fatalf("expected question 1 in wrong set")
	}

	// A repeated miss must not duplicate the entry.
	st.ApplyAnswer(1, false, CategorySigns)
	if len(st.WrongQuestions) != 1 {
		t.Fatalf("expected 1 wrong question, got %d", len(st.WrongQuestions))
	}

	st.ApplyAnswer(1, true, CategorySigns)
	if st.HasWrong(1) {
		t.Fatalf("expected question 1 removed from wrong set after correct answer")
	}
	if st.WrongCorrected != 1 {
		t.Fatalf("expected WrongCorrected=1, got %d", st.WrongCorrected)
	}

	// Correct answer to a never-missed question must not touch WrongCorrected.
	st.ApplyAnswer(2, true, CategoryRules)
	if st.WrongCorrected != 1 {
		t.Fatalf("expected WrongCorrected unchanged, got %d", st.WrongCorrected)
	}
}

func TestApplyAnswerAccuracy(t *testing.T) {
	st := NewUserStats()

	st.ApplyAnswer(1, true, CategorySigns)
	st.ApplyAnswer(2, true, CategorySigns)
	st.ApplyAnswer(3, false, CategorySigns)

	// 2/3 = 66.666... rounds to one decimal.
	if st.Accuracy != 66.7 {
		t.Fatalf("expected accuracy 66.7, got %v", st.Accuracy)
	}

	tally := st.CategoryStats[CategorySigns]
	if tally == nil || tally.Total != 3 || tally.Correct != 2 {
		t.Fatalf("unexpected category tally: %+v", tally)
	}
}

func TestAdvanceStreakConsecutiveDays(t *testing.T) {
	st := NewUserStats()

	st.ApplyCompletion(date(2026, time.March, 10, 12), CategoryMixed, 8, 10)
	if st.DailyStreak != 1 || st.TestsToday != 1 {
		t.Fatalf("expected streak=1 testsToday=1, got %d/%d", st.DailyStreak, st.TestsToday)
	}

	// Same day: streak unchanged, daily counter grows.
	st.ApplyCompletion(date(2026, time.March, 10, 18), CategoryMixed, 8, 10)
	if st.DailyStreak != 1 || st.TestsToday != 2 {
		t.Fatalf("expected streak=1 testsToday=2, got %d/%d", st.DailyStreak, st.TestsToday)
	}

	// Next day: streak grows, daily counter resets.
	st.ApplyCompletion(date(2026, time.March, 11, 9), CategoryMixed, 8, 10)
	if st.DailyStreak != 2 || st.TestsToday != 1 {
		t.Fatalf("expected streak=2 testsToday=1, got %d/%d", st.DailyStreak, st.TestsToday)
	}

	// A gap resets the streak to 1.
	st.ApplyCompletion(date(2026, time.March, 14, 9), CategoryMixed, 8, 10)
	if st.DailyStreak != 1 {
		t.Fatalf("expected streak reset to 1, got %d", st.DailyStreak)
	}
}

func TestAdvanceStreakMonthBoundary(t *testing.T) {
	st := NewUserStats()

	st.ApplyCompletion(date(2026, time.February, 28, 12), CategoryMixed, 8, 10)
	st.ApplyCompletion(date(2026, time.March, 1, 12), CategoryMixed, 8, 10)

	if st.DailyStreak != 2 {
		t.Fatalf("expected streak to survive month boundary, got %d", st.DailyStreak)
	}
}

func TestApplyCompletionTimeOfDay(t *testing.T) {
	st := NewUserStats()

	st.ApplyCompletion(date(2026, time.March, 10, 5), CategoryMixed, 8, 10)
	if st.NightTests != 1 || st.EarlyTests != 0 {
		t.Fatalf("expected a night test at 05:00, got night=%d early=%d", st.NightTests, st.EarlyTests)
	}

	st.ApplyCompletion(date(2026, time.March, 10, 6), CategoryMixed, 8, 10)
	if st.NightTests != 1 || st.EarlyTests != 1 {
		t.Fatalf("expected an early test at 06:00, got night=%d early=%d", st.NightTests, st.EarlyTests)
	}

	st.ApplyCompletion(date(2026, time.March, 10, 12), CategoryMixed, 8, 10)
	if st.NightTests != 1 || st.EarlyTests != 1 {
		t.Fatalf("midday test must not count as night or early")
	}
}

func TestApplyCompletionExamTracking(t *testing.T) {
	st := NewUserStats()

	st.ApplyCompletion(date(2026, time.March, 10, 12), CategoryExam, 14, 20)
	if st.ExamsTaken != 1 || st.ExamsPassed != 1 {
		t.Fatalf("expected 14/20 to pass, got taken=%d passed=%d", st.ExamsTaken, st.ExamsPassed)
	}

	st.ApplyCompletion(date(2026, time.March, 10, 13), CategoryExam, 13, 20)
	if st.ExamsTaken != 2 || st.ExamsPassed != 1 {
		t.Fatalf("expected 13/20 to fail, got taken=%d passed=%d", st.ExamsTaken, st.ExamsPassed)
	}

	if st.PerfectScores != 0 {
		t.Fatalf("expected no perfect scores, got %d", st.PerfectScores)
	}

	st.ApplyCompletion(date(2026, time.March, 10, 14), CategoryMixed, 10, 10)
	if st.PerfectScores != 1 {
		t.Fatalf("expected a perfect score for 10/10, got %d", st.PerfectScores)
	}
}

func TestHistoryBounded(t *testing.T) {
	st := NewUserStats()

	for i := 0; i < maxHistoryEntries+5; i++ {
		st.ApplyCompletion(date(2026, time.March, 10, 12), CategoryMixed, i, 100)
	}

	if len(st.TestHistory) != maxHistoryEntries {
		t.Fatalf("expected history capped at %d, got %d", maxHistoryEntries, len(st.TestHistory))
	}
	// Oldest entries drop first.
	if st.TestHistory[0].Score != 5 {
		t.Fatalf("expected oldest kept score 5, got %d", st.TestHistory[0].Score)
	}
}
