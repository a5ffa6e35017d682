package entities

import (
	"math"
	"time"
)

// Period identifies a leaderboard ranking window.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAllTime Period = "alltime"
)

// Periods lists the ranking windows in display order.
var Periods = []Period{PeriodWeekly, PeriodMonthly, PeriodAllTime}

// LeaderboardEntry accumulates one user's totals within a single period.
// Counters are added incrementally per completed test, never recomputed
// from statistics.
type LeaderboardEntry struct {
	UserID          int64   `json:"user_id"`
	Username        string  `json:"username"`
	QuestionsSolved int     `json:"questions_solved"` // total answers submitted
	CorrectAnswers  int     `json:"correct_answers"`
	TestsTaken      int     `json:"tests_taken"`
	Accuracy        float64 `json:"accuracy"`
}

// RankingScore computes the composite ranking score. It is a pure function of
// the entry and is recomputed at every read, never stored.
//
// correct×10 rewards right answers, tests×50 rewards finishing tests, the
// accuracy bonus rewards quality and the square-root activity bonus rewards
// engagement with diminishing returns.
func (e *LeaderboardEntry) RankingScore() int {
	correctPoints := e.CorrectAnswers * 10
	testPoints := e.TestsTaken * 50
	accuracyBonus := int(e.Accuracy / 100 * float64(e.QuestionsSolved) * 0.5)
	activityBonus := int(math.Sqrt(float64(e.QuestionsSolved)) * 5)

	return correctPoints + testPoints + accuracyBonus + activityBonus
}

// Apply adds per-session deltas to the entry and refreshes the username and
// derived accuracy.
func (e *LeaderboardEntry) Apply(username string, questions, correct, tests int) {
	e.Username = username
	e.QuestionsSolved += questions
	e.CorrectAnswers += correct
	e.TestsTaken += tests

	if e.QuestionsSolved > 0 {
		e.Accuracy = math.Round(float64(e.CorrectAnswers)/float64(e.QuestionsSolved)*1000) / 10
	}
}

// LastReset stores the timestamps of the last weekly and monthly bucket clears.
type LastReset struct {
	Weekly  time.Time `json:"weekly"`
	Monthly time.Time `json:"monthly"`
}

// LeaderboardData is the single document backing the leaderboard store:
// three period-keyed buckets plus the last-reset timestamps.
type LeaderboardData struct {
	Weekly    map[string]*LeaderboardEntry `json:"weekly"`
	Monthly   map[string]*LeaderboardEntry `json:"monthly"`
	AllTime   map[string]*LeaderboardEntry `json:"alltime"`
	LastReset LastReset                    `json:"last_reset"`
}

// NewLeaderboardData creates an empty leaderboard document with reset
// timestamps anchored at now.
func NewLeaderboardData(now time.Time) *LeaderboardData {
	return &LeaderboardData{
		Weekly:  make(map[string]*LeaderboardEntry),
		Monthly: make(map[string]*LeaderboardEntry),
		AllTime: make(map[string]*LeaderboardEntry),
		LastReset: LastReset{
			Weekly:  now,
			Monthly: now,
		},
	}
}

// Bucket returns the entry map for the given period.
func (d *LeaderboardData) Bucket(period Period) map[string]*LeaderboardEntry {
	switch period {
	case PeriodWeekly:
		return d.Weekly
	case PeriodMonthly:
		return d.Monthly
	case PeriodAllTime:
		return d.AllTime
	}
	return nil
}

// ApplyResets clears expired period buckets and reports whether anything
// changed. The checks are idempotent within a day: the weekly bucket clears
// on a Monday at least 7 days past the last weekly reset, the monthly bucket
// on the 1st of a month different from the last monthly reset.
func (d *LeaderboardData) ApplyResets(now time.Time) bool {
	changed := false

	if now.Weekday() == time.Monday && now.Sub(d.LastReset.Weekly) >= 7*24*time.Hour {
		d.Weekly = make(map[string]*LeaderboardEntry)
		d.LastReset.Weekly = now
		changed = true
	}

	if now.Day() == 1 && now.Month() != d.LastReset.Monthly.Month() {
		d.Monthly = make(map[string]*LeaderboardEntry)
		d.LastReset.Monthly = now
		changed = true
	}

	return changed
}
