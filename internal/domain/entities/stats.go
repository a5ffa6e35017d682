package entities

import (
	"math"
	"time"
)

// DateLayout is the calendar-day format used for streak bookkeeping.
const DateLayout = "2006-01-02"

// maxHistoryEntries bounds the per-user test history (drop-oldest).
const maxHistoryEntries = 20

// CategoryTally accumulates per-category answer counts.
type CategoryTally struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// TestRecord is one completed test in the bounded history.
type TestRecord struct {
	Date       time.Time `json:"date"`
	Category   string    `json:"category"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
}

// UserStats accumulates per-user counters. A record is created lazily on the
// first recorded answer and never deleted.
type UserStats struct {
	TestsTaken     int                       `json:"tests_taken"`
	TotalQuestions int                       `json:"total_questions"`
	CorrectAnswers int                       `json:"correct_answers"`
	WrongQuestions []int                     `json:"wrong_questions"` // rolling "currently missed" set, not a log
	CategoryStats  map[string]*CategoryTally `json:"category_stats"`
	TestHistory    []TestRecord              `json:"test_history"`
	PerfectScores  int                       `json:"perfect_scores"`
	ExamsPassed    int                       `json:"exams_passed"`
	ExamsTaken     int                       `json:"exams_taken"`
	DailyStreak    int                       `json:"daily_streak"`
	LastActivity   string                    `json:"last_activity_date"` // DateLayout; empty until first completion
	TestsToday     int                       `json:"tests_today"`
	TestsInDay     int                       `json:"tests_in_day"` // all-time max of TestsToday
	NightTests     int                       `json:"night_tests"`
	EarlyTests     int                       `json:"early_tests"`
	WrongCorrected int                       `json:"wrong_questions_corrected"`
	Accuracy       float64                   `json:"accuracy"`
}

// NewUserStats creates a zero-valued statistics record.
func NewUserStats() *UserStats {
	return &UserStats{
		WrongQuestions: []int{},
		CategoryStats:  make(map[string]*CategoryTally),
		TestHistory:    []TestRecord{},
	}
}

// HasWrong reports whether the question is in the currently-missed set.
func (s *UserStats) HasWrong(questionID int) bool {
	for _, id := range s.WrongQuestions {
		if id == questionID {
			return true
		}
	}
	return false
}

// ApplyAnswer records a single answered question: counters, the rolling wrong
// set, the per-category tally and the derived accuracy.
func (s *UserStats) ApplyAnswer(questionID int, correct bool, category string) {
	s.TotalQuestions++

	if correct {
		s.CorrectAnswers++
		if s.HasWrong(questionID) {
			s.WrongCorrected++
			s.removeWrong(questionID)
		}
	} else if !s.HasWrong(questionID) {
		s.WrongQuestions = append(s.WrongQuestions, questionID)
	}

	tally, ok := s.CategoryStats[category]
	if !ok {
		tally = &CategoryTally{}
		s.CategoryStats[category] = tally
	}
	tally.Total++
	if correct {
		tally.Correct++
	}

	s.recalcAccuracy()
}

// ApplyCompletion records a finished test: tests-taken, time-of-day counters,
// the daily streak, perfect scores, exam pass tracking and the bounded history.
func (s *UserStats) ApplyCompletion(now time.Time, category string, score, total int) {
	s.TestsTaken++

	hour := now.Hour()
	if hour < 6 {
		s.NightTests++
	} else if hour == 6 {
		s.EarlyTests++
	}

	s.advanceStreak(now)

	if s.TestsToday > s.TestsInDay {
		s.TestsInDay = s.TestsToday
	}

	percentage := float64(score) / float64(total) * 100
	if percentage == 100 {
		s.PerfectScores++
	}

	if category == CategoryExam {
		s.ExamsTaken++
		if percentage >= 70 {
			s.ExamsPassed++
		}
	}

	s.TestHistory = append(s.TestHistory, TestRecord{
		Date:       now,
		Category:   category,
		Score:      score,
		Total:      total,
		Percentage: math.Round(percentage*10) / 10,
	})
	if len(s.TestHistory) > maxHistoryEntries {
		s.TestHistory = s.TestHistory[len(s.TestHistory)-maxHistoryEntries:]
	}
}

// advanceStreak applies the daily-streak state machine. "Yesterday" is proper
// calendar subtraction, so streaks survive month and year boundaries.
func (s *UserStats) advanceStreak(now time.Time) {
	today := now.Format(DateLayout)
	if s.LastActivity == today {
		s.TestsToday++
		return
	}

	yesterday := now.AddDate(0, 0, -1).Format(DateLayout)
	if s.LastActivity == yesterday {
		s.DailyStreak++
	} else {
		s.DailyStreak = 1
	}

	s.LastActivity = today
	s.TestsToday = 1
}

func (s *UserStats) removeWrong(questionID int) {
	for i, id := range s.WrongQuestions {
		if id == questionID {
			s.WrongQuestions = append(s.WrongQuestions[:i], s.WrongQuestions[i+1:]...)
			return
		}
	}
}

func (s *UserStats) recalcAccuracy() {
	if s.TotalQuestions == 0 {
		s.Accuracy = 0
		return
	}
	s.Accuracy = math.Round(float64(s.CorrectAnswers)/float64(s.TotalQuestions)*1000) / 10
}
