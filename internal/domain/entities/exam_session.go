package entities

import (
	"time"

	"github.com/google/uuid"
)

// ExamAnswer records one submitted exam answer.
type ExamAnswer struct {
	OptionIndex int
	Correct     bool
}

// ExamSession is a timed per-user exam: fixed question count, wall-clock
// deadline, no feedback until completion. At most one exists per user at a
// time; it lives only in memory.
type ExamSession struct {
	ID        string
	UserID    int64
	Questions []ShuffledQuestion
	Current   int
	Correct   int
	Answers   map[int]ExamAnswer // question id -> answer
	StartedAt time.Time
	Deadline  time.Time
	Active    bool
}

// NewExamSession creates a running exam over the drawn questions with the
// deadline at now + duration.
func NewExamSession(userID int64, questions []ShuffledQuestion, now time.Time, duration time.Duration) *ExamSession {
	return &ExamSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Questions: questions,
		Answers:   make(map[int]ExamAnswer),
		StartedAt: now,
		Deadline:  now.Add(duration),
		Active:    true,
	}
}

// TimeRemaining returns the time left before the deadline, floored at zero.
func (e *ExamSession) TimeRemaining(now time.Time) time.Duration {
	if !e.Active {
		return 0
	}
	remaining := e.Deadline.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the deadline has passed.
func (e *ExamSession) Expired(now time.Time) bool {
	return e.TimeRemaining(now) <= 0
}

// CurrentQuestion returns the question at the cursor, or false when all
// questions have been answered.
func (e *ExamSession) CurrentQuestion() (*ShuffledQuestion, bool) {
	if e.Current >= len(e.Questions) {
		return nil, false
	}
	return &e.Questions[e.Current], true
}

// RecordAnswer stores the answer for the current question and advances the
// cursor. It reports whether all questions are now answered.
func (e *ExamSession) RecordAnswer(questionID, optionIndex int, correct bool) bool {
	e.Answers[questionID] = ExamAnswer{OptionIndex: optionIndex, Correct: correct}
	if correct {
		e.Correct++
	}
	e.Current++
	return e.Current >= len(e.Questions)
}
