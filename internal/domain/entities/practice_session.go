package entities

import (
	"time"

	"github.com/google/uuid"
)

// PracticeSession is an untimed per-user test session. Feedback is shown
// after every answer, which is the defining difference from ExamSession.
// Sessions live only in memory and do not survive a restart.
type PracticeSession struct {
	ID             string // for log correlation
	UserID         int64
	Category       string
	Review         bool // drawn from the user's wrong-question set
	Questions      []ShuffledQuestion
	Current        int
	Correct        int
	StartedAt      time.Time
	LastActivityAt time.Time
}

// NewPracticeSession creates a session over the given drawn questions.
func NewPracticeSession(userID int64, category string, questions []ShuffledQuestion, now time.Time) *PracticeSession {
	return &PracticeSession{
		ID:             uuid.NewString(),
		UserID:         userID,
		Category:       category,
		Questions:      questions,
		StartedAt:      now,
		LastActivityAt: now,
	}
}

// CurrentQuestion returns the question at the cursor, or false when the
// session is exhausted.
func (p *PracticeSession) CurrentQuestion() (*ShuffledQuestion, bool) {
	if p.Current >= len(p.Questions) {
		return nil, false
	}
	return &p.Questions[p.Current], true
}

// Advance records the answer outcome, moves the cursor and reports whether
// the session is complete.
func (p *PracticeSession) Advance(correct bool, now time.Time) bool {
	if correct {
		p.Correct++
	}
	p.Current++
	p.LastActivityAt = now
	return p.Current >= len(p.Questions)
}
