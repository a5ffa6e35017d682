package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
)

var (
	ErrNoQuestionsAvailable = errors.New("no questions available")
	ErrNoWrongQuestions     = errors.New("no wrong questions to review")
	ErrNoActiveSession      = errors.New("no active session")
	ErrInvalidAnswer        = errors.New("answer index out of range")
)

// PracticeConfig configures practice sessions.
type PracticeConfig struct {
	QuestionCount int
	IdleTimeout   time.Duration
}

// TestResult summarizes a completed practice session.
type TestResult struct {
	Category  string
	Score     int
	Total     int
	Percent   float64
	NewBadges []Badge
}

// AnswerFeedback is what the user sees after one practice answer. Result is
// set only when the session just completed.
type AnswerFeedback struct {
	Correct      bool
	CorrectIndex int // position of the right option among the shuffled ones
	Explanation  string
	Next         *entities.ShuffledQuestion
	Number       int // 1-based number of Next within the session
	Total        int
	Result       *TestResult
}

// PracticeRegistry owns all in-memory practice sessions, one per user.
// Starting a new session replaces any previous one for that user.
type PracticeRegistry struct {
	mu       sync.Mutex
	sessions map[int64]*entities.PracticeSession

	questions *QuestionService
	stats     *StatsService
	scoring   *ScoringService
	cfg       PracticeConfig
	now       func() time.Time
	logger    *zap.Logger
}

func NewPracticeRegistry(
	questions *QuestionService,
	stats *StatsService,
	scoring *ScoringService,
	cfg PracticeConfig,
	logger *zap.Logger,
) *PracticeRegistry {
	return &PracticeRegistry{
		sessions:  make(map[int64]*entities.PracticeSession),
		questions: questions,
		stats:     stats,
		scoring:   scoring,
		cfg:       cfg,
		now:       time.Now,
		logger:    logger,
	}
}

// Start draws a fresh question set for the category and opens a session.
func (r *PracticeRegistry) Start(ctx context.Context, userID int64, category string) (*entities.PracticeSession, error) {
	drawn := r.questions.DrawRandom(ctx, category, r.cfg.QuestionCount)
	if len(drawn) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	session := entities.NewPracticeSession(userID, category, drawn, r.now())

	r.mu.Lock()
	r.sessions[userID] = session
	r.mu.Unlock()

	r.logger.Info("practice session started",
		zap.String("session_id", session.ID),
		zap.Int64("user_id", userID),
		zap.String("category", category),
		zap.Int("questions", len(drawn)),
	)

	return session, nil
}

// StartReview opens a session over the user's full wrong-question set.
func (r *PracticeRegistry) StartReview(ctx context.Context, userID int64) (*entities.PracticeSession, error) {
	wrong := r.stats.WrongQuestions(ctx, userID)
	if len(wrong) == 0 {
		return nil, ErrNoWrongQuestions
	}

	drawn := r.questions.DrawByIDs(ctx, wrong)
	if len(drawn) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	session := entities.NewPracticeSession(userID, entities.CategoryReview, drawn, r.now())
	session.Review = true

	r.mu.Lock()
	r.sessions[userID] = session
	r.mu.Unlock()

	r.logger.Info("review session started",
		zap.String("session_id", session.ID),
		zap.Int64("user_id", userID),
		zap.Int("questions", len(drawn)),
	)

	return session, nil
}

// Active returns the user's session, if any.
func (r *PracticeRegistry) Active(userID int64) (*entities.PracticeSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[userID]
	return session, ok
}

// SubmitAnswer checks the answer against the current question, records it and
// advances the session. A malformed index leaves the session unchanged so the
// user may retry. On the last question the scoring pipeline runs and the
// session is destroyed.
func (r *PracticeRegistry) SubmitAnswer(ctx context.Context, userID int64, username string, optionIndex int) (*AnswerFeedback, error) {
	r.mu.Lock()
	session, ok := r.sessions[userID]
	if !ok {
		r.mu.Unlock()
		return nil, ErrNoActiveSession
	}

	question, ok := session.CurrentQuestion()
	if !ok {
		// Exhausted session that was not cleaned up; drop it.
		delete(r.sessions, userID)
		r.mu.Unlock()
		return nil, ErrNoActiveSession
	}

	if optionIndex < 0 || optionIndex >= len(question.ShuffledOptions) {
		r.mu.Unlock()
		return nil, ErrInvalidAnswer
	}

	correct := optionIndex == question.ShuffledCorrectIndex
	done := session.Advance(correct, r.now())
	if done {
		delete(r.sessions, userID)
	}
	r.mu.Unlock()

	r.stats.RecordAnswer(ctx, userID, question.ID, correct, question.Category)

	feedback := &AnswerFeedback{
		Correct:      correct,
		CorrectIndex: question.ShuffledCorrectIndex,
		Explanation:  question.Explanation,
		Total:        len(session.Questions),
	}

	if done {
		total := len(session.Questions)
		_, newBadges := r.scoring.CompleteTest(ctx, userID, username, session.Category, session.Correct, total)
		feedback.Result = &TestResult{
			Category:  session.Category,
			Score:     session.Correct,
			Total:     total,
			Percent:   float64(session.Correct) / float64(total) * 100,
			NewBadges: newBadges,
		}
		return feedback, nil
	}

	next, _ := session.CurrentQuestion()
	feedback.Next = next
	feedback.Number = session.Current + 1
	return feedback, nil
}

// EvictIdle drops sessions with no activity for longer than the idle timeout
// and returns how many were removed. Abandoned sessions would otherwise hold
// their registry slot forever.
func (r *PracticeRegistry) EvictIdle() int {
	if r.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.cfg.IdleTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for userID, session := range r.sessions {
		if session.LastActivityAt.Before(cutoff) {
			delete(r.sessions, userID)
			evicted++
		}
	}
	return evicted
}
