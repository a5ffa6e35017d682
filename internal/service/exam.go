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
	ErrExamAlreadyActive     = errors.New("exam already active")
	ErrInsufficientQuestions = errors.New("not enough questions for an exam")
	ErrNoActiveExam          = errors.New("no active exam")
)

// examPassPercent is the pass/fail threshold.
const examPassPercent = 70

// Advisory warning windows, matched against the remaining time observed on a
// countdown tick. Each fires at most once per session.
const (
	fiveMinWarnLow  = 290 * time.Second
	fiveMinWarnHigh = 300 * time.Second
	oneMinWarnLow   = 50 * time.Second
	oneMinWarnHigh  = 60 * time.Second
)

// ExamConfig configures the timed exam mode.
type ExamConfig struct {
	QuestionCount int
	Duration      time.Duration
	TickInterval  time.Duration
}

// ExamNotifier is the transport-side collaborator the registry calls from the
// countdown: advisory time warnings, the forced finish on expiry, and display
// name resolution for the leaderboard.
type ExamNotifier interface {
	ExamTimeWarning(userID int64, remaining time.Duration)
	ExamExpired(userID int64, result *ExamResult)
	DisplayName(userID int64) string
}

// ExamResult summarizes a finished exam.
type ExamResult struct {
	Correct    int
	Total      int
	Answered   int
	Percent    float64
	Passed     bool
	AutoSubmit bool
	TimeTaken  time.Duration
	NewBadges  []Badge
}

// ExamOutcome is the result of one submitted exam answer: either the next
// question or, when the exam just finished, the final result.
type ExamOutcome struct {
	Next      *entities.ShuffledQuestion
	Number    int // 1-based number of Next within the exam
	Remaining time.Duration
	Result    *ExamResult
}

// examState pairs a session with its countdown cancellation handle and the
// once-per-threshold warning flags.
type examState struct {
	session       *entities.ExamSession
	cancel        context.CancelFunc
	warnedFiveMin bool
	warnedOneMin  bool
}

// ExamRegistry owns all in-memory exam sessions, one active per user at most.
type ExamRegistry struct {
	mu    sync.Mutex
	exams map[int64]*examState

	questions *QuestionService
	stats     *StatsService
	scoring   *ScoringService
	notifier  ExamNotifier
	cfg       ExamConfig
	now       func() time.Time
	logger    *zap.Logger
}

func NewExamRegistry(
	questions *QuestionService,
	stats *StatsService,
	scoring *ScoringService,
	cfg ExamConfig,
	logger *zap.Logger,
) *ExamRegistry {
	return &ExamRegistry{
		exams:     make(map[int64]*examState),
		questions: questions,
		stats:     stats,
		scoring:   scoring,
		cfg:       cfg,
		now:       time.Now,
		logger:    logger,
	}
}

// SetNotifier wires the transport collaborator. Must be called before the
// first Start; the delivery layer is constructed after the registry.
func (r *ExamRegistry) SetNotifier(n ExamNotifier) {
	r.notifier = n
}

// Start draws a full exam question set and opens a session with a running
// countdown. A second start while one is active is rejected; the caller can
// report the remaining time via Remaining.
func (r *ExamRegistry) Start(ctx context.Context, userID int64) (*entities.ExamSession, error) {
	r.mu.Lock()
	if state, ok := r.exams[userID]; ok && state.session.Active {
		r.mu.Unlock()
		return nil, ErrExamAlreadyActive
	}
	r.mu.Unlock()

	drawn := r.questions.DrawRandom(ctx, entities.CategoryMixed, r.cfg.QuestionCount)
	if len(drawn) < r.cfg.QuestionCount {
		// An exam must have its fixed length; report instead of degrading.
		return nil, ErrInsufficientQuestions
	}

	session := entities.NewExamSession(userID, drawn, r.now(), r.cfg.Duration)
	countdownCtx, cancel := context.WithCancel(context.Background())

	r.mu.Lock()
	if state, ok := r.exams[userID]; ok && state.session.Active {
		r.mu.Unlock()
		cancel()
		return nil, ErrExamAlreadyActive
	}
	r.exams[userID] = &examState{session: session, cancel: cancel}
	r.mu.Unlock()

	go r.countdown(countdownCtx, userID)

	r.logger.Info("exam started",
		zap.String("session_id", session.ID),
		zap.Int64("user_id", userID),
		zap.Time("deadline", session.Deadline),
	)

	return session, nil
}

// Active returns the user's exam session, if one is running.
func (r *ExamRegistry) Active(userID int64) (*entities.ExamSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.exams[userID]
	if !ok || !state.session.Active {
		return nil, false
	}
	return state.session, true
}

// Remaining returns the time left on the user's exam.
func (r *ExamRegistry) Remaining(userID int64) (time.Duration, bool) {
	session, ok := r.Active(userID)
	if !ok {
		return 0, false
	}
	return session.TimeRemaining(r.now()), true
}

// SubmitAnswer records an exam answer without feedback and advances the exam.
// Submitting past the deadline forces an auto-submit finish instead. A
// malformed option index leaves the session unchanged.
func (r *ExamRegistry) SubmitAnswer(ctx context.Context, userID int64, optionIndex int) (*ExamOutcome, error) {
	r.mu.Lock()
	state, ok := r.exams[userID]
	if !ok {
		r.mu.Unlock()
		return nil, ErrNoActiveExam
	}
	session := state.session

	now := r.now()
	if session.Expired(now) {
		r.mu.Unlock()
		return &ExamOutcome{Result: r.finish(ctx, userID, true)}, nil
	}

	question, ok := session.CurrentQuestion()
	if !ok {
		r.mu.Unlock()
		return &ExamOutcome{Result: r.finish(ctx, userID, false)}, nil
	}

	if optionIndex < 0 || optionIndex >= len(question.ShuffledOptions) {
		r.mu.Unlock()
		return nil, ErrInvalidAnswer
	}

	correct := optionIndex == question.ShuffledCorrectIndex
	done := session.RecordAnswer(question.ID, optionIndex, correct)
	r.mu.Unlock()

	r.stats.RecordAnswer(ctx, userID, question.ID, correct, question.Category)

	if done {
		return &ExamOutcome{Result: r.finish(ctx, userID, false)}, nil
	}

	next, _ := session.CurrentQuestion()
	return &ExamOutcome{
		Next:      next,
		Number:    session.Current + 1,
		Remaining: session.TimeRemaining(now),
	}, nil
}

// Cancel abandons the exam: the countdown stops and nothing is recorded.
func (r *ExamRegistry) Cancel(userID int64) bool {
	r.mu.Lock()
	state, ok := r.exams[userID]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.exams, userID)
	state.session.Active = false
	state.cancel()
	r.mu.Unlock()

	r.logger.Info("exam cancelled",
		zap.String("session_id", state.session.ID),
		zap.Int64("user_id", userID),
	)
	return true
}

// finish closes the exam exactly once: the session leaves the registry, the
// countdown is cancelled on every exit path, and the scoring pipeline runs.
// Returns nil if the exam was already finished or cancelled.
func (r *ExamRegistry) finish(ctx context.Context, userID int64, autoSubmit bool) *ExamResult {
	r.mu.Lock()
	state, ok := r.exams[userID]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	delete(r.exams, userID)
	session := state.session
	session.Active = false
	state.cancel()
	r.mu.Unlock()

	total := len(session.Questions)
	percent := float64(session.Correct) / float64(total) * 100

	username := ""
	if r.notifier != nil {
		username = r.notifier.DisplayName(userID)
	}

	_, newBadges := r.scoring.CompleteTest(ctx, userID, username, entities.CategoryExam, session.Correct, total)

	result := &ExamResult{
		Correct:    session.Correct,
		Total:      total,
		Answered:   len(session.Answers),
		Percent:    percent,
		Passed:     percent >= examPassPercent,
		AutoSubmit: autoSubmit,
		TimeTaken:  r.now().Sub(session.StartedAt),
		NewBadges:  newBadges,
	}

	r.logger.Info("exam finished",
		zap.String("session_id", session.ID),
		zap.Int64("user_id", userID),
		zap.Int("correct", result.Correct),
		zap.Int("answered", result.Answered),
		zap.Bool("auto_submit", autoSubmit),
		zap.Bool("passed", result.Passed),
	)

	return result
}

// countdown runs for the lifetime of one exam session. It must check registry
// membership on every tick: the session may have been finished or cancelled
// between wake-ups.
func (r *ExamRegistry) countdown(ctx context.Context, userID int64) {
	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		r.mu.Lock()
		state, ok := r.exams[userID]
		if !ok || !state.session.Active {
			r.mu.Unlock()
			return
		}

		remaining := state.session.TimeRemaining(r.now())
		if remaining <= 0 {
			r.mu.Unlock()
			if result := r.finish(context.Background(), userID, true); result != nil && r.notifier != nil {
				r.notifier.ExamExpired(userID, result)
			}
			return
		}

		warn := time.Duration(-1)
		switch {
		case !state.warnedFiveMin && remaining >= fiveMinWarnLow && remaining <= fiveMinWarnHigh:
			state.warnedFiveMin = true
			warn = remaining
		case !state.warnedOneMin && remaining >= oneMinWarnLow && remaining <= oneMinWarnHigh:
			state.warnedOneMin = true
			warn = remaining
		}
		r.mu.Unlock()

		if warn >= 0 && r.notifier != nil {
			r.notifier.ExamTimeWarning(userID, warn)
		}
	}
}
