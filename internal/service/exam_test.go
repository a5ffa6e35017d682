package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
)

// quietExamConfig keeps the countdown ticker dormant so tests drive time via
// the injected clock only.
func quietExamConfig(count int) ExamConfig {
	return ExamConfig{
		QuestionCount: count,
		Duration:      20 * time.Minute,
		TickInterval:  time.Hour,
	}
}

// lockedClock is a clock safe to read from the countdown goroutine while the
// test advances it.
type lockedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *lockedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *lockedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// recordingNotifier captures countdown callbacks.
type recordingNotifier struct {
	mu       sync.Mutex
	warnings []time.Duration
	expired  chan *ExamResult
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{expired: make(chan *ExamResult, 1)}
}

func (n *recordingNotifier) ExamTimeWarning(_ int64, remaining time.Duration) {
	n.mu.Lock()
	n.warnings = append(n.warnings, remaining)
	n.mu.Unlock()
}

func (n *recordingNotifier) ExamExpired(_ int64, result *ExamResult) {
	n.expired <- result
}

func (n *recordingNotifier) DisplayName(_ int64) string { return "tester" }

func (n *recordingNotifier) warningCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.warnings)
}

func (n *recordingNotifier) lastWarning() time.Duration {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.warnings[len(n.warnings)-1]
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestExamCountdownWarningsAndExpiry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(makeCatalog(6, entities.CategoryMixed))
	reg := env.examRegistry(ExamConfig{
		QuestionCount: 4,
		Duration:      20 * time.Minute,
		TickInterval:  5 * time.Millisecond,
	})

	// Route every clock read through a lock: the countdown goroutine reads
	// while the test advances time.
	clock := &lockedClock{t: env.clock}
	reg.now = clock.Now
	env.stats.now = clock.Now
	env.leaderboard.now = clock.Now
	env.badges.now = clock.Now

	notifier := newRecordingNotifier()
	reg.SetNotifier(notifier)

	session, err := reg.Start(ctx, 1)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	deadline := session.Deadline

	// Jump into the five-minute window and hold there over many ticks: the
	// warning must fire exactly once.
	clock.Set(deadline.Add(-295 * time.Second))
	waitFor(t, "five-minute warning", func() bool { return notifier.warningCount() == 1 })
	if got := notifier.lastWarning(); got < 290*time.Second || got > 300*time.Second {
		t.Fatalf("five-minute warning outside its window: %v", got)
	}
	time.Sleep(50 * time.Millisecond)
	if notifier.warningCount() != 1 {
		t.Fatalf("five-minute warning fired %d times", notifier.warningCount())
	}

	clock.Set(deadline.Add(-55 * time.Second))
	waitFor(t, "one-minute warning", func() bool { return notifier.warningCount() == 2 })
	if got := notifier.lastWarning(); got < 50*time.Second || got > 60*time.Second {
		t.Fatalf("one-minute warning outside its window: %v", got)
	}
	time.Sleep(50 * time.Millisecond)
	if notifier.warningCount() != 2 {
		t.Fatalf("one-minute warning fired %d times", notifier.warningCount())
	}

	// Past the deadline with nothing answered: forced finish.
	clock.Set(deadline.Add(time.Second))

	var result *ExamResult
	select {
	case result = <-notifier.expired:
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for the expiry notification")
	}

	if !result.AutoSubmit {
		t.Fatalf("expected auto-submit result")
	}
	if result.Correct != 0 || result.Answered != 0 || result.Passed {
		t.Fatalf("unexpected expiry result: %+v", result)
	}

	if _, ok := reg.Active(1); ok {
		t.Fatalf("exam still active after expiry")
	}
	st := env.stats.Get(ctx, 1)
	if st.ExamsTaken != 1 || st.ExamsPassed != 0 {
		t.Fatalf("unexpected stats after expiry: %+v", st)
	}
	// The display name resolved through the notifier reached the leaderboard.
	_, entry := env.leaderboard.Rank(ctx, 1, entities.PeriodAllTime)
	if entry.Username != "tester" {
		t.Fatalf("expected notifier display name on the leaderboard, got %q", entry.Username)
	}
}

func TestExamFullRun(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(makeCatalog(6, entities.CategoryMixed))
	reg := env.examRegistry(quietExamConfig(4))

	session, err := reg.Start(ctx, 1)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if len(session.Questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(session.Questions))
	}

	// Answer 3 of 4 correctly: 75% passes the 70% threshold.
	var outcome *ExamOutcome
	for i := 0; i < 4; i++ {
		current, ok := session.CurrentQuestion()
		if !ok {
			t.Fatalf("no current question at step %d", i)
		}
		answer := current.ShuffledCorrectIndex
		if i == 0 {
			answer = (answer + 1) % len(current.ShuffledOptions)
		}
		outcome, err = reg.SubmitAnswer(ctx, 1, answer)
		if err != nil {
			t.Fatalf("submit failed at step %d: %v", i, err)
		}
	}

	result := outcome.Result
	if result == nil {
		t.Fatalf("expected a result after the last answer")
	}
	if result.Correct != 3 || result.Total != 4 || result.Answered != 4 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !result.Passed {
		t.Fatalf("75%% must pass")
	}
	if result.AutoSubmit {
		t.Fatalf("answering everything is not an auto-submit")
	}

	if _, ok := reg.Active(1); ok {
		t.Fatalf("exam still active after finish")
	}

	st := env.stats.Get(ctx, 1)
	if st.ExamsTaken != 1 || st.ExamsPassed != 1 {
		t.Fatalf("unexpected exam stats: %+v", st)
	}
}

func TestExamFailBelowThreshold(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(makeCatalog(6, entities.CategoryMixed))
	reg := env.examRegistry(quietExamConfig(4))

	session, err := reg.Start(ctx, 1)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// 2 of 4 correct: 50% fails.
	var outcome *ExamOutcome
	for i := 0; i < 4; i++ {
		current, _ := session.CurrentQuestion()
		answer := current.ShuffledCorrectIndex
		if i < 2 {
			answer = (answer + 1) % len(current.ShuffledOptions)
		}
		outcome, err = reg.SubmitAnswer(ctx, 1, answer)
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	if outcome.Result == nil || outcome.Result.Passed {
		t.Fatalf("50%% must fail, got %+v", outcome.Result)
	}
	st := env.stats.Get(ctx, 1)
	if st.ExamsTaken != 1 || st.ExamsPassed != 0 {
		t.Fatalf("unexpected exam stats: %+v", st)
	}
}

func TestExamSecondStartRejected(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(makeCatalog(6, entities.CategoryMixed))
	reg := env.examRegistry(quietExamConfig(4))

	if _, err := reg.Start(ctx, 1); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := reg.Start(ctx, 1); !errors.Is(err, ErrExamAlreadyActive) {
		t.Fatalf("expected ErrExamAlreadyActive, got %v", err)
	}

	// A different user is unaffected.
	if _, err := reg.Start(ctx, 2); err != nil {
		t.Fatalf("second user start failed: %v", err)
	}
}

func TestExamInsufficientQuestions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(makeCatalog(3, entities.CategoryMixed))
	reg := env.examRegistry(quietExamConfig(4))

	if _, err := reg.Start(ctx, 1); !errors.Is(err, ErrInsufficientQuestions) {
		t.Fatalf("expected ErrInsufficientQuestions, got %v", err)
	}
}

func TestExamExpiryForcesAutoSubmit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(makeCatalog(6, entities.CategoryMixed))
	reg := env.examRegistry(quietExamConfig(4))

	session, err := reg.Start(ctx, 1)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Answer one question, then run the clock past the deadline.
	current, _ := session.CurrentQuestion()
	if _, err := reg.SubmitAnswer(ctx, 1, current.ShuffledCorrectIndex); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	env.clock = env.clock.Add(21 * time.Minute)

	outcome, err := reg.SubmitAnswer(ctx, 1, 0)
	if err != nil {
		t.Fatalf("submit after deadline failed: %v", err)
	}
	result := outcome.Result
	if result == nil {
		t.Fatalf("expected a forced finish past the deadline")
	}
	if !result.AutoSubmit {
		t.Fatalf("expected auto-submit flag")
	}
	// The late answer itself is not recorded.
	if result.Answered != 1 || result.Correct != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Passed {
		t.Fatalf("1/4 must not pass")
	}
}

func TestExamInvalidAnswerLeavesSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(makeCatalog(6, entities.CategoryMixed))
	reg := env.examRegistry(quietExamConfig(4))

	session, err := reg.Start(ctx, 1)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if _, err := reg.SubmitAnswer(ctx, 1, 99); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer, got %v", err)
	}
	if session.Current != 0 || len(session.Answers) != 0 {
		t.Fatalf("invalid answer mutated the session")
	}
}

func TestExamCancelRecordsNothing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(makeCatalog(6, entities.CategoryMixed))
	reg := env.examRegistry(quietExamConfig(4))

	if _, err := reg.Start(ctx, 1); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !reg.Cancel(1) {
		t.Fatalf("cancel reported no active exam")
	}
	if reg.Cancel(1) {
		t.Fatalf("second cancel must report false")
	}

	st := env.stats.Get(ctx, 1)
	if st.ExamsTaken != 0 || st.TestsTaken != 0 {
		t.Fatalf("cancelled exam left stats behind: %+v", st)
	}

	// The slot is free again.
	if _, err := reg.Start(ctx, 1); err != nil {
		t.Fatalf("restart after cancel failed: %v", err)
	}
}

func TestExamRemaining(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(makeCatalog(6, entities.CategoryMixed))
	reg := env.examRegistry(quietExamConfig(4))

	if _, ok := reg.Remaining(1); ok {
		t.Fatalf("expected no remaining time without an exam")
	}

	if _, err := reg.Start(ctx, 1); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	env.clock = env.clock.Add(5 * time.Minute)
	remaining, ok := reg.Remaining(1)
	if !ok {
		t.Fatalf("expected an active exam")
	}
	if remaining != 15*time.Minute {
		t.Fatalf("expected 15m remaining, got %v", remaining)
	}
}
