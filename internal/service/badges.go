package service

import (
	"context"
	"sort"
	"time"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
)

// UnrankedSentinel is the TopRank value used when the user has no
// leaderboard entry, so rank-based predicates stay false.
const UnrankedSentinel = 999

// BadgeContext is the fixed set of named statistics fields badge predicates
// may see. Predicates are plain functions over this struct: arithmetic and
// comparisons only, no ambient state.
type BadgeContext struct {
	QuestionsSolved int // total answers submitted
	CorrectAnswers  int
	TestsTaken      int
	Accuracy        float64
	PerfectScores   int
	ExamsPassed     int
	DailyStreak     int
	TestsInDay      int
	NightTests      int
	EarlyTests      int
	WrongCorrected  int
	TopRank         int
}

// NewBadgeContext derives a predicate context from a statistics snapshot and
// the user's current all-time rank (UnrankedSentinel when absent).
func NewBadgeContext(st *entities.UserStats, topRank int) BadgeContext {
	if topRank <= 0 {
		topRank = UnrankedSentinel
	}
	return BadgeContext{
		QuestionsSolved: st.TotalQuestions,
		CorrectAnswers:  st.CorrectAnswers,
		TestsTaken:      st.TestsTaken,
		Accuracy:        st.Accuracy,
		PerfectScores:   st.PerfectScores,
		ExamsPassed:     st.ExamsPassed,
		DailyStreak:     st.DailyStreak,
		TestsInDay:      st.TestsInDay,
		NightTests:      st.NightTests,
		EarlyTests:      st.EarlyTests,
		WrongCorrected:  st.WrongCorrected,
		TopRank:         topRank,
	}
}

// Badge is a named achievement with a boolean predicate over BadgeContext.
// Progress is set only for badges with a single numeric threshold.
type Badge struct {
	ID          string
	Name        string
	Description string
	Emoji       string
	Check       func(BadgeContext) bool
	Progress    func(BadgeContext) (current, target int)
}

// BadgeProgress reports how close an unearned badge is.
type BadgeProgress struct {
	Badge   Badge
	Current int
	Target  int
	Percent int
}

func counterBadge(get func(BadgeContext) int, target int) (func(BadgeContext) bool, func(BadgeContext) (int, int)) {
	check := func(c BadgeContext) bool { return get(c) >= target }
	progress := func(c BadgeContext) (int, int) { return get(c), target }
	return check, progress
}

// badgeCatalog lists every badge in a fixed order so evaluation and
// notification order stay deterministic.
var badgeCatalog = buildBadgeCatalog()

func buildBadgeCatalog() []Badge {
	catalog := []Badge{}

	add := func(id, name, description, emoji string, check func(BadgeContext) bool, progress func(BadgeContext) (int, int)) {
		catalog = append(catalog, Badge{ID: id, Name: name, Description: description, Emoji: emoji, Check: check, Progress: progress})
	}
	addCounter := func(id, name, description, emoji string, get func(BadgeContext) int, target int) {
		check, progress := counterBadge(get, target)
		add(id, name, description, emoji, check, progress)
	}

	questions := func(c BadgeContext) int { return c.QuestionsSolved }
	tests := func(c BadgeContext) int { return c.TestsTaken }
	perfect := func(c BadgeContext) int { return c.PerfectScores }
	exams := func(c BadgeContext) int { return c.ExamsPassed }
	streak := func(c BadgeContext) int { return c.DailyStreak }

	// Beginner badges.
	addCounter("first_test", "Birinchi Test", "Birinchi testni tugatdingiz", "🎯", tests, 1)
	addCounter("first_perfect", "Mukammal", "Birinchi 100% natija", "💯", perfect, 1)

	// Question badges.
	addCounter("bronze_solver", "Bronza O'quvchi", "50 ta savolga javob berdingiz", "🥉", questions, 50)
	addCounter("silver_solver", "Kumush O'quvchi", "200 ta savolga javob berdingiz", "🥈", questions, 200)
	addCounter("gold_solver", "Oltin O'quvchi", "500 ta savolga javob berdingiz", "🥇", questions, 500)
	addCounter("diamond_solver", "Olmos O'quvchi", "1000 ta savolga javob berdingiz", "💎", questions, 1000)

	// Test completion badges.
	addCounter("bronze_tester", "Bronza Sinov", "10 ta test tugatdingiz", "🎓", tests, 10)
	addCounter("silver_tester", "Kumush Sinov", "50 ta test tugatdingiz", "🏅", tests, 50)
	addCounter("gold_tester", "Oltin Sinov", "100 ta test tugatdingiz", "🏆", tests, 100)

	// Accuracy badges: two-factor predicates, no single-threshold progress.
	add("accurate", "Aniq", "80% aniqlik (50+ savol)", "🎯",
		func(c BadgeContext) bool { return c.Accuracy >= 80 && c.QuestionsSolved >= 50 }, nil)
	add("sharpshooter", "Nishonchi", "90% aniqlik (100+ savol)", "🏹",
		func(c BadgeContext) bool { return c.Accuracy >= 90 && c.QuestionsSolved >= 100 }, nil)
	add("sniper", "Snayper", "95% aniqlik (200+ savol)", "🎖️",
		func(c BadgeContext) bool { return c.Accuracy >= 95 && c.QuestionsSolved >= 200 }, nil)

	// Streak badges.
	addCounter("week_warrior", "Haftalik Jangchi", "7 kun ketma-ket test topdingiz", "📅", streak, 7)
	addCounter("month_master", "Oylik Usta", "30 kun ketma-ket test topdingiz", "📆", streak, 30)

	// Exam badges.
	addCounter("exam_passer", "Imtihonchi", "Imtihon rejimini o'tdingiz", "🎓", exams, 1)
	addCounter("exam_ace", "Imtihon Ustasi", "5 ta imtihonni o'tdingiz", "⭐", exams, 5)

	// Speed badges.
	addCounter("speed_demon", "Tez", "10 ta testni 1 kunda tugatdingiz", "⚡",
		func(c BadgeContext) int { return c.TestsInDay }, 10)

	// Special badges.
	addCounter("night_owl", "Tungi Qush", "Tunda (00:00-06:00) test topdingiz", "🦉",
		func(c BadgeContext) int { return c.NightTests }, 1)
	addCounter("early_bird", "Erta Qush", "Erta (05:00-07:00) test topdingiz", "🐦",
		func(c BadgeContext) int { return c.EarlyTests }, 1)
	addCounter("comeback", "Qaytish", "Xato javoblaringizni to'g'riladingiz", "🔥",
		func(c BadgeContext) int { return c.WrongCorrected }, 10)

	// Legendary badges.
	add("legend", "Afsonaviy", "TOP-3 reytingda", "👑",
		func(c BadgeContext) bool { return c.TopRank <= 3 }, nil)
	addCounter("perfectionist", "Perfektsionist", "10 ta mukammal test (100%)", "💎", perfect, 10)

	return catalog
}

// BadgeByID looks a badge up in the catalog.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range badgeCatalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

type BadgeRepo interface {
	Get(ctx context.Context, userID int64) *entities.EarnedBadges
	Update(ctx context.Context, userID int64, mutate func(*entities.EarnedBadges)) *entities.EarnedBadges
}

// BadgeService evaluates achievement predicates and records earned badges.
type BadgeService struct {
	repo BadgeRepo
	now  func() time.Time
}

func NewBadgeService(repo BadgeRepo) *BadgeService {
	return &BadgeService{
		repo: repo,
		now:  time.Now,
	}
}

// CheckAndAward evaluates every not-yet-earned badge against the context and
// records the ones that newly hold. Earned badges are permanent; their
// predicates are never re-evaluated.
func (s *BadgeService) CheckAndAward(ctx context.Context, userID int64, bctx BadgeContext) []Badge {
	var newly []Badge

	s.repo.Update(ctx, userID, func(earned *entities.EarnedBadges) {
		now := s.now()
		for _, badge := range badgeCatalog {
			if earned.Has(badge.ID) {
				continue
			}
			if badge.Check(bctx) && earned.Award(badge.ID, now) {
				newly = append(newly, badge)
			}
		}
	})

	return newly
}

// Earned returns the user's earned badges in catalog order.
func (s *BadgeService) Earned(ctx context.Context, userID int64) []Badge {
	record := s.repo.Get(ctx, userID)

	var badges []Badge
	for _, badge := range badgeCatalog {
		if record.Has(badge.ID) {
			badges = append(badges, badge)
		}
	}
	return badges
}

// Progress returns up to five unearned single-threshold badges closest to
// completion, sorted descending by percent.
func (s *BadgeService) Progress(ctx context.Context, userID int64, bctx BadgeContext) []BadgeProgress {
	record := s.repo.Get(ctx, userID)

	var progress []BadgeProgress
	for _, badge := range badgeCatalog {
		if badge.Progress == nil || record.Has(badge.ID) {
			continue
		}
		current, target := badge.Progress(bctx)
		if current >= target {
			continue
		}
		percent := current * 100 / target
		if percent > 100 {
			percent = 100
		}
		progress = append(progress, BadgeProgress{
			Badge:   badge,
			Current: current,
			Target:  target,
			Percent: percent,
		})
	}

	sort.SliceStable(progress, func(i, j int) bool {
		return progress[i].Percent > progress[j].Percent
	})
	if len(progress) > 5 {
		progress = progress[:5]
	}
	return progress
}
