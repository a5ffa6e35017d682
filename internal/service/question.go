package service

import (
	"context"
	"math/rand"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
)

type QuestionRepo interface {
	GetAll(ctx context.Context) []entities.Question
}

// QuestionService supplies category-filtered, randomly sampled,
// option-shuffled question sets.
type QuestionService struct {
	repo QuestionRepo
}

func NewQuestionService(repo QuestionRepo) *QuestionService {
	return &QuestionService{repo: repo}
}

// ByCategory returns questions matching the category tag. CategoryMixed
// means "no filter".
func (s *QuestionService) ByCategory(ctx context.Context, category string) []entities.Question {
	all := s.repo.GetAll(ctx)
	if category == entities.CategoryMixed {
		return all
	}

	var filtered []entities.Question
	for _, q := range all {
		if q.Category == category {
			filtered = append(filtered, q)
		}
	}
	return filtered
}

// DrawRandom samples min(count, available) questions without replacement and
// shuffles each question's options independently. It returns nil when the
// category has no questions; fewer available than count is not an error.
func (s *QuestionService) DrawRandom(ctx context.Context, category string, count int) []entities.ShuffledQuestion {
	pool := s.ByCategory(ctx, category)
	if len(pool) == 0 {
		return nil
	}

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if count > len(pool) {
		count = len(pool)
	}

	drawn := make([]entities.ShuffledQuestion, 0, count)
	for _, q := range pool[:count] {
		drawn = append(drawn, shuffleOptions(q))
	}
	return drawn
}

// DrawByIDs builds shuffled views for the given question ids, used by review
// mode. Unknown ids are skipped.
func (s *QuestionService) DrawByIDs(ctx context.Context, ids []int) []entities.ShuffledQuestion {
	byID := make(map[int]entities.Question)
	for _, q := range s.repo.GetAll(ctx) {
		byID[q.ID] = q
	}

	var drawn []entities.ShuffledQuestion
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			drawn = append(drawn, shuffleOptions(q))
		}
	}

	rand.Shuffle(len(drawn), func(i, j int) {
		drawn[i], drawn[j] = drawn[j], drawn[i]
	})
	return drawn
}

// CategoryCounts returns the question count per catalog category.
func (s *QuestionService) CategoryCounts(ctx context.Context) map[string]int {
	counts := map[string]int{
		entities.CategorySigns: 0,
		entities.CategoryRules: 0,
		entities.CategorySpeed: 0,
	}

	all := s.repo.GetAll(ctx)
	for _, q := range all {
		if _, ok := counts[q.Category]; ok {
			counts[q.Category]++
		}
	}
	counts[entities.CategoryMixed] = len(all)

	return counts
}

// TotalCount returns the catalog size.
func (s *QuestionService) TotalCount(ctx context.Context) int {
	return len(s.repo.GetAll(ctx))
}

// shuffleOptions permutes one question's options uniformly at random and
// recomputes where the correct option landed.
func shuffleOptions(q entities.Question) entities.ShuffledQuestion {
	perm := rand.Perm(len(q.Options))

	shuffled := make([]string, len(q.Options))
	correctIndex := 0
	for to, from := range perm {
		shuffled[to] = q.Options[from]
		if from == q.CorrectIndex {
			correctIndex = to
		}
	}

	return entities.ShuffledQuestion{
		Question:             q,
		ShuffledOptions:      shuffled,
		ShuffledCorrectIndex: correctIndex,
	}
}
