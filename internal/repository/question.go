package repository

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
)

const defaultExplanation = "Tushuntirish kiritilmagan."

// QuestionRepository reads the question catalog from a JSON file. The catalog
// is maintained by the admin tooling; this repository only reads it, on every
// call, so external edits are picked up without a restart.
type QuestionRepository struct {
	path   string
	logger *zap.Logger
}

func NewQuestionRepository(path string, logger *zap.Logger) *QuestionRepository {
	return &QuestionRepository{path: path, logger: logger}
}

// GetAll returns every question in the catalog. A missing or corrupt catalog
// degrades to an empty result; it must never crash the process.
func (r *QuestionRepository) GetAll(_ context.Context) []entities.Question {
	var questions []entities.Question
	if err := readJSONFile(r.path, &questions); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("failed to load question catalog", zap.String("path", r.path), zap.Error(err))
		}
		return nil
	}

	// Older catalog entries may miss optional fields.
	for i := range questions {
		if questions[i].Category == "" {
			questions[i].Category = entities.CategoryMixed
		}
		if questions[i].Explanation == "" {
			questions[i].Explanation = defaultExplanation
		}
	}

	return questions
}
