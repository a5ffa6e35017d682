package repository

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
)

// BadgeRepository persists earned badges as a single JSON document keyed by
// user id.
type BadgeRepository struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

func NewBadgeRepository(path string, logger *zap.Logger) *BadgeRepository {
	return &BadgeRepository{path: path, logger: logger}
}

// Get returns the user's earned-badge record, empty if the user is unknown.
func (r *BadgeRepository) Get(_ context.Context, userID int64) *entities.EarnedBadges {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.load()
	if b, ok := all[strconv.FormatInt(userID, 10)]; ok {
		return b
	}
	return entities.NewEarnedBadges()
}

// Update applies mutate to the user's record (creating it if absent) and
// writes the whole document back.
func (r *BadgeRepository) Update(_ context.Context, userID int64, mutate func(*entities.EarnedBadges)) *entities.EarnedBadges {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.load()
	key := strconv.FormatInt(userID, 10)
	b, ok := all[key]
	if !ok {
		b = entities.NewEarnedBadges()
		all[key] = b
	}

	mutate(b)

	if err := writeJSONFile(r.path, all); err != nil {
		r.logger.Warn("failed to save badges", zap.String("path", r.path), zap.Error(err))
	}

	return b
}

func (r *BadgeRepository) load() map[string]*entities.EarnedBadges {
	all := make(map[string]*entities.EarnedBadges)
	if err := readJSONFile(r.path, &all); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("failed to load badges", zap.String("path", r.path), zap.Error(err))
		}
		return make(map[string]*entities.EarnedBadges)
	}

	for _, b := range all {
		if b.Earned == nil {
			b.Earned = []string{}
		}
		if b.Dates == nil {
			b.Dates = make(map[string]time.Time)
		}
	}

	return all
}
