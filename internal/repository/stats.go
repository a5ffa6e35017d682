package repository

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
)

// StatsRepository persists per-user statistics as a single JSON document
// keyed by user id. Every mutation is a read-modify-write of the whole
// document under the store mutex.
type StatsRepository struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

func NewStatsRepository(path string, logger *zap.Logger) *StatsRepository {
	return &StatsRepository{path: path, logger: logger}
}

// Get returns the user's statistics, or a zero-valued record if the user is
// unknown. It never fails.
func (r *StatsRepository) Get(_ context.Context, userID int64) *entities.UserStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.load()
	if st, ok := all[statsKey(userID)]; ok {
		return st
	}
	return entities.NewUserStats()
}

// Update applies mutate to the user's record (creating it if absent) and
// writes the whole document back. The mutated record is returned.
func (r *StatsRepository) Update(_ context.Context, userID int64, mutate func(*entities.UserStats)) *entities.UserStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.load()
	key := statsKey(userID)
	st, ok := all[key]
	if !ok {
		st = entities.NewUserStats()
		all[key] = st
	}

	mutate(st)
	r.save(all)

	return st
}

func (r *StatsRepository) load() map[string]*entities.UserStats {
	all := make(map[string]*entities.UserStats)
	if err := readJSONFile(r.path, &all); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("failed to load user stats", zap.String("path", r.path), zap.Error(err))
		}
		return make(map[string]*entities.UserStats)
	}

	// Hand-edited or migrated documents may miss the collection fields.
	for _, st := range all {
		if st.WrongQuestions == nil {
			st.WrongQuestions = []int{}
		}
		if st.CategoryStats == nil {
			st.CategoryStats = make(map[string]*entities.CategoryTally)
		}
		if st.TestHistory == nil {
			st.TestHistory = []entities.TestRecord{}
		}
	}

	return all
}

func (r *StatsRepository) save(all map[string]*entities.UserStats) {
	if err := writeJSONFile(r.path, all); err != nil {
		// No durability contract beyond last-write-wins; log and move on.
		r.logger.Warn("failed to save user stats", zap.String("path", r.path), zap.Error(err))
	}
}

func statsKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
