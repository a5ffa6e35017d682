package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
)

// LeaderboardRepository persists the leaderboard as a single JSON document:
// three period buckets plus last-reset timestamps.
type LeaderboardRepository struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

func NewLeaderboardRepository(path string, logger *zap.Logger) *LeaderboardRepository {
	return &LeaderboardRepository{path: path, logger: logger}
}

// Load returns the leaderboard document. A missing or corrupt file degrades
// to an empty document anchored at now.
func (r *LeaderboardRepository) Load(_ context.Context) *entities.LeaderboardData {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Update applies mutate to the document and writes it back wholly.
func (r *LeaderboardRepository) Update(_ context.Context, mutate func(*entities.LeaderboardData)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := r.load()
	mutate(data)

	if err := writeJSONFile(r.path, data); err != nil {
		r.logger.Warn("failed to save leaderboard", zap.String("path", r.path), zap.Error(err))
	}
}

func (r *LeaderboardRepository) load() *entities.LeaderboardData {
	data := entities.NewLeaderboardData(time.Now())
	if err := readJSONFile(r.path, data); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("failed to load leaderboard", zap.String("path", r.path), zap.Error(err))
		}
		return entities.NewLeaderboardData(time.Now())
	}

	// Guard against hand-edited documents with missing buckets.
	if data.Weekly == nil {
		data.Weekly = make(map[string]*entities.LeaderboardEntry)
	}
	if data.Monthly == nil {
		data.Monthly = make(map[string]*entities.LeaderboardEntry)
	}
	if data.AllTime == nil {
		data.AllTime = make(map[string]*entities.LeaderboardEntry)
	}

	return data
}
