package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/javokhirdev/pdd-test-bot/internal/config"
	"github.com/javokhirdev/pdd-test-bot/internal/delivery/telegram"
	"github.com/javokhirdev/pdd-test-bot/internal/logger"
	"github.com/javokhirdev/pdd-test-bot/internal/repository"
	"github.com/javokhirdev/pdd-test-bot/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zl.Fatal("failed to create bot api", zap.Error(err))
	}
	zl.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Botni ishga tushirish"},
		{Command: "test", Description: "Test boshlash"},
		{Command: "exam", Description: "Imtihon simulyatsiyasi"},
		{Command: "review", Description: "Xatolar ustida ishlash"},
		{Command: "stats", Description: "Statistika"},
		{Command: "top", Description: "Reyting"},
		{Command: "badges", Description: "Nishonlar"},
		{Command: "help", Description: "Yordam"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zl.Warn("failed to set bot commands", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize repositories and services.
	questionRepo := repository.NewQuestionRepository(cfg.Storage.QuestionsPath, zl)
	statsRepo := repository.NewStatsRepository(cfg.Storage.StatsPath, zl)
	leaderboardRepo := repository.NewLeaderboardRepository(cfg.Storage.LeaderboardPath, zl)
	badgeRepo := repository.NewBadgeRepository(cfg.Storage.BadgesPath, zl)

	questionService := service.NewQuestionService(questionRepo)
	statsService := service.NewStatsService(statsRepo)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo)
	badgeService := service.NewBadgeService(badgeRepo)
	scoringService := service.NewScoringService(statsService, leaderboardService, badgeService)

	practiceRegistry := service.NewPracticeRegistry(
		questionService, statsService, scoringService,
		service.PracticeConfig{
			QuestionCount: cfg.Practice.QuestionCount,
			IdleTimeout:   cfg.Practice.IdleTimeout,
		},
		zl,
	)

	examCfg := service.ExamConfig{
		QuestionCount: cfg.Exam.QuestionCount,
		Duration:      cfg.Exam.Duration,
		TickInterval:  cfg.Exam.TickInterval,
	}
	examRegistry := service.NewExamRegistry(questionService, statsService, scoringService, examCfg, zl)

	handler := telegram.NewHandler(
		bot,
		zl,
		cfg.AdminID,
		questionService,
		practiceRegistry,
		examRegistry,
		statsService,
		leaderboardService,
		badgeService,
		examCfg,
	)
	examRegistry.SetNotifier(handler)

	// Nightly maintenance: pending leaderboard resets and idle practice
	// session eviction.
	c := cron.New()
	if _, err := c.AddFunc("5 0 * * *", func() {
		leaderboardService.ApplyResets(context.Background())
		if evicted := practiceRegistry.EvictIdle(); evicted > 0 {
			zl.Info("idle practice sessions evicted", zap.Int("count", evicted))
		}
	}); err != nil {
		zl.Fatal("failed to schedule maintenance job", zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		zl.Fatal("handler stopped", zap.Error(err))
	}

	zl.Info("shutdown signal received")
}
