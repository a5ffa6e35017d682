package telegram

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
	"github.com/javokhirdev/pdd-test-bot/internal/service"
)

type QuestionCatalog interface {
	CategoryCounts(ctx context.Context) map[string]int
	TotalCount(ctx context.Context) int
}

type PracticeService interface {
	Start(ctx context.Context, userID int64, category string) (*entities.PracticeSession, error)
	StartReview(ctx context.Context, userID int64) (*entities.PracticeSession, error)
	SubmitAnswer(ctx context.Context, userID int64, username string, optionIndex int) (*service.AnswerFeedback, error)
}

type ExamService interface {
	Start(ctx context.Context, userID int64) (*entities.ExamSession, error)
	Remaining(userID int64) (time.Duration, bool)
	SubmitAnswer(ctx context.Context, userID int64, optionIndex int) (*service.ExamOutcome, error)
	Cancel(userID int64) bool
}

type StatsService interface {
	Get(ctx context.Context, userID int64) *entities.UserStats
}

type LeaderboardService interface {
	Top(ctx context.Context, period entities.Period, limit int) []service.RankedEntry
	Rank(ctx context.Context, userID int64, period entities.Period) (int, service.RankedEntry)
}

type BadgeService interface {
	Earned(ctx context.Context, userID int64) []service.Badge
	Progress(ctx context.Context, userID int64, bctx service.BadgeContext) []service.BadgeProgress
}

// Handler routes Telegram updates to the quiz services. The bot works in
// private chats only, so the chat id always equals the user id.
type Handler struct {
	bot         *tgbotapi.BotAPI
	logger      *zap.Logger
	adminID     int64
	questions   QuestionCatalog
	practice    PracticeService
	exams       ExamService
	stats       StatsService
	leaderboard LeaderboardService
	badges      BadgeService
	examCfg     service.ExamConfig

	// examMsgMu guards the per-user id of the message currently showing an
	// exam question. The countdown goroutine reads it on expiry.
	examMsgMu sync.Mutex
	examMsg   map[int64]int
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	adminID int64,
	questions QuestionCatalog,
	practice PracticeService,
	exams ExamService,
	stats StatsService,
	leaderboard LeaderboardService,
	badges BadgeService,
	examCfg service.ExamConfig,
) *Handler {
	return &Handler{
		bot:         bot,
		logger:      logger,
		adminID:     adminID,
		questions:   questions,
		practice:    practice,
		exams:       exams,
		stats:       stats,
		leaderboard: leaderboard,
		badges:      badges,
		examCfg:     examCfg,
		examMsg:     make(map[int64]int),
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			h.handleStartCommand(ctx, chatID, from.ID)
		case "test":
			h.handleTestCommand(ctx, chatID)
		case "exam":
			h.handleExamCommand(ctx, chatID, from.ID)
		case "review":
			h.handleReviewCommand(ctx, chatID, from.ID)
		case "stats":
			h.handleStatsCommand(ctx, chatID, from.ID)
		case "top":
			h.handleTopCommand(ctx, chatID, from.ID)
		case "badges":
			h.handleBadgesCommand(ctx, chatID, from.ID)
		case "help":
			h.handleHelpCommand(chatID)
		case "admin":
			h.handleAdminCommand(ctx, chatID, from.ID)
		default:
			h.send(newHTMLMessage(chatID, msgUnknownCommand))
		}
		return
	}

	// Answers arrive as callbacks; free text gets the command hint.
	h.send(newHTMLMessage(chatID, msgUnknownCommand))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

func (h *Handler) sendError(chatID int64, text string) {
	h.send(newHTMLMessage(chatID, text))
}

// answerCallback clears the user's "clock" on the pressed button.
func (h *Handler) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	answer := tgbotapi.NewCallback(cb.ID, text)
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Error("failed to answer callback", zap.Error(err))
	}
}

// DisplayName resolves a user's leaderboard name from the Telegram profile,
// preferring the username.
func (h *Handler) DisplayName(userID int64) string {
	chat, err := h.bot.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: userID},
	})
	if err != nil {
		h.logger.Warn("failed to resolve display name",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return "Anonim"
	}
	return chatDisplayName(chat)
}

func chatDisplayName(chat tgbotapi.Chat) string {
	if chat.UserName != "" {
		return chat.UserName
	}
	if chat.FirstName != "" {
		return chat.FirstName
	}
	return "Anonim"
}

func userDisplayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return user.UserName
	}
	if user.FirstName != "" {
		return user.FirstName
	}
	return "Anonim"
}

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}
