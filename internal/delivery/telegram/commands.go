package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
	"github.com/javokhirdev/pdd-test-bot/internal/service"
)

const msgHelp = "📖 <b>Buyruqlar:</b>\n\n" +
	"/test — Bo'lim bo'yicha test\n" +
	"/exam — Imtihon simulyatsiyasi (20 savol, 20 daqiqa)\n" +
	"/review — Xato javoblar ustida ishlash\n" +
	"/stats — Shaxsiy statistika\n" +
	"/top — Reyting\n" +
	"/badges — Nishonlar\n" +
	"/help — Yordam"

func (h *Handler) handleStartCommand(ctx context.Context, chatID, userID int64) {
	total := h.questions.TotalCount(ctx)
	counts := h.questions.CategoryCounts(ctx)
	h.send(newHTMLMessage(chatID, formatWelcome(total, counts, userID == h.adminID && h.adminID != 0)))
}

func (h *Handler) handleTestCommand(ctx context.Context, chatID int64) {
	counts := h.questions.CategoryCounts(ctx)
	if counts[entities.CategoryMixed] == 0 {
		h.sendError(chatID, msgNoQuestions)
		return
	}

	msg := newHTMLMessage(chatID, msgChooseCategory)
	msg.ReplyMarkup = buildCategoryKeyboard(counts)
	h.send(msg)
}

func (h *Handler) handleExamCommand(ctx context.Context, chatID, userID int64) {
	if remaining, ok := h.exams.Remaining(userID); ok {
		h.send(newHTMLMessage(chatID, formatExamActive(remaining)))
		return
	}

	msg := newHTMLMessage(chatID, formatExamIntro(h.examCfg.QuestionCount, h.examCfg.Duration))
	msg.ReplyMarkup = buildExamConfirmKeyboard()
	h.send(msg)
}

func (h *Handler) handleReviewCommand(ctx context.Context, chatID, userID int64) {
	session, err := h.practice.StartReview(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoWrongQuestions):
			h.sendError(chatID, msgNoWrongQuestions)
		case errors.Is(err, service.ErrNoQuestionsAvailable):
			h.sendError(chatID, msgNoQuestions)
		default:
			h.logger.Error("failed to start review session",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
		}
		return
	}

	h.send(newHTMLMessage(chatID, formatTestStarted(entities.CategoryReview, len(session.Questions))))
	h.sendPracticeQuestion(chatID, session)
}

func (h *Handler) handleStatsCommand(ctx context.Context, chatID, userID int64) {
	st := h.stats.Get(ctx, userID)
	earned := h.badges.Earned(ctx, userID)
	rank, _ := h.leaderboard.Rank(ctx, userID, entities.PeriodAllTime)
	h.send(newHTMLMessage(chatID, formatStats(st, earned, rank)))
}

func (h *Handler) handleTopCommand(ctx context.Context, chatID, userID int64) {
	h.sendLeaderboard(ctx, chatID, userID, entities.PeriodWeekly)
}

func (h *Handler) handleBadgesCommand(ctx context.Context, chatID, userID int64) {
	earned := h.badges.Earned(ctx, userID)

	msg := newHTMLMessage(chatID, formatBadges(earned))
	msg.ReplyMarkup = buildBadgesKeyboard()
	h.send(msg)
}

func (h *Handler) handleHelpCommand(chatID int64) {
	h.send(newHTMLMessage(chatID, msgHelp))
}

// handleAdminCommand reports catalog health. Admin only.
func (h *Handler) handleAdminCommand(ctx context.Context, chatID, userID int64) {
	if h.adminID == 0 || userID != h.adminID {
		h.send(newHTMLMessage(chatID, msgUnknownCommand))
		return
	}

	counts := h.questions.CategoryCounts(ctx)

	var sb strings.Builder
	sb.WriteString("🔐 <b>Admin panel</b>\n\n")
	fmt.Fprintf(&sb, "📊 Jami savollar: %d\n\n", h.questions.TotalCount(ctx))
	for _, tag := range []string{entities.CategorySigns, entities.CategoryRules, entities.CategorySpeed} {
		fmt.Fprintf(&sb, "%s: %d ta\n", categoryName(tag), counts[tag])
	}

	h.send(newHTMLMessage(chatID, sb.String()))
}
