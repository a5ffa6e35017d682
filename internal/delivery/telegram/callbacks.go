package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb, "")
		return
	}

	chatID := cb.Message.Chat.ID
	cd := parseCallbackData(cb.Data)

	switch cd.Action {
	case actionTest:
		h.answerCallback(cb, "")
		h.handleTestCallback(ctx, cb, cd.param(0))

	case actionAnswer:
		h.handlePracticeAnswer(ctx, cb, cd)

	case actionExam:
		h.handleExamCallback(ctx, cb, cd.param(0))

	case actionExamAnswer:
		h.handleExamAnswer(ctx, cb, cd)

	case actionBoard:
		h.answerCallback(cb, "")
		h.handleBoardCallback(ctx, cb, cd.param(0))

	case actionBadges:
		h.answerCallback(cb, "")
		h.handleBadgesCallback(ctx, cb, cd.param(0))

	case actionCategories:
		h.answerCallback(cb, "")
		h.handleTestCommand(ctx, chatID)

	case actionHome:
		h.answerCallback(cb, "")
		h.send(newHTMLMessage(chatID, msgHome))

	default:
		h.logger.Debug("unknown callback action", zap.String("data", cb.Data))
		h.answerCallback(cb, "")
	}
}

// handleTestCallback starts a practice session for the chosen category.
// The review category routes through the wrong-question set instead.
func (h *Handler) handleTestCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, category string) {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	if category == entities.CategoryReview {
		h.handleReviewCommand(ctx, chatID, userID)
		return
	}

	session, err := h.practice.Start(ctx, userID, category)
	if err != nil {
		h.sendError(chatID, msgNoCategoryQuestions)
		return
	}

	h.send(newHTMLMessage(chatID, formatTestStarted(category, len(session.Questions))))
	h.sendPracticeQuestion(chatID, session)
}

// parseAnswerIndex extracts the option index from an answer callback.
func parseAnswerIndex(cd callbackData) (int, bool) {
	index, err := strconv.Atoi(cd.param(0))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
