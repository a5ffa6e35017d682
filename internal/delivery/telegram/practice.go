package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
	"github.com/javokhirdev/pdd-test-bot/internal/service"
)

// sendPracticeQuestion sends the session's current question with the answer
// keyboard.
func (h *Handler) sendPracticeQuestion(chatID int64, session *entities.PracticeSession) {
	question, ok := session.CurrentQuestion()
	if !ok {
		return
	}
	h.sendQuestion(chatID,
		formatQuestion(question, session.Current+1, len(session.Questions)),
		question, buildAnswerKeyboard(question, actionAnswer))
}

// sendQuestion sends a question as a photo when it carries an image, as a
// plain message otherwise.
func (h *Handler) sendQuestion(chatID int64, text string, q *entities.ShuffledQuestion, kb tgbotapi.InlineKeyboardMarkup) int {
	if q.ImageID != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(q.ImageID))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeHTML
		photo.ReplyMarkup = kb

		sent, err := h.bot.Send(photo)
		if err == nil {
			return sent.MessageID
		}
		h.logger.Warn("failed to send question photo, falling back to text",
			zap.String("file_id", q.ImageID),
			zap.Error(err),
		)
	}

	msg := newHTMLMessage(chatID, text)
	msg.ReplyMarkup = kb

	sent, err := h.bot.Send(msg)
	if err != nil {
		h.logger.Error("failed to send question", zap.Error(err))
		return 0
	}
	return sent.MessageID
}

// handlePracticeAnswer checks one practice answer, shows the feedback and
// either the next question or the final result.
func (h *Handler) handlePracticeAnswer(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	index, ok := parseAnswerIndex(cd)
	if !ok {
		h.answerCallback(cb, "")
		h.sendError(chatID, msgInvalidAnswer)
		return
	}

	feedback, err := h.practice.SubmitAnswer(ctx, userID, userDisplayName(cb.From), index)
	if err != nil {
		h.answerCallback(cb, "")
		switch {
		case errors.Is(err, service.ErrNoActiveSession):
			h.sendError(chatID, msgNoActiveTest)
		case errors.Is(err, service.ErrInvalidAnswer):
			h.sendError(chatID, msgInvalidAnswer)
		default:
			h.logger.Error("failed to submit practice answer",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
		}
		return
	}

	if feedback.Correct {
		h.answerCallback(cb, "✅ To'g'ri!")
	} else {
		h.answerCallback(cb, "❌ Noto'g'ri")
	}

	// Strip the keyboard from the answered question so it can't be pressed
	// twice.
	h.removeKeyboard(chatID, cb.Message.MessageID)

	h.send(newHTMLMessage(chatID, formatAnswerFeedback(feedback)))

	if feedback.Result != nil {
		h.sendTestResult(ctx, chatID, userID, feedback.Result)
		return
	}

	if feedback.Next != nil {
		h.sendQuestion(chatID,
			formatQuestion(feedback.Next, feedback.Number, feedback.Total),
			feedback.Next, buildAnswerKeyboard(feedback.Next, actionAnswer))
	}
}

// sendTestResult announces the final score and any newly earned badges.
func (h *Handler) sendTestResult(ctx context.Context, chatID, userID int64, result *service.TestResult) {
	st := h.stats.Get(ctx, userID)

	msg := newHTMLMessage(chatID, formatTestResult(result))
	msg.ReplyMarkup = buildResultKeyboard(len(st.WrongQuestions) > 0)
	h.send(msg)

	for _, badge := range result.NewBadges {
		h.send(newHTMLMessage(chatID, formatNewBadge(badge)))
	}
}

// removeKeyboard deletes the inline keyboard under an already-answered
// question message.
func (h *Handler) removeKeyboard(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := h.bot.Request(edit); err != nil {
		h.logger.Debug("failed to remove keyboard", zap.Error(err))
	}
}
