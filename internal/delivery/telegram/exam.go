package telegram

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
	"github.com/javokhirdev/pdd-test-bot/internal/service"
)

func (h *Handler) handleExamCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, sub string) {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	switch sub {
	case examStart:
		h.answerCallback(cb, "")
		h.startExam(ctx, chatID, userID)

	case examDecline:
		h.answerCallback(cb, "")
		h.send(newHTMLMessage(chatID, msgHome))

	case examAbort:
		h.answerCallback(cb, "")
		h.abortExam(chatID, userID)

	default:
		h.answerCallback(cb, "")
	}
}

func (h *Handler) startExam(ctx context.Context, chatID, userID int64) {
	session, err := h.exams.Start(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamAlreadyActive):
			remaining, _ := h.exams.Remaining(userID)
			h.send(newHTMLMessage(chatID, formatExamActive(remaining)))
		case errors.Is(err, service.ErrInsufficientQuestions):
			h.sendError(chatID, formatInsufficientQuestions(h.examCfg.QuestionCount, h.questions.TotalCount(ctx)))
		default:
			h.logger.Error("failed to start exam",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
		}
		return
	}

	h.send(newHTMLMessage(chatID, formatExamStarted(len(session.Questions), h.examCfg.Duration)))

	question, ok := session.CurrentQuestion()
	if !ok {
		return
	}
	h.sendExamQuestion(chatID, userID, question, 1, len(session.Questions), h.examCfg.Duration)
}

// sendExamQuestion sends one exam question, deleting the previous question
// message first so the user cannot answer out of order.
func (h *Handler) sendExamQuestion(chatID, userID int64, q *entities.ShuffledQuestion, number, total int, remaining time.Duration) {
	h.deleteExamMessage(chatID, userID)

	messageID := h.sendQuestion(chatID,
		formatExamQuestion(q, number, total, remaining),
		q, buildExamAnswerKeyboard(q))

	if messageID != 0 {
		h.examMsgMu.Lock()
		h.examMsg[userID] = messageID
		h.examMsgMu.Unlock()
	}
}

// deleteExamMessage removes the message currently showing an exam question,
// if any.
func (h *Handler) deleteExamMessage(chatID, userID int64) {
	h.examMsgMu.Lock()
	messageID, ok := h.examMsg[userID]
	delete(h.examMsg, userID)
	h.examMsgMu.Unlock()

	if !ok {
		return
	}
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		h.logger.Debug("failed to delete exam question message", zap.Error(err))
	}
}

func (h *Handler) handleExamAnswer(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	index, ok := parseAnswerIndex(cd)
	if !ok {
		h.answerCallback(cb, "")
		h.sendError(chatID, msgInvalidAnswer)
		return
	}

	outcome, err := h.exams.SubmitAnswer(ctx, userID, index)
	if err != nil {
		h.answerCallback(cb, "")
		switch {
		case errors.Is(err, service.ErrNoActiveExam):
			h.sendError(chatID, msgNoActiveExam)
		case errors.Is(err, service.ErrInvalidAnswer):
			h.sendError(chatID, msgInvalidAnswer)
		default:
			h.logger.Error("failed to submit exam answer",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
		}
		return
	}

	// No correctness feedback during the exam.
	h.answerCallback(cb, "📝 Javob qabul qilindi")

	if outcome.Result != nil {
		h.deleteExamMessage(chatID, userID)
		h.sendExamResult(ctx, chatID, userID, outcome.Result)
		return
	}

	if outcome.Next != nil {
		h.sendExamQuestion(chatID, userID, outcome.Next, outcome.Number, h.examCfg.QuestionCount, outcome.Remaining)
	}
}

func (h *Handler) abortExam(chatID, userID int64) {
	if !h.exams.Cancel(userID) {
		h.sendError(chatID, msgNoActiveExam)
		return
	}

	h.deleteExamMessage(chatID, userID)
	h.send(newHTMLMessage(chatID, msgExamCancelled))
}

// sendExamResult announces a finished exam and any newly earned badges.
func (h *Handler) sendExamResult(ctx context.Context, chatID, userID int64, result *service.ExamResult) {
	st := h.stats.Get(ctx, userID)

	msg := newHTMLMessage(chatID, formatExamResult(result))
	msg.ReplyMarkup = buildResultKeyboard(len(st.WrongQuestions) > 0)
	h.send(msg)

	for _, badge := range result.NewBadges {
		h.send(newHTMLMessage(chatID, formatNewBadge(badge)))
	}
}

// ExamTimeWarning is called from the exam countdown when a warning threshold
// is crossed.
func (h *Handler) ExamTimeWarning(userID int64, remaining time.Duration) {
	h.send(newHTMLMessage(userID, formatExamWarning(remaining)))
}

// ExamExpired is called from the exam countdown after an auto-submit finish.
func (h *Handler) ExamExpired(userID int64, result *service.ExamResult) {
	h.deleteExamMessage(userID, userID)
	h.sendExamResult(context.Background(), userID, userID, result)
}
