package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
	"github.com/javokhirdev/pdd-test-bot/internal/service"
)

func (h *Handler) handleBadgesCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, sub string) {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	switch sub {
	case badgesMy:
		earned := h.badges.Earned(ctx, userID)
		h.editBadgesScreen(cb, formatBadges(earned))

	case badgesProgress:
		st := h.stats.Get(ctx, userID)
		rank, _ := h.leaderboard.Rank(ctx, userID, entities.PeriodAllTime)
		progress := h.badges.Progress(ctx, userID, service.NewBadgeContext(st, rank))
		h.editBadgesScreen(cb, formatBadgeProgress(progress))

	default:
		h.handleBadgesCommand(ctx, chatID, userID)
	}
}

func (h *Handler) editBadgesScreen(cb *tgbotapi.CallbackQuery, text string) {
	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	kb := buildBadgesKeyboard()
	edit.ReplyMarkup = &kb
	h.send(edit)
}
