package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
	"github.com/javokhirdev/pdd-test-bot/internal/service"
)

// topLimit is how many entries a leaderboard screen shows.
const topLimit = 10

func (h *Handler) handleBoardCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, sub string) {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	switch sub {
	case boardMenu:
		h.sendLeaderboard(ctx, chatID, userID, entities.PeriodWeekly)

	case boardMyRank:
		h.sendMyRank(ctx, chatID, userID)

	case string(entities.PeriodWeekly), string(entities.PeriodMonthly), string(entities.PeriodAllTime):
		h.editLeaderboard(ctx, cb, entities.Period(sub))
	}
}

func (h *Handler) sendLeaderboard(ctx context.Context, chatID, userID int64, period entities.Period) {
	entries := h.leaderboard.Top(ctx, period, topLimit)

	msg := newHTMLMessage(chatID, formatLeaderboard(period, entries, userID))
	msg.ReplyMarkup = buildLeaderboardKeyboard()
	h.send(msg)
}

// editLeaderboard swaps the ranking window in place when a period button is
// pressed.
func (h *Handler) editLeaderboard(ctx context.Context, cb *tgbotapi.CallbackQuery, period entities.Period) {
	entries := h.leaderboard.Top(ctx, period, topLimit)

	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID,
		formatLeaderboard(period, entries, cb.From.ID))
	edit.ParseMode = tgbotapi.ModeHTML
	kb := buildLeaderboardKeyboard()
	edit.ReplyMarkup = &kb
	h.send(edit)
}

func (h *Handler) sendMyRank(ctx context.Context, chatID, userID int64) {
	ranks := make(map[entities.Period]int)
	entries := make(map[entities.Period]service.RankedEntry)
	for _, period := range entities.Periods {
		ranks[period], entries[period] = h.leaderboard.Rank(ctx, userID, period)
	}

	msg := newHTMLMessage(chatID, formatMyRank(ranks, entries))
	msg.ReplyMarkup = buildLeaderboardKeyboard()
	h.send(msg)
}
