package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
)

// answerLabels prefix shuffled options the way exam tickets do.
var answerLabels = []string{"A", "B", "C", "D", "E", "F"}

func answerLabel(i int) string {
	if i < len(answerLabels) {
		return answerLabels[i]
	}
	return fmt.Sprintf("%d", i+1)
}

// buildCategoryKeyboard builds the category picker with per-category counts.
func buildCategoryKeyboard(counts map[string]int) tgbotapi.InlineKeyboardMarkup {
	row := func(tag string) []tgbotapi.InlineKeyboardButton {
		label := fmt.Sprintf("%s (%d)", categoryName(tag), counts[tag])
		return tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildTestCallback(tag)),
		)
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		row(entities.CategorySigns),
		row(entities.CategoryRules),
		row(entities.CategorySpeed),
		row(entities.CategoryMixed),
	)
}

// buildAnswerKeyboard builds one button per shuffled option, one per row.
// action distinguishes practice answers from exam answers.
func buildAnswerKeyboard(q *entities.ShuffledQuestion, action string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range q.ShuffledOptions {
		label := fmt.Sprintf("%s) %s", answerLabel(i), option)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildAnswerCallback(action, i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildExamAnswerKeyboard adds an abort row under the exam options.
func buildExamAnswerKeyboard(q *entities.ShuffledQuestion) tgbotapi.InlineKeyboardMarkup {
	kb := buildAnswerKeyboard(q, actionExamAnswer)
	kb.InlineKeyboard = append(kb.InlineKeyboard, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🛑 Imtihonni bekor qilish", buildExamCallback(examAbort)),
	))
	return kb
}

// buildExamConfirmKeyboard builds the exam start confirmation.
func buildExamConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Boshlash", buildExamCallback(examStart)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Bekor qilish", buildExamCallback(examDecline)),
		),
	)
}

// buildResultKeyboard builds the keyboard shown under a finished test.
func buildResultKeyboard(hasWrong bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Yana test", callbackData{Action: actionCategories}.encode()),
		),
	}
	if hasWrong {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Xatolar ustida ishlash", buildTestCallback(entities.CategoryReview)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏆 Reyting", buildBoardCallback(boardMenu)),
		tgbotapi.NewInlineKeyboardButtonData("🏠 Bosh sahifa", callbackData{Action: actionHome}.encode()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildLeaderboardKeyboard switches between the ranking windows.
func buildLeaderboardKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Haftalik", buildBoardCallback(string(entities.PeriodWeekly))),
			tgbotapi.NewInlineKeyboardButtonData("📆 Oylik", buildBoardCallback(string(entities.PeriodMonthly))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏆 Barcha vaqt", buildBoardCallback(string(entities.PeriodAllTime))),
			tgbotapi.NewInlineKeyboardButtonData("👤 Mening o'rnim", buildBoardCallback(boardMyRank)),
		),
	)
}

// buildBadgesKeyboard switches between earned badges and progress.
func buildBadgesKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏅 Nishonlarim", buildBadgesCallback(badgesMy)),
			tgbotapi.NewInlineKeyboardButtonData("📈 Keyingilari", buildBadgesCallback(badgesProgress)),
		),
	)
}
