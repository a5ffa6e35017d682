// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/javokhirdev/pdd-test-bot/internal/domain/entities"
	"github.com/javokhirdev/pdd-test-bot/internal/service"
)

// Error and info messages.
const (
	msgUnknownCommand      = "Noma'lum buyruq.\n\n/test — test boshlash\n/exam — imtihon\n/review — xatolar ustida ishlash\n/stats — statistika\n/top — reyting\n/badges — nishonlar"
	msgNoQuestions         = "❌ Hozircha savollar yo'q."
	msgNoCategoryQuestions = "❌ Bu bo'limda savollar yo'q."
	msgNoWrongQuestions    = "✅ Xato javoblaringiz yo'q. Barakalla!"
	msgNoActiveTest        = "❌ Test tugagan. /test buyrug'i bilan yangi test boshlang."
	msgNoActiveExam        = "❌ Faol imtihon topilmadi. /exam"
	msgInvalidAnswer       = "❌ Savol formati noto'g'ri. Qaytadan urinib ko'ring."
	msgInternalError       = "❌ Xatolik yuz berdi. Keyinroq urinib ko'ring."
	msgExamCancelled       = "✅ Imtihon bekor qilindi.\n\n/exam — Qayta boshlash"
	msgChooseCategory      = "📚 Qaysi bo'limdan test topshirmoqchisiz?"
	msgHome                = "🏠 Bosh sahifa\n\n/test — Yangi test boshlash"
)

// categoryNames maps catalog category tags to display names.
var categoryNames = map[string]string{
	entities.CategorySigns:  "🚦 Yo'l belgilari",
	entities.CategoryRules:  "🚗 Yo'l harakati qoidalari",
	entities.CategorySpeed:  "⚡ Tezlik va jarimalar",
	entities.CategoryMixed:  "🧠 Aralash",
	entities.CategoryReview: "🔄 Xatolar ustida ishlash",
	entities.CategoryExam:   "🎓 Imtihon",
}

func categoryName(tag string) string {
	if name, ok := categoryNames[tag]; ok {
		return name
	}
	return tag
}

func formatWelcome(total int, counts map[string]int, isAdmin bool) string {
	var sb strings.Builder
	sb.WriteString("🚗 Salom! PDD test botiga xush kelibsiz!\n\n")
	fmt.Fprintf(&sb, "📊 Bazada %d ta savol:\n", total)

	for _, tag := range []string{entities.CategorySigns, entities.CategoryRules, entities.CategorySpeed} {
		fmt.Fprintf(&sb, "%s: %d ta\n", categoryName(tag), counts[tag])
	}

	sb.WriteString("\n/test — Test boshlash")
	sb.WriteString("\n/exam — Imtihon simulyatsiyasi")
	sb.WriteString("\n/stats — Statistika")
	sb.WriteString("\n/top — Reyting")

	if isAdmin {
		sb.WriteString("\n\n🔐 Admin: /admin")
	}

	return sb.String()
}

func formatTestStarted(category string, count int) string {
	return fmt.Sprintf(
		"🎯 Test boshlandi!\n\n📚 Bo'lim: %s\n❓ Savollar: %d ta\n\nOmad! 🍀",
		categoryName(category), count,
	)
}

func formatQuestion(q *entities.ShuffledQuestion, number, total int) string {
	return fmt.Sprintf("❓ Savol %d/%d\n\n%s", number, total, q.Text)
}

func formatExamQuestion(q *entities.ShuffledQuestion, number, total int, remaining time.Duration) string {
	return fmt.Sprintf("⏰ %s | 📊 %d/%d\n\n❓ %s", formatClock(remaining), number, total, q.Text)
}

func formatAnswerFeedback(fb *service.AnswerFeedback) string {
	var sb strings.Builder
	if fb.Correct {
		sb.WriteString("✅ To'g'ri!\n\n")
	} else {
		fmt.Fprintf(&sb, "❌ Noto'g'ri. To'g'ri javob: %c)\n\n", 'A'+fb.CorrectIndex)
	}
	fmt.Fprintf(&sb, "💡 %s", fb.Explanation)
	return sb.String()
}

func formatTestResult(result *service.TestResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Test tugadi!\n\n📚 Bo'lim: %s\n📊 Natija: %d/%d (%.0f%%)\n\n",
		categoryName(result.Category), result.Score, result.Total, result.Percent)

	switch {
	case result.Percent >= 90:
		sb.WriteString("🎉 Ajoyib! Imtihonga tayyor!")
	case result.Percent >= 75:
		sb.WriteString("👍 Yaxshi! Davom eting.")
	case result.Percent >= 50:
		sb.WriteString("📚 Ko'proq mashq qiling.")
	default:
		sb.WriteString("❌ Bu bo'limni qayta o'rganishingiz kerak.")
	}

	return sb.String()
}

func formatExamIntro(questionCount int, duration time.Duration) string {
	return fmt.Sprintf(
		"🎓 <b>HAQIQIY IMTIHON SIMULYATSIYASI</b>\n\n"+
			"📋 Savollar: %d ta\n"+
			"⏰ Vaqt: %d daqiqa\n"+
			"⚡ Avtomatik topshirish: Ha\n\n"+
			"⚠️ <b>Diqqat:</b>\n"+
			"• Vaqt tugashi bilan test avtomatik topshiriladi\n"+
			"• Orqaga qaytib javobni o'zgartira olmaysiz\n"+
			"• Har bir savol faqat bir marta ko'rsatiladi\n"+
			"• Tushuntirish ko'rsatilmaydi (haqiqiy imtihon kabi)\n\n"+
			"Tayyor bo'lsangiz boshlang!",
		questionCount, int(duration.Minutes()),
	)
}

func formatExamActive(remaining time.Duration) string {
	return fmt.Sprintf(
		"⚠️ Sizda faol imtihon bor!\n\n⏰ Qolgan vaqt: %s\n\nDavom etish uchun savolga javob bering.",
		formatClock(remaining),
	)
}

func formatExamStarted(questionCount int, duration time.Duration) string {
	return fmt.Sprintf(
		"🎓 <b>Imtihon boshlandi!</b>\n\n⏰ Vaqt: %d daqiqa\n📊 Savollar: %d ta\n\nOmad! 🍀",
		int(duration.Minutes()), questionCount,
	)
}

func formatInsufficientQuestions(required, available int) string {
	return fmt.Sprintf(
		"❌ Imtihon uchun kamida %d ta savol kerak.\nHozir bazada: %d ta savol.",
		required, available,
	)
}

func formatExamWarning(remaining time.Duration) string {
	if remaining > time.Minute {
		return "⚠️ <b>OGOHLANTIRISH</b>\n\n⏰ 5 daqiqa qoldi!\nIltimos, tezroq javob bering."
	}
	return "🚨 <b>DIQQAT!</b>\n\n⏰ 1 daqiqa qoldi!\nOxirgi imkoniyat!"
}

func formatExamResult(result *service.ExamResult) string {
	var sb strings.Builder

	if result.Passed {
		sb.WriteString("🎉 <b>IMTIHON YAKUNLANDI!</b>\n\n")
	} else {
		sb.WriteString("❌ <b>IMTIHON YAKUNLANDI!</b>\n\n")
	}

	if result.AutoSubmit {
		sb.WriteString("⏰ Vaqt tugadi — Avtomatik topshirildi\n\n")
	} else {
		sb.WriteString("✅ Barcha savollar javoblandi\n\n")
	}

	minutes := int(result.TimeTaken.Minutes())
	seconds := int(result.TimeTaken.Seconds()) % 60

	fmt.Fprintf(&sb,
		"📊 <b>NATIJALAR:</b>\n"+
			"━━━━━━━━━━━━━━━\n"+
			"✅ To'g'ri: %d/%d\n"+
			"❌ Noto'g'ri: %d/%d\n"+
			"⚠️ Javobsiz: %d/%d\n"+
			"📈 Ball: %.1f%%\n"+
			"⏱️ Vaqt: %d:%02d\n\n",
		result.Correct, result.Total,
		result.Answered-result.Correct, result.Total,
		result.Total-result.Answered, result.Total,
		result.Percent,
		minutes, seconds,
	)

	if result.Passed {
		sb.WriteString("🎊 <b>TABRIKLAYMIZ!</b>\nSiz imtihondan o'tdingiz! ✅\n\nHaqiqiy imtihonga tayyor bo'lishingiz mumkin!")
	} else {
		sb.WriteString("📚 <b>O'tmadingiz</b>\nMinimal ball: 70%\n\nKo'proq mashq qiling va qaytadan urinib ko'ring!")
	}

	return sb.String()
}

func formatStats(st *entities.UserStats, badges []service.Badge, rank int) string {
	var sb strings.Builder
	sb.WriteString("📊 <b>Sizning statistikangiz</b>\n\n")

	if len(badges) > 0 {
		emojis := make([]string, 0, 5)
		for i, b := range badges {
			if i == 5 {
				break
			}
			emojis = append(emojis, b.Emoji)
		}
		fmt.Fprintf(&sb, "🏅 Nishonlar: %s", strings.Join(emojis, " "))
		if len(badges) > 5 {
			fmt.Fprintf(&sb, " +%d", len(badges)-5)
		}
		sb.WriteString("\n")
	}

	if rank > 0 {
		fmt.Fprintf(&sb, "🏆 Reyting: %s\n", formatRankLabel(rank))
	}

	fmt.Fprintf(&sb,
		"\n📝 Testlar: %d\n❓ Savollar: %d\n✅ To'g'ri: %d\n🎯 Aniqlik: %.1f%%\n🔥 Ketma-ketlik: %d kun\n",
		st.TestsTaken, st.TotalQuestions, st.CorrectAnswers, st.Accuracy, st.DailyStreak,
	)

	if st.PerfectScores > 0 {
		fmt.Fprintf(&sb, "💯 Mukammal: %d\n", st.PerfectScores)
	}
	if st.ExamsTaken > 0 {
		fmt.Fprintf(&sb, "📝 Imtihonlar: %d/%d\n", st.ExamsPassed, st.ExamsTaken)
	}
	if len(st.WrongQuestions) > 0 {
		fmt.Fprintf(&sb, "\n🔄 Xatolar ustida ishlash: /review (%d ta savol)\n", len(st.WrongQuestions))
	}

	return sb.String()
}

var periodNames = map[entities.Period]string{
	entities.PeriodWeekly:  "📅 Haftalik",
	entities.PeriodMonthly: "📆 Oylik",
	entities.PeriodAllTime: "🏆 Barcha vaqt",
}

var medals = []string{"🥇", "🥈", "🥉"}

func formatRankLabel(rank int) string {
	if rank >= 1 && rank <= 3 {
		return fmt.Sprintf("%s %d-o'rin", medals[rank-1], rank)
	}
	return fmt.Sprintf("%d-o'rin", rank)
}

func formatLeaderboard(period entities.Period, entries []service.RankedEntry, currentUserID int64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s Reytingi</b>\n\n", periodNames[period])

	if len(entries) == 0 {
		sb.WriteString("Hali hech kim test topshirmagan.\n\nBirinchi bo'ling! 🚀")
		return sb.String()
	}

	for i, entry := range entries {
		rank := i + 1

		symbol := fmt.Sprintf("%d.", rank)
		if rank <= 3 {
			symbol = medals[rank-1]
		}

		username := entry.Username
		if len([]rune(username)) > 15 {
			username = string([]rune(username)[:12]) + "..."
		}
		if entry.UserID == currentUserID {
			username = fmt.Sprintf("<b>%s (Siz)</b>", username)
		}

		fmt.Fprintf(&sb, "%s %s\n   📊 %d ball | ✅ %d/%d | 🎯 %.1f%%\n\n",
			symbol, username, entry.Points, entry.CorrectAnswers, entry.QuestionsSolved, entry.Accuracy)
	}

	return sb.String()
}

func formatMyRank(ranks map[entities.Period]int, entries map[entities.Period]service.RankedEntry) string {
	var sb strings.Builder
	sb.WriteString("<b>👤 Sizning reytingingiz</b>\n\n")

	for _, period := range entities.Periods {
		fmt.Fprintf(&sb, "<b>%s</b>\n", periodNames[period])

		rank := ranks[period]
		if rank == 0 {
			sb.WriteString("❌ Reytingda yo'qsiz\n\n")
			continue
		}

		entry := entries[period]
		fmt.Fprintf(&sb,
			"📍 %s\n📊 %d ball\n✅ %d/%d to'g'ri\n🎯 %.1f%% aniqlik\n📝 %d test\n\n",
			formatRankLabel(rank), entry.Points, entry.CorrectAnswers,
			entry.QuestionsSolved, entry.Accuracy, entry.TestsTaken,
		)
	}

	return sb.String()
}

func formatBadges(earned []service.Badge) string {
	var sb strings.Builder
	sb.WriteString("🏅 <b>Sizning nishonlaringiz</b>\n\n")

	if len(earned) == 0 {
		sb.WriteString("Hali nishonlaringiz yo'q.\nTest topshiring va birinchi nishoningizni oling! 🚀")
		return sb.String()
	}

	for _, b := range earned {
		fmt.Fprintf(&sb, "%s <b>%s</b>\n   %s\n\n", b.Emoji, b.Name, b.Description)
	}

	return sb.String()
}

func formatBadgeProgress(progress []service.BadgeProgress) string {
	var sb strings.Builder
	sb.WriteString("📈 <b>Keyingi nishonlar</b>\n\n")

	if len(progress) == 0 {
		sb.WriteString("Barcha hisoblanadigan nishonlar olingan! 👑")
		return sb.String()
	}

	for _, p := range progress {
		fmt.Fprintf(&sb, "%s <b>%s</b> — %d%%\n   %d/%d\n\n",
			p.Badge.Emoji, p.Badge.Name, p.Percent, p.Current, p.Target)
	}

	return sb.String()
}

func formatNewBadge(b service.Badge) string {
	return fmt.Sprintf("🎉 <b>Yangi nishon!</b>\n\n%s <b>%s</b>\n%s", b.Emoji, b.Name, b.Description)
}

// formatClock renders a duration as MM:SS.
func formatClock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
