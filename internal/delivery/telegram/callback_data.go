package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionTest       = "test"
	actionAnswer     = "answer"
	actionExam       = "exam"
	actionExamAnswer = "examanswer"
	actionBoard      = "lb"
	actionBadges     = "badges"
	actionHome       = "home"
	actionCategories = "categories"
)

// Exam sub-actions.
const (
	examStart   = "start"
	examDecline = "decline"
	examAbort   = "abort"
)

// Leaderboard sub-actions.
const (
	boardMenu   = "menu"
	boardMyRank = "my"
)

// Badge sub-actions.
const (
	badgesMy       = "my"
	badgesProgress = "progress"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// parseCallbackData splits raw callback data into action and params.
func parseCallbackData(raw string) callbackData {
	parts := strings.Split(raw, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    raw,
	}
}

func (cd callbackData) param(i int) string {
	if i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

func buildTestCallback(category string) string {
	return callbackData{Action: actionTest, Params: []string{category}}.encode()
}

func buildAnswerCallback(action string, index int) string {
	return callbackData{Action: action, Params: []string{strconv.Itoa(index)}}.encode()
}

func buildExamCallback(sub string) string {
	return callbackData{Action: actionExam, Params: []string{sub}}.encode()
}

func buildBoardCallback(sub string) string {
	return callbackData{Action: actionBoard, Params: []string{sub}}.encode()
}

func buildBadgesCallback(sub string) string {
	return callbackData{Action: actionBadges, Params: []string{sub}}.encode()
}
