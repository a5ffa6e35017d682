// Package entities contains domain entities used across the application.
package entities

// Category tags partitioning the question catalog.
// CategoryMixed is a pseudo-category meaning "no filter".
const (
	CategorySigns = "signs"
	CategoryRules = "rules"
	CategorySpeed = "speed"
	CategoryMixed = "mixed"

	// CategoryExam is not a catalog category; it tags completed timed exams
	// in statistics and test history.
	CategoryExam = "exam"

	// CategoryReview tags completed review sessions over previously wrong questions.
	CategoryReview = "review"
)

// Question represents a single driving-rules question from the catalog.
// Questions are created and edited by the admin tooling; the bot only reads them.
type Question struct {
	ID           int      `json:"id"`
	Text         string   `json:"question"`
	Options      []string `json:"options"` // exactly 4, ordered
	CorrectIndex int      `json:"correct_index"`
	Category     string   `json:"category"`
	Explanation  string   `json:"explanation"`
	ImageID      string   `json:"file_id,omitempty"` // Telegram file id of an attached photo
}

// ShuffledQuestion is an ephemeral per-presentation view of a Question with
// its options permuted and the correct position recomputed. It is rebuilt on
// every draw and must never be persisted.
type ShuffledQuestion struct {
	Question
	ShuffledOptions      []string
	ShuffledCorrectIndex int
}
