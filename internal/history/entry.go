package history

import "time"

// Entry kinds recorded by the client.
const (
	KindPomodoro   = "pomodoro"
	KindQuiz       = "quiz"
	KindExplain    = "explain"
	KindSummary    = "summary"
	KindFlashcards = "flashcards"
)

// Entry is a single journaled activity.
type Entry struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
