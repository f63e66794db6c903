package chat

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Status is the explicit per-message acknowledgement state. A user message is
// appended as StatusPending, becomes StatusConfirmed when the backend answers,
// and StatusFailed when the send errors. It is never removed on failure.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Message is one turn in a conversation. ID is a local identifier; the
// backend does not address individual messages.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Status  Status `json:"status"`
}

// Session is a saved conversation owned by the authenticated user and
// persisted remotely. The title is derived by the backend from the first
// exchange.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StartResult is the backend's answer to creating a session with its first
// message.
type StartResult struct {
	SessionID string
	Title     string
	Reply     Message
}
