package chat

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dev-Amann/AI-StudyBuddy/internal/api"
)

// Backend is the remote chat contract the manager reconciles against.
type Backend interface {
	ListSessions(ctx context.Context) ([]Session, error)
	Transcript(ctx context.Context, sessionID string) ([]Message, error)
	Start(ctx context.Context, text string) (StartResult, error)
	Continue(ctx context.Context, sessionID, text string) (Message, error)
	Delete(ctx context.Context, sessionID string) error
}

// Client implements Backend over the request gateway.
type Client struct {
	api *api.Client
}

// NewClient creates a chat backend client.
func NewClient(gateway *api.Client) *Client {
	return &Client{api: gateway}
}

type wireMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type wireSession struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

type sendRequest struct {
	Message string `json:"message"`
}

type sendResponse struct {
	SessionID string      `json:"session_id"`
	Title     string      `json:"title"`
	Message   wireMessage `json:"message"`
}

// ListSessions fetches the user's saved sessions. Ordering is the backend's.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	var raw []wireSession
	if err := c.api.Do(ctx, http.MethodGet, "/chat/sessions", nil, &raw); err != nil {
		return nil, err
	}
	sessions := make([]Session, len(raw))
	for i, s := range raw {
		sessions[i] = Session(s)
	}
	return sessions, nil
}

// Transcript fetches the full message history of a session. Messages arrive
// backend-acknowledged, so they are all confirmed.
func (c *Client) Transcript(ctx context.Context, sessionID string) ([]Message, error) {
	var raw []wireMessage
	if err := c.api.Do(ctx, http.MethodGet, "/chat/"+sessionID, nil, &raw); err != nil {
		return nil, err
	}
	messages := make([]Message, len(raw))
	for i, m := range raw {
		messages[i] = Message{
			ID:      uuid.NewString(),
			Role:    m.Role,
			Content: m.Content,
			Status:  StatusConfirmed,
		}
	}
	return messages, nil
}

// Start creates a new session from its first message.
func (c *Client) Start(ctx context.Context, text string) (StartResult, error) {
	var resp sendResponse
	if err := c.api.Do(ctx, http.MethodPost, "/chat/", sendRequest{Message: text}, &resp); err != nil {
		return StartResult{}, err
	}
	return StartResult{
		SessionID: resp.SessionID,
		Title:     resp.Title,
		Reply: Message{
			ID:      uuid.NewString(),
			Role:    resp.Message.Role,
			Content: resp.Message.Content,
			Status:  StatusConfirmed,
		},
	}, nil
}

// Continue appends a message to an existing session and returns the reply.
func (c *Client) Continue(ctx context.Context, sessionID, text string) (Message, error) {
	var resp sendResponse
	if err := c.api.Do(ctx, http.MethodPost, "/chat/"+sessionID, sendRequest{Message: text}, &resp); err != nil {
		return Message{}, err
	}
	return Message{
		ID:      uuid.NewString(),
		Role:    resp.Message.Role,
		Content: resp.Message.Content,
		Status:  StatusConfirmed,
	}, nil
}

// Delete removes a session from the backend.
func (c *Client) Delete(ctx context.Context, sessionID string) error {
	return c.api.Do(ctx, http.MethodDelete, "/chat/"+sessionID, nil, nil)
}
