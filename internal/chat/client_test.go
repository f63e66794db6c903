package chat_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dev-Amann/AI-StudyBuddy/internal/api"
	"github.com/dev-Amann/AI-StudyBuddy/internal/auth"
	"github.com/dev-Amann/AI-StudyBuddy/internal/chat"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *chat.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return chat.NewClient(api.New(srv.URL, auth.Static("tok")))
}

func TestClientListSessions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/chat/sessions", r.URL.Path)
		w.Write([]byte(`[{"id":"s1","title":"Photosynthesis...","updated_at":"2026-08-30T12:00:00Z"}]`))
	})

	sessions, err := c.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "s1", sessions[0].ID)
	require.Equal(t, "Photosynthesis...", sessions[0].Title)
	require.False(t, sessions[0].UpdatedAt.IsZero())
}

func TestClientTranscript(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/chat/s1", r.URL.Path)
		w.Write([]byte(`[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]`))
	})

	messages, err := c.Transcript(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, chat.RoleUser, messages[0].Role)
	require.Equal(t, chat.RoleAssistant, messages[1].Role)
	for _, m := range messages {
		require.Equal(t, chat.StatusConfirmed, m.Status, "fetched history is backend-acknowledged")
		require.NotEmpty(t, m.ID)
	}
}

func TestClientStart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "first question", body["message"])
		w.Write([]byte(`{"session_id":"s9","title":"first question...","message":{"role":"assistant","content":"an answer"}}`))
	})

	res, err := c.Start(context.Background(), "first question")
	require.NoError(t, err)
	require.Equal(t, "s9", res.SessionID)
	require.Equal(t, "first question...", res.Title)
	require.Equal(t, chat.RoleAssistant, res.Reply.Role)
	require.Equal(t, "an answer", res.Reply.Content)
	require.Equal(t, chat.StatusConfirmed, res.Reply.Status)
}

func TestClientContinue(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/s9", r.URL.Path)
		w.Write([]byte(`{"session_id":"s9","message":{"role":"assistant","content":"more"}}`))
	})

	reply, err := c.Continue(context.Background(), "s9", "follow up")
	require.NoError(t, err)
	require.Equal(t, "more", reply.Content)
}

func TestClientDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/chat/s9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Delete(context.Background(), "s9"))
}

func TestClientDeleteNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Session not found"}`))
	})

	err := c.Delete(context.Background(), "nope")
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusNotFound, statusErr.Status)
}
