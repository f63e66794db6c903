// Package chat maintains a user's conversation state against the remote
// backend: the saved session list, the active transcript, and the
// create/continue/delete lifecycle. The backend is the sole durable owner of
// sessions; everything held here is a best-effort local copy for the current
// run.
package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dev-Amann/AI-StudyBuddy/internal/logger"
)

// Manager reconciles local conversation state with the backend.
//
// User messages are appended optimistically and never rolled back: a failed
// send leaves the message visible with StatusFailed instead of making it
// disappear. One send at a time per transcript is the caller's discipline;
// the manager does not queue or reject concurrent sends.
type Manager struct {
	backend Backend

	mu         sync.Mutex
	sessions   []Session
	current    string // "" means no active session
	transcript []Message

	// epoch guards suspended operations: it moves whenever the active
	// transcript is replaced, and a result carrying an older epoch is stale
	// and must not be applied.
	epoch uint64

	// Session-list refreshes reconcile last-write-wins by stamp: a refresh
	// takes its stamp before the network call and applies only if nothing
	// newer has applied since.
	listStamp   uint64
	listApplied uint64
}

// NewManager creates a manager over the given backend.
func NewManager(backend Backend) *Manager {
	return &Manager{backend: backend}
}

// CurrentSessionID returns the active session id, or "" when drafting.
func (m *Manager) CurrentSessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Sessions returns a copy of the locally known session list.
func (m *Manager) Sessions() []Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Session, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// Transcript returns a copy of the active transcript.
func (m *Manager) Transcript() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.transcript))
	copy(out, m.transcript)
	return out
}

// RefreshSessions replaces the local session list from the backend. Safe to
// call while a send is in flight; a stale refresh result never overwrites a
// newer one.
func (m *Manager) RefreshSessions(ctx context.Context) error {
	m.mu.Lock()
	m.listStamp++
	stamp := m.listStamp
	m.mu.Unlock()

	list, err := m.backend.ListSessions(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if stamp > m.listApplied {
		m.sessions = list
		m.listApplied = stamp
	}
	m.mu.Unlock()
	return nil
}

// SelectSession makes the given session active and replaces the transcript
// wholesale with its backend history. On fetch failure the selection sticks
// but the previous transcript is left in place rather than blanked.
func (m *Manager) SelectSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	m.current = sessionID
	m.epoch++
	epoch := m.epoch
	m.mu.Unlock()

	messages, err := m.backend.Transcript(ctx, sessionID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.epoch == epoch {
		m.transcript = messages
	}
	m.mu.Unlock()
	return nil
}

// NewChat clears the active session and transcript. No backend call: a
// session only materializes on the first successful send.
func (m *Manager) NewChat() {
	m.mu.Lock()
	m.current = ""
	m.transcript = nil
	m.epoch++
	m.mu.Unlock()
}

// Send appends the user message optimistically and delivers it: to the active
// session, or by creating a new session when none is active. On success the
// assistant reply is appended and returned; a session-creating send also
// kicks off a session-list refresh since the backend assigned a title. On
// failure the user message stays visible, marked failed.
func (m *Manager) Send(ctx context.Context, text string) (Message, error) {
	userMsg := Message{
		ID:      uuid.NewString(),
		Role:    RoleUser,
		Content: text,
		Status:  StatusPending,
	}

	m.mu.Lock()
	m.transcript = append(m.transcript, userMsg)
	sessionID := m.current
	epoch := m.epoch
	m.mu.Unlock()

	if sessionID == "" {
		return m.startSession(ctx, userMsg, epoch)
	}
	return m.continueSession(ctx, sessionID, userMsg, epoch)
}

func (m *Manager) startSession(ctx context.Context, userMsg Message, epoch uint64) (Message, error) {
	res, err := m.backend.Start(ctx, userMsg.Content)
	if err != nil {
		m.markStatus(userMsg.ID, epoch, StatusFailed)
		return Message{}, err
	}

	m.mu.Lock()
	stale := m.epoch != epoch
	if !stale {
		m.setStatus(userMsg.ID, StatusConfirmed)
		m.transcript = append(m.transcript, res.Reply)
		m.current = res.SessionID
	}
	m.mu.Unlock()

	// The session now exists remotely with a backend-derived title, so the
	// list is out of date either way.
	go func() {
		if err := m.RefreshSessions(context.WithoutCancel(ctx)); err != nil {
			logger.L.Warn("session list refresh failed", "error", err)
		}
	}()

	if stale {
		logger.L.Debug("discarding reply for abandoned draft", "session_id", res.SessionID)
	}
	return res.Reply, nil
}

func (m *Manager) continueSession(ctx context.Context, sessionID string, userMsg Message, epoch uint64) (Message, error) {
	reply, err := m.backend.Continue(ctx, sessionID, userMsg.Content)
	if err != nil {
		m.markStatus(userMsg.ID, epoch, StatusFailed)
		return Message{}, err
	}

	m.mu.Lock()
	if m.epoch == epoch {
		m.setStatus(userMsg.ID, StatusConfirmed)
		m.transcript = append(m.transcript, reply)
	} else {
		logger.L.Debug("discarding reply for deselected session", "session_id", sessionID)
	}
	m.mu.Unlock()
	return reply, nil
}

// DeleteSession removes the session locally first and then remotely. If it
// was the active session the transcript clears immediately, whatever the
// backend outcome. A failed delete is reported but the local removal is not
// rolled back; a later RefreshSessions is the recovery path.
func (m *Manager) DeleteSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	kept := m.sessions[:0]
	for _, s := range m.sessions {
		if s.ID != sessionID {
			kept = append(kept, s)
		}
	}
	m.sessions = kept
	if m.current == sessionID {
		m.current = ""
		m.transcript = nil
		m.epoch++
	}
	m.mu.Unlock()

	if err := m.backend.Delete(ctx, sessionID); err != nil {
		logger.L.Warn("backend delete failed; local list already updated",
			"session_id", sessionID, "error", err)
		return err
	}
	return nil
}

// markStatus applies a status change only if the transcript epoch is
// unchanged since the operation started.
func (m *Manager) markStatus(id string, epoch uint64, status Status) {
	m.mu.Lock()
	if m.epoch == epoch {
		m.setStatus(id, status)
	}
	m.mu.Unlock()
}

// setStatus must be called with mu held.
func (m *Manager) setStatus(id string, status Status) {
	for i := range m.transcript {
		if m.transcript[i].ID == id {
			m.transcript[i].Status = status
			return
		}
	}
}
