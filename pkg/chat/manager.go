package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyMessage = errors.New("message is empty")

// Manager owns every live session. Transcripts are mirrored to a Store so a
// session can be restored after a restart; settings and errors live only in
// memory.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    Store
	now      func() time.Time
	logger   *slog.Logger
}

type Option func(*Manager)

// WithClock replaces the wall clock, used for error expiry and idle checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

func NewManager(store Store, opts ...Option) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	m := &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new empty session.
func (m *Manager) Create() Session {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		Settings:  DefaultSettings(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("session created", "session", s.ID)
	return s.clone()
}

// lookup returns the live session, restoring it from the store if needed.
// The caller must not hold m.mu.
func (m *Manager) lookup(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return s, nil
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	messages, err := m.store.LoadMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	now := m.now()
	restored := &Session{
		ID:        id,
		Messages:  messages,
		Settings:  DefaultSettings(),
		CreatedAt: messages[0].CreatedAt,
		UpdatedAt: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	m.sessions[id] = restored
	m.logger.Info("session restored", "session", id, "messages", len(messages))
	return restored, nil
}

// update runs fn on the session under the manager lock and returns a snapshot.
func (m *Manager) update(ctx context.Context, id string, fn func(s *Session, now time.Time)) (Session, error) {
	s, err := m.lookup(ctx, id)
	if err != nil {
		return Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	s.expireError(now)
	fn(s, now)
	return s.clone(), nil
}

// Get returns the session. An error banner older than ErrorDismissAfter is
// dropped first.
func (m *Manager) Get(ctx context.Context, id string) (Session, error) {
	return m.update(ctx, id, func(*Session, time.Time) {})
}

func (m *Manager) appendMessage(ctx context.Context, id, role, content string, after func(s *Session, now time.Time)) (Message, error) {
	msg := Message{ID: uuid.NewString(), Role: role, Content: content}
	_, err := m.update(ctx, id, func(s *Session, now time.Time) {
		msg.CreatedAt = now
		s.Messages = append(s.Messages, msg)
		s.UpdatedAt = now
		after(s, now)
	})
	if err != nil {
		return Message{}, err
	}

	if err := m.store.SaveMessage(ctx, id, msg); err != nil {
		m.logger.Error("failed to persist message", "session", id, "error", err)
		return msg, err
	}
	return msg, nil
}

// AddUserMessage records user input. New input clears any visible error.
func (m *Manager) AddUserMessage(ctx context.Context, id, content string) (Message, error) {
	if strings.TrimSpace(content) == "" {
		return Message{}, ErrEmptyMessage
	}
	return m.appendMessage(ctx, id, RoleUser, content, func(s *Session, _ time.Time) {
		s.clearError()
	})
}

// AddAssistantMessage records a completed reply. A reply that reads like a
// provider failure raises the communication error banner.
func (m *Manager) AddAssistantMessage(ctx context.Context, id, content string) (Message, error) {
	return m.appendMessage(ctx, id, RoleAssistant, content, func(s *Session, now time.Time) {
		if ContainsErrorPhrase(content) {
			s.raise(AssistantErrorMessage, now)
		}
	})
}

// ReportSubmitError raises the submission error banner.
func (m *Manager) ReportSubmitError(ctx context.Context, id string) error {
	_, err := m.update(ctx, id, func(s *Session, now time.Time) {
		s.raise(SubmitErrorMessage, now)
	})
	return err
}

// DismissError hides the error banner.
func (m *Manager) DismissError(ctx context.Context, id string) (Session, error) {
	return m.update(ctx, id, func(s *Session, _ time.Time) {
		s.clearError()
	})
}

// UpdateSettings applies the non-nil fields of u. The font size is clamped
// and an unknown theme is rejected.
func (m *Manager) UpdateSettings(ctx context.Context, id string, u SettingsUpdate) (Session, error) {
	if u.Theme != nil && !u.Theme.Valid() {
		return Session{}, fmt.Errorf("invalid theme %q", *u.Theme)
	}
	return m.update(ctx, id, func(s *Session, now time.Time) {
		if u.FontSize != nil {
			s.Settings.FontSize = ClampFontSize(*u.FontSize)
		}
		if u.Theme != nil {
			s.Settings.Theme = *u.Theme
		}
		if u.FAQsOpen != nil {
			s.Settings.FAQsOpen = *u.FAQsOpen
		}
		s.UpdatedAt = now
	})
}

// SelectQuestion closes the FAQ panel and returns the question to submit.
func (m *Manager) SelectQuestion(ctx context.Context, id, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyMessage
	}
	_, err := m.update(ctx, id, func(s *Session, now time.Time) {
		s.Settings.FAQsOpen = false
		s.UpdatedAt = now
	})
	if err != nil {
		return "", err
	}
	return question, nil
}

// Reset clears the transcript and the error banner. Settings are kept.
func (m *Manager) Reset(ctx context.Context, id string) (Session, error) {
	snap, err := m.update(ctx, id, func(s *Session, now time.Time) {
		s.Messages = nil
		s.clearError()
		s.UpdatedAt = now
	})
	if err != nil {
		return Session{}, err
	}
	if err := m.store.DeleteSession(ctx, id); err != nil {
		return snap, err
	}
	return snap, nil
}

// ExpireIdle drops sessions not updated within idle and returns how many were
// removed. Their transcripts stay in the store.
func (m *Manager) ExpireIdle(idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-idle)
	removed := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}
