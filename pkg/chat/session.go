// Package chat keeps the state of chat widget sessions: the transcript, the
// widget settings and the transient error banner.
package chat

import (
	"errors"
	"strings"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Font size bounds for the message list, in pixels.
const (
	DefaultFontSize = 16
	MinFontSize     = 12
	MaxFontSize     = 20
)

// ErrorDismissAfter is how long an error banner stays visible.
const ErrorDismissAfter = 8 * time.Second

// User-facing error banners.
const (
	AssistantErrorMessage = "Ocorreu um erro na comunicação com o assistente. Por favor, tente novamente."
	SubmitErrorMessage    = "Ocorreu um erro ao enviar sua mensagem. Por favor, tente novamente."
)

var errorPhrases = []string{
	"Error:",
	"Failed to",
	"Could not process",
	"Unable to complete",
	"Something went wrong",
}

// ContainsErrorPhrase reports whether an assistant reply looks like a
// provider failure rather than an answer.
func ContainsErrorPhrase(text string) bool {
	for _, phrase := range errorPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Theme is the widget colour scheme.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

type Settings struct {
	FontSize int   `json:"fontSize"`
	Theme    Theme `json:"theme"`
	FAQsOpen bool  `json:"faqsOpen"`
}

// DefaultSettings returns the settings of a new session.
func DefaultSettings() Settings {
	return Settings{FontSize: DefaultFontSize, Theme: ThemeSystem}
}

// ClampFontSize keeps size inside [MinFontSize, MaxFontSize].
func ClampFontSize(size int) int {
	return max(MinFontSize, min(size, MaxFontSize))
}

// SettingsUpdate carries the settings a client wants to change. Nil fields
// are left alone.
type SettingsUpdate struct {
	FontSize *int   `json:"fontSize,omitempty"`
	Theme    *Theme `json:"theme,omitempty"`
	FAQsOpen *bool  `json:"faqsOpen,omitempty"`
}

// Session is a snapshot of one chat session.
type Session struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	Settings  Settings  `json:"settings"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	errorAt time.Time
}

func (s *Session) raise(msg string, now time.Time) {
	s.Error = msg
	s.errorAt = now
}

func (s *Session) clearError() {
	s.Error = ""
	s.errorAt = time.Time{}
}

// expireError drops the banner once it has been visible long enough.
func (s *Session) expireError(now time.Time) {
	if s.Error != "" && now.Sub(s.errorAt) >= ErrorDismissAfter {
		s.clearError()
	}
}

func (s *Session) clone() Session {
	c := *s
	c.Messages = append([]Message(nil), s.Messages...)
	return c
}
