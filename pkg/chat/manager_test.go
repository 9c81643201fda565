package chat

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestManager(store Store) (*Manager, *testClock) {
	clock := &testClock{now: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)}
	return NewManager(store, WithClock(clock.Now)), clock
}

func TestContainsErrorPhrase(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{"Error: upstream timeout", true},
		{"Failed to reach the model", true},
		{"Could not process your request", true},
		{"Unable to complete the answer", true},
		{"Something went wrong, sorry", true},
		{"A FURIA joga amanhã às 15h!", false},
		{"error: lowercase is not a failure", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := ContainsErrorPhrase(tt.text); got != tt.expected {
				t.Errorf("ContainsErrorPhrase(%q) = %v, expected %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestCreateAndGet(t *testing.T) {
	m, _ := newTestManager(nil)
	s := m.Create()

	if s.Settings != DefaultSettings() {
		t.Errorf("settings = %+v", s.Settings)
	}

	got, err := m.Get(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != s.ID {
		t.Errorf("Get() id = %q", got.ID)
	}

	_, err = m.Get(context.Background(), "does-not-exist")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get(unknown) error = %v, expected ErrSessionNotFound", err)
	}
}

func TestAssistantErrorBannerAutoDismiss(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager(nil)
	s := m.Create()

	if _, err := m.AddUserMessage(ctx, s.ID, "Quem é o técnico?"); err != nil {
		t.Fatalf("AddUserMessage() error = %v", err)
	}
	if _, err := m.AddAssistantMessage(ctx, s.ID, "Something went wrong while answering"); err != nil {
		t.Fatalf("AddAssistantMessage() error = %v", err)
	}

	got, _ := m.Get(ctx, s.ID)
	if got.Error != AssistantErrorMessage {
		t.Fatalf("Error = %q, expected the assistant banner", got.Error)
	}

	clock.Advance(7 * time.Second)
	if got, _ := m.Get(ctx, s.ID); got.Error == "" {
		t.Error("banner dismissed too early")
	}

	clock.Advance(time.Second)
	if got, _ := m.Get(ctx, s.ID); got.Error != "" {
		t.Errorf("banner still visible after %v: %q", ErrorDismissAfter, got.Error)
	}
}

func TestNewInputClearsError(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(nil)
	s := m.Create()

	if err := m.ReportSubmitError(ctx, s.ID); err != nil {
		t.Fatalf("ReportSubmitError() error = %v", err)
	}
	if got, _ := m.Get(ctx, s.ID); got.Error != SubmitErrorMessage {
		t.Fatalf("Error = %q", got.Error)
	}

	if _, err := m.AddUserMessage(ctx, s.ID, "tenta de novo"); err != nil {
		t.Fatalf("AddUserMessage() error = %v", err)
	}
	if got, _ := m.Get(ctx, s.ID); got.Error != "" {
		t.Errorf("Error = %q after new input", got.Error)
	}

	if _, err := m.AddUserMessage(ctx, s.ID, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("blank input error = %v", err)
	}
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	intPtr := func(v int) *int { return &v }
	themePtr := func(v Theme) *Theme { return &v }
	boolPtr := func(v bool) *bool { return &v }

	tests := []struct {
		name     string
		update   SettingsUpdate
		expected Settings
		wantErr  bool
	}{
		{name: "font inside range", update: SettingsUpdate{FontSize: intPtr(18)}, expected: Settings{FontSize: 18, Theme: ThemeSystem}},
		{name: "font below minimum", update: SettingsUpdate{FontSize: intPtr(4)}, expected: Settings{FontSize: 12, Theme: ThemeSystem}},
		{name: "font above maximum", update: SettingsUpdate{FontSize: intPtr(40)}, expected: Settings{FontSize: 20, Theme: ThemeSystem}},
		{name: "dark theme", update: SettingsUpdate{Theme: themePtr(ThemeDark)}, expected: Settings{FontSize: 16, Theme: ThemeDark}},
		{name: "open faqs", update: SettingsUpdate{FAQsOpen: boolPtr(true)}, expected: Settings{FontSize: 16, Theme: ThemeSystem, FAQsOpen: true}},
		{name: "unknown theme", update: SettingsUpdate{Theme: themePtr("neon")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(nil)
			s := m.Create()

			got, err := m.UpdateSettings(ctx, s.ID, tt.update)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateSettings() error = %v", err)
			}
			if got.Settings != tt.expected {
				t.Errorf("settings = %+v, expected %+v", got.Settings, tt.expected)
			}
		})
	}
}

func TestSelectQuestionClosesPanel(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(nil)
	s := m.Create()
	open := true
	m.UpdateSettings(ctx, s.ID, SettingsUpdate{FAQsOpen: &open})

	q, err := m.SelectQuestion(ctx, s.ID, " Quem é o técnico atual da FURIA? ")
	if err != nil {
		t.Fatalf("SelectQuestion() error = %v", err)
	}
	if q != "Quem é o técnico atual da FURIA?" {
		t.Errorf("question = %q", q)
	}
	if got, _ := m.Get(ctx, s.ID); got.Settings.FAQsOpen {
		t.Error("FAQ panel still open")
	}
}

func TestResetKeepsSettings(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m, _ := newTestManager(store)
	s := m.Create()
	dark := ThemeDark
	m.UpdateSettings(ctx, s.ID, SettingsUpdate{Theme: &dark})
	m.AddUserMessage(ctx, s.ID, "oi")
	m.AddAssistantMessage(ctx, s.ID, "Error: boom")

	got, err := m.Reset(ctx, s.ID)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if len(got.Messages) != 0 || got.Error != "" {
		t.Errorf("after reset messages=%d error=%q", len(got.Messages), got.Error)
	}
	if got.Settings.Theme != ThemeDark {
		t.Errorf("theme = %q, settings must survive a reset", got.Settings.Theme)
	}
	if stored, _ := store.LoadMessages(ctx, s.ID); len(stored) != 0 {
		t.Errorf("store still holds %d messages", len(stored))
	}
}

func TestExpireIdleAndRestore(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager(NewMemoryStore())

	old := m.Create()
	m.AddUserMessage(ctx, old.ID, "primeira pergunta")
	clock.Advance(90 * time.Minute)
	fresh := m.Create()

	j, err := NewJanitor(m, "@every 1m", time.Hour, nil)
	if err != nil {
		t.Fatalf("NewJanitor() error = %v", err)
	}
	j.Sweep()

	if m.Len() != 1 {
		t.Fatalf("Len() = %d, expected 1", m.Len())
	}
	if _, err := m.Get(ctx, fresh.ID); err != nil {
		t.Errorf("fresh session expired: %v", err)
	}

	restored, err := m.Get(ctx, old.ID)
	if err != nil {
		t.Fatalf("expired session with a transcript should be restored: %v", err)
	}
	if len(restored.Messages) != 1 || restored.Messages[0].Content != "primeira pergunta" {
		t.Errorf("restored messages = %+v", restored.Messages)
	}
}

func TestNewJanitorRejectsBadSchedule(t *testing.T) {
	m, _ := newTestManager(nil)
	if _, err := NewJanitor(m, "every now and then", time.Hour, nil); err == nil {
		t.Error("expected an error for an invalid schedule")
	}
}

func TestFAQsReturnsCopy(t *testing.T) {
	faqs := FAQs()
	if len(faqs) != 4 {
		t.Fatalf("len(FAQs()) = %d, expected 4", len(faqs))
	}
	faqs[0].Questions[0] = "changed"
	if FAQs()[0].Questions[0] == "changed" {
		t.Error("FAQs() exposed the shared catalogue")
	}
}
