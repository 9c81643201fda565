package chat

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "fanchat.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	defer store.Close()

	created := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	messages := []Message{
		{ID: "m1", Role: RoleUser, Content: "Qual foi o último resultado?", CreatedAt: created},
		{ID: "m2", Role: RoleAssistant, Content: "Vitória por 2 a 1! 🔥", CreatedAt: created.Add(time.Second)},
	}
	for _, msg := range messages {
		if err := store.SaveMessage(ctx, "s1", msg); err != nil {
			t.Fatalf("SaveMessage() error = %v", err)
		}
	}
	store.SaveMessage(ctx, "s2", Message{ID: "m3", Role: RoleUser, Content: "outra sessão", CreatedAt: created})

	loaded, err := store.LoadMessages(ctx, "s1")
	if err != nil {
		t.Fatalf("LoadMessages() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d messages, expected 2", len(loaded))
	}
	for i, msg := range loaded {
		if msg.ID != messages[i].ID || msg.Content != messages[i].Content || !msg.CreatedAt.Equal(messages[i].CreatedAt) {
			t.Errorf("message %d = %+v, expected %+v", i, msg, messages[i])
		}
	}

	if err := store.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if loaded, _ := store.LoadMessages(ctx, "s1"); len(loaded) != 0 {
		t.Errorf("s1 still has %d messages", len(loaded))
	}
	if loaded, _ := store.LoadMessages(ctx, "s2"); len(loaded) != 1 {
		t.Errorf("s2 has %d messages, expected 1", len(loaded))
	}
}

func TestManagerRestoresFromSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fanchat.db")

	store, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	m := NewManager(store)
	s := m.Create()
	m.AddUserMessage(ctx, s.ID, "Onde assistir?")
	m.AddAssistantMessage(ctx, s.ID, "Na Twitch!")
	m.Close()

	reopened, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	m2 := NewManager(reopened)
	defer m2.Close()

	got, err := m2.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get() after restart error = %v", err)
	}
	if len(got.Messages) != 2 || got.Messages[1].Role != RoleAssistant {
		t.Errorf("restored = %+v", got.Messages)
	}
}
