package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.General.DefaultProvider != "openai" || cfg.General.DefaultModel != "gpt-4.1-nano" {
		t.Errorf("general = %+v", cfg.General)
	}
	if cfg.Chat.MaxDuration != 30*time.Second {
		t.Errorf("MaxDuration = %v, expected 30s", cfg.Chat.MaxDuration)
	}
	if cfg.Layout.MinSize.Width != 300 || cfg.Layout.MinSize.Height != 350 {
		t.Errorf("min size = %+v", cfg.Layout.MinSize)
	}
	if cfg.Layout.Throttle != 16*time.Millisecond {
		t.Errorf("Throttle = %v", cfg.Layout.Throttle)
	}
	if cfg.General.SystemPrompt != DefaultSystemPrompt {
		t.Error("expected the default system prompt")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		check func(t *testing.T, cfg *AppConfig)
	}{
		{
			name: "server port only",
			yaml: "server:\n  port: 8080\n",
			check: func(t *testing.T, cfg *AppConfig) {
				if cfg.Server.Port != 8080 || cfg.Server.Host != "127.0.0.1" {
					t.Errorf("server = %+v", cfg.Server)
				}
			},
		},
		{
			name: "layout divisors and throttle",
			yaml: "layout:\n  desktop_horizontal_divisor: 2\n  desktop_vertical_divisor: 2\n  throttle: 32ms\n",
			check: func(t *testing.T, cfg *AppConfig) {
				if cfg.Layout.DesktopHorizontalDivisor != 2 || cfg.Layout.DesktopVerticalDivisor != 2 {
					t.Errorf("divisors = %v/%v", cfg.Layout.DesktopHorizontalDivisor, cfg.Layout.DesktopVerticalDivisor)
				}
				if cfg.Layout.MobileBreakpoint != 768 {
					t.Errorf("breakpoint lost: %v", cfg.Layout.MobileBreakpoint)
				}
				if cfg.Layout.Throttle != 32*time.Millisecond {
					t.Errorf("Throttle = %v", cfg.Layout.Throttle)
				}
			},
		},
		{
			name: "providers and chat",
			yaml: "general:\n  default_provider: groq\n  default_model: llama3-70b-8192\nproviders:\n  groq:\n    api_key: gsk-test\nchat:\n  max_duration: 10s\n",
			check: func(t *testing.T, cfg *AppConfig) {
				if cfg.General.DefaultProvider != "groq" {
					t.Errorf("provider = %q", cfg.General.DefaultProvider)
				}
				if cfg.Providers["groq"]["api_key"] != "gsk-test" {
					t.Errorf("providers = %v", cfg.Providers)
				}
				if cfg.Chat.MaxDuration != 10*time.Second {
					t.Errorf("MaxDuration = %v", cfg.Chat.MaxDuration)
				}
				if cfg.General.SystemPrompt != DefaultSystemPrompt {
					t.Error("system prompt should fall back to the default")
				}
			},
		},
		{
			name: "storage path",
			yaml: "storage:\n  path: /tmp/fanchat.db\nsessions:\n  idle_timeout: 1h\n",
			check: func(t *testing.T, cfg *AppConfig) {
				if cfg.Storage.Path != "/tmp/fanchat.db" {
					t.Errorf("storage = %+v", cfg.Storage)
				}
				if cfg.Sessions.IdleTimeout != time.Hour || cfg.Sessions.CleanupSchedule != "@every 10m" {
					t.Errorf("sessions = %+v", cfg.Sessions)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFile(writeConfig(t, tt.yaml))
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		unknown bool
	}{
		{name: "unknown provider", yaml: "general:\n  default_provider: sap_ai_core\n", unknown: true},
		{name: "bad port", yaml: "server:\n  port: 70000\n"},
		{name: "zero divisor", yaml: "layout:\n  desktop_vertical_divisor: 0\n"},
		{name: "malformed yaml", yaml: "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, ErrUnknownProvider); got != tt.unknown {
				t.Errorf("errors.Is(err, ErrUnknownProvider) = %v, expected %v (%v)", got, tt.unknown, err)
			}
		})
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Server.Port = 7000
	cfg.Chat.MaxDuration = 45 * time.Second

	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.Server.Port != 7000 || loaded.Chat.MaxDuration != 45*time.Second {
		t.Errorf("loaded = %+v %+v", loaded.Server, loaded.Chat)
	}
	if loaded.Layout.Placement != cfg.Layout.Placement {
		t.Errorf("placement = %+v, expected %+v", loaded.Layout.Placement, cfg.Layout.Placement)
	}
}

func TestProviderEnvPrecedence(t *testing.T) {
	cfg := Default()
	cfg.Providers["openai"] = ProviderConfig{"api_key": "from-file"}
	cfg.Providers["groq"] = ProviderConfig{"api_key": "groq-file"}

	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("GROQ_API_KEY", "")
	os.Unsetenv("GROQ_API_KEY")

	SetupAllProviderEnv(cfg)

	if got := os.Getenv("OPENAI_API_KEY"); got != "from-env" {
		t.Errorf("OPENAI_API_KEY = %q, env must win over the file", got)
	}
	if got := os.Getenv("GROQ_API_KEY"); got != "groq-file" {
		t.Errorf("GROQ_API_KEY = %q, expected the file value", got)
	}
	if got := ProviderValue(cfg, "openai", "api_key"); got != "from-env" {
		t.Errorf("ProviderValue() = %q", got)
	}
	if got := ProviderValue(cfg, "ollama", "base_url"); got != "" {
		t.Errorf("ProviderValue() for unset key = %q", got)
	}
}

func TestProviderEnvFollowsFileChanges(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	os.Unsetenv("OPENAI_API_KEY")
	t.Setenv("OPENAI_BASE_URL", "")
	os.Unsetenv("OPENAI_BASE_URL")

	cfg := Default()
	cfg.Providers["openai"] = ProviderConfig{"api_key": "sk-old", "base_url": "http://old.local"}
	SetupAllProviderEnv(cfg)

	updated := Default()
	updated.Providers["openai"] = ProviderConfig{"api_key": "sk-new"}
	SetupAllProviderEnv(updated)

	if got := ProviderValue(updated, "openai", "api_key"); got != "sk-new" {
		t.Errorf("api_key after update = %q, expected sk-new", got)
	}
	if got := os.Getenv("OPENAI_BASE_URL"); got != "" {
		t.Errorf("OPENAI_BASE_URL still exported after removal from the file")
	}

	t.Setenv("OPENAI_API_KEY", "sk-shell")
	SetupAllProviderEnv(cfg)
	if got := ProviderValue(cfg, "openai", "api_key"); got != "sk-shell" {
		t.Errorf("api_key = %q, a value set outside the process must win", got)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8000\n")

	changes := make(chan *AppConfig, 4)
	w, err := Watch(path, nil, func(cfg *AppConfig) { changes <- cfg })
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("server:\n  port: 8001\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case cfg := <-changes:
		if cfg.Server.Port != 8001 {
			t.Errorf("reloaded port = %d, expected 8001", cfg.Server.Port)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
