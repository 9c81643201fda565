package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fanchat/fanchat/pkg/geometry"
	"github.com/fanchat/fanchat/pkg/gesture"
	"gopkg.in/yaml.v3"
)

// ErrUnknownProvider is returned when the configured default provider is not
// one fanchat can talk to.
var ErrUnknownProvider = errors.New("unknown provider")

// KnownProviders lists the provider IDs accepted in general.default_provider.
var KnownProviders = []string{
	"anthropic",
	"gemini",
	"groq",
	"lm_studio",
	"ollama",
	"openai",
	"openrouter",
	"xai",
}

// DefaultSystemPrompt is prepended to every conversation.
const DefaultSystemPrompt = "Você é um assistente virtual descolado, jovem e antenado, especialista no time de CS:GO da FURIA. " +
	"Responda às perguntas de forma clara, objetiva e com um toque descontraído, como se estivesse conversando com um amigo. " +
	"Use linguagem informal, emojis quando fizer sentido e sempre traga informações atualizadas."

type AppConfig struct {
	General   GeneralConfig             `yaml:"general"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	Server    ServerConfig              `yaml:"server"`
	Chat      ChatConfig                `yaml:"chat"`
	Layout    LayoutConfig              `yaml:"layout"`
	Sessions  SessionsConfig            `yaml:"sessions"`
	Storage   StorageConfig             `yaml:"storage"`
}

type GeneralConfig struct {
	DefaultProvider string `yaml:"default_provider"`
	DefaultModel    string `yaml:"default_model"`
	SystemPrompt    string `yaml:"system_prompt,omitempty"`
}

type ProviderConfig map[string]string

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type ChatConfig struct {
	// MaxDuration bounds a single streamed completion.
	MaxDuration time.Duration `yaml:"max_duration"`
	Temperature float32       `yaml:"temperature,omitempty"`
}

// LayoutConfig overrides the widget placement constants.
type LayoutConfig struct {
	geometry.Placement `yaml:",inline"`
	Throttle           time.Duration `yaml:"throttle"`
}

type SessionsConfig struct {
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	CleanupSchedule string        `yaml:"cleanup_schedule"`
}

type StorageConfig struct {
	// Path of the SQLite transcript database. Empty keeps transcripts in memory.
	Path string `yaml:"path,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *AppConfig {
	return &AppConfig{
		General: GeneralConfig{
			DefaultProvider: "openai",
			DefaultModel:    "gpt-4.1-nano",
			SystemPrompt:    DefaultSystemPrompt,
		},
		Providers: make(map[string]ProviderConfig),
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 9393,
		},
		Chat: ChatConfig{
			MaxDuration: 30 * time.Second,
		},
		Layout: LayoutConfig{
			Placement: geometry.DefaultPlacement(),
			Throttle:  gesture.DefaultThrottleInterval,
		},
		Sessions: SessionsConfig{
			IdleTimeout:     2 * time.Hour,
			CleanupSchedule: "@every 10m",
		},
	}
}

func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "fanchat"), nil
}

func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadAppConfig loads the config from the user config directory.
func LoadAppConfig() (*AppConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads a config file over the defaults. A missing file yields the
// defaults.
func LoadFile(path string) (*AppConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	if cfg.General.SystemPrompt == "" {
		cfg.General.SystemPrompt = DefaultSystemPrompt
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *AppConfig) Validate() error {
	if c.General.DefaultProvider != "" && !slices.Contains(KnownProviders, c.General.DefaultProvider) {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.General.DefaultProvider)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	p := c.Layout.Placement
	if p.MinSize.Width <= 0 || p.MinSize.Height <= 0 {
		return fmt.Errorf("layout minimum size must be positive, got %vx%v", p.MinSize.Width, p.MinSize.Height)
	}
	if p.DesktopHorizontalDivisor == 0 || p.DesktopVerticalDivisor == 0 {
		return fmt.Errorf("layout divisors must be non-zero")
	}
	return nil
}

func SaveAppConfig(cfg *AppConfig) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg to path, creating the parent directory.
func SaveFile(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
