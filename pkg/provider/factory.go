package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fanchat/fanchat/pkg/config"
	"github.com/fanchat/fanchat/pkg/provider/anthropic"
	"github.com/fanchat/fanchat/pkg/provider/google"
	openai_provider "github.com/fanchat/fanchat/pkg/provider/openai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/adk/model"
)

// ErrMissingAPIKey is returned when a provider needs a key that is neither in
// the environment nor in the config file.
var ErrMissingAPIKey = errors.New("api key not configured")

// ProviderDisplayNames maps provider IDs to their proper display names.
// This is the centralized source of truth for how provider names should be displayed
// in both the CLI and UI.
var ProviderDisplayNames = map[string]string{
	"anthropic":  "Anthropic",
	"gemini":     "Google GenAI",
	"groq":       "Groq",
	"lm_studio":  "LM Studio",
	"ollama":     "Ollama",
	"openai":     "OpenAI",
	"openrouter": "Openrouter",
	"xai":        "xAI",
}

// compatibleEndpoint describes a provider reached through the OpenAI API.
type compatibleEndpoint struct {
	baseURL      string
	keyRequired  bool
	defaultModel string
	modelPrefix  string
}

var compatibleEndpoints = map[string]compatibleEndpoint{
	"openai":     {baseURL: "https://api.openai.com/v1", keyRequired: true, defaultModel: "gpt-4.1-nano", modelPrefix: "gpt"},
	"openrouter": {baseURL: "https://openrouter.ai/api/v1", keyRequired: true},
	"groq":       {baseURL: "https://api.groq.com/openai/v1", keyRequired: true, defaultModel: "llama3-70b-8192"},
	"xai":        {baseURL: "https://api.x.ai/v1", keyRequired: true, defaultModel: "grok-beta"},
	"ollama":     {baseURL: "http://localhost:11434"},
	"lm_studio":  {baseURL: "http://localhost:1234/v1"},
}

// GetProviderDisplayName returns the proper display name for a provider ID.
// If the provider ID is not found, it returns the ID as-is.
func GetProviderDisplayName(providerID string) string {
	if name, ok := ProviderDisplayNames[providerID]; ok {
		return name
	}
	return providerID
}

// GetProviderIDs returns a sorted list of all known provider IDs.
func GetProviderIDs() []string {
	ids := make([]string, 0, len(ProviderDisplayNames))
	for id := range ProviderDisplayNames {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func missingKey(name string) error {
	return fmt.Errorf("%w for %s", ErrMissingAPIKey, GetProviderDisplayName(name))
}

// GetProvider returns an LLM model based on the provider name.
func GetProvider(ctx context.Context, name string, modelName string, cfg *config.AppConfig) (model.LLM, error) {
	if name == "grok" {
		name = "xai"
	}
	if name == "google_genai" {
		name = "gemini"
	}

	switch name {
	case "anthropic":
		apiKey := config.ProviderValue(cfg, "anthropic", "api_key")
		if apiKey == "" {
			return nil, missingKey(name)
		}
		if modelName == "" {
			modelName = "claude-3-5-haiku-latest"
		}
		return anthropic.NewProvider(apiKey, modelName), nil

	case "gemini":
		apiKey := config.ProviderValue(cfg, "gemini", "api_key")
		if apiKey == "" {
			return nil, missingKey(name)
		}
		if modelName == "" {
			modelName = "gemini-2.0-flash"
		}
		return google.NewProvider(ctx, modelName, apiKey)
	}

	client, endpoint, err := compatibleClient(name, cfg)
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = endpoint.defaultModel
	}
	if modelName == "" {
		return nil, fmt.Errorf("model name required for %s", name)
	}
	return openai_provider.NewProvider(client, modelName), nil
}

func compatibleClient(name string, cfg *config.AppConfig) (*openai.Client, compatibleEndpoint, error) {
	endpoint, ok := compatibleEndpoints[name]
	if !ok {
		return nil, endpoint, fmt.Errorf("%w: %s", config.ErrUnknownProvider, name)
	}

	apiKey := config.ProviderValue(cfg, name, "api_key")
	if apiKey == "" {
		if endpoint.keyRequired {
			return nil, endpoint, missingKey(name)
		}
		// Local servers ignore the key but the client needs a non-empty one.
		apiKey = name
	}

	baseURL := endpoint.baseURL
	if val := config.ProviderValue(cfg, name, "base_url"); val != "" {
		baseURL = val
	}
	if name == "ollama" && !strings.HasSuffix(baseURL, "/v1") {
		baseURL = strings.TrimRight(baseURL, "/") + "/v1"
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = baseURL
	return openai.NewClientWithConfig(clientCfg), endpoint, nil
}

// ListModels returns the models a provider offers. Gemini returns an empty
// list and the caller asks for a name.
func ListModels(ctx context.Context, name string, cfg *config.AppConfig) ([]string, error) {
	switch name {
	case "gemini":
		return nil, nil
	case "anthropic":
		apiKey := config.ProviderValue(cfg, "anthropic", "api_key")
		if apiKey == "" {
			return nil, missingKey(name)
		}
		return anthropic.NewProvider(apiKey, "").ListModels(ctx)
	}
	client, endpoint, err := compatibleClient(name, cfg)
	if err != nil {
		return nil, err
	}
	return openai_provider.ListModels(ctx, client, endpoint.modelPrefix)
}
