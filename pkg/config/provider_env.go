package config

import (
	"os"
	"sync"
)

// ProviderEnvMapping maps provider config keys to environment variable names
// This is the single source of truth for how config keys map to env vars
var ProviderEnvMapping = map[string]map[string]string{
	"anthropic": {
		"api_key": "ANTHROPIC_API_KEY",
	},
	"gemini": {
		"api_key": "GOOGLE_API_KEY",
	},
	"openai": {
		"api_key":  "OPENAI_API_KEY",
		"base_url": "OPENAI_BASE_URL",
	},
	"openrouter": {
		"api_key": "OPENROUTER_API_KEY",
	},
	"xai": {
		"api_key": "XAI_API_KEY",
	},
	"groq": {
		"api_key": "GROQ_API_KEY",
	},
	"ollama": {
		"base_url": "OLLAMA_HOST",
	},
	"lm_studio": {
		"base_url": "LM_STUDIO_BASE_URL",
	},
}

// exported remembers the values this process wrote so a later reload can
// replace them. Anything else found in the environment was set externally.
var (
	exportedMu sync.Mutex
	exported   = map[string]string{}
)

// SetupProviderEnv exports config values for a provider. Variables set
// outside the process win over the file; values exported by an earlier call
// are replaced, or removed when the file no longer carries them.
func SetupProviderEnv(providerName string, providerCfg ProviderConfig) {
	mapping, ok := ProviderEnvMapping[providerName]
	if !ok {
		return
	}
	exportedMu.Lock()
	defer exportedMu.Unlock()
	for cfgKey, envKey := range mapping {
		current := os.Getenv(envKey)
		prev, ours := exported[envKey]
		if current != "" && (!ours || current != prev) {
			delete(exported, envKey)
			continue
		}
		val := providerCfg[cfgKey]
		if val == "" {
			if ours {
				os.Unsetenv(envKey)
				delete(exported, envKey)
			}
			continue
		}
		os.Setenv(envKey, val)
		exported[envKey] = val
	}
}

// SetupAllProviderEnv sets environment variables for all configured providers
func SetupAllProviderEnv(appCfg *AppConfig) {
	if appCfg == nil {
		return
	}
	for providerName := range ProviderEnvMapping {
		SetupProviderEnv(providerName, appCfg.Providers[providerName])
	}
}

// ProviderValue resolves a provider setting, preferring the environment.
func ProviderValue(appCfg *AppConfig, providerName, key string) string {
	if envKey, ok := ProviderEnvMapping[providerName][key]; ok {
		if val := os.Getenv(envKey); val != "" {
			return val
		}
	}
	if appCfg == nil {
		return ""
	}
	return appCfg.Providers[providerName][key]
}
