package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fanchat/fanchat/pkg/config"
	"github.com/fanchat/fanchat/pkg/provider"
	"github.com/gorilla/mux"
)

// GeneralSettings represents the general app settings
type GeneralSettings struct {
	DefaultProvider            string `json:"default_provider"`
	DefaultProviderDisplayName string `json:"default_provider_display_name"`
	DefaultModel               string `json:"default_model"`
}

// ProviderSettings represents a provider's configuration (masked)
type ProviderSettings struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Configured  bool              `json:"configured"`
	Fields      map[string]string `json:"fields"` // Masked values for display
}

// AppSettingsResponse is the response for GET /api/settings/config
type AppSettingsResponse struct {
	General   GeneralSettings    `json:"general"`
	Providers []ProviderSettings `json:"providers"`
}

// UpdateAppSettingsRequest is the request for PUT /api/settings/config
type UpdateAppSettingsRequest struct {
	General   *GeneralSettings             `json:"general,omitempty"`
	Providers map[string]map[string]string `json:"providers,omitempty"`
}

// SetupStatusResponse represents the setup status for the setup wizard
type SetupStatusResponse struct {
	SetupRequired       bool     `json:"setupRequired"`
	HasDefaultProvider  bool     `json:"hasDefaultProvider"`
	HasDefaultModel     bool     `json:"hasDefaultModel"`
	ConfiguredProviders []string `json:"configuredProviders"`
}

func (h *Handlers) configPath() (string, error) {
	if h.ConfigPath != "" {
		return h.ConfigPath, nil
	}
	return config.GetConfigPath()
}

// loadStoredConfig reads the config file as saved on disk, ignoring the
// environment overrides applied to the live config.
func (h *Handlers) loadStoredConfig() (*config.AppConfig, string, error) {
	path, err := h.configPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadFile(path)
	return cfg, path, err
}

func maskValue(val string) string {
	if len(val) > 4 {
		return "****" + val[len(val)-4:]
	}
	return "****"
}

// isMaskedValue checks if a value is a masked placeholder
func isMaskedValue(val string) bool {
	return strings.HasPrefix(val, "****")
}

// configuredProviders lists the known providers with at least one value set
func configuredProviders(cfg *config.AppConfig) []string {
	configured := []string{}
	for _, name := range config.KnownProviders {
		for _, val := range cfg.Providers[name] {
			if val != "" {
				configured = append(configured, name)
				break
			}
		}
	}
	return configured
}

// GetSettingsHandler handles GET /api/settings/config
func (h *Handlers) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	cfg, _, err := h.loadStoredConfig()
	if err != nil {
		http.Error(w, "Failed to load config: "+err.Error(), http.StatusInternalServerError)
		return
	}

	providers := []ProviderSettings{}
	for _, name := range config.KnownProviders {
		providerCfg := cfg.Providers[name]
		fields := make(map[string]string)
		configured := false

		for cfgKey := range config.ProviderEnvMapping[name] {
			if val := providerCfg[cfgKey]; val != "" {
				fields[cfgKey] = maskValue(val)
				configured = true
			} else {
				fields[cfgKey] = ""
			}
		}

		providers = append(providers, ProviderSettings{
			Name:        name,
			DisplayName: provider.GetProviderDisplayName(name),
			Configured:  configured,
			Fields:      fields,
		})
	}

	writeJSON(w, http.StatusOK, AppSettingsResponse{
		General: GeneralSettings{
			DefaultProvider:            cfg.General.DefaultProvider,
			DefaultProviderDisplayName: provider.GetProviderDisplayName(cfg.General.DefaultProvider),
			DefaultModel:               cfg.General.DefaultModel,
		},
		Providers: providers,
	})
}

// UpdateAppSettingsHandler handles PUT /api/settings/config. The file watcher
// picks the saved file up, so running chats keep their old settings.
func (h *Handlers) UpdateAppSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateAppSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cfg, path, err := h.loadStoredConfig()
	if err != nil {
		http.Error(w, "Failed to load config: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if req.General != nil {
		cfg.General.DefaultProvider = req.General.DefaultProvider
		cfg.General.DefaultModel = req.General.DefaultModel
	}

	for providerName, providerFields := range req.Providers {
		if cfg.Providers == nil {
			cfg.Providers = make(map[string]config.ProviderConfig)
		}
		if cfg.Providers[providerName] == nil {
			cfg.Providers[providerName] = make(config.ProviderConfig)
		}
		for key, value := range providerFields {
			// Only update if value is not masked placeholder
			if value != "" && !isMaskedValue(value) {
				cfg.Providers[providerName][key] = value
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := config.SaveFile(path, cfg); err != nil {
		http.Error(w, "Failed to save config: "+err.Error(), http.StatusInternalServerError)
		return
	}

	config.SetupAllProviderEnv(cfg)

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListProviderModelsHandler handles GET /api/providers/{providerId}/models
func (h *Handlers) ListProviderModelsHandler(w http.ResponseWriter, r *http.Request) {
	providerID := mux.Vars(r)["providerId"]

	models, err := provider.ListModels(r.Context(), providerID, h.config())
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, config.ErrUnknownProvider) {
			status = http.StatusNotFound
		} else if errors.Is(err, provider.ErrMissingAPIKey) {
			status = http.StatusBadRequest
		}
		http.Error(w, "Failed to fetch models: "+err.Error(), status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"provider": providerID,
		"models":   models,
	})
}

// GetSetupStatusHandler handles GET /api/settings/status
func (h *Handlers) GetSetupStatusHandler(w http.ResponseWriter, r *http.Request) {
	cfg, _, err := h.loadStoredConfig()
	if err != nil {
		// An unreadable config needs the wizard as much as a missing one
		writeJSON(w, http.StatusOK, SetupStatusResponse{SetupRequired: true, ConfiguredProviders: []string{}})
		return
	}

	configured := configuredProviders(cfg)
	hasDefaultProvider := cfg.General.DefaultProvider != ""
	writeJSON(w, http.StatusOK, SetupStatusResponse{
		SetupRequired:       !hasDefaultProvider || len(configured) == 0,
		HasDefaultProvider:  hasDefaultProvider,
		HasDefaultModel:     cfg.General.DefaultModel != "",
		ConfiguredProviders: configured,
	})
}
