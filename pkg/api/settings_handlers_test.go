package api

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/fanchat/fanchat/pkg/config"
)

func TestSettingsRoundTrip(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	server, h := newTestServer(t, &fakeLLM{})
	h.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")

	var status SetupStatusResponse
	doJSON(t, "GET", server.URL+"/api/settings/status", "", &status)
	if !status.SetupRequired || len(status.ConfiguredProviders) != 0 {
		t.Errorf("fresh status = %+v", status)
	}

	body := `{"general":{"default_provider":"groq","default_model":"llama-3.3-70b"},"providers":{"groq":{"api_key":"gsk-secret-1234"}}}`
	if code := doJSON(t, "PUT", server.URL+"/api/settings/config", body, nil); code != http.StatusOK {
		t.Fatalf("PUT status = %d", code)
	}

	saved, err := config.LoadFile(h.ConfigPath)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if saved.General.DefaultProvider != "groq" || saved.Providers["groq"]["api_key"] != "gsk-secret-1234" {
		t.Errorf("saved config = %+v", saved.General)
	}

	var settings AppSettingsResponse
	doJSON(t, "GET", server.URL+"/api/settings/config", "", &settings)
	if settings.General.DefaultProviderDisplayName != "Groq" {
		t.Errorf("display name = %q", settings.General.DefaultProviderDisplayName)
	}
	for _, p := range settings.Providers {
		if p.Name == "groq" {
			if !p.Configured || p.Fields["api_key"] != "****1234" {
				t.Errorf("groq settings = %+v", p)
			}
		}
	}

	// Sending the masked value back must not overwrite the key.
	doJSON(t, "PUT", server.URL+"/api/settings/config", `{"providers":{"groq":{"api_key":"****1234"}}}`, nil)
	if saved, _ := config.LoadFile(h.ConfigPath); saved.Providers["groq"]["api_key"] != "gsk-secret-1234" {
		t.Errorf("masked value overwrote the key: %q", saved.Providers["groq"]["api_key"])
	}

	doJSON(t, "GET", server.URL+"/api/settings/status", "", &status)
	if status.SetupRequired || len(status.ConfiguredProviders) != 1 {
		t.Errorf("status after setup = %+v", status)
	}

	doJSON(t, "PUT", server.URL+"/api/settings/config", `{"providers":{"groq":{"api_key":"gsk-rotated-5678"}}}`, nil)
	if got := config.ProviderValue(nil, "groq", "api_key"); got != "gsk-rotated-5678" {
		t.Errorf("groq key after rotation = %q, expected the new key", got)
	}
}

func TestUpdateSettingsRejectsUnknownProvider(t *testing.T) {
	server, h := newTestServer(t, &fakeLLM{})
	h.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")

	body := `{"general":{"default_provider":"skynet","default_model":"t-800"}}`
	if code := doJSON(t, "PUT", server.URL+"/api/settings/config", body, nil); code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", code)
	}
}

func TestListProviderModelsUnknown(t *testing.T) {
	server, _ := newTestServer(t, &fakeLLM{})
	if code := doJSON(t, "GET", server.URL+"/api/providers/skynet/models", "", nil); code != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", code)
	}
}
