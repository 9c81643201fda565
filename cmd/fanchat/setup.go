package fanchat

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/fanchat/fanchat/pkg/config"
	"github.com/fanchat/fanchat/pkg/provider"
	"github.com/fanchat/fanchat/pkg/ui"
)

var setupPrompts = map[string]string{
	"api_key":  "API key",
	"base_url": "Base URL",
}

func handleSetupCommand(args []string) error {
	setupCmd := flag.NewFlagSet("setup", flag.ExitOnError)
	configPath := setupCmd.String("config", "", "Path to config.yaml")
	if err := setupCmd.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	selected, err := ui.ReadSelection(provider.GetProviderIDs(), provider.ProviderDisplayNames, "Select a provider to configure")
	if err != nil {
		return err
	}
	fmt.Printf("Configuring %s...\n", provider.GetProviderDisplayName(selected))

	if cfg.Providers[selected] == nil {
		cfg.Providers[selected] = make(config.ProviderConfig)
	}
	pCfg := cfg.Providers[selected]

	for _, key := range slices.Sorted(maps.Keys(config.ProviderEnvMapping[selected])) {
		label, ok := setupPrompts[key]
		if !ok {
			label = key
		}
		placeholder := pCfg[key]
		secret := key == "api_key"
		if secret && placeholder != "" {
			placeholder = "keep current key"
		}
		value, err := ui.ReadInput(fmt.Sprintf("%s %s", provider.GetProviderDisplayName(selected), label), placeholder, secret)
		if err != nil {
			return err
		}
		if value = strings.TrimSpace(value); value != "" {
			pCfg[key] = value
		}
	}
	config.SetupProviderEnv(selected, pCfg)

	modelName, err := chooseModel(cfg, selected)
	if err != nil {
		return err
	}

	cfg.General.DefaultProvider = selected
	cfg.General.DefaultModel = modelName

	if err := config.SaveFile(path, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Println(ui.RenderKeyValue("Saved", path))
	return nil
}

// chooseModel offers the provider's model list, falling back to free text
// when the list cannot be fetched.
func chooseModel(cfg *config.AppConfig, providerID string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var models []string
	err := ui.WithSpinner("Fetching available models...", cancel, func() error {
		var err error
		models, err = provider.ListModels(ctx, providerID, cfg)
		return err
	})
	if err != nil || len(models) == 0 {
		if err != nil {
			fmt.Println(ui.RenderHint(fmt.Sprintf("Could not fetch models: %v", err)))
		}
		return ui.ReadInput("Model name", cfg.General.DefaultModel, false)
	}
	return ui.ReadSelection(models, nil, "Select a model")
}
