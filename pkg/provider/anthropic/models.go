package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
)

const modelsURL = "https://api.anthropic.com/v1/models"

// ListModels fetches the model IDs the key has access to.
func (p *Provider) ListModels(ctx context.Context) ([]string, error) {
	url := p.modelsURL
	if url == "" {
		url = modelsURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to fetch models: %s - %s", resp.Status, string(body))
	}

	var result struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	modelNames := make([]string, 0, len(result.Data))
	for _, m := range result.Data {
		modelNames = append(modelNames, m.ID)
	}
	sort.Strings(modelNames)
	return modelNames, nil
}
