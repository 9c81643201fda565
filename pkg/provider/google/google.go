package google

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

// Provider implements the model.LLM interface for Google GenAI.
type Provider struct {
	model model.LLM
}

func (p *Provider) Name() string {
	return p.model.Name()
}

// GenerateContent forwards to Gemini. The chat widget only sends text, so
// any response schema left on the request is cleared.
func (p *Provider) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	if req.Config != nil {
		req.Config.ResponseMIMEType = ""
		req.Config.ResponseSchema = nil
	}
	return p.model.GenerateContent(ctx, req, stream)
}

// NewProvider creates a new Google GenAI provider.
func NewProvider(ctx context.Context, modelName string, apiKey string) (model.LLM, error) {
	m, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini model: %w", err)
	}

	return &Provider{model: m}, nil
}
