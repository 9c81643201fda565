package provider

import (
	"context"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// StreamText runs a streaming completion and calls onChunk for every piece
// of text as it arrives. It returns the full reply.
//
// Providers end a stream with an aggregate response repeating the partial
// chunks; it is only used when no partial text was seen.
func StreamText(ctx context.Context, llm model.LLM, req *model.LLMRequest, onChunk func(string) error) (string, error) {
	var full strings.Builder
	sawPartial := false

	for resp, err := range llm.GenerateContent(ctx, req, true) {
		if err != nil {
			return full.String(), err
		}
		if resp == nil || resp.Content == nil {
			continue
		}
		if !resp.Partial && sawPartial {
			continue
		}
		sawPartial = sawPartial || resp.Partial

		for _, part := range resp.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			full.WriteString(part.Text)
			if onChunk != nil {
				if err := onChunk(part.Text); err != nil {
					return full.String(), err
				}
			}
		}
	}
	return full.String(), ctx.Err()
}

// NewChatRequest builds a request for a conversation with a system prompt.
// A temperature of zero leaves the provider default.
func NewChatRequest(systemPrompt string, temperature float32, contents []*genai.Content) *model.LLMRequest {
	req := &model.LLMRequest{
		Contents: contents,
		Config:   &genai.GenerateContentConfig{},
	}
	if systemPrompt != "" {
		req.Config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	if temperature > 0 {
		req.Config.Temperature = genai.Ptr(temperature)
	}
	return req
}
