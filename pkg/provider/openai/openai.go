package openai

import (
	"context"
	"errors"
	"io"
	"iter"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// Provider implements model.LLM for OpenAI and OpenAI-compatible endpoints.
type Provider struct {
	client *openai.Client
	model  string
}

// NewProvider creates a new OpenAI provider.
func NewProvider(client *openai.Client, modelName string) *Provider {
	return &Provider{
		client: client,
		model:  modelName,
	}
}

// GenerateContent implements model.LLM. Streamed chunks are marked Partial
// and followed by a final response with TurnComplete set.
func (p *Provider) GenerateContent(ctx context.Context, req *model.LLMRequest, streaming bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		openAIReq := openai.ChatCompletionRequest{
			Model:    p.model,
			Messages: toOpenAIMessages(req),
		}
		if req.Config != nil && req.Config.Temperature != nil {
			openAIReq.Temperature = *req.Config.Temperature
		}

		if !streaming {
			resp, err := p.client.CreateChatCompletion(ctx, openAIReq)
			if err != nil {
				yield(nil, err)
				return
			}
			yield(toLLMResponse(resp), nil)
			return
		}

		openAIReq.Stream = true
		stream, err := p.client.CreateChatCompletionStream(ctx, openAIReq)
		if err != nil {
			yield(nil, err)
			return
		}
		defer stream.Close()

		var full strings.Builder
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				yield(&model.LLMResponse{
					Content:      genai.NewContentFromText(full.String(), genai.RoleModel),
					TurnComplete: true,
				}, nil)
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}

			chunk := toLLMResponseStream(resp)
			if chunk == nil {
				continue
			}
			full.WriteString(chunk.Content.Parts[0].Text)
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// Name implements model.LLM.
func (p *Provider) Name() string {
	return p.model
}

func toOpenAIMessages(req *model.LLMRequest) []openai.ChatCompletionMessage {
	var messages []openai.ChatCompletionMessage

	if req.Config != nil && req.Config.SystemInstruction != nil {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: joinText(req.Config.SystemInstruction),
		})
	}

	for _, c := range req.Contents {
		if c == nil {
			continue
		}
		role := openai.ChatMessageRoleUser
		switch c.Role {
		case "model":
			role = openai.ChatMessageRoleAssistant
		case "system":
			role = openai.ChatMessageRoleSystem
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: joinText(c),
		})
	}
	return messages
}

func joinText(c *genai.Content) string {
	var sb strings.Builder
	for _, part := range c.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func toLLMResponse(resp openai.ChatCompletionResponse) *model.LLMResponse {
	if len(resp.Choices) == 0 {
		return &model.LLMResponse{TurnComplete: true}
	}
	choice := resp.Choices[0]
	return &model.LLMResponse{
		Content:      genai.NewContentFromText(choice.Message.Content, genai.RoleModel),
		TurnComplete: true,
	}
}

// toLLMResponseStream returns nil for chunks without text, such as the role
// preamble and the final finish_reason chunk.
func toLLMResponseStream(resp openai.ChatCompletionStreamResponse) *model.LLMResponse {
	if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
		return nil
	}
	return &model.LLMResponse{
		Content: &genai.Content{
			Role:  "model",
			Parts: []*genai.Part{{Text: resp.Choices[0].Delta.Content}},
		},
		Partial: true,
	}
}
