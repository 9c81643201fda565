package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"

	defaultMaxTokens = 4096
)

// Provider implements model.LLM for Anthropic.
type Provider struct {
	apiKey string
	model  string
	url       string
	modelsURL string
	client    *http.Client
}

// NewProvider creates a new Anthropic provider.
func NewProvider(apiKey, modelName string) *Provider {
	return &Provider{
		apiKey: apiKey,
		model:  modelName,
		url:    apiURL,
		client: &http.Client{},
	}
}

// Name implements model.LLM.
func (p *Provider) Name() string {
	return p.model
}

// GenerateContent implements model.LLM.
func (p *Provider) GenerateContent(ctx context.Context, req *model.LLMRequest, streaming bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		reqBody, err := json.Marshal(p.toAnthropicRequest(req, streaming))
		if err != nil {
			yield(nil, err)
			return
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST", p.url, bytes.NewBuffer(reqBody))
		if err != nil {
			yield(nil, err)
			return
		}

		httpReq.Header.Set("x-api-key", p.apiKey)
		httpReq.Header.Set("anthropic-version", apiVersion)
		httpReq.Header.Set("content-type", "application/json")

		resp, err := p.client.Do(httpReq)
		if err != nil {
			yield(nil, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			yield(nil, fmt.Errorf("anthropic api error: %s - %s", resp.Status, string(body)))
			return
		}

		if streaming {
			p.handleStream(resp.Body, yield)
		} else {
			p.handleResponse(resp.Body, yield)
		}
	}
}

func (p *Provider) handleResponse(body io.Reader, yield func(*model.LLMResponse, error) bool) {
	var resp Response
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		yield(nil, err)
		return
	}

	var sb strings.Builder
	for _, content := range resp.Content {
		if content.Type == "text" {
			sb.WriteString(content.Text)
		}
	}

	yield(&model.LLMResponse{
		Content:      genai.NewContentFromText(sb.String(), genai.RoleModel),
		TurnComplete: true,
	}, nil)
}

func (p *Provider) handleStream(body io.Reader, yield func(*model.LLMResponse, error) bool) {
	scanner := bufio.NewScanner(body)
	var full strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var event StreamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			continue
		}

		switch event.Type {
		case "content_block_delta":
			if event.Delta == nil || event.Delta.Type != "text_delta" || event.Delta.Text == "" {
				continue
			}
			full.WriteString(event.Delta.Text)
			chunk := &model.LLMResponse{
				Content: &genai.Content{
					Role:  "model",
					Parts: []*genai.Part{{Text: event.Delta.Text}},
				},
				Partial: true,
			}
			if !yield(chunk, nil) {
				return
			}

		case "error":
			msg := "stream error"
			if event.Error != nil {
				msg = event.Error.Message
			}
			yield(nil, fmt.Errorf("anthropic api error: %s", msg))
			return

		case "message_stop":
			yield(&model.LLMResponse{
				Content:      genai.NewContentFromText(full.String(), genai.RoleModel),
				TurnComplete: true,
			}, nil)
			return
		}
	}

	if err := scanner.Err(); err != nil {
		yield(nil, err)
	}
}

func (p *Provider) toAnthropicRequest(req *model.LLMRequest, streaming bool) *Request {
	var messages []Message
	var system []string

	if req.Config != nil && req.Config.SystemInstruction != nil {
		system = append(system, joinText(req.Config.SystemInstruction))
	}

	for _, c := range req.Contents {
		if c == nil {
			continue
		}
		text := joinText(c)
		switch c.Role {
		case "system":
			// System turns go to the top-level field.
			system = append(system, text)
			continue
		case "model":
			messages = append(messages, Message{Role: "assistant", Content: []Content{{Type: "text", Text: text}}})
		default:
			messages = append(messages, Message{Role: "user", Content: []Content{{Type: "text", Text: text}}})
		}
	}

	r := &Request{
		Model:     p.model,
		Messages:  messages,
		System:    strings.Join(system, "\n\n"),
		MaxTokens: defaultMaxTokens,
		Stream:    streaming,
	}
	if req.Config != nil && req.Config.Temperature != nil {
		r.Temperature = req.Config.Temperature
	}
	return r
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

// Structs for Anthropic API

type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	System      string    `json:"system,omitempty"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream,omitempty"`
	Temperature *float32  `json:"temperature,omitempty"`
}

type Message struct {
	Role    string    `json:"role"`
	Content []Content `json:"content"`
}

type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type Response struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Role    string    `json:"role"`
	Content []Content `json:"content"`
}

type StreamEvent struct {
	Type  string       `json:"type"`
	Delta *StreamDelta `json:"delta,omitempty"`
	Error *StreamError `json:"error,omitempty"`
}

type StreamDelta struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type StreamError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
