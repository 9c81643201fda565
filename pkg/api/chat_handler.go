package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fanchat/fanchat/pkg/chat"
	"github.com/fanchat/fanchat/pkg/config"
	"github.com/fanchat/fanchat/pkg/provider"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// LLMFactory builds the model used for one chat request.
type LLMFactory func(ctx context.Context, cfg *config.AppConfig) (model.LLM, error)

// DefaultLLMFactory resolves the configured default provider and model.
func DefaultLLMFactory(ctx context.Context, cfg *config.AppConfig) (model.LLM, error) {
	return provider.GetProvider(ctx, cfg.General.DefaultProvider, cfg.General.DefaultModel, cfg)
}

// Handlers serves the widget API.
type Handlers struct {
	Sessions *chat.Manager
	NewLLM   LLMFactory
	// Config returns the live configuration; it may change between requests.
	Config func() *config.AppConfig
	// ConfigPath is the file the settings endpoints edit; empty means the
	// user config file.
	ConfigPath string
	Logger     *slog.Logger
}

func (h *Handlers) config() *config.AppConfig {
	if h.Config == nil {
		return config.Default()
	}
	return h.Config()
}

func (h *Handlers) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// ChatMessage is one turn of the conversation sent by the widget.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages  []ChatMessage `json:"messages"`
	SessionID string        `json:"sessionId,omitempty"`
}

// StreamFrame is the payload of one server-sent event.
type StreamFrame struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
	Done  bool   `json:"done,omitempty"`
}

// ErrorMessage converts a streaming failure into the text shown to the user.
func ErrorMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// SendSSE writes one data-only server-sent event and flushes it.
func SendSSE(w io.Writer, flusher http.Flusher, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal SSE data: %w", err)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	if flusher != nil {
		flusher.Flush()
	}
	return nil
}

// buildConversation maps widget messages to model contents. System turns
// from the client are dropped; the configured prompt is the only one.
func buildConversation(messages []ChatMessage) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range messages {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		switch msg.Role {
		case chat.RoleAssistant, "model":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		case chat.RoleUser:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return contents
}

// ChatHandler handles POST /api/chat with SSE streaming. The system prompt
// is prepended to the conversation and the stream is cut off after
// chat.max_duration.
func (h *Handlers) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	contents := buildConversation(req.Messages)
	if len(contents) == 0 || contents[len(contents)-1].Role != "user" {
		http.Error(w, "conversation must end with a user message", http.StatusBadRequest)
		return
	}

	cfg := h.config()
	ctx := r.Context()
	if cfg.Chat.MaxDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Chat.MaxDuration)
		defer cancel()
	}

	if req.SessionID != "" && h.Sessions != nil {
		last := req.Messages[len(req.Messages)-1]
		if _, err := h.Sessions.AddUserMessage(ctx, req.SessionID, last.Content); err != nil {
			writeError(w, err)
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	log := h.logger().With("session", req.SessionID)

	fail := func(err error) {
		log.Error("chat stream failed", "error", err)
		SendSSE(w, flusher, StreamFrame{Error: ErrorMessage(err)})
		if req.SessionID != "" && h.Sessions != nil {
			h.Sessions.ReportSubmitError(context.WithoutCancel(ctx), req.SessionID)
		}
	}

	newLLM := h.NewLLM
	if newLLM == nil {
		newLLM = DefaultLLMFactory
	}
	llm, err := newLLM(ctx, cfg)
	if err != nil {
		fail(fmt.Errorf("failed to initialize provider: %w", err))
		return
	}

	llmReq := provider.NewChatRequest(cfg.General.SystemPrompt, cfg.Chat.Temperature, contents)
	clientGone := false
	full, err := provider.StreamText(ctx, llm, llmReq, func(text string) error {
		if err := SendSSE(w, flusher, StreamFrame{Text: text}); err != nil {
			clientGone = true
			return err
		}
		return nil
	})
	if clientGone {
		log.Warn("client went away", "error", err)
		return
	}
	if err != nil {
		fail(err)
		return
	}

	if req.SessionID != "" && h.Sessions != nil && full != "" {
		if _, err := h.Sessions.AddAssistantMessage(context.WithoutCancel(ctx), req.SessionID, full); err != nil {
			log.Error("failed to record reply", "error", err)
		}
	}
	SendSSE(w, flusher, StreamFrame{Done: true})
}
