// Package mcp exposes the window placement rules and the fan assistant as
// Model Context Protocol tools, so other agents can lay out the widget or ask
// questions without the browser.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/fanchat/fanchat/pkg/chat"
	"github.com/fanchat/fanchat/pkg/config"
	"github.com/fanchat/fanchat/pkg/geometry"
	"github.com/fanchat/fanchat/pkg/provider"
)

const (
	ServerName    = "fanchat"
	ServerVersion = "0.3.0"
)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Config returns the live configuration.
	Config func() *config.AppConfig
	// NewLLM builds the model for ask_question. Nil disables the tool.
	NewLLM func(ctx context.Context, cfg *config.AppConfig) (model.LLM, error)
	// Sessions, when set, lets ask_question continue a widget conversation.
	Sessions *chat.Manager
	Logger   *slog.Logger
}

// Server is the MCP server for fanchat.
type Server struct {
	mcpServer *mcpsdk.Server
	cfg       ServerConfig
	logger    *slog.Logger
}

// NewServer creates a server with every tool registered.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Config == nil {
		def := config.Default()
		cfg.Config = func() *config.AppConfig { return def }
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{cfg: cfg, logger: logger}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves on stdio, blocking until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Connect serves a single session on t.
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}

// Handler serves the tools over streamable HTTP.
func (s *Server) Handler() http.Handler {
	return mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return s.mcpServer
	}, nil)
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "initial_layout",
		Description: "Compute where the chat window opens for a viewport. Touch devices and narrow viewports get the mobile placement.",
	}, s.handleInitialLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "constrain_layout",
		Description: "Fit an existing window layout into a new viewport. The size is clamped first, then the position.",
	}, s.handleConstrainLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_faqs",
		Description: "List the suggested questions shown in the FAQ panel, grouped by category.",
	}, s.handleListFAQs)

	if s.cfg.NewLLM != nil {
		mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
			Name:        "ask_question",
			Description: "Ask the fan assistant a question and return the full reply. Pass session_id to continue a widget conversation.",
		}, s.handleAskQuestion)
	}
}

// InitialLayoutInput is the input for the initial_layout tool.
type InitialLayoutInput struct {
	Width  float64 `json:"width" jsonschema:"Viewport width in pixels"`
	Height float64 `json:"height" jsonschema:"Viewport height in pixels"`
	Touch  bool    `json:"touch,omitempty" jsonschema:"Whether the device has a touch pointer"`
}

// LayoutOutput is a window layout with its device class.
type LayoutOutput struct {
	Position geometry.Position `json:"position"`
	Size     geometry.Size     `json:"size"`
	Device   string            `json:"device"`
}

func (s *Server) handleInitialLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args InitialLayoutInput) (*mcpsdk.CallToolResult, LayoutOutput, error) {
	vp := geometry.Viewport{Width: args.Width, Height: args.Height}
	placement := s.cfg.Config().Layout.Placement
	layout, ok := placement.InitialLayout(vp, args.Touch)
	if !ok {
		return nil, LayoutOutput{}, fmt.Errorf("viewport %gx%g has not been measured", args.Width, args.Height)
	}
	layout.Position = geometry.ConstrainPosition(layout.Position, layout.Size, vp)
	return nil, LayoutOutput{
		Position: layout.Position,
		Size:     layout.Size,
		Device:   placement.Classify(vp, args.Touch).String(),
	}, nil
}

// ConstrainLayoutInput is the input for the constrain_layout tool.
type ConstrainLayoutInput struct {
	Width    float64           `json:"width" jsonschema:"Viewport width in pixels"`
	Height   float64           `json:"height" jsonschema:"Viewport height in pixels"`
	Position geometry.Position `json:"position" jsonschema:"Current window position"`
	Size     geometry.Size     `json:"size" jsonschema:"Current window size"`
}

func (s *Server) handleConstrainLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args ConstrainLayoutInput) (*mcpsdk.CallToolResult, LayoutOutput, error) {
	vp := geometry.Viewport{Width: args.Width, Height: args.Height}
	if !vp.Measured() {
		return nil, LayoutOutput{}, fmt.Errorf("viewport %gx%g has not been measured", args.Width, args.Height)
	}
	placement := s.cfg.Config().Layout.Placement
	layout := geometry.Reconcile(geometry.Layout{Position: args.Position, Size: args.Size}, placement.MinSize, vp)
	return nil, LayoutOutput{
		Position: layout.Position,
		Size:     layout.Size,
		Device:   placement.Classify(vp, false).String(),
	}, nil
}

// ListFAQsInput is the input for the list_faqs tool.
type ListFAQsInput struct {
	Category string `json:"category,omitempty" jsonschema:"Only return the category with this title"`
}

// ListFAQsOutput is the output of the list_faqs tool.
type ListFAQsOutput struct {
	Categories []chat.FAQCategory `json:"categories"`
}

func (s *Server) handleListFAQs(_ context.Context, _ *mcpsdk.CallToolRequest, args ListFAQsInput) (*mcpsdk.CallToolResult, ListFAQsOutput, error) {
	all := chat.FAQs()
	if args.Category == "" {
		return nil, ListFAQsOutput{Categories: all}, nil
	}
	for _, c := range all {
		if strings.EqualFold(c.Title, args.Category) {
			return nil, ListFAQsOutput{Categories: []chat.FAQCategory{c}}, nil
		}
	}
	return nil, ListFAQsOutput{}, fmt.Errorf("unknown FAQ category %q", args.Category)
}

// AskQuestionInput is the input for the ask_question tool.
type AskQuestionInput struct {
	Question  string `json:"question" jsonschema:"The question for the assistant"`
	SessionID string `json:"session_id,omitempty" jsonschema:"Widget session to continue"`
}

// AskQuestionOutput is the output of the ask_question tool.
type AskQuestionOutput struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id,omitempty"`
}

func (s *Server) handleAskQuestion(ctx context.Context, _ *mcpsdk.CallToolRequest, args AskQuestionInput) (*mcpsdk.CallToolResult, AskQuestionOutput, error) {
	question := strings.TrimSpace(args.Question)
	if question == "" {
		return nil, AskQuestionOutput{}, chat.ErrEmptyMessage
	}
	if args.SessionID != "" && s.cfg.Sessions == nil {
		return nil, AskQuestionOutput{}, errors.New("sessions are not available on this server")
	}

	cfg := s.cfg.Config()
	contents := []*genai.Content{genai.NewContentFromText(question, genai.RoleUser)}
	if args.SessionID != "" {
		if _, err := s.cfg.Sessions.AddUserMessage(ctx, args.SessionID, question); err != nil {
			return nil, AskQuestionOutput{}, err
		}
		session, err := s.cfg.Sessions.Get(ctx, args.SessionID)
		if err != nil {
			return nil, AskQuestionOutput{}, err
		}
		contents = contents[:0]
		for _, m := range session.Messages {
			var role genai.Role = genai.RoleUser
			if m.Role == chat.RoleAssistant {
				role = genai.RoleModel
			}
			contents = append(contents, genai.NewContentFromText(m.Content, role))
		}
	}

	if cfg.Chat.MaxDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Chat.MaxDuration)
		defer cancel()
	}

	llm, err := s.cfg.NewLLM(ctx, cfg)
	if err != nil {
		return nil, AskQuestionOutput{}, fmt.Errorf("provider unavailable: %w", err)
	}

	req := provider.NewChatRequest(cfg.General.SystemPrompt, cfg.Chat.Temperature, contents)
	reply, err := provider.StreamText(ctx, llm, req, nil)
	if err != nil {
		if args.SessionID != "" {
			_ = s.cfg.Sessions.ReportSubmitError(context.WithoutCancel(ctx), args.SessionID)
		}
		s.logger.Warn("ask_question failed", "error", err)
		return nil, AskQuestionOutput{}, err
	}
	if args.SessionID != "" {
		if _, err := s.cfg.Sessions.AddAssistantMessage(ctx, args.SessionID, reply); err != nil {
			return nil, AskQuestionOutput{}, err
		}
	}
	return nil, AskQuestionOutput{Reply: reply, SessionID: args.SessionID}, nil
}
