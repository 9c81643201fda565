package launcher

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fanchat/fanchat/pkg/chat"
	"github.com/fanchat/fanchat/pkg/config"
	"github.com/fanchat/fanchat/pkg/provider"
	"github.com/fanchat/fanchat/pkg/ui"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// ConsoleConfig contains configuration for the console launcher
type ConsoleConfig struct {
	Config   *config.AppConfig
	LLM      model.LLM
	Sessions *chat.Manager
	In       io.Reader
	Out      io.Writer
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

const consoleHelp = `Commands:
  /faq      list suggested questions
  /ask N    ask suggested question N
  /reset    clear the conversation
  /quit     leave the chat`

// contents converts a transcript into model contents.
func contents(messages []chat.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		var role genai.Role = genai.RoleUser
		if m.Role == chat.RoleAssistant {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(m.Content, role))
	}
	return out
}

// numberedQuestions flattens the FAQ catalogue in display order.
func numberedQuestions() []string {
	var questions []string
	for _, cat := range chat.FAQs() {
		questions = append(questions, cat.Questions...)
	}
	return questions
}

// Ask sends one user message in the session and streams the reply to out.
func Ask(ctx context.Context, cfg *ConsoleConfig, sessionID, question string) (string, error) {
	if _, err := cfg.Sessions.AddUserMessage(ctx, sessionID, question); err != nil {
		return "", err
	}
	s, err := cfg.Sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if cfg.Config.Chat.MaxDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Config.Chat.MaxDuration)
		defer cancel()
	}

	req := provider.NewChatRequest(cfg.Config.General.SystemPrompt, cfg.Config.Chat.Temperature, contents(s.Messages))
	reply, err := provider.StreamText(ctx, cfg.LLM, req, func(text string) error {
		_, err := fmt.Fprint(cfg.Out, text)
		return err
	})
	if err != nil {
		cfg.Sessions.ReportSubmitError(context.WithoutCancel(ctx), sessionID)
		return reply, err
	}
	if _, err := cfg.Sessions.AddAssistantMessage(ctx, sessionID, reply); err != nil {
		return reply, err
	}
	return reply, nil
}

// RunConsole runs an interactive chat on the terminal
func RunConsole(ctx context.Context, cfg *ConsoleConfig) error {
	s := cfg.Sessions.Create()
	reader := bufio.NewReader(cfg.In)

	fmt.Fprintf(cfg.Out, "%sFanChat - digite /help para ver os comandos%s\n", colorGray, colorReset)

	for {
		fmt.Fprintf(cfg.Out, "\n%sYou:%s ", colorYellow, colorReset)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				fmt.Fprintln(cfg.Out)
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/help":
			fmt.Fprintln(cfg.Out, consoleHelp)
			continue
		case line == "/reset":
			if _, err := cfg.Sessions.Reset(ctx, s.ID); err != nil {
				return err
			}
			fmt.Fprintf(cfg.Out, "%sconversa reiniciada%s\n", colorGray, colorReset)
			continue
		case line == "/faq":
			for i, q := range numberedQuestions() {
				fmt.Fprintf(cfg.Out, "%2d. %s\n", i+1, q)
			}
			continue
		case strings.HasPrefix(line, "/ask "):
			var n int
			questions := numberedQuestions()
			if _, err := fmt.Sscanf(line, "/ask %d", &n); err != nil || n < 1 || n > len(questions) {
				fmt.Fprintf(cfg.Out, "escolha um número entre 1 e %d\n", len(questions))
				continue
			}
			q, err := cfg.Sessions.SelectQuestion(ctx, s.ID, questions[n-1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cfg.Out, "%s%s%s\n", colorGray, q, colorReset)
			line = q
		}

		fmt.Fprintf(cfg.Out, "\n%sAI:%s ", colorGreen, colorReset)
		if _, err := Ask(ctx, cfg, s.ID, line); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintln(cfg.Out)
			fmt.Fprint(cfg.Out, ui.RenderErrorBox(chat.SubmitErrorMessage, err.Error()))
			continue
		}
		fmt.Fprintln(cfg.Out)

		if got, err := cfg.Sessions.Get(ctx, s.ID); err == nil && got.Error != "" {
			fmt.Fprint(cfg.Out, ui.RenderErrorBox(got.Error, ""))
		}
	}
}
