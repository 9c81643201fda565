package fanchat

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fanchat/fanchat/pkg/chat"
	"github.com/fanchat/fanchat/pkg/launcher"
	"github.com/fanchat/fanchat/pkg/logger"
	"github.com/fanchat/fanchat/pkg/provider"
	"github.com/fanchat/fanchat/pkg/ui"
	"golang.org/x/term"
)

type chatFlags struct {
	configPath *string
	provider   *string
	model      *string
}

func addChatFlags(fs *flag.FlagSet) chatFlags {
	return chatFlags{
		configPath: fs.String("config", "", "Path to config.yaml"),
		provider:   fs.String("provider", "", "Provider to use (overrides config)"),
		model:      fs.String("model", "", "Model to use (overrides config)"),
	}
}

// consoleConfig resolves the provider and builds an in-memory session store.
func (f chatFlags) consoleConfig(ctx context.Context, out io.Writer) (*launcher.ConsoleConfig, error) {
	cfg, _, err := loadConfig(*f.configPath)
	if err != nil {
		return nil, err
	}
	if *f.provider != "" {
		cfg.General.DefaultProvider = *f.provider
		if *f.model == "" {
			cfg.General.DefaultModel = ""
		}
	}
	if *f.model != "" {
		cfg.General.DefaultModel = *f.model
	}

	llm, err := provider.GetProvider(ctx, cfg.General.DefaultProvider, cfg.General.DefaultModel, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider: %w", err)
	}

	return &launcher.ConsoleConfig{
		Config:   cfg,
		LLM:      llm,
		Sessions: chat.NewManager(nil, chat.WithLogger(logger.With("sessions"))),
		In:       os.Stdin,
		Out:      out,
	}, nil
}

func handleChatCommand(args []string) error {
	chatCmd := flag.NewFlagSet("chat", flag.ExitOnError)
	flags := addChatFlags(chatCmd)
	if err := chatCmd.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cc, err := flags.consoleConfig(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer cc.Sessions.Close()

	fmt.Printf("✓ Provider initialized: %s (model: %s)\n",
		provider.GetProviderDisplayName(cc.Config.General.DefaultProvider), cc.LLM.Name())
	return launcher.RunConsole(ctx, cc)
}

func handleAskCommand(args []string) error {
	askCmd := flag.NewFlagSet("ask", flag.ExitOnError)
	flags := addChatFlags(askCmd)
	raw := askCmd.Bool("raw", false, "Stream plain text instead of rendered markdown")
	if err := askCmd.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	question := strings.TrimSpace(strings.Join(askCmd.Args(), " "))
	if question == "" {
		fmt.Println("usage: fanchat ask [--config PATH] [--provider NAME] [--model NAME] [--raw] QUESTION")
		return fmt.Errorf("no question provided")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interactive := !*raw && term.IsTerminal(int(os.Stdout.Fd()))
	out := io.Writer(os.Stdout)
	if interactive {
		out = io.Discard
	}

	cc, err := flags.consoleConfig(ctx, out)
	if err != nil {
		return err
	}
	defer cc.Sessions.Close()
	s := cc.Sessions.Create()

	if !interactive {
		_, err := launcher.Ask(ctx, cc, s.ID, question)
		fmt.Println()
		return err
	}

	var reply string
	err = ui.WithSpinner("Consultando a torcida...", cancel, func() error {
		var askErr error
		reply, askErr = launcher.Ask(ctx, cc, s.ID, question)
		return askErr
	})
	if err != nil {
		fmt.Print(ui.RenderErrorBox(chat.SubmitErrorMessage, err.Error()))
		return err
	}

	fmt.Print(ui.RenderMarkdown(reply, ui.TerminalWidth()-4))
	if got, err := cc.Sessions.Get(ctx, s.ID); err == nil && got.Error != "" {
		fmt.Print(ui.RenderErrorBox(got.Error, ""))
	}
	return nil
}
