package fanchat

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fanchat/fanchat/pkg/api"
	"github.com/fanchat/fanchat/pkg/config"
	"github.com/fanchat/fanchat/pkg/logger"
	"github.com/fanchat/fanchat/pkg/mcp"
)

func printMCPUsage() {
	fmt.Println("usage: fanchat mcp {serve} ...")
	fmt.Println("")
	fmt.Println("commands:")
	fmt.Println("  serve    Start the MCP server (stdio transport)")
	fmt.Println("")
	fmt.Println("The serve command also accepts --config.")
}

func handleMCPCommand(args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		printMCPUsage()
		return nil
	}

	switch args[0] {
	case "serve":
		return handleMCPServe(args[1:])
	default:
		printMCPUsage()
		return fmt.Errorf("unknown mcp command: %s", args[0])
	}
}

func handleMCPServe(args []string) error {
	serveCmd := flag.NewFlagSet("mcp serve", flag.ExitOnError)
	configPath := serveCmd.String("config", "", "Path to config.yaml")
	if err := serveCmd.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	server := mcp.NewServer(mcp.ServerConfig{
		Config: func() *config.AppConfig { return cfg },
		NewLLM: api.DefaultLLMFactory,
		Logger: logger.With("mcp"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}
