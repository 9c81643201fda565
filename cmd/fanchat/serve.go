package fanchat

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fanchat/fanchat/pkg/launcher"
	"github.com/fanchat/fanchat/pkg/logger"
)

func handleServeCommand(args []string) error {
	serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
	serveCmd.Usage = printServeUsage
	configPath := serveCmd.String("config", "", "Path to config.yaml")
	host := serveCmd.String("host", "", "Address to listen on (overrides config)")
	port := serveCmd.Int("port", 0, "Port to listen on (overrides config)")
	storage := serveCmd.String("db", "", "SQLite transcript database (overrides config)")

	if err := serveCmd.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *storage != "" {
		cfg.Storage.Path = *storage
	}

	server, err := launcher.NewServer(launcher.ServerConfig{
		ConfigPath: path,
		Config:     cfg,
		Logger:     logger.With("server"),
	})
	if err != nil {
		return err
	}
	defer server.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx)
}

func printServeUsage() {
	fmt.Println("usage: fanchat serve [-h] [--config PATH] [--host HOST] [--port PORT] [--db PATH]")
	fmt.Println("")
	fmt.Println("Serve the chat widget, its API and the window socket")
	fmt.Println("")
	fmt.Println("options:")
	fmt.Println("  -h, --help            show this help message and exit")
	fmt.Println("  --config PATH         Path to config.yaml")
	fmt.Println("  --host HOST           Address to listen on (default: 127.0.0.1)")
	fmt.Println("  --port PORT           Port to listen on (default: 9393)")
	fmt.Println("  --db PATH             SQLite database for transcripts")
}
