package fanchat

import (
	"fmt"
	"os"

	"github.com/fanchat/fanchat/pkg/config"
	"github.com/fanchat/fanchat/pkg/logger"
)

// Execute is the main entry point for the CLI
func Execute() error {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		printUsage()
		if len(os.Args) < 2 {
			return fmt.Errorf("no command provided")
		}
		return nil
	}

	logger.Initialize()

	command := os.Args[1]
	switch command {
	case "serve":
		return handleServeCommand(os.Args[2:])
	case "chat":
		return handleChatCommand(os.Args[2:])
	case "ask":
		return handleAskCommand(os.Args[2:])
	case "layout":
		return handleLayoutCommand(os.Args[2:])
	case "preview":
		return handlePreviewCommand(os.Args[2:])
	case "replay":
		return handleReplayCommand(os.Args[2:])
	case "mcp":
		return handleMCPCommand(os.Args[2:])
	case "setup":
		return handleSetupCommand(os.Args[2:])
	case "config":
		return handleConfigCommand(os.Args[2:])
	case "version":
		printVersion()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	fmt.Println("usage: fanchat [-h] {serve,chat,ask,layout,preview,replay,mcp,setup,config,version} ...")
	fmt.Println("")
	fmt.Println("positional arguments:")
	fmt.Println("  {serve,chat,ask,layout,preview,replay,mcp,setup,config,version}")
	fmt.Println("                        FanChat CLI commands")
	fmt.Println("    serve               Serve the chat widget")
	fmt.Println("    chat                Chat in the terminal")
	fmt.Println("    ask                 Ask a single question")
	fmt.Println("    layout              Print the initial window layout for a viewport")
	fmt.Println("    preview             Drag and resize the window in the terminal")
	fmt.Println("    replay              Replay a recorded preview session")
	fmt.Println("    mcp                 Serve layout and chat tools over MCP")
	fmt.Println("    setup               Run interactive setup")
	fmt.Println("    config              Manage configuration")
	fmt.Println("    version             Print version information")
	fmt.Println("")
	fmt.Println("options:")
	fmt.Println("  -h, --help            show this help message and exit")
}

// loadConfig loads the file given with --config, or the user config file.
// Provider settings are exported to the environment.
func loadConfig(path string) (*config.AppConfig, string, error) {
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return nil, "", fmt.Errorf("failed to get config path: %w", err)
		}
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	config.SetupAllProviderEnv(cfg)
	return cfg, path, nil
}
