package launcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fanchat/fanchat/pkg/api"
	"github.com/fanchat/fanchat/pkg/chat"
	"github.com/fanchat/fanchat/pkg/config"
	"github.com/fanchat/fanchat/pkg/mcp"
	"github.com/fanchat/fanchat/web"
	"github.com/gorilla/mux"
)

const shutdownTimeout = 10 * time.Second

// ServerConfig configures the widget server.
type ServerConfig struct {
	// ConfigPath is watched for changes; empty disables hot reload.
	ConfigPath string
	Config     *config.AppConfig
	// NewLLM overrides provider resolution, mainly for tests.
	NewLLM api.LLMFactory
	Logger *slog.Logger
	// Assets overrides the embedded and on-disk web assets.
	Assets fs.FS
}

// Server hosts the chat widget, its API and the window socket.
type Server struct {
	cfg      atomic.Pointer[config.AppConfig]
	sessions *chat.Manager
	janitor  *chat.Janitor
	watcher  *config.Watcher
	router   *mux.Router
	logger   *slog.Logger
}

// NewServer opens the transcript store, schedules session cleanup and
// registers every route. Call Close to release them.
func NewServer(sc ServerConfig) (*Server, error) {
	if sc.Config == nil {
		sc.Config = config.Default()
	}
	if sc.Logger == nil {
		sc.Logger = slog.Default()
	}

	s := &Server{logger: sc.Logger}
	s.cfg.Store(sc.Config)

	var store chat.Store
	if path := sc.Config.Storage.Path; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
		sqlite, err := chat.OpenSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		store = sqlite
		s.logger.Info("transcripts stored in sqlite", "path", path)
	}
	s.sessions = chat.NewManager(store, chat.WithLogger(s.logger.With("component", "sessions")))

	janitor, err := chat.NewJanitor(s.sessions, sc.Config.Sessions.CleanupSchedule, sc.Config.Sessions.IdleTimeout, s.logger)
	if err != nil {
		s.sessions.Close()
		return nil, err
	}
	s.janitor = janitor

	if sc.ConfigPath != "" {
		w, err := config.Watch(sc.ConfigPath, s.logger, s.reload)
		if err != nil {
			s.logger.Warn("config hot reload disabled", "error", err)
		} else {
			s.watcher = w
		}
	}

	newLLM := sc.NewLLM
	if newLLM == nil {
		newLLM = api.DefaultLLMFactory
	}

	s.router = mux.NewRouter()
	tools := mcp.NewServer(mcp.ServerConfig{
		Config:   s.Config,
		NewLLM:   newLLM,
		Sessions: s.sessions,
		Logger:   s.logger.With("component", "mcp"),
	})
	s.router.PathPrefix("/mcp").Handler(tools.Handler())
	api.RegisterRoutes(s.router, &api.Handlers{
		Sessions:   s.sessions,
		NewLLM:     newLLM,
		Config:     s.Config,
		ConfigPath: sc.ConfigPath,
		Logger:     s.logger.With("component", "api"),
	})

	assets := sc.Assets
	if assets == nil {
		assets = findAssets(s.logger)
	}
	if assets != nil {
		s.router.PathPrefix("/").Handler(spaFileServer(http.FS(assets)))
	} else {
		s.logger.Warn("no web assets found, serving API only")
		s.router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/" || r.URL.Path == "/index.html" {
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, missingAssetsPage)
				return
			}
			http.NotFound(w, r)
		})
	}

	return s, nil
}

// Config returns the live configuration.
func (s *Server) Config() *config.AppConfig {
	return s.cfg.Load()
}

// reload swaps in a changed config. Server address, storage and cleanup
// schedule only take effect after a restart.
func (s *Server) reload(cfg *config.AppConfig) {
	config.SetupAllProviderEnv(cfg)
	s.cfg.Store(cfg)
	s.logger.Info("config reloaded",
		"provider", cfg.General.DefaultProvider,
		"model", cfg.General.DefaultModel)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the session manager.
func (s *Server) Sessions() *chat.Manager {
	return s.sessions
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.Config()
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.janitor.Start()
	defer s.janitor.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	fmt.Printf("\n")
	fmt.Printf("  ⚽ FanChat is running!\n")
	fmt.Printf("\n")
	fmt.Printf("  ➜  Local:   http://%s\n", cfg.Server.Addr())
	fmt.Printf("  ➜  MCP:     http://%s/mcp\n", cfg.Server.Addr())
	fmt.Printf("\n")
	fmt.Printf("  Press Ctrl+C to stop\n")
	fmt.Printf("\n")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close stops the config watcher and closes the transcript store.
func (s *Server) Close() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	return s.sessions.Close()
}

// findAssets prefers a built web/dist on disk and falls back to the copy
// embedded in the binary.
func findAssets(logger *slog.Logger) fs.FS {
	if dir := findWebDir(); dir != "" {
		logger.Info("serving web assets from disk", "dir", dir)
		return os.DirFS(dir)
	}
	return web.GetDistFS()
}

// findWebDir looks for the web/dist directory
func findWebDir() string {
	paths := []string{
		"web/dist",
		"../web/dist",
		"../../web/dist",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, "web/dist"),
			filepath.Join(exeDir, "../web/dist"),
		)
	}

	for _, path := range paths {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if _, err := os.Stat(filepath.Join(path, "index.html")); err == nil {
				absPath, _ := filepath.Abs(path)
				return absPath
			}
		}
	}

	return ""
}

// spaFileServer returns a handler that serves SPA files with fallback to index.html
func spaFileServer(fs http.FileSystem) http.Handler {
	fileServer := http.FileServer(fs)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, err := fs.Open(r.URL.Path)
		if err != nil {
			// File doesn't exist, serve index.html for SPA routing
			r.URL.Path = "/"
		} else {
			f.Close()
		}

		fileServer.ServeHTTP(w, r)
	})
}

const missingAssetsPage = `<!DOCTYPE html>
<html>
<head><title>FanChat</title></head>
<body style="font-family: sans-serif; padding: 40px; background: #0d0d0d; color: white;">
<h1>⚽ FanChat</h1>
<p>Web assets not found. The API is available under <code>/api</code> and the
window socket under <code>/ws/window</code>.</p>
</body>
</html>`
