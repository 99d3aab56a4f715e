package main

import (
	"context"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/m-mizutani/botconsole"
	"github.com/m-mizutani/botconsole/cmd/botconsole/frontend"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

type serverOption func(*server)

func withAddr(addr string) serverOption {
	return func(s *server) {
		s.addr = addr
	}
}

func withConsole(console *botconsole.Console) serverOption {
	return func(s *server) {
		s.console = console
	}
}

func withNoBrowser() serverOption {
	return func(s *server) {
		s.noBrowser = true
	}
}

func withLogger(logger *slog.Logger) serverOption {
	return func(s *server) {
		s.logger = logger
	}
}

// server exposes a single console to the browser. The console lives as long
// as the process, so reloading the page keeps the session.
type server struct {
	addr      string
	console   *botconsole.Console
	noBrowser bool
	logger    *slog.Logger
	mux       *http.ServeMux
}

func newServer(opts ...serverOption) *server {
	s := &server{
		addr:   "127.0.0.1:18901",
		logger: slog.Default(),
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *server) setupRoutes() {
	// API routes
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("PUT /api/form", s.handleUpdateField)
	s.mux.HandleFunc("POST /api/form/clear", s.handleClear)
	s.mux.HandleFunc("POST /api/plan", s.handleGeneratePlan)
	s.mux.HandleFunc("PUT /api/plan/view", s.handleViewMode)
	s.mux.HandleFunc("PUT /api/plan/confirm", s.handleConfirm)
	s.mux.HandleFunc("POST /api/execution/start", s.handleStart)
	s.mux.HandleFunc("POST /api/execution/pause", s.handlePause)
	s.mux.HandleFunc("POST /api/execution/stop", s.handleStop)

	// Static files (SPA fallback)
	s.mux.Handle("/", s.spaHandler())
}

func (s *server) spaHandler() http.Handler {
	distFS, err := fs.Sub(frontend.StaticFiles, "dist")
	if err != nil {
		s.logger.Error("failed to create sub filesystem for dist", slog.Any("error", err))
		return http.NotFoundHandler()
	}

	fileServer := http.FileServer(http.FS(distFS))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" {
			path = "/index.html"
		}

		f, err := distFS.Open(strings.TrimPrefix(path, "/"))
		if err == nil {
			_ = f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}

		// SPA fallback: serve index.html for all other routes
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}

// handler attaches the server logger to every request context.
func (s *server) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := s.logger.With(slog.String("method", r.Method), slog.String("path", r.URL.Path))
		s.mux.ServeHTTP(w, r.WithContext(ctxlog.With(r.Context(), logger)))
	})
}

func (s *server) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return goerr.Wrap(err, "failed to listen", goerr.V("addr", s.addr))
	}

	addr := listener.Addr().String()
	url := "http://" + addr
	s.logger.Info("starting robot task console", slog.String("addr", addr), slog.String("url", url))

	if !s.noBrowser {
		openBrowser(s.logger, url)
	}

	srv := &http.Server{
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
		return goerr.Wrap(err, "server error")
	}

	return nil
}

func openBrowser(logger *slog.Logger, url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	if err := cmd.Start(); err != nil {
		logger.Warn("failed to open browser", slog.Any("error", err))
	}
}
