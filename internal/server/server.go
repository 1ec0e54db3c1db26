// Package server provides the local development HTTP server. It serves the
// generated output directory read-only: directory requests resolve to
// index.html, listings are never produced, and a site-provided 404.html is
// used for missing paths when present.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegen/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
)

// Server serves a built site over HTTP.
type Server struct {
	cfg      *config.Config
	port     int
	recorder *metrics.PrometheusRecorder
	httpSrv  *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics exposes the recorder's registry on /metrics.
func WithMetrics(r *metrics.PrometheusRecorder) Option {
	return func(s *Server) { s.recorder = r }
}

// New creates a development server for the site's output directory.
func New(cfg *config.Config, port int, opts ...Option) *Server {
	s := &Server{cfg: cfg, port: port}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run binds the port and serves until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/", s.siteHandler())
	if s.recorder != nil {
		mux.Handle("/metrics", s.recorder.Handler())
	}

	addr := fmt.Sprintf(":%d", s.port)
	// Pre-bind so 'address already in use' surfaces before we log a URL.
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return siteerr.Wrap(err, siteerr.CategoryConfig, siteerr.SeverityFatal,
			fmt.Sprintf("bind port %d", s.port))
	}

	s.httpSrv = &http.Server{
		Handler:           chain(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving site", logfields.URL(fmt.Sprintf("http://localhost:%d", s.port)),
			logfields.Path(s.cfg.OutputDir))
		if serveErr := s.httpSrv.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server shutdown error", logfields.Error(err))
		}
		return nil
	case err := <-errCh:
		return siteerr.Wrap(err, siteerr.CategoryInternal, siteerr.SeverityFatal, "http server")
	}
}

// siteHandler serves files from the output directory. Only GET and HEAD are
// accepted; the built site is immutable from the browser's point of view.
func (s *Server) siteHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		target, ok := s.resolve(r.URL.Path)
		if !ok {
			s.serveNotFound(w, r)
			return
		}
		http.ServeFile(w, r, target)
	})
}

// resolve maps a request path to a file under the output root. Directory
// paths resolve to their index.html. The boolean is false when nothing
// servable exists.
func (s *Server) resolve(requestPath string) (string, bool) {
	clean := path.Clean("/" + requestPath)
	target := filepath.Join(s.cfg.OutputDir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))

	// Join+Clean keep the target inside the root, but verify anyway.
	root, err := filepath.Abs(s.cfg.OutputDir)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", false
	}
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", false
	}

	st, err := os.Stat(abs)
	if err != nil {
		return "", false
	}
	if st.IsDir() {
		index := filepath.Join(abs, "index.html")
		if fi, indexErr := os.Stat(index); indexErr == nil && !fi.IsDir() {
			return index, true
		}
		return "", false
	}
	return abs, true
}

func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request) {
	custom := filepath.Join(s.cfg.OutputDir, "404.html")
	if body, err := os.ReadFile(custom); err == nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		if r.Method != http.MethodHead {
			_, _ = w.Write(body)
		}
		return
	}
	http.NotFound(w, r)
}
