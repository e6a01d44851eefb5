// Package server implements the local static-content server: request
// resolution over a directory tree, directory listings, SPA fallback,
// and a live-reload channel fed by a filesystem watch.
package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/spf13/afero"

	"github.com/lantern-dev/lantern/internal/config"
	"github.com/lantern-dev/lantern/internal/tlsgen"
)

// Server owns the immutable configuration, the served filesystem and
// the live-reload hub. Constructed once and shared by reference with
// every request.
type Server struct {
	cfg    *config.Config
	fs     afero.Fs
	logger *slog.Logger
	hub    *hub
}

func New(cfg *config.Config, fsys afero.Fs, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		fs:     fsys,
		logger: logger,
	}
	if cfg.LiveReload {
		s.hub = newHub(logger)
	}
	return s
}

// Handler builds the HTTP surface: the live-reload upgrade endpoint
// (when enabled) and the gzip-wrapped file handler for everything else.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.hub != nil {
		mux.HandleFunc(reloadEndpoint, s.hub.handleUpgrade)
	}
	mux.HandleFunc("/", gzipHandler(s.handleRequest))
	return mux
}

// Run binds the listener, starts the watcher and hub when live reload
// is enabled, and serves until the context is cancelled. Bind and TLS
// failures are returned immediately; there is no port fallback.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.cfg.Addr(), err)
	}

	if s.cfg.Protocol == config.ProtocolHTTPS {
		cert, err := tlsgen.LocalhostCert()
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("generate TLS certificate: %w", err)
		}
		ln = tls.NewListener(ln, &tls.Config{Certificates: []tls.Certificate{cert}})
	}

	if s.hub != nil {
		go s.hub.run(ctx)

		w, err := newWatcher(s.cfg.Root, s.cfg.Debounce, s.hub.notify, s.logger)
		if err != nil {
			// Serving still works without reload pushes.
			s.logger.Warn("File watch unavailable, live reload disabled", "error", err)
		} else {
			defer w.Close()
		}
	}

	httpServer := &http.Server{Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("Shutdown error", "error", err)
		}
	}()

	s.logger.Info("Serving", "url", s.cfg.URL(), "root", s.cfg.Root,
		"livereload", s.cfg.LiveReload, "cors", s.cfg.CORS, "spa", s.cfg.SPA)

	if err := httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
