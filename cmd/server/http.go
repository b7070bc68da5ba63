package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/JaimeStill/campus/internal/config"
	"github.com/JaimeStill/campus/pkg/lifecycle"
)

// httpServer binds the listen address eagerly so a taken port fails Start
// instead of surfacing later in a log line.
type httpServer struct {
	srv     *http.Server
	logger  *slog.Logger
	drain   time.Duration
	addr    string
	boundTo net.Addr
}

func newHTTPServer(cfg *config.ServerConfig, handler http.Handler, drain time.Duration, logger *slog.Logger) *httpServer {
	read := cfg.ReadTimeoutDuration()
	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       read,
		ReadHeaderTimeout: read,
		WriteTimeout:      cfg.WriteTimeoutDuration(),
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	return &httpServer{
		srv:    srv,
		logger: logger.With("system", "http"),
		drain:  drain,
		addr:   cfg.Addr(),
	}
}

// Start listens on the configured address and serves in the background.
// The server drains in-flight requests once lc begins shutting down.
func (s *httpServer) Start(lc *lifecycle.Coordinator) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.boundTo = ln.Addr()

	go s.serve(ln)
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.stop()
	})

	return nil
}

// Addr is the bound address, or nil before Start.
func (s *httpServer) Addr() net.Addr {
	return s.boundTo
}

func (s *httpServer) serve(ln net.Listener) {
	s.logger.Info("server listening", "addr", ln.Addr().String())
	err := s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return
	}
	s.logger.Error("server stopped unexpectedly", "error", err)
}

func (s *httpServer) stop() {
	s.logger.Info("draining connections", "timeout", s.drain)

	ctx, cancel := context.WithTimeout(context.Background(), s.drain)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("drain incomplete", "error", err)
		return
	}
	s.logger.Info("server stopped")
}
