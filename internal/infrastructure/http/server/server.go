// Package server contains the fasthttp server for health and metrics
package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Server serves /health and /metrics
type Server struct {
	server   *fasthttp.Server
	Router   *router.Router
	addr     string
	listener net.Listener
	logger   zerolog.Logger
}

// NewServer creates the health and metrics server listening on port
func NewServer(name, port string, logger zerolog.Logger) *Server {
	r := router.New()

	return &Server{
		server: &fasthttp.Server{
			Handler:               r.Handler,
			Name:                  name,
			ReadTimeout:           5 * time.Second,
			WriteTimeout:          10 * time.Second,
			IdleTimeout:           time.Minute,
			NoDefaultServerHeader: true,
		},
		Router: r,
		addr:   net.JoinHostPort("", port),
		logger: logger.With().Str("component", "http_server").Logger(),
	}
}

// RegisterMetrics registers Prometheus metrics endpoint
func (s *Server) RegisterMetrics() {
	s.Router.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))
}

// RegisterHealth registers the health endpoint
func (s *Server) RegisterHealth(handler fasthttp.RequestHandler) {
	s.Router.GET("/health", handler)
}

// Start binds the port and serves in the background. A busy port fails
// here rather than in the serving goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")

	go func() {
		if err := s.server.Serve(ln); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server stopped with error")
		}
	}()

	return nil
}

// Addr returns the bound address, or nil before Start
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown waits for open requests within ctx
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}
