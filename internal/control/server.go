package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papapumpkin/qadash/internal/logging"
	"github.com/papapumpkin/qadash/internal/metrics"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// Server serves dashboard intents as MCP tools over SSE and exposes
// Prometheus metrics on /metrics.
type Server struct {
	disp    *Dispatcher
	mcp     *mcp.Server
	metrics *metrics.Collector
	log     *slog.Logger
	srv     *http.Server
	ln      net.Listener
}

// NewServer creates a server whose tools run on disp. A nil collector
// serves 404 on /metrics; a nil logger discards.
func NewServer(disp *Dispatcher, met *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		disp:    disp,
		metrics: met,
		log:     logger,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "qadash",
			Version: Version,
		}, nil),
	}
	s.registerSessionTools()
	s.registerViewTools()
	return s
}

// Handler returns the HTTP handler: /metrics for Prometheus, everything
// else for the MCP SSE transport.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	mux.Handle("/", mcp.NewSSEHandler(func(_ *http.Request) *mcp.Server {
		return s.mcp
	}, nil))
	return mux
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("control: listen on %s: %w", addr, err)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: s.Handler()}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("control server stopped", "err", err)
		}
	}()
	s.log.Info("control server listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the listener address, useful for tests with port 0.
func (s *Server) Addr() net.Addr {
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
