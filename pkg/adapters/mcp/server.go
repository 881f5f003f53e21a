package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/checkout/pkg/domain"
	"github.com/aretw0/checkout/pkg/ports"
	"github.com/aretw0/checkout/pkg/session"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CheckoutResponse is the structured result of every session tool.
// Blocked transitions are not tool errors: the view carries the markers
// and Error explains why the step did not change.
type CheckoutResponse struct {
	View        domain.View         `json:"view" jsonschema_description:"The current presentation of the checkout"`
	Error       string              `json:"error,omitempty" jsonschema_description:"Why the last action did not complete"`
	FieldErrors []domain.FieldError `json:"field_errors,omitempty" jsonschema_description:"Fields that blocked the transition"`
}

// Sessions is the session orchestration the tools need.
type Sessions interface {
	Create(ctx context.Context) (*domain.FormSession, error)
	Load(ctx context.Context, sessionID string) (*domain.FormSession, error)
	Update(ctx context.Context, sessionID string, fn session.UpdateFunc) (*domain.FormSession, error)
}

// Server exposes checkout sessions as MCP tools.
type Server struct {
	sessions  Sessions
	engine    ports.FlowController
	now       func() time.Time
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithClock sets the clock used by check_card.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions Sessions, engine ports.FlowController, version string, opts ...Option) *Server {
	s := &Server{
		sessions: sessions,
		engine:   engine,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer("checkout-mcp", strings.TrimSpace(version),
		server.WithToolCapabilities(false),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	withCORS := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With"},
	})
	mux := http.NewServeMux()
	mux.Handle("/sse", withCORS(sseServer.SSEHandler()))
	mux.Handle("/message", withCORS(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}
