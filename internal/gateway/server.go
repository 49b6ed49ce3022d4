package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"osgate/internal/config"
	"osgate/pkg/logging"
)

// Config defines how the gateway's MCP endpoint is served.
type Config struct {
	Host      string
	Port      int
	Transport string
	Version   string
}

// Server exposes the tool registry over an MCP transport. The MCP
// layer handles request framing and session state; every tool call
// is funneled through the dispatcher.
type Server struct {
	config     Config
	registry   *Registry
	dispatcher *Dispatcher

	server     *server.MCPServer
	sseServer  *server.SSEServer
	httpServer *server.StreamableHTTPServer

	mu sync.Mutex
}

// NewServer creates a gateway server around the registry and
// dispatcher.
func NewServer(cfg Config, registry *Registry, dispatcher *Dispatcher) *Server {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8090
	}
	if cfg.Transport == "" {
		cfg.Transport = config.TransportStreamableHTTP
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Server{
		config:     cfg,
		registry:   registry,
		dispatcher: dispatcher,
	}
}

// Start brings up the MCP endpoint on the configured transport and
// returns once it is serving. Stdio transport serves the process's
// stdin/stdout instead of a listener.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return fmt.Errorf("gateway server already started")
	}

	mcpServer := server.NewMCPServer(
		"osgate",
		s.config.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	tools := make([]server.ServerTool, 0, len(s.registry.All()))
	for _, desc := range s.registry.All() {
		tools = append(tools, server.ServerTool{
			Tool:    desc.Tool,
			Handler: s.makeHandler(desc.Tool.Name),
		})
	}
	mcpServer.AddTools(tools...)
	s.server = mcpServer

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	switch s.config.Transport {
	case config.TransportStdio:
		logging.Info("Gateway", "Serving MCP over stdio")
		go func() {
			if err := server.ServeStdio(mcpServer); err != nil {
				logging.Error("Gateway", err, "Stdio server error")
			}
		}()

	case config.TransportSSE:
		s.sseServer = server.NewSSEServer(
			mcpServer,
			server.WithBaseURL(fmt.Sprintf("http://%s", addr)),
			server.WithSSEEndpoint("/sse"),
			server.WithMessageEndpoint("/message"),
			server.WithKeepAlive(true),
			server.WithKeepAliveInterval(30*time.Second),
		)
		logging.Info("Gateway", "Serving MCP over SSE on %s", addr)
		sseServer := s.sseServer
		go func() {
			if err := sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error("Gateway", err, "SSE server error")
			}
		}()

	case config.TransportStreamableHTTP:
		s.httpServer = server.NewStreamableHTTPServer(
			mcpServer,
			server.WithEndpointPath("/mcp"),
			server.WithStateLess(true),
		)
		logging.Info("Gateway", "Serving MCP over streamable HTTP on %s/mcp", addr)
		httpServer := s.httpServer
		go func() {
			if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error("Gateway", err, "Streamable HTTP server error")
			}
		}()

	default:
		s.server = nil
		return fmt.Errorf("unsupported transport %q", s.config.Transport)
	}

	return nil
}

// Stop shuts the endpoint down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return fmt.Errorf("gateway server not started")
	}

	logging.Info("Gateway", "Stopping MCP gateway server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.sseServer != nil {
		if err := s.sseServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Gateway", err, "Error shutting down SSE server")
		}
		s.sseServer = nil
	}
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Gateway", err, "Error shutting down streamable HTTP server")
		}
		s.httpServer = nil
	}

	s.server = nil
	return nil
}

// Run starts the server and blocks until the context is cancelled,
// then stops it.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Stop(context.Background())
}

// Endpoint returns the URL a client should connect to.
func (s *Server) Endpoint() string {
	switch s.config.Transport {
	case config.TransportSSE:
		return fmt.Sprintf("http://%s:%d/sse", s.config.Host, s.config.Port)
	default:
		return fmt.Sprintf("http://%s:%d/mcp", s.config.Host, s.config.Port)
	}
}

// makeHandler adapts one registered tool to the MCP handler shape.
// The handler never returns a Go error for query failures; the
// calling agent always receives a well-formed envelope.
func (s *Server) makeHandler(toolName string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]any{}
		if req.Params.Arguments != nil {
			if argsMap, ok := req.Params.Arguments.(map[string]any); ok {
				args = argsMap
			}
		}

		envelope := s.dispatcher.Dispatch(ctx, toolName, args)

		payload, err := json.MarshalIndent(envelope, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
		}
		if envelope.IsError() {
			return mcp.NewToolResultError(string(payload)), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}
