package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/docshield/internal/config"
	"github.com/kfreiman/docshield/internal/engine"
	"github.com/kfreiman/docshield/internal/language"
	"github.com/kfreiman/docshield/internal/model"
)

// Server wires the recognition engine into an MCP server over streamable
// HTTP, with liveness and readiness endpoints alongside.
type Server struct {
	engine    *engine.Engine
	store     *config.Store
	logger    *slog.Logger
	config    Config
	mcpServer *mcp.Server
}

// NewServer creates a configured server. The built-in language bundles are
// installed; the external model source is enabled when an endpoint is
// configured.
func NewServer(cfg Config, logger *slog.Logger) (*Server, error) {
	cfgStore := config.NewStore(config.Default())
	current := cfgStore.Load()

	if _, ok := current.Bundle(language.Normalize(cfg.DefaultLanguage)); !ok {
		return nil, fmt.Errorf("default language %q has no bundle", cfg.DefaultLanguage)
	}

	router := language.NewRouter(current, logger)
	eng := engine.New(engine.Config{
		Router: router,
		Model:  model.NewClient(cfg.Model, logger),
		Logger: logger,
	})

	s := &Server{
		engine: eng,
		store:  cfgStore,
		logger: logger,
		config: cfg,
	}

	impl := &mcp.Implementation{
		Name:    "DocShieldServer",
		Version: "1.0.0",
	}
	s.mcpServer = mcp.NewServer(impl, &mcp.ServerOptions{
		Instructions: ServerInstructions,
	})

	s.registerTools()

	return s, nil
}

// registerTools registers all tools on the MCP server.
func (s *Server) registerTools() {
	analyzeTool := NewAnalyzeTool(s.engine).WithLogger(s.logger)
	s.mcpServer.AddTool(ToolDefinitions["analyze_text"], analyzeTool.Call)

	redactTool := NewRedactTool(s.engine).WithLogger(s.logger)
	s.mcpServer.AddTool(ToolDefinitions["redact_text"], redactTool.Call)

	countTool := NewCountTool(s.engine).WithLogger(s.logger)
	s.mcpServer.AddTool(ToolDefinitions["count_entities"], countTool.Call)
}

// ListenAndServe starts the HTTP server and begins handling requests.
func (s *Server) ListenAndServe() error {
	httpHandler := mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return s.mcpServer
	}, &mcp.StreamableHTTPOptions{
		JSONResponse: true,
		Logger:       nil,
	})

	mux := http.NewServeMux()
	mux.Handle("/mcp", httpHandler)
	mux.HandleFunc("/health/live", s.livenessHandler)
	mux.HandleFunc("/health/ready", s.readinessHandler)

	addr := fmt.Sprintf(":%d", s.config.Port)
	s.logger.InfoContext(context.Background(), "starting MCP server",
		"port", s.config.Port,
		"languages", s.store.Load().Languages(),
		"endpoints", []string{"/mcp", "/health/live", "/health/ready"},
	)
	return http.ListenAndServe(addr, mux)
}
