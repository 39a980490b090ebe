// Package mcp exposes the component compiler to agents as an MCP server.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uxc/pkg/compiler"
	"github.com/gnana997/uxc/pkg/mcplog"
	"github.com/gnana997/uxc/pkg/validator"
)

const serverName = "uxc"

// Version is reported to MCP clients. Overridden at build time.
var Version = "0.1.0-dev"

// Server implements the MCP server for uxc, exposing compile and style
// scoping tools.
type Server struct {
	mcpServer *server.MCPServer
	compiler  *compiler.Compiler
	validator *validator.Validator // may be nil
	logger    *mcplog.Logger       // may be nil
}

// NewServer creates a server compiling with c. v enables analyze_script;
// logger enables the JSONL call journal. Both may be nil.
func NewServer(c *compiler.Compiler, v *validator.Validator, logger *mcplog.Logger) *Server {
	s := &Server{compiler: c, validator: v, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer(serverName, Version, opts...)
	s.mcpServer.AddTools(s.tools()...)

	return s
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: compileComponentTool(), Handler: s.handleCompileComponent},
		{Tool: scopeCSSTool(), Handler: s.handleScopeCSS},
		{Tool: listVariablesTool(), Handler: s.handleListVariables},
		{Tool: analyzeScriptTool(), Handler: s.handleAnalyzeScript},
		{Tool: compilerStatsTool(), Handler: s.handleCompilerStats},
	}
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
