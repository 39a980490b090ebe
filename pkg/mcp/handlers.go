package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/uxc/pkg/codegen"
	"github.com/gnana997/uxc/pkg/cssscope"
	"github.com/gnana997/uxc/pkg/extractor"
	"github.com/gnana997/uxc/pkg/parser"
	"github.com/gnana997/uxc/pkg/validator"
)

const defaultSourceID = "component.ux"

type compileResponse struct {
	Name       string                      `json:"name"`
	Module     string                      `json:"module"`
	Variables  []string                    `json:"variables"`
	I18nKeys   []string                    `json:"i18n_keys"`
	Artifact   *codegen.Artifact           `json:"artifact,omitempty"`
	Validation *validator.ValidationResult `json:"validation,omitempty"`
}

type variablesResponse struct {
	Variables []string `json:"variables"`
	I18nKeys  []string `json:"i18n_keys"`
}

func (s *Server) handleCompileComponent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sourceID := req.GetString("source_id", defaultSourceID)

	res, err := s.compiler.Compile([]byte(source), sourceID)
	if err != nil {
		return compileError(err)
	}

	resp := compileResponse{
		Name:       res.Artifact.Name,
		Module:     res.Module,
		Variables:  nonNil(res.Component.Variables),
		I18nKeys:   nonNil(res.Component.I18nKeys),
		Validation: res.Validation,
	}
	if req.GetBool("include_artifact", false) {
		resp.Artifact = res.Artifact
	}
	return jsonResult(resp)
}

func (s *Server) handleScopeCSS(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	css, err := req.RequireString("css")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scoped := req.GetBool("scoped", false)
	return mcp.NewToolResultText(cssscope.Scope(cssscope.Escape(css), scoped)), nil
}

func (s *Server) handleListVariables(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.compiler.Compile([]byte(source), req.GetString("source_id", defaultSourceID))
	if err != nil {
		return compileError(err)
	}
	return jsonResult(variablesResponse{
		Variables: nonNil(res.Component.Variables),
		I18nKeys:  nonNil(res.Component.I18nKeys),
	})
}

func (s *Server) handleAnalyzeScript(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.validator == nil {
		return mcp.NewToolResultError("script analysis is not available: server started without a validator"), nil
	}
	script, err := req.RequireString("script")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	lang := parser.ParseLanguageString(req.GetString("lang", ""))
	if lang != parser.LanguageJavaScript && lang != parser.LanguageTypeScript {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported script language %q", req.GetString("lang", ""))), nil
	}
	return jsonResult(s.validator.AnalyzeScript(script, lang))
}

func (s *Server) handleCompilerStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.compiler.Stats())
}

// compileError reports validation errors as a JSON list and anything else
// as plain text. Both are tool errors, not protocol errors.
func compileError(err error) (*mcp.CallToolResult, error) {
	if errs, ok := extractor.AsErrors(err); ok {
		data, mErr := json.MarshalIndent(errs, "", "  ")
		if mErr != nil {
			return nil, fmt.Errorf("failed to marshal errors: %w", mErr)
		}
		return mcp.NewToolResultError(string(data)), nil
	}
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
