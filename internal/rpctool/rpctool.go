// Package rpctool wraps the analysis engine in a single MCP tool,
// run_analyzer (§6.3). It is a much smaller surface than the teacher's
// own internal/tools — one closed tool instead of a dozen query/search
// tools — but keeps the teacher's registration/handler/error-result idiom
// (addTool, jsonResult/errResult, CallTool for direct in-process
// invocation) since that plumbing is independent of how many tools sit behind it.
package rpctool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codegraph/codegraph/internal/analyze"
	"github.com/codegraph/codegraph/internal/config"
	"github.com/codegraph/codegraph/internal/store"
	"github.com/codegraph/codegraph/internal/xerrors"
)

// Version is the server's MCP handshake version.
const Version = "0.1.0"

// Server wraps the MCP server with the run_analyzer tool registered.
type Server struct {
	mcp      *mcp.Server
	cfg      *config.Config
	handlers map[string]mcp.ToolHandler
}

// NewServer creates an MCP server bound to cfg, from which it resolves
// Neo4j connection parameters and default batch/temp-dir settings on
// every call (so a changed environment variable takes effect without a
// restart is NOT guaranteed — cfg is read once at construction, matching
// the teacher's own Config-at-startup convention).
func NewServer(cfg *config.Config) *Server {
	srv := &Server{cfg: cfg, handlers: make(map[string]mcp.ToolHandler)}

	srv.mcp = mcp.NewServer(
		&mcp.Implementation{Name: "codegraph", Version: Version},
		&mcp.ServerOptions{},
	)
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server, for Run(ctx, transport).
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// CallTool invokes a tool handler directly by name, bypassing MCP
// transport. The CLI does not use it; the package tests do.
func (s *Server) CallTool(ctx context.Context, name string, argsJSON json.RawMessage) (*mcp.CallToolResult, error) {
	handler, ok := s.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	if len(argsJSON) == 0 {
		argsJSON = json.RawMessage(`{}`)
	}
	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Name: name, Arguments: argsJSON},
	}
	return handler(ctx, req)
}

// ToolNames returns every registered tool name in sorted order.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) addTool(tool *mcp.Tool, handler mcp.ToolHandler) {
	s.mcp.AddTool(tool, handler)
	s.handlers[tool.Name] = handler
}

func (s *Server) registerTools() {
	s.addTool(&mcp.Tool{
		Name:        "run_analyzer",
		Description: "Analyze a repository and write its code knowledge graph (functions, classes, methods, imports, calls, and their cross-references) into the configured Neo4j database. Supports TypeScript, JavaScript, TSX, Python, Go, Java, C#, C, C++, and embedded SQL.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"directory": {
					"type": "string",
					"description": "Absolute path to the repository to analyze."
				},
				"extensions": {
					"type": "array",
					"items": {"type": "string"},
					"description": "File extensions to include, overriding the default set (e.g. ['.ts', '.tsx'])."
				},
				"ignore": {
					"type": "array",
					"items": {"type": "string"},
					"description": "Additional glob patterns to ignore, appended to the default ignore list."
				},
				"updateSchema": {
					"type": "boolean",
					"description": "Provision the Neo4j uniqueness constraint and indexes before writing."
				},
				"resetDb": {
					"type": "boolean",
					"description": "Delete every node and relationship in the target database before writing."
				}
			},
			"required": ["directory"]
		}`),
	}, s.handleRunAnalyzer)
}

func (s *Server) handleRunAnalyzer(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	directory := getStringArg(args, "directory")
	if directory == "" {
		return errResult("directory is required"), nil
	}

	opts := analyze.Options{
		Extensions:   getStringSliceArg(args, "extensions"),
		Ignore:       getStringSliceArg(args, "ignore"),
		UpdateSchema: getBoolArg(args, "updateSchema"),
		ResetDB:      getBoolArg(args, "resetDb"),
	}

	if err := s.cfg.Validate(); err != nil {
		return errResult(err.Error()), nil
	}

	driver, err := store.NewNeo4jDriver(ctx, s.cfg.Neo4jURL, s.cfg.Neo4jUser, s.cfg.Neo4jPassword)
	if err != nil {
		return errResult(err.Error()), nil
	}
	defer driver.Close(ctx)

	writer := store.NewWriter(driver, s.cfg.Neo4jDatabase, s.cfg.StorageBatchSize)
	runner, err := analyze.NewRunner(writer, s.cfg.TempDir)
	if err != nil {
		return errResult(err.Error()), nil
	}
	defer runner.Close()

	result, err := runner.Run(ctx, directory, opts)
	if err != nil {
		return errResult(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"directory":    directory,
		"filesScanned": result.FilesScanned,
		"nodesWritten": result.NodesWritten,
		"edgesWritten": result.EdgesWritten,
		"parseErrors":  result.ParseErrors,
		"elapsedMs":    result.Elapsed.Milliseconds(),
	}), nil
}

// jsonResult marshals data as the tool's text result.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}

// errResult returns a tool result carrying a typed error payload so
// callers can distinguish a ConfigError from a StoreError without string
// matching (§7).
func errResult(msg string) *mcp.CallToolResult {
	payload := map[string]any{"error": msg}
	if xerr, ok := asXerror(msg); ok {
		payload["code"] = xerr
	}
	b, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
		IsError: true,
	}
}

// asXerror reports the leading "<Code>: " prefix xerrors.Error.Error()
// always produces, letting callers extract the taxonomy code from the
// rendered message without a type assertion across the MCP boundary.
func asXerror(msg string) (string, bool) {
	for _, code := range []xerrors.Code{
		xerrors.CodeFileSystem, xerrors.CodeParser, xerrors.CodeConfig,
		xerrors.CodeStore, xerrors.CodeInternal,
	} {
		prefix := string(code) + ": "
		if len(msg) >= len(prefix) && msg[:len(prefix)] == prefix {
			return string(code), true
		}
	}
	return "", false
}

func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

func getStringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func getBoolArg(args map[string]any, key string) bool {
	v, ok := args[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func getStringSliceArg(args map[string]any, key string) []string {
	v, ok := args[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
