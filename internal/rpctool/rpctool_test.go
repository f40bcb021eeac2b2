package rpctool

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codegraph/codegraph/internal/config"
)

func TestRunAnalyzerRequiresDirectory(t *testing.T) {
	srv := NewServer(&config.Config{Neo4jURL: "bolt://localhost:7687"})

	result, err := srv.CallTool(context.Background(), "run_analyzer", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected an error result for a missing directory")
	}
}

func TestRunAnalyzerRequiresNeo4jURL(t *testing.T) {
	srv := NewServer(&config.Config{})

	result, err := srv.CallTool(context.Background(), "run_analyzer", json.RawMessage(`{"directory": "/tmp"}`))
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected an error result when NEO4J_URL is unset")
	}
	text := textOf(t, result)
	if !strings.Contains(text, "ConfigError") {
		t.Errorf("error payload = %s, want ConfigError code", text)
	}
}

func TestUnknownToolReturnsError(t *testing.T) {
	srv := NewServer(&config.Config{})
	if _, err := srv.CallTool(context.Background(), "not_a_tool", nil); err == nil {
		t.Fatal("expected an error for an unknown tool name")
	}
}

func TestToolNamesListsRunAnalyzer(t *testing.T) {
	srv := NewServer(&config.Config{})
	names := srv.ToolNames()
	if len(names) != 1 || names[0] != "run_analyzer" {
		t.Fatalf("ToolNames() = %v, want [run_analyzer]", names)
	}
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range result.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
