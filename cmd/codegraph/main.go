// Command codegraph analyzes a repository into a code knowledge graph
// stored in Neo4j. With no subcommand it runs as an MCP server over
// stdio, exposing the run_analyzer tool (§6.2/§6.3); `codegraph analyze
// <directory>` runs the same engine directly from the shell.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/codegraph/codegraph/internal/analyze"
	"github.com/codegraph/codegraph/internal/config"
	"github.com/codegraph/codegraph/internal/rpctool"
	"github.com/codegraph/codegraph/internal/store"
	"github.com/codegraph/codegraph/internal/xerrors"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCommand()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return exitCode(err)
	}
	return 0
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "codegraph",
		Short: "Build and serve a code knowledge graph",
		Long:  "codegraph parses a repository's source into a Neo4j-backed code knowledge graph. Run with no arguments to serve the run_analyzer MCP tool over stdio.",
		RunE:  runServer,
	}
	root.AddCommand(newAnalyzeCommand())
	return root
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	configureLogging(cfg)

	srv := rpctool.NewServer(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := srv.MCPServer().Run(ctx, &mcp.StdioTransport{})
	return runErr
}

func configureLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	out := os.Stderr
	if cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			slog.SetDefault(slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})))
			return
		}
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})))
}

// exitCode maps a returned error to the process exit code, reporting the
// typed taxonomy code to stderr when available (§7).
func exitCode(err error) int {
	var xerr *xerrors.Error
	if errors.As(err, &xerr) {
		fmt.Fprintf(os.Stderr, "%s\n", xerr.Error())
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return 1
}

// newAnalyzeRunner builds an analyze.Runner from resolved config and CLI
// overrides, opening a live Neo4j connection.
func newAnalyzeRunner(ctx context.Context, cfg *config.Config) (*analyze.Runner, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	driver, err := store.NewNeo4jDriver(ctx, cfg.Neo4jURL, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		return nil, nil, err
	}
	writer := store.NewWriter(driver, cfg.Neo4jDatabase, cfg.StorageBatchSize)
	runner, err := analyze.NewRunner(writer, cfg.TempDir)
	if err != nil {
		_ = driver.Close(ctx)
		return nil, nil, err
	}
	cleanup := func() {
		_ = runner.Close()
		_ = driver.Close(ctx)
	}
	return runner, cleanup, nil
}
