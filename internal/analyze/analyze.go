// Package analyze wires every other package into the end-to-end pipeline
// described by spec.md §5 and §6.1: discover files, run every Pass-1
// parser family (in parallel), merge their output into one index, run
// Pass 2's cross-file resolvers, and write the result to the graph store
// in batches. It plays the role the teacher's internal/pipeline plays,
// generalized from a SQLite-backed 3-pass incremental indexer to a
// Neo4j-backed two-pass full-scan engine (§9's open question: incremental
// reindexing is out of scope here, so every run is a full pass).
package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codegraph/codegraph/internal/discover"
	"github.com/codegraph/codegraph/internal/dispatch"
	"github.com/codegraph/codegraph/internal/lang"
	"github.com/codegraph/codegraph/internal/merge"
	"github.com/codegraph/codegraph/internal/model"
	"github.com/codegraph/codegraph/internal/parse/python"
	"github.com/codegraph/codegraph/internal/parse/treesitter"
	"github.com/codegraph/codegraph/internal/parse/tsjs"
	"github.com/codegraph/codegraph/internal/resolve"
	"github.com/codegraph/codegraph/internal/store"
	"github.com/codegraph/codegraph/internal/xerrors"
)

// Options configures one analysis run, mirroring the run_analyzer tool's
// input shape (§6.1/§6.3).
type Options struct {
	Extensions   []string
	Ignore       []string
	UpdateSchema bool
	ResetDB      bool
}

// Result summarizes a completed run for the caller (CLI or MCP tool) to
// report back to its own caller.
type Result struct {
	FilesScanned int
	NodesWritten int
	EdgesWritten int
	ParseErrors  []string
	Elapsed      time.Duration
}

// Runner holds the collaborators a run needs beyond the repo path and
// options: the store writer and a scratch directory the Python walker
// script can be materialized into (§3.6).
type Runner struct {
	Writer    *store.Writer
	TempDir   string
	BatchSize int
}

// Run executes one full analysis of repoPath: discover, parse every
// language family, merge, resolve, and write. It returns as soon as the
// context is cancelled at any of the checkpoints mirrored from the
// teacher's checkCancel idiom.
func (r *Runner) Run(ctx context.Context, repoPath string, opts Options) (*Result, error) {
	started := time.Now()
	slog.Info("analyze.start", "path", repoPath)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.ResetDB {
		if err := r.Writer.ResetDatabase(ctx); err != nil {
			return nil, err
		}
		slog.Info("analyze.reset_db")
	}
	if opts.UpdateSchema {
		if err := r.Writer.ProvisionSchema(ctx); err != nil {
			return nil, err
		}
		slog.Info("analyze.schema_provisioned")
	}

	files, err := discover.Discover(ctx, repoPath, discover.Options{
		Extensions: opts.Extensions,
		Ignore:     opts.Ignore,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("analyze.discovered", "files", len(files))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan := dispatch.Build(files)
	slog.Info("analyze.dispatched", "total", plan.Total(), "tsjs", len(plan.TSJS), "python", len(plan.Python))

	t := time.Now()
	results, project, parseErrs, err := r.parseAll(ctx, plan)
	if err != nil {
		return nil, err
	}
	slog.Info("pass.timing", "pass", "parse", "elapsed", time.Since(t))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t = time.Now()
	idx := merge.MergeAll(results)
	slog.Info("pass.timing", "pass", "merge", "elapsed", time.Since(t),
		"nodes", len(idx.Nodes), "intraFileDuplicates", idx.IntraFileDuplicates, "crossFileDuplicates", idx.CrossFileDuplicates)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t = time.Now()
	resolve.Run(idx, project)
	slog.Info("pass.timing", "pass", "resolve", "elapsed", time.Since(t), "edges", len(idx.Relationships))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t = time.Now()
	nodes := make([]*model.Node, 0, len(idx.Nodes))
	for _, n := range idx.Nodes {
		nodes = append(nodes, n)
	}
	if err := r.Writer.WriteNodes(ctx, nodes); err != nil {
		return nil, err
	}
	if err := r.Writer.WriteRelationships(ctx, idx.Relationships); err != nil {
		return nil, err
	}
	slog.Info("pass.timing", "pass", "write", "elapsed", time.Since(t))

	result := &Result{
		FilesScanned: len(files),
		NodesWritten: len(nodes),
		EdgesWritten: len(idx.Relationships),
		Elapsed:      time.Since(started),
	}
	for _, e := range parseErrs {
		slog.Warn("analyze.parse_error", "err", e)
		result.ParseErrors = append(result.ParseErrors, e.Error())
	}
	slog.Info("analyze.done", "nodes", result.NodesWritten, "edges", result.EdgesWritten, "parseErrors", len(result.ParseErrors))
	return result, nil
}

// parseAll runs every Pass-1 parser family concurrently (§5: "Pass 1 may
// run its language families in parallel; Pass 2 never does"). A per-file
// or per-family parse failure is collected and reported, never fatal to
// the run as a whole — mirrors the tree-sitter family's per-file
// isolation extended to the whole parse stage.
func (r *Runner) parseAll(ctx context.Context, plan *dispatch.Plan) ([]*model.SingleFileParseResult, *tsjs.Project, []error, error) {
	now := time.Now()

	var (
		mu      sync.Mutex
		results []*model.SingleFileParseResult
		project *tsjs.Project
		errs    []error
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if len(plan.TSJS) == 0 {
			return nil
		}
		res, proj, err := tsjs.ParseAll(plan.TSJS, os.ReadFile, now)
		if err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			return nil
		}
		mu.Lock()
		results = append(results, res...)
		project = proj
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		if len(plan.Python) == 0 {
			return nil
		}
		scriptPath := filepath.Join(r.TempDir, "walk_ast.py")
		if err := python.WriteScript(scriptPath, os.WriteFile); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			return nil
		}
		res, perErrs := python.ParseAll(gctx, scriptPath, plan.Python, now)
		mu.Lock()
		for _, e := range perErrs {
			if e != nil {
				errs = append(errs, e)
			}
		}
		for _, r := range res {
			if r != nil {
				results = append(results, r)
			}
		}
		mu.Unlock()
		return nil
	})

	for l, files := range plan.TreeSitter {
		l, files := l, files
		g.Go(func() error {
			res, perErrs := parseTreeSitterFamily(gctx, l, files, now)
			mu.Lock()
			errs = append(errs, perErrs...)
			results = append(results, res...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return results, project, errs, nil
}

// parseTreeSitterFamily parses every file of one tree-sitter language
// bucket, bounding concurrency to the CPU count like the Python walker
// (§5). A file that fails to read or parse is dropped and reported; it
// never aborts its sibling files.
func parseTreeSitterFamily(ctx context.Context, l lang.Language, files []discover.FileInfo, now time.Time) ([]*model.SingleFileParseResult, []error) {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}

	results := make([]*model.SingleFileParseResult, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			source, err := os.ReadFile(f.Path)
			if err != nil {
				errs[i] = xerrors.FileSystem(f.Path, err)
				return nil
			}
			result, err := treesitter.Parse(f.RelPath, l, source, now)
			if err != nil {
				errs[i] = xerrors.Parser(f.RelPath, err)
				return nil
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	nonNilResults := make([]*model.SingleFileParseResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			nonNilResults = append(nonNilResults, r)
		}
	}
	nonNilErrs := make([]error, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			nonNilErrs = append(nonNilErrs, e)
		}
	}
	return nonNilResults, nonNilErrs
}

// NewRunner builds a Runner around writer, opening its own scoped temp
// directory under tempDir for the Python walker script (§3.6: "a scoped
// temp dir, never the repo itself").
func NewRunner(writer *store.Writer, tempDir string) (*Runner, error) {
	dir, err := os.MkdirTemp(tempDir, "codegraph-*")
	if err != nil {
		return nil, xerrors.FileSystem(tempDir, err)
	}
	return &Runner{Writer: writer, TempDir: dir}, nil
}

// Close removes the Runner's scratch directory.
func (r *Runner) Close() error {
	if r.TempDir == "" {
		return nil
	}
	if err := os.RemoveAll(r.TempDir); err != nil {
		return fmt.Errorf("remove temp dir: %w", err)
	}
	return nil
}
