package python

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codegraph/codegraph/internal/discover"
	"github.com/codegraph/codegraph/internal/model"
)

// ParseAll runs Parse for every file in files, bounding concurrency to
// the CPU count to avoid process-table exhaustion (§5). A file that
// fails to parse is dropped from the run and logged by the caller; it
// does not abort the others, mirroring the tree-sitter family's
// per-file failure isolation (§4.1).
func ParseAll(ctx context.Context, scriptPath string, files []discover.FileInfo, now time.Time) ([]*model.SingleFileParseResult, []error) {
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
			result, err := Parse(gctx, scriptPath, f.Path, now)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	return results, errs
}
