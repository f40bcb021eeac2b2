// Package resolve implements Pass 2: cross-file correlation over the
// merged node index produced by internal/merge (§4.5). Each resolver is
// language-scoped and independent so a new one can be added without
// touching Pass-1 parsers (§4.5.4's explicit design requirement).
package resolve

import (
	"log/slog"

	"github.com/codegraph/codegraph/internal/merge"
	"github.com/codegraph/codegraph/internal/parse/tsjs"
)

// Run invokes every applicable resolver over idx, appending the edges
// they produce directly to idx.Relationships. project is the TS/JS
// shared-project symbol table built during Pass 1 (nil if the run had no
// TS/JS files).
func Run(idx *merge.Index, project *tsjs.Project) {
	tsjsCount := resolveTSJS(idx, project)
	includeCount := resolveCIncludes(idx)
	sqlCount := resolveSQLReferences(idx)
	callCount := 0
	if project != nil {
		callCount = resolveTSJSCallsAndErrors(idx, project)
	}

	slog.Info("resolve.done",
		"tsjsEdges", tsjsCount,
		"includeEdges", includeCount,
		"sqlEdges", sqlCount,
		"callEdges", callCount,
	)
}
