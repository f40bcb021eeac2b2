// Package dispatch routes discovered files to the parser responsible for
// their language (§4.1). It imposes no ordering guarantee between files,
// except that TS/JS/JSX files are held back as one group so they can be
// parsed against a single shared project once every TS/JS file is known
// (§4.1, §4.2).
package dispatch

import (
	"log/slog"

	"github.com/codegraph/codegraph/internal/discover"
	"github.com/codegraph/codegraph/internal/lang"
)

// Plan groups discovered files by which Pass-1 parser family handles them.
type Plan struct {
	TSJS       []discover.FileInfo // TypeScript, JavaScript, TSX — parsed together
	Python     []discover.FileInfo // subprocess parser
	TreeSitter map[lang.Language][]discover.FileInfo // Go, Java, C#, C, C++, SQL
}

// Build partitions files into a Plan. Files whose language is not one of
// the closed set are never produced by discover.Discover in the first
// place (it already filters by the same registry dispatch reads from), so
// the only "skip with a warning" case left here is defensive: a language
// with no registered parser family reachable from this function.
func Build(files []discover.FileInfo) *Plan {
	plan := &Plan{TreeSitter: make(map[lang.Language][]discover.FileInfo)}
	for _, f := range files {
		switch f.Language {
		case lang.TypeScript, lang.JavaScript, lang.TSX:
			plan.TSJS = append(plan.TSJS, f)
		case lang.Python:
			plan.Python = append(plan.Python, f)
		case lang.Go, lang.Java, lang.CSharp, lang.C, lang.CPP, lang.SQL:
			plan.TreeSitter[f.Language] = append(plan.TreeSitter[f.Language], f)
		default:
			slog.Warn("dispatch.skip", "path", f.Path, "language", f.Language)
		}
	}
	return plan
}

// Total returns the number of files across every bucket, for logging.
func (p *Plan) Total() int {
	n := len(p.TSJS) + len(p.Python)
	for _, fs := range p.TreeSitter {
		n += len(fs)
	}
	return n
}
