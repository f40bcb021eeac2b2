package resolve

import (
	"strconv"
	"strings"

	"github.com/codegraph/codegraph/internal/merge"
	"github.com/codegraph/codegraph/internal/model"
	"github.com/codegraph/codegraph/internal/parse/tsjs"
)

// resolveTSJSCallsAndErrors consumes the CallSite/Mutation/TryCatch data
// Pass 1 deferred per file (§4.5.2), resolving each callee against the
// merged index: first the exports of every file in the project (so
// cross-file calls work), then a same-file name match as a fallback for
// calls to unexported local helpers, which are not in any FileSymbols
// export list but do exist as nodes in the merged index under this
// file's own entries.
func resolveTSJSCallsAndErrors(idx *merge.Index, project *tsjs.Project) int {
	count := 0
	byName := buildExportNameIndex(project)

	for filePath, symbols := range project.Files {
		for _, site := range symbols.CallSites {
			target := resolveCallee(idx, byName, filePath, site.Callee)
			var targetID string
			isPlaceholder := false
			if target != nil {
				targetID = target.EntityID
			} else {
				targetID = model.PlaceholderID(model.KindFunction, site.Callee)
				isPlaceholder = true
			}
			rel := &model.Relationship{
				EntityID: model.RelationshipEntityID(model.RelCalls, site.CallerEntityID, targetID, strconv.Itoa(site.Line), strconv.Itoa(site.Column)),
				Type:     model.RelCalls, SourceID: site.CallerEntityID, TargetID: targetID,
			}
			rel.SetProp("callSiteLine", site.Line)
			rel.SetProp("callSiteColumn", site.Column)
			rel.SetProp("isAwaited", site.IsAwaited)
			rel.SetProp("isConditional", site.IsConditional)
			rel.SetProp("isCrossFile", target != nil && target.FilePath != filePath)
			if isPlaceholder {
				rel.SetProp("isPlaceholder", true)
			}
			idx.AddRelationships(rel)
			count++
		}

		for _, mut := range symbols.Mutations {
			target := resolveCallee(idx, byName, filePath, mut.Target)
			if target == nil {
				continue
			}
			rel := &model.Relationship{
				EntityID: model.RelationshipEntityID(model.RelMutatesState, mut.CallerEntityID, target.EntityID, strconv.Itoa(mut.Line)),
				Type:     model.RelMutatesState, SourceID: mut.CallerEntityID, TargetID: target.EntityID,
			}
			idx.AddRelationships(rel)
			count++
		}

		for _, tc := range symbols.TryCatches {
			targetID := errorHandlerTargetID(tc)
			rel := &model.Relationship{
				EntityID: model.RelationshipEntityID(model.RelHandlesError, tc.CallerEntityID, targetID),
				Type:     model.RelHandlesError, SourceID: tc.CallerEntityID, TargetID: targetID,
			}
			idx.AddRelationships(rel)
			count++
		}
	}
	return count
}

// errorHandlerTargetID implements the §9 decision recorded in DESIGN.md:
// when a catch binding exists, the target is a Parameter id qualified by
// the function entityId, the literal ":catch:", the binding name, and
// the catch line; otherwise it falls back to the enclosing function
// itself rather than inventing a synthetic ErrorHandler kind.
func errorHandlerTargetID(tc tsjs.TryCatch) string {
	if tc.CatchBinding == "" {
		return tc.CallerEntityID
	}
	qn := tc.CallerEntityID + ":catch:" + tc.CatchBinding + ":" + strconv.Itoa(tc.Line)
	return model.EntityID(model.KindParameter, qn)
}

func buildExportNameIndex(project *tsjs.Project) map[string][]tsjs.Export {
	byName := make(map[string][]tsjs.Export)
	for _, symbols := range project.Files {
		for _, exp := range symbols.Exports {
			byName[exp.Name] = append(byName[exp.Name], exp)
		}
	}
	return byName
}

// resolveCallee resolves a call/assignment target expression (possibly a
// property access like "obj.method") to a node. Bare identifiers are
// tried as an exported symbol first, then as a same-file node by name;
// property accesses fall back to resolving the rightmost segment only.
func resolveCallee(idx *merge.Index, byName map[string][]tsjs.Export, callerFile, expr string) *model.Node {
	name := expr
	if i := strings.LastIndexByte(expr, '.'); i >= 0 {
		name = expr[i+1:]
	}
	if exps, ok := byName[name]; ok {
		for _, exp := range exps {
			if n := idx.Lookup(exp.EntityID); n != nil {
				return n
			}
		}
	}
	for _, n := range idx.Nodes {
		if n.FilePath == callerFile && n.Name == name {
			switch n.Kind {
			case model.KindFunction, model.KindMethod, model.KindVariable, model.KindComponent:
				return n
			}
		}
	}
	return nil
}

