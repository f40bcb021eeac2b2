package resolve

import (
	"testing"

	"github.com/codegraph/codegraph/internal/merge"
	"github.com/codegraph/codegraph/internal/model"
	"github.com/codegraph/codegraph/internal/parse/tsjs"
)

func relCount(idx *merge.Index, t model.RelType) int {
	n := 0
	for _, r := range idx.Relationships {
		if r.Type == t {
			n++
		}
	}
	return n
}

func TestResolveTSJSCallsAndErrorsCrossFileCall(t *testing.T) {
	idx := merge.NewIndex()
	idx.Merge(&model.SingleFileParseResult{
		FilePath: "util.ts",
		Nodes: []*model.Node{
			{EntityID: "Function_util", Kind: model.KindFunction, Name: "helper", FilePath: "util.ts"},
		},
	})
	idx.Merge(&model.SingleFileParseResult{
		FilePath: "main.ts",
		Nodes: []*model.Node{
			{EntityID: "Function_main", Kind: model.KindFunction, Name: "main", FilePath: "main.ts"},
		},
	})

	project := &tsjs.Project{Files: map[string]*tsjs.FileSymbols{
		"util.ts": {FilePath: "util.ts", Exports: []tsjs.Export{
			{Name: "helper", EntityID: "Function_util", Kind: model.KindFunction},
		}},
		"main.ts": {
			FilePath: "main.ts",
			CallSites: []tsjs.CallSite{
				{CallerEntityID: "Function_main", Callee: "helper", Line: 3, Column: 2},
			},
		},
	}}

	n := resolveTSJSCallsAndErrors(idx, project)
	if n != 1 {
		t.Fatalf("resolveTSJSCallsAndErrors() = %d, want 1", n)
	}
	if relCount(idx, model.RelCalls) != 1 {
		t.Fatalf("CALLS edges = %d, want 1", relCount(idx, model.RelCalls))
	}
	rel := idx.Relationships[0]
	if rel.SourceID != "Function_main" || rel.TargetID != "Function_util" {
		t.Errorf("CALLS edge = %s -> %s, want Function_main -> Function_util", rel.SourceID, rel.TargetID)
	}
	if rel.IsPlaceholder() {
		t.Errorf("CALLS edge unexpectedly marked placeholder")
	}
	if isCrossFile, _ := rel.Properties["isCrossFile"].(bool); !isCrossFile {
		t.Errorf("isCrossFile = false, want true")
	}
}

func TestResolveTSJSCallsAndErrorsUnresolvedCalleeIsPlaceholder(t *testing.T) {
	idx := merge.NewIndex()
	idx.Merge(&model.SingleFileParseResult{
		FilePath: "main.ts",
		Nodes: []*model.Node{
			{EntityID: "Function_main", Kind: model.KindFunction, Name: "main", FilePath: "main.ts"},
		},
	})
	project := &tsjs.Project{Files: map[string]*tsjs.FileSymbols{
		"main.ts": {
			FilePath: "main.ts",
			CallSites: []tsjs.CallSite{
				{CallerEntityID: "Function_main", Callee: "thirdParty.doThing", Line: 5, Column: 1, IsAwaited: true},
			},
		},
	}}

	resolveTSJSCallsAndErrors(idx, project)
	if len(idx.Relationships) != 1 {
		t.Fatalf("len(Relationships) = %d, want 1", len(idx.Relationships))
	}
	rel := idx.Relationships[0]
	if !rel.IsPlaceholder() {
		t.Errorf("unresolved callee: expected placeholder edge")
	}
	if awaited, _ := rel.Properties["isAwaited"].(bool); !awaited {
		t.Errorf("isAwaited = false, want true")
	}
}

func TestResolveTSJSCallsAndErrorsHandlesError(t *testing.T) {
	idx := merge.NewIndex()
	project := &tsjs.Project{Files: map[string]*tsjs.FileSymbols{
		"main.ts": {
			FilePath: "main.ts",
			TryCatches: []tsjs.TryCatch{
				{CallerEntityID: "Function_main", CatchBinding: "err", Line: 10},
				{CallerEntityID: "Function_other", CatchBinding: "", Line: 20},
			},
		},
	}}

	resolveTSJSCallsAndErrors(idx, project)
	if relCount(idx, model.RelHandlesError) != 2 {
		t.Fatalf("HANDLES_ERROR edges = %d, want 2", relCount(idx, model.RelHandlesError))
	}
	for _, rel := range idx.Relationships {
		if rel.Type != model.RelHandlesError {
			continue
		}
		switch rel.SourceID {
		case "Function_main":
			if rel.TargetID == "Function_main" {
				t.Errorf("bound catch parameter should not target the function itself")
			}
		case "Function_other":
			if rel.TargetID != "Function_other" {
				t.Errorf("unbound catch: target = %s, want Function_other", rel.TargetID)
			}
		}
	}
}

func TestResolveTSJSCallsAndErrorsMutation(t *testing.T) {
	idx := merge.NewIndex()
	idx.Merge(&model.SingleFileParseResult{
		FilePath: "store.ts",
		Nodes: []*model.Node{
			{EntityID: "Variable_count", Kind: model.KindVariable, Name: "count", FilePath: "store.ts"},
		},
	})
	project := &tsjs.Project{Files: map[string]*tsjs.FileSymbols{
		"store.ts": {
			FilePath: "store.ts",
			Mutations: []tsjs.Mutation{
				{CallerEntityID: "Function_incr", Target: "count", Line: 7},
			},
		},
	}}

	n := resolveTSJSCallsAndErrors(idx, project)
	if n != 1 {
		t.Fatalf("resolveTSJSCallsAndErrors() = %d, want 1", n)
	}
	if relCount(idx, model.RelMutatesState) != 1 {
		t.Fatalf("MUTATES_STATE edges = %d, want 1", relCount(idx, model.RelMutatesState))
	}
}
