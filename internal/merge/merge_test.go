package merge

import (
	"testing"

	"github.com/codegraph/codegraph/internal/model"
)

func TestMergeDeduplicatesByEntityID(t *testing.T) {
	idx := NewIndex()
	idx.Merge(&model.SingleFileParseResult{
		FilePath: "a.go",
		Nodes: []*model.Node{
			{EntityID: "Function_1", Kind: model.KindGoFunction, Name: "A"},
			{EntityID: "Function_1", Kind: model.KindGoFunction, Name: "A"},
		},
	})
	if len(idx.Nodes) != 1 {
		t.Fatalf("len(Nodes) = %d, want 1", len(idx.Nodes))
	}
	if idx.IntraFileDuplicates != 1 {
		t.Errorf("IntraFileDuplicates = %d, want 1", idx.IntraFileDuplicates)
	}
	if idx.CrossFileDuplicates != 0 {
		t.Errorf("CrossFileDuplicates = %d, want 0", idx.CrossFileDuplicates)
	}
}

func TestMergeCrossFileDuplicateCountsSeparately(t *testing.T) {
	idx := NewIndex()
	idx.Merge(&model.SingleFileParseResult{
		FilePath: "a.go",
		Nodes:    []*model.Node{{EntityID: "File_x", Kind: model.KindFile, Name: "a"}},
	})
	idx.Merge(&model.SingleFileParseResult{
		FilePath: "b.go",
		Nodes:    []*model.Node{{EntityID: "File_x", Kind: model.KindFile, Name: "b"}},
	})
	if idx.CrossFileDuplicates != 1 {
		t.Errorf("CrossFileDuplicates = %d, want 1", idx.CrossFileDuplicates)
	}
	if idx.Nodes["File_x"].Name != "b" {
		t.Errorf("last-write-wins: Nodes[File_x].Name = %q, want %q", idx.Nodes["File_x"].Name, "b")
	}
}

func TestMergeAllAccumulatesRelationships(t *testing.T) {
	results := []*model.SingleFileParseResult{
		{
			FilePath:      "a.go",
			Nodes:         []*model.Node{{EntityID: "File_a", Kind: model.KindFile}},
			Relationships: []*model.Relationship{{EntityID: "r1", Type: model.RelContains}},
		},
		{
			FilePath:      "b.go",
			Nodes:         []*model.Node{{EntityID: "File_b", Kind: model.KindFile}},
			Relationships: []*model.Relationship{{EntityID: "r2", Type: model.RelContains}},
		},
	}
	idx := MergeAll(results)
	if len(idx.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(idx.Nodes))
	}
	if len(idx.Relationships) != 2 {
		t.Fatalf("len(Relationships) = %d, want 2", len(idx.Relationships))
	}
}

func TestFindByFilePath(t *testing.T) {
	idx := MergeAll([]*model.SingleFileParseResult{
		{FilePath: "a.go", Nodes: []*model.Node{{EntityID: "File_a", Kind: model.KindFile, FilePath: "a.go"}}},
	})
	if n := idx.FindByFilePath("a.go"); n == nil || n.EntityID != "File_a" {
		t.Fatalf("FindByFilePath(a.go) = %+v, want File_a", n)
	}
	if n := idx.FindByFilePath("missing.go"); n != nil {
		t.Fatalf("FindByFilePath(missing.go) = %+v, want nil", n)
	}
}
