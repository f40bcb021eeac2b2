package store

import (
	"context"
	"strings"
	"testing"

	"github.com/codegraph/codegraph/internal/model"
)

func TestWriteNodesGroupsByKindAndBatches(t *testing.T) {
	driver := &fakeDriver{}
	w := NewWriter(driver, "neo4j", 2)

	nodes := []*model.Node{
		{EntityID: "Function_a", Kind: model.KindFunction, Name: "a", FilePath: "a.ts"},
		{EntityID: "Function_b", Kind: model.KindFunction, Name: "b", FilePath: "a.ts"},
		{EntityID: "Function_c", Kind: model.KindFunction, Name: "c", FilePath: "a.ts"},
		{EntityID: "Class_d", Kind: model.KindClass, Name: "d", FilePath: "a.ts"},
	}
	if err := w.WriteNodes(context.Background(), nodes); err != nil {
		t.Fatalf("WriteNodes: %v", err)
	}

	// 3 Function nodes at batch size 2 -> 2 statements; 1 Class node -> 1 statement.
	if len(driver.statements) != 3 {
		t.Fatalf("len(statements) = %d, want 3", len(driver.statements))
	}
	foundClassLabel := false
	foundFunctionLabel := false
	for _, s := range driver.statements {
		if strings.Contains(s.cypher, "SET n:Class") {
			foundClassLabel = true
		}
		if strings.Contains(s.cypher, "SET n:Function") {
			foundFunctionLabel = true
		}
		if !strings.Contains(s.cypher, "REMOVE n:") {
			t.Errorf("batch cypher missing label-clearing REMOVE clause: %s", s.cypher)
		}
	}
	if !foundClassLabel || !foundFunctionLabel {
		t.Errorf("expected both Class and Function label-setting statements, got foundClass=%v foundFunction=%v", foundClassLabel, foundFunctionLabel)
	}
}

func TestWriteNodesPropagatesProperties(t *testing.T) {
	driver := &fakeDriver{}
	w := NewWriter(driver, "neo4j", 100)

	n := &model.Node{EntityID: "Function_a", Kind: model.KindFunction, Name: "a", FilePath: "a.ts"}
	n.SetProp("isAsync", true)
	if err := w.WriteNodes(context.Background(), []*model.Node{n}); err != nil {
		t.Fatalf("WriteNodes: %v", err)
	}

	rows, _ := driver.statements[0].params["rows"].([]map[string]any)
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0]["isAsync"] != true {
		t.Errorf("rows[0][isAsync] = %v, want true", rows[0]["isAsync"])
	}
	if rows[0]["entityId"] != "Function_a" {
		t.Errorf("rows[0][entityId] = %v, want Function_a", rows[0]["entityId"])
	}
}

func TestWriteNodesFailureWrapsStoreError(t *testing.T) {
	driver := &fakeDriver{failOn: func(cypher string, params map[string]any) error {
		return errFakeWriteFailed
	}}
	w := NewWriter(driver, "neo4j", 100)

	err := w.WriteNodes(context.Background(), []*model.Node{
		{EntityID: "Function_a", Kind: model.KindFunction, Name: "a"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "StoreError") {
		t.Errorf("err = %v, want StoreError", err)
	}
}

func TestWriteRelationshipsGroupsByTypeAndMergesEndpoints(t *testing.T) {
	driver := &fakeDriver{}
	w := NewWriter(driver, "neo4j", 100)

	rels := []*model.Relationship{
		{EntityID: "r1", Type: model.RelCalls, SourceID: "Function_a", TargetID: "Function_b", Weight: 1},
		{EntityID: "r2", Type: model.RelContains, SourceID: "File_a", TargetID: "Function_a", Weight: 1},
	}
	if err := w.WriteRelationships(context.Background(), rels); err != nil {
		t.Fatalf("WriteRelationships: %v", err)
	}
	if len(driver.statements) != 2 {
		t.Fatalf("len(statements) = %d, want 2", len(driver.statements))
	}
	for _, s := range driver.statements {
		if !strings.Contains(s.cypher, "MERGE (s {entityId: row.sourceId})") || !strings.Contains(s.cypher, "MERGE (t {entityId: row.targetId})") {
			t.Errorf("relationship cypher does not MERGE both endpoints: %s", s.cypher)
		}
	}
}

func TestProvisionSchemaCoversEveryKind(t *testing.T) {
	driver := &fakeDriver{}
	w := NewWriter(driver, "neo4j", 100)
	if err := w.ProvisionSchema(context.Background()); err != nil {
		t.Fatalf("ProvisionSchema: %v", err)
	}
	want := len(model.AllKinds()) * 3
	if len(driver.statements) != want {
		t.Fatalf("len(statements) = %d, want %d", len(driver.statements), want)
	}
}

func TestResetDatabaseDeletesEverything(t *testing.T) {
	driver := &fakeDriver{}
	w := NewWriter(driver, "neo4j", 100)
	if err := w.ResetDatabase(context.Background()); err != nil {
		t.Fatalf("ResetDatabase: %v", err)
	}
	if len(driver.statements) != 1 || !strings.Contains(driver.statements[0].cypher, "DETACH DELETE") {
		t.Fatalf("statements = %+v, want one DETACH DELETE", driver.statements)
	}
}
