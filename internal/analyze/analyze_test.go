package analyze

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codegraph/codegraph/internal/store"
)

// fakeDriver records every Cypher statement issued by the writer, mirroring
// the store package's own in-process test double but exercised here through
// the exported store.Driver/store.Transaction seam.
type fakeDriver struct {
	statements []string
}

func (d *fakeDriver) ExecuteWrite(ctx context.Context, database string, work func(tx store.Transaction) error) error {
	return work(fakeTx{driver: d})
}

func (d *fakeDriver) Close(ctx context.Context) error { return nil }

type fakeTx struct {
	driver *fakeDriver
}

func (t fakeTx) Run(ctx context.Context, cypher string, params map[string]any) error {
	t.driver.statements = append(t.driver.statements, cypher)
	return nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setupTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "main.go"), `package main

func main() {
	result := Add(1, 2)
	_ = result
}

func Add(a, b int) int {
	return a + b
}
`)
	writeFile(t, filepath.Join(dir, "util.ts"), `export function greet(name: string): string {
	return "hello " + name
}
`)
	return dir
}

func TestRunAnalyzesMixedLanguageRepo(t *testing.T) {
	repoDir := setupTestRepo(t)

	driver := &fakeDriver{}
	writer := store.NewWriter(driver, "neo4j", 100)
	runner := &Runner{Writer: writer, TempDir: t.TempDir()}

	result, err := runner.Run(context.Background(), repoDir, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.FilesScanned != 2 {
		t.Errorf("FilesScanned = %d, want 2", result.FilesScanned)
	}
	if result.NodesWritten == 0 {
		t.Error("expected nodes to be written, got 0")
	}
	if len(driver.statements) == 0 {
		t.Error("expected at least one Cypher statement to be issued")
	}
}

func TestRunHonorsResetAndUpdateSchemaOptions(t *testing.T) {
	repoDir := setupTestRepo(t)

	driver := &fakeDriver{}
	writer := store.NewWriter(driver, "neo4j", 100)
	runner := &Runner{Writer: writer, TempDir: t.TempDir()}

	_, err := runner.Run(context.Background(), repoDir, Options{ResetDB: true, UpdateSchema: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	foundReset, foundConstraint := false, false
	for _, s := range driver.statements {
		if s == "MATCH (n) DETACH DELETE n" {
			foundReset = true
		}
		if strings.Contains(s, "CREATE CONSTRAINT") {
			foundConstraint = true
		}
	}
	if !foundReset {
		t.Error("expected a reset statement")
	}
	if !foundConstraint {
		t.Error("expected at least one schema constraint statement")
	}
}

func TestRunCancelledContext(t *testing.T) {
	repoDir := setupTestRepo(t)

	driver := &fakeDriver{}
	writer := store.NewWriter(driver, "neo4j", 100)
	runner := &Runner{Writer: writer, TempDir: t.TempDir()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := runner.Run(ctx, repoDir, Options{}); err == nil {
		t.Fatal("expected an error from a pre-cancelled context")
	}
}
