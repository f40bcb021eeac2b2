package python

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/codegraph/codegraph/internal/model"
)

func hasPython3(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath(Interpreter); err != nil {
		t.Skip("python3 not available in test environment")
	}
}

func writeScript(t *testing.T, dir string) string {
	t.Helper()
	scriptPath := filepath.Join(dir, "walk_ast.py")
	if err := os.WriteFile(scriptPath, walkASTScript, 0o644); err != nil {
		t.Fatal(err)
	}
	return scriptPath
}

func TestParseEmitsFunctionAndClass(t *testing.T) {
	hasPython3(t)
	dir := t.TempDir()
	scriptPath := writeScript(t, dir)

	src := `import os


def greet(name):
    return "hi " + name


class Greeter:
    def say(self, name):
        return greet(name)
`
	filePath := filepath.Join(dir, "sample.py")
	if err := os.WriteFile(filePath, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := Parse(context.Background(), scriptPath, filePath, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	counts := map[model.Kind]int{}
	for _, n := range result.Nodes {
		counts[n.Kind]++
	}
	if counts[model.KindPythonFunction] != 1 {
		t.Errorf("KindPythonFunction = %d, want 1", counts[model.KindPythonFunction])
	}
	if counts[model.KindPythonClass] != 1 {
		t.Errorf("KindPythonClass = %d, want 1", counts[model.KindPythonClass])
	}
	if counts[model.KindPythonMethod] != 1 {
		t.Errorf("KindPythonMethod = %d, want 1", counts[model.KindPythonMethod])
	}
	if counts[model.KindImport] != 1 {
		t.Errorf("KindImport = %d, want 1", counts[model.KindImport])
	}
}

func TestParseSyntaxErrorReturnsParserError(t *testing.T) {
	hasPython3(t)
	dir := t.TempDir()
	scriptPath := writeScript(t, dir)

	filePath := filepath.Join(dir, "broken.py")
	if err := os.WriteFile(filePath, []byte("def broken(:\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Parse(context.Background(), scriptPath, filePath, time.Unix(0, 0)); err == nil {
		t.Fatal("Parse() with syntax error, want error")
	}
}
