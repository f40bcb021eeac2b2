package discover

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverSkipsIgnoredAndUnsupported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")
	writeFile(t, filepath.Join(dir, "README.md"), "# hi\n")
	writeFile(t, filepath.Join(dir, "node_modules", "dep", "index.js"), "module.exports = {}\n")
	writeFile(t, filepath.Join(dir, "dist", "bundle.js"), "x\n")

	files, err := Discover(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "main.go" {
		t.Fatalf("Discover() = %+v, want only main.go", files)
	}
}

func TestDiscoverEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	files, err := Discover(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("Discover() = %+v, want empty", files)
	}
}

func TestDiscoverCustomExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")
	writeFile(t, filepath.Join(dir, "script.py"), "print(1)\n")

	files, err := Discover(context.Background(), dir, Options{Extensions: []string{".py"}})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "script.py" {
		t.Fatalf("Discover() = %+v, want only script.py", files)
	}
}

func TestDiscoverCodegraphIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")
	writeFile(t, filepath.Join(dir, "gen", "generated.go"), "package gen\n")
	writeFile(t, filepath.Join(dir, ".codegraphignore"), "gen/**\n")

	files, err := Discover(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "main.go" {
		t.Fatalf("Discover() = %+v, want only main.go", files)
	}
}

func TestDiscoverCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Discover(ctx, dir, Options{}); err == nil {
		t.Fatal("Discover() with cancelled context, want error")
	}
}
