// Package discover is the directory scanner: a glob-based file enumerator
// with ignore patterns. It is an external collaborator per spec.md §1 —
// the core only consumes its FileInfo output — but it is specified here at
// that interface.
package discover

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/codegraph/codegraph/internal/lang"
	"github.com/codegraph/codegraph/internal/xerrors"
)

// DefaultIgnoreGlobs is the closed default ignore-glob list of §6.4.
func DefaultIgnoreGlobs() []string {
	return []string{
		"**/.idea/**", "**/node_modules/**", "**/.git/**", "**/dist/**",
		"**/build/**", "**/coverage/**", "**/.next/**", "**/.svelte-kit/**",
		"**/.venv/**", "**/venv/**", "**/env/**", "**/__pycache__/**",
		"**/*.pyc", "**/bin/**", "**/obj/**", "**/*.class", "**/target/**",
		"**/*.log", "**/*.lock", "**/*.test.*", "**/*.spec.*",
		"**/playwright-report/**", "**/public/**", ".DS_Store",
	}
}

// FileInfo describes one discovered source file.
type FileInfo struct {
	Path      string // absolute path
	RelPath   string // relative to repoPath, forward-slash
	Extension string
	Language  lang.Language
}

// Options configures discovery, mirroring analyze's Options.extensions/
// ignore (§6.1).
type Options struct {
	Extensions []string // overrides lang.DefaultExtensions() when non-empty
	Ignore     []string // appended to DefaultIgnoreGlobs()
}

// Discover walks repoPath and returns every file whose extension is
// supported, skipping anything matched by an ignore glob. Unknown
// extensions never reach the caller — the dispatcher's "skip with a
// warning" path is enforced here, at the boundary, since an unsupported
// file never becomes a FileInfo in the first place.
func Discover(ctx context.Context, repoPath string, opts Options) ([]FileInfo, error) {
	repoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, xerrors.FileSystem(repoPath, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	extSet := extensionSet(opts.Extensions)
	ignore := append(append([]string{}, DefaultIgnoreGlobs()...), opts.Ignore...)
	ignore = append(ignore, loadIgnoreFile(filepath.Join(repoPath, ".codegraphignore"))...)

	var files []FileInfo
	walkErr := filepath.Walk(repoPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return filepath.SkipDir
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, _ := filepath.Rel(repoPath, path)
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel != "." && matchesAny(ignore, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesAny(ignore, rel) {
			return nil
		}

		ext := filepath.Ext(path)
		if !extSet[ext] {
			return nil
		}
		l, ok := lang.LanguageForExtension(ext)
		if !ok {
			return nil
		}
		files = append(files, FileInfo{
			Path:      path,
			RelPath:   rel,
			Extension: ext,
			Language:  l,
		})
		return nil
	})
	if walkErr != nil {
		return nil, xerrors.FileSystem(repoPath, walkErr)
	}
	return files, nil
}

func extensionSet(overrides []string) map[string]bool {
	exts := overrides
	if len(exts) == 0 {
		exts = lang.DefaultExtensions()
	}
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	return set
}

func matchesAny(globs []string, rel string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}

// loadIgnoreFile reads one glob per line from a .codegraphignore file.
// A missing file is not an error — it simply contributes no patterns.
func loadIgnoreFile(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns
}
