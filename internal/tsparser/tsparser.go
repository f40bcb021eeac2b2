// Package tsparser wraps tree-sitter parsing: one pooled *Parser per
// language family, plus generic AST-walk helpers shared by every
// tree-sitter-backed Pass-1 parser (internal/parse/tsjs and
// internal/parse/treesitter).
package tsparser

import (
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_sql "github.com/DerekStride/tree-sitter-sql/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/codegraph/codegraph/internal/lang"
)

var (
	initOnce    sync.Once
	languages   map[lang.Language]*tree_sitter.Language
	parserPools map[lang.Language]*sync.Pool
)

func initLanguages() {
	initOnce.Do(func() {
		languages = map[lang.Language]*tree_sitter.Language{
			lang.TypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			lang.TSX:        tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
			lang.JavaScript: tree_sitter.NewLanguage(tree_sitter_javascript.Language()),
			lang.Go:         tree_sitter.NewLanguage(tree_sitter_go.Language()),
			lang.Java:       tree_sitter.NewLanguage(tree_sitter_java.Language()),
			lang.CSharp:     tree_sitter.NewLanguage(tree_sitter_c_sharp.Language()),
			lang.C:          tree_sitter.NewLanguage(tree_sitter_c.Language()),
			lang.CPP:        tree_sitter.NewLanguage(tree_sitter_cpp.Language()),
			lang.SQL:        tree_sitter.NewLanguage(tree_sitter_sql.Language()),
		}

		parserPools = make(map[lang.Language]*sync.Pool, len(languages))
		for l, tsLang := range languages {
			tsLang := tsLang
			parserPools[l] = &sync.Pool{
				New: func() any {
					p := tree_sitter.NewParser()
					if err := p.SetLanguage(tsLang); err != nil {
						panic(fmt.Sprintf("tsparser: set language: %v", err))
					}
					return p
				},
			}
		}
	})
}

// GetLanguage returns the tree-sitter Language for a lang.Language.
func GetLanguage(l lang.Language) (*tree_sitter.Language, error) {
	initLanguages()
	tsLang, ok := languages[l]
	if !ok {
		return nil, fmt.Errorf("tsparser: unsupported language: %s", l)
	}
	return tsLang, nil
}

// Parse parses source into a tree-sitter AST. The caller must call
// tree.Close() when done. Parsers are pooled per language to avoid
// per-file allocation under the parallel Pass-1 worker pool (§5).
func Parse(l lang.Language, source []byte) (*tree_sitter.Tree, error) {
	initLanguages()

	pool, ok := parserPools[l]
	if !ok {
		return nil, fmt.Errorf("tsparser: unsupported language: %s", l)
	}

	p, _ := pool.Get().(*tree_sitter.Parser)
	if p == nil {
		return nil, fmt.Errorf("tsparser: failed to get parser for %s", l)
	}
	tree := p.Parse(source, nil)
	pool.Put(p)

	if tree == nil {
		return nil, fmt.Errorf("tsparser: parse failed for %s", l)
	}
	return tree, nil
}

// WalkFunc is called for each node during a depth-first traversal.
// Returning false skips the node's children.
type WalkFunc func(node *tree_sitter.Node) bool

// Walk traverses the AST in depth-first, pre-order.
func Walk(node *tree_sitter.Node, fn WalkFunc) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			Walk(child, fn)
		}
	}
}

// NodeText returns the source text spanned by node.
func NodeText(node *tree_sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// ChildByFieldNameText returns the text of node's named field, or "".
func ChildByFieldNameText(node *tree_sitter.Node, field string, source []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return NodeText(child, source)
}

// StartLine returns node's 1-based start line (§3.1: lines are 1-based).
func StartLine(node *tree_sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

// EndLine returns node's 1-based end line.
func EndLine(node *tree_sitter.Node) int {
	return int(node.EndPosition().Row) + 1
}

// StartColumn returns node's 0-based start column.
func StartColumn(node *tree_sitter.Node) int {
	return int(node.StartPosition().Column)
}

// EndColumn returns node's 0-based end column.
func EndColumn(node *tree_sitter.Node) int {
	return int(node.EndPosition().Column)
}

// StripBOM removes a UTF-8 byte-order mark, common in C#/Windows-authored
// source; left untouched, it confuses tree-sitter's byte offsets.
func StripBOM(source []byte) []byte {
	if len(source) >= 3 && source[0] == 0xEF && source[1] == 0xBB && source[2] == 0xBF {
		return source[3:]
	}
	return source
}
