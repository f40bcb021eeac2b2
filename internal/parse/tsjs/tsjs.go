// Package tsjs implements the Pass-1 parser for TypeScript, JavaScript,
// and TSX (§4.2). Unlike the other language families, TS/JS files share a
// single Project: every file is parsed into the project before any
// cross-file lookups are attempted, so that Pass 2's module resolver can
// answer "what does file X export" without re-parsing anything.
package tsjs

import (
	"strings"
	"time"

	"github.com/google/uuid"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/discover"
	"github.com/codegraph/codegraph/internal/lang"
	"github.com/codegraph/codegraph/internal/model"
	"github.com/codegraph/codegraph/internal/tsparser"
	"github.com/codegraph/codegraph/internal/xerrors"
)

// Export records one exported declaration for Pass 2's module resolver.
type Export struct {
	Name            string
	EntityID        string
	Kind            model.Kind
	IsDefaultExport bool
}

// FileSymbols is the per-file slice of a Project's shared symbol table.
type FileSymbols struct {
	FilePath   string
	Exports    []Export
	CallSites  []CallSite
	Mutations  []Mutation
	TryCatches []TryCatch
}

// Project is the shared TS/JS project object of §4.2. It accumulates one
// FileSymbols per parsed file so Pass 2 can resolve imports without a
// second parse pass.
type Project struct {
	Files map[string]*FileSymbols
}

func newProject() *Project {
	return &Project{Files: make(map[string]*FileSymbols)}
}

// ParseAll parses every file in files against a shared Project and returns
// one SingleFileParseResult per file plus the hydrated Project, matching
// §4.2's "parsed after the project has been hydrated" ordering: every
// file's exports are registered in the project as it is parsed, so a
// later file in the batch can already see an earlier file's exports.
func ParseAll(files []discover.FileInfo, readFile func(path string) ([]byte, error), now time.Time) ([]*model.SingleFileParseResult, *Project, error) {
	project := newProject()
	results := make([]*model.SingleFileParseResult, 0, len(files))

	for _, f := range files {
		source, err := readFile(f.Path)
		if err != nil {
			return nil, nil, xerrors.FileSystem(f.Path, err)
		}
		result, symbols, err := parseFile(f.RelPath, f.Language, source, now)
		if err != nil {
			return nil, nil, xerrors.Parser(f.RelPath, err)
		}
		project.Files[f.RelPath] = symbols
		results = append(results, result)
	}
	return results, project, nil
}

func parseFile(filePath string, l lang.Language, source []byte, now time.Time) (*model.SingleFileParseResult, *FileSymbols, error) {
	source = tsparser.StripBOM(source)
	tree, err := tsparser.Parse(l, source)
	if err != nil {
		return nil, nil, err
	}
	defer tree.Close()

	p := &parser{
		filePath: filePath,
		language: l,
		source:   source,
		now:      now,
		result:   &model.SingleFileParseResult{FilePath: filePath},
		tailwind: make(map[string]string),
	}
	p.fileID = p.emitFile()

	root := tree.RootNode()
	p.walkTopLevel(root)

	symbols := &FileSymbols{
		FilePath:   filePath,
		Exports:    p.exports,
		CallSites:  p.callSites,
		Mutations:  p.mutations,
		TryCatches: p.tryCatches,
	}
	return p.result, symbols, nil
}

// parser holds the Pass-1 state for one TS/JS file. The owning Component's
// entityId for RENDERS_ELEMENT/USES_COMPONENT attribution is passed down
// the JSX walk as an argument rather than kept here.
type parser struct {
	filePath string
	language lang.Language
	source   []byte
	now      time.Time

	result  *model.SingleFileParseResult
	fileID  string
	exports []Export

	tailwind map[string]string // className token -> TailwindClass entityId, cached per file

	anonCounter int

	callSites  []CallSite
	mutations  []Mutation
	tryCatches []TryCatch
}

func (p *parser) text(n *tree_sitter.Node) string {
	if n == nil {
		return ""
	}
	return tsparser.NodeText(n, p.source)
}

func (p *parser) fieldText(n *tree_sitter.Node, field string) string {
	if n == nil {
		return ""
	}
	return tsparser.ChildByFieldNameText(n, field, p.source)
}

func (p *parser) addNode(n *model.Node) {
	n.FilePath = p.filePath
	n.Language = string(p.language)
	n.CreatedAt = p.now
	n.InstanceID = uuid.NewString()
	p.result.Nodes = append(p.result.Nodes, n)
}

func (p *parser) addEdge(r *model.Relationship) {
	r.CreatedAt = p.now
	p.result.Relationships = append(p.result.Relationships, r)
}

func (p *parser) contains(parentID, childID string) {
	p.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelContains, parentID, childID),
		Type:     model.RelContains, SourceID: parentID, TargetID: childID, Weight: 1,
	})
}

func (p *parser) emitFile() string {
	qn := model.FileQualifiedName(p.filePath)
	id := model.EntityID(model.KindFile, qn)
	p.addNode(&model.Node{EntityID: id, Kind: model.KindFile, Name: baseName(p.filePath)})
	return id
}

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func startLine(n *tree_sitter.Node) int { return int(n.StartPosition().Row) + 1 }

func loc(n *model.Node, tn *tree_sitter.Node) {
	n.StartLine = int(tn.StartPosition().Row) + 1
	n.EndLine = int(tn.EndPosition().Row) + 1
	n.StartCol = int(tn.StartPosition().Column)
	n.EndCol = int(tn.EndPosition().Column)
}

// walkTopLevel processes the direct children of the file's program node:
// imports, top-level declarations, and exported statements.
func (p *parser) walkTopLevel(root *tree_sitter.Node) {
	for i := uint(0); i < root.NamedChildCount(); i++ {
		n := root.NamedChild(i)
		if n == nil {
			continue
		}
		p.topLevelStatement(n, false, false)
	}
}

// topLevelStatement dispatches one top-level statement. isExported and
// isDefault are threaded in from an enclosing export_statement, which in
// the TS/JS grammars wraps the actual declaration as a named child.
func (p *parser) topLevelStatement(n *tree_sitter.Node, isExported, isDefault bool) {
	switch n.GrammarName() {
	case "import_statement":
		p.emitImport(n)

	case "export_statement":
		p.handleExportStatement(n)

	case "function_declaration", "generator_function_declaration":
		p.emitFunctionDeclaration(n, isExported, isDefault)

	case "class_declaration":
		p.emitClass(n, isExported, isDefault)

	case "interface_declaration":
		p.emitInterface(n, isExported)

	case "lexical_declaration", "variable_declaration":
		p.emitVariableDeclaration(n, isExported, isDefault)

	case "type_alias_declaration":
		p.emitTypeAlias(n, isExported, false)

	case "enum_declaration":
		p.emitTypeAlias(n, isExported, true)
	}
}

func (p *parser) handleExportStatement(n *tree_sitter.Node) {
	isDefault := false
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && child.GrammarName() == "default" {
			isDefault = true
		}
	}
	decl := n.ChildByFieldName("declaration")
	if decl != nil {
		p.topLevelStatement(decl, true, isDefault)
		return
	}
	value := n.ChildByFieldName("value")
	if value != nil && isDefault {
		// export default <expression>; synthesize a function/variable based
		// on what's being exported.
		p.emitDefaultExportExpression(n, value)
	}
}

func (p *parser) emitDefaultExportExpression(stmt, value *tree_sitter.Node) {
	switch value.GrammarName() {
	case "arrow_function", "function_expression":
		p.emitFunctionLike(value, "default", true, true, nil)
	default:
		// unnamed default export of an arbitrary expression: not addressable
		// by name, nothing further to emit per §4.2 (only declarations with
		// names produce nodes).
	}
}
