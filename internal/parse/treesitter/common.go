// Package treesitter implements the Pass-1 parsers for the tree-sitter
// grammar families that are not TS/JS/JSX: C, C++, Java, C#, Go, and SQL
// (§4.3). Each parser walks its syntax tree once, threading a small
// explicit context stack (current package/namespace, current container)
// rather than a global "current file" singleton (§9's design note).
package treesitter

import (
	"time"

	"github.com/google/uuid"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/lang"
	"github.com/codegraph/codegraph/internal/model"
	"github.com/codegraph/codegraph/internal/tsparser"
)

// ctx carries the accumulating result and location info for one file's
// Pass-1 walk. Passed by reference through the recursive visit functions;
// never a package-level singleton.
type ctx struct {
	filePath string
	language lang.Language
	source   []byte
	now      time.Time

	result *model.SingleFileParseResult

	fileID string
}

func newCtx(filePath string, l lang.Language, source []byte, now time.Time) *ctx {
	return &ctx{
		filePath: filePath,
		language: l,
		source:   source,
		now:      now,
		result:   &model.SingleFileParseResult{FilePath: filePath},
	}
}

func (c *ctx) addNode(n *model.Node) {
	n.FilePath = c.filePath
	n.Language = string(c.language)
	n.CreatedAt = c.now
	n.InstanceID = uuid.NewString()
	c.result.Nodes = append(c.result.Nodes, n)
}

func (c *ctx) addEdge(r *model.Relationship) {
	r.CreatedAt = c.now
	c.result.Relationships = append(c.result.Relationships, r)
}

// contains emits the CONTAINS edge from a parent entity to a child entity,
// used whenever a node is structurally nested in another (§4.3: "all
// other nodes carry parentId = fileEntityId unless nested in another
// container in the same file").
func (c *ctx) contains(parentID, childID string, weight int) {
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelContains, parentID, childID),
		Type:     model.RelContains,
		SourceID: parentID,
		TargetID: childID,
		Weight:   weight,
	})
}

// emitFile emits the File node and returns its entityId.
func (c *ctx) emitFile() string {
	qn := model.FileQualifiedName(c.filePath)
	id := model.EntityID(model.KindFile, qn)
	c.fileID = id
	c.addNode(&model.Node{
		EntityID: id,
		Kind:     model.KindFile,
		Name:     baseName(c.filePath),
	})
	return id
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// text returns node's source text.
func (c *ctx) text(n *tree_sitter.Node) string {
	return tsparser.NodeText(n, c.source)
}

func (c *ctx) fieldText(n *tree_sitter.Node, field string) string {
	return tsparser.ChildByFieldNameText(n, field, c.source)
}

// loc fills location fields on a node from a tree-sitter node span.
func loc(n *model.Node, tn *tree_sitter.Node) {
	n.StartLine = tsparser.StartLine(tn)
	n.EndLine = tsparser.EndLine(tn)
	n.StartCol = tsparser.StartColumn(tn)
	n.EndCol = tsparser.EndColumn(tn)
}

// Parse runs the appropriate tree-sitter-family parser for l.
func Parse(filePath string, l lang.Language, source []byte, now time.Time) (*model.SingleFileParseResult, error) {
	source = tsparser.StripBOM(source)
	tree, err := tsparser.Parse(l, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	c := newCtx(filePath, l, source, now)
	root := tree.RootNode()

	switch l {
	case lang.Go:
		parseGo(c, root)
	case lang.Java:
		parseJava(c, root)
	case lang.CSharp:
		parseCSharp(c, root)
	case lang.C:
		parseCOrCpp(c, root, false)
	case lang.CPP:
		parseCOrCpp(c, root, true)
	case lang.SQL:
		parseSQL(c, root)
	}
	return c.result, nil
}
