package tsjs

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/model"
)

// emitImport handles `import ... from "specifier"`, recording named,
// default, and namespace bindings as properties on one Import node per
// §4.2. isTypeOnly covers `import type { X } from "..."`.
func (p *parser) emitImport(n *tree_sitter.Node) {
	source := n.ChildByFieldName("source")
	if source == nil {
		return
	}
	specifier := trimQuotes(p.text(source))

	isTypeOnly := false
	var namedImports []string
	defaultImport := ""
	namespaceImport := ""

	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.GrammarName() {
		case "import_clause":
			isTypeOnly, defaultImport, namespaceImport, namedImports = parseImportClause(p, child)
		}
	}

	qn := model.ImportQualifiedName("Import", p.filePath, specifier, startLine(n))
	nodeID := model.EntityID(model.KindImport, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindImport, Name: specifier, ParentID: p.fileID}
	loc(node, n)
	node.SetProp("moduleSpecifier", specifier)
	node.SetProp("namedImports", namedImports)
	node.SetProp("defaultImport", defaultImport)
	node.SetProp("namespaceImport", namespaceImport)
	node.SetProp("isTypeOnly", isTypeOnly)
	p.addNode(node)
	p.contains(p.fileID, nodeID)
	p.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelImports, p.fileID, nodeID),
		Type:     model.RelImports, SourceID: p.fileID, TargetID: nodeID,
	})
}

func parseImportClause(p *parser, clause *tree_sitter.Node) (isTypeOnly bool, defaultImport, namespaceImport string, namedImports []string) {
	for i := uint(0); i < clause.ChildCount(); i++ {
		child := clause.Child(i)
		if child == nil {
			continue
		}
		switch child.GrammarName() {
		case "type":
			isTypeOnly = true
		case "identifier":
			defaultImport = p.text(child)
		case "namespace_import":
			namespaceImport = lastIdentifier(p, child)
		case "named_imports":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec == nil || spec.GrammarName() != "import_specifier" {
					continue
				}
				name := p.fieldText(spec, "name")
				if name != "" {
					namedImports = append(namedImports, name)
				}
			}
		}
	}
	return
}

func lastIdentifier(p *parser, n *tree_sitter.Node) string {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child != nil && child.GrammarName() == "identifier" {
			return p.text(child)
		}
	}
	return ""
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
