package tsjs

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/model"
)

// emitVariableDeclaration handles `const`/`let`/`var` statements. A
// declarator whose initializer is function-like becomes a Function (or
// Component) instead of a Variable, per §4.2.
func (p *parser) emitVariableDeclaration(n *tree_sitter.Node, isExported, isDefault bool) {
	isConstant := n.GrammarName() == "lexical_declaration" && firstChildText(p, n) == "const"

	for i := uint(0); i < n.NamedChildCount(); i++ {
		declarator := n.NamedChild(i)
		if declarator == nil || declarator.GrammarName() != "variable_declarator" {
			continue
		}
		name := p.fieldText(declarator, "name")
		if name == "" {
			continue
		}
		value := declarator.ChildByFieldName("value")
		if value != nil && isFunctionLike(value) {
			p.emitFunctionLike(value, name, isExported, isDefault, nil)
			continue
		}

		qn := model.VariableQualifiedName(p.filePath, name, startLine(declarator))
		nodeID := model.EntityID(model.KindVariable, qn)
		node := &model.Node{EntityID: nodeID, Kind: model.KindVariable, Name: name, ParentID: p.fileID}
		loc(node, declarator)
		node.SetProp("isExported", isExported)
		node.SetProp("isConstant", isConstant)
		if t := declarator.ChildByFieldName("type"); t != nil {
			node.SetProp("type", p.text(t))
		}
		p.addNode(node)
		p.contains(p.fileID, nodeID)

		if isExported {
			p.exports = append(p.exports, Export{Name: name, EntityID: nodeID, Kind: model.KindVariable, IsDefaultExport: isDefault})
		}
	}
}

func isFunctionLike(n *tree_sitter.Node) bool {
	switch n.GrammarName() {
	case "arrow_function", "function_expression", "generator_function":
		return true
	}
	return false
}

func firstChildText(p *parser, n *tree_sitter.Node) string {
	if n.ChildCount() == 0 {
		return ""
	}
	child := n.Child(0)
	if child == nil {
		return ""
	}
	return p.text(child)
}

func (p *parser) emitTypeAlias(n *tree_sitter.Node, isExported, isEnum bool) {
	name := p.fieldText(n, "name")
	if name == "" {
		return
	}
	qn := model.ContainerQualifiedName(p.filePath, name)
	nodeID := model.EntityID(model.KindTypeAlias, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindTypeAlias, Name: name, ParentID: p.fileID}
	loc(node, n)
	node.SetProp("isExported", isExported)
	node.SetProp("isEnum", isEnum)
	p.addNode(node)
	p.contains(p.fileID, nodeID)

	if isExported {
		p.exports = append(p.exports, Export{Name: name, EntityID: nodeID, Kind: model.KindTypeAlias})
	}
}
