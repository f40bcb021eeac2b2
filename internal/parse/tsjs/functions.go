package tsjs

import (
	"fmt"
	"strings"
	"unicode"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/model"
)

func (p *parser) emitFunctionDeclaration(n *tree_sitter.Node, isExported, isDefault bool) {
	name := p.fieldText(n, "name")
	if name == "" {
		return
	}
	p.emitFunctionLike(n, name, isExported, isDefault, nil)
}

// emitFunctionLike emits a Function node for a function_declaration,
// function_expression, arrow_function, or generator variant, plus its
// parameters. parentContainerID, when non-empty, is used instead of the
// file as the CONTAINS parent (methods handle their own container edge
// separately and never call this).
func (p *parser) emitFunctionLike(n *tree_sitter.Node, name string, isExported, isDefault bool, parentContainerID *string) string {
	isAsync := hasChildOfType(n, "async")
	isGenerator := n.GrammarName() == "generator_function_declaration" || n.ChildByFieldName("name") != nil && hasChildOfType(n, "*")

	qn := model.FunctionQualifiedName(p.filePath, name, startLine(n))
	nodeID := model.EntityID(model.KindFunction, qn)

	parentID := p.fileID
	if parentContainerID != nil {
		parentID = *parentContainerID
	}

	node := &model.Node{EntityID: nodeID, Kind: model.KindFunction, Name: name, ParentID: parentID}
	loc(node, n)
	node.SetProp("isExported", isExported)
	node.SetProp("isDefaultExport", isDefault)
	node.SetProp("isAsync", isAsync)
	node.SetProp("isGenerator", isGenerator)
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		node.SetProp("returnType", p.text(rt))
	}
	node.SetProp("cyclomaticComplexity", cyclomaticComplexity(n))

	if isExported {
		p.exports = append(p.exports, Export{Name: name, EntityID: nodeID, Kind: model.KindFunction, IsDefaultExport: isDefault})
	}

	isComponent := looksLikeComponent(name) && (containsJSX(n) || hasReactReturnType(p, n))
	if isComponent {
		node.Kind = model.KindComponent
		p.addNode(node)
		p.contains(parentID, nodeID)
		p.addEdge(&model.Relationship{
			EntityID: model.RelationshipEntityID(model.RelDefinesComponent, parentID, nodeID),
			Type:     model.RelDefinesComponent, SourceID: parentID, TargetID: nodeID,
		})
		p.emitParameters(n, nodeID)
		p.collectCallSitesAndErrors(n, nodeID)
		if body := n.ChildByFieldName("body"); body != nil {
			p.walkJSXIn(body, nodeID)
		}
		return nodeID
	}

	p.addNode(node)
	p.contains(parentID, nodeID)
	p.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelDefinesFunction, parentID, nodeID),
		Type:     model.RelDefinesFunction, SourceID: parentID, TargetID: nodeID,
	})
	p.emitParameters(n, nodeID)
	p.collectCallSitesAndErrors(n, nodeID)
	return nodeID
}

func hasChildOfType(n *tree_sitter.Node, grammarName string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && child.GrammarName() == grammarName {
			return true
		}
	}
	return false
}

func looksLikeComponent(name string) bool {
	if name == "" {
		return false
	}
	r := []rune(name)
	return unicode.IsUpper(r[0])
}

func hasReactReturnType(p *parser, n *tree_sitter.Node) bool {
	rt := n.ChildByFieldName("return_type")
	if rt == nil {
		return false
	}
	text := p.text(rt)
	return strings.Contains(text, "JSX.Element") || strings.Contains(text, "ReactElement") || strings.Contains(text, "React.FC")
}

// containsJSX reports whether n contains a jsx_element or
// jsx_self_closing_element anywhere in its subtree.
func containsJSX(n *tree_sitter.Node) bool {
	found := false
	tsjsWalk(n, func(inner *tree_sitter.Node) bool {
		if found {
			return false
		}
		switch inner.GrammarName() {
		case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
			found = true
			return false
		}
		return true
	})
	return found
}

func tsjsWalk(n *tree_sitter.Node, fn func(*tree_sitter.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if child := n.NamedChild(i); child != nil {
			tsjsWalk(child, fn)
		}
	}
}

func (p *parser) emitParameters(fnNode *tree_sitter.Node, fnID string) {
	params := fnNode.ChildByFieldName("parameters")
	if params == nil {
		// arrow functions with a single bare identifier parameter have no
		// parameters list; the grammar gives the identifier directly.
		if single := fnNode.ChildByFieldName("parameter"); single != nil {
			p.emitOneParameter(single, fnID, 0)
		}
		return
	}
	idx := 0
	for i := uint(0); i < params.NamedChildCount(); i++ {
		param := params.NamedChild(i)
		if param == nil {
			continue
		}
		switch param.GrammarName() {
		case "required_parameter", "optional_parameter", "identifier", "object_pattern", "array_pattern":
			p.emitOneParameter(param, fnID, idx)
			idx++
		}
	}
}

func (p *parser) emitOneParameter(param *tree_sitter.Node, fnID string, idx int) {
	name := p.fieldText(param, "pattern")
	if name == "" {
		name = p.text(param)
	}
	if name == "" {
		name = fmt.Sprintf("arg%d", idx)
	}
	qn := model.ParameterQualifiedName(fnID, name)
	nodeID := model.EntityID(model.KindParameter, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindParameter, Name: name, ParentID: fnID}
	loc(node, param)
	if t := param.ChildByFieldName("type"); t != nil {
		node.SetProp("type", p.text(t))
	}
	p.addNode(node)
	p.contains(fnID, nodeID)
	p.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelHasParameter, fnID, nodeID),
		Type:     model.RelHasParameter, SourceID: fnID, TargetID: nodeID,
	})
}

// anonymousName produces the synthetic name for an unbound function-like
// expression per §4.2: callback_<caller>_arg<N> when the enclosing call
// is known, else anonymousLambda.
func (p *parser) anonymousName(caller string, argIndex int) string {
	if caller != "" {
		return fmt.Sprintf("callback_%s_arg%d", caller, argIndex)
	}
	return "anonymousLambda"
}
