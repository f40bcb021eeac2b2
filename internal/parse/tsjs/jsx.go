package tsjs

import (
	"strconv"
	"strings"
	"unicode"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/model"
)

// walkJSXIn walks a component's body looking for jsx_element/
// jsx_self_closing_element nodes, emitting a JSXElement per tag and a
// RENDERS_ELEMENT edge from the owning component (or from a parent
// JSXElement, for nested tags). JSXAttribute and TailwindClass nodes are
// emitted per §4.2.
func (p *parser) walkJSXIn(body *tree_sitter.Node, componentID string) {
	tsjsWalk(body, func(n *tree_sitter.Node) bool {
		switch n.GrammarName() {
		case "jsx_element", "jsx_self_closing_element":
			p.emitJSXElement(n, componentID, componentID)
			return false // descend via emitJSXElement's own recursion, not the outer walk
		}
		return true
	})
}

func (p *parser) emitJSXElement(n *tree_sitter.Node, componentID, rendererID string) {
	opening := n
	if n.GrammarName() == "jsx_element" {
		if o := n.ChildByFieldName("open_tag"); o != nil {
			opening = o
		}
	}
	tagName := jsxTagName(p, opening)
	if tagName == "" {
		return
	}

	qn := model.ContainerQualifiedName(p.filePath, tagName+":"+strconv.Itoa(startLine(n)))
	nodeID := model.EntityID(model.KindJSXElement, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindJSXElement, Name: tagName, ParentID: rendererID}
	loc(node, n)
	p.addNode(node)
	p.contains(rendererID, nodeID)
	p.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelRendersElement, rendererID, nodeID),
		Type:     model.RelRendersElement, SourceID: rendererID, TargetID: nodeID,
	})

	if isUpper(tagName) {
		targetID := model.PlaceholderID(model.KindComponent, model.ContainerQualifiedName(p.filePath, tagName))
		edge := &model.Relationship{
			EntityID: model.RelationshipEntityID(model.RelUsesComponent, componentID, targetID),
			Type:     model.RelUsesComponent, SourceID: componentID, TargetID: targetID,
		}
		edge.SetProp("isPlaceholder", true)
		edge.SetProp("targetName", tagName)
		p.addEdge(edge)
	}

	p.emitJSXAttributes(opening, nodeID)

	// recurse into children, looking for nested jsx elements and passing
	// this element as the new renderer so RENDERS_ELEMENT chains correctly
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		p.walkJSXChild(child, componentID, nodeID)
	}
}

func (p *parser) walkJSXChild(n *tree_sitter.Node, componentID, rendererID string) {
	switch n.GrammarName() {
	case "jsx_element", "jsx_self_closing_element":
		p.emitJSXElement(n, componentID, rendererID)
	default:
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if child != nil {
				p.walkJSXChild(child, componentID, rendererID)
			}
		}
	}
}

func jsxTagName(p *parser, opening *tree_sitter.Node) string {
	n := opening.ChildByFieldName("name")
	if n == nil {
		return ""
	}
	return p.text(n)
}

func isUpper(s string) bool {
	if s == "" {
		return false
	}
	return unicode.IsUpper([]rune(s)[0])
}

func (p *parser) emitJSXAttributes(opening *tree_sitter.Node, elementID string) {
	for i := uint(0); i < opening.NamedChildCount(); i++ {
		attr := opening.NamedChild(i)
		if attr == nil || attr.GrammarName() != "jsx_attribute" {
			continue
		}
		name := p.fieldText(attr, "name")
		if name == "" && attr.NamedChildCount() > 0 {
			name = p.text(attr.NamedChild(0))
		}
		if name == "" {
			continue
		}
		qn := model.ContainerQualifiedName(elementID, name)
		nodeID := model.EntityID(model.KindJSXAttribute, qn)
		node := &model.Node{EntityID: nodeID, Kind: model.KindJSXAttribute, Name: name, ParentID: elementID}
		loc(node, attr)
		value := attr.ChildByFieldName("value")
		if value == nil && attr.NamedChildCount() > 1 {
			value = attr.NamedChild(1)
		}
		var valueText string
		if value != nil {
			valueText = p.text(value)
			node.SetProp("value", valueText)
		}
		p.addNode(node)
		p.contains(elementID, nodeID)
		p.addEdge(&model.Relationship{
			EntityID: model.RelationshipEntityID(model.RelHasProp, elementID, nodeID),
			Type:     model.RelHasProp, SourceID: elementID, TargetID: nodeID,
		})

		if name == "className" {
			p.emitTailwindClasses(valueText, elementID)
		}
	}
}

// emitTailwindClasses splits a className string literal into per-token
// TailwindClass nodes, cached per file by class string so that repeated
// use of the same utility class across the file shares one node (§4.2).
func (p *parser) emitTailwindClasses(raw string, elementID string) {
	raw = strings.Trim(raw, `"'{}`)
	for _, token := range strings.Fields(raw) {
		entityID, ok := p.tailwind[token]
		if !ok {
			qn := model.ContainerQualifiedName(p.filePath, "tailwind:"+token)
			entityID = model.EntityID(model.KindTailwindClass, qn)
			node := &model.Node{EntityID: entityID, Kind: model.KindTailwindClass, Name: token, ParentID: p.fileID}
			p.addNode(node)
			p.tailwind[token] = entityID
		}
		p.addEdge(&model.Relationship{
			EntityID: model.RelationshipEntityID(model.RelUsesTailwindClass, elementID, entityID),
			Type:     model.RelUsesTailwindClass, SourceID: elementID, TargetID: entityID,
		})
	}
}

