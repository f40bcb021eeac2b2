package tsjs

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/model"
)

func (p *parser) emitClass(n *tree_sitter.Node, isExported, isDefault bool) {
	name := p.fieldText(n, "name")
	if name == "" {
		return
	}
	qn := model.ContainerQualifiedName(p.filePath, name)

	isComponent := looksLikeComponent(name) && classRendersJSX(p, n)
	kind := model.KindClass
	if isComponent {
		kind = model.KindComponent
	}
	nodeID := model.EntityID(kind, qn)
	node := &model.Node{EntityID: nodeID, Kind: kind, Name: name, ParentID: p.fileID}
	loc(node, n)
	node.SetProp("isExported", isExported)
	node.SetProp("isDefaultExport", isDefault)
	p.addNode(node)
	p.contains(p.fileID, nodeID)

	relType := model.RelDefinesClass
	if isComponent {
		relType = model.RelDefinesComponent
	}
	p.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(relType, p.fileID, nodeID),
		Type:     relType, SourceID: p.fileID, TargetID: nodeID,
	})

	if isExported {
		p.exports = append(p.exports, Export{Name: name, EntityID: nodeID, Kind: kind, IsDefaultExport: isDefault})
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child != nil && child.GrammarName() == "class_heritage" {
			p.emitClassHeritage(child, nodeID)
		}
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		member := body.NamedChild(i)
		if member == nil {
			continue
		}
		switch member.GrammarName() {
		case "method_definition":
			p.emitMethod(member, nodeID)
		case "public_field_definition", "field_definition":
			p.emitFieldMember(member, nodeID)
		}
	}
}

func classRendersJSX(p *parser, n *tree_sitter.Node) bool {
	body := n.ChildByFieldName("body")
	if body == nil {
		return false
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		member := body.NamedChild(i)
		if member == nil || member.GrammarName() != "method_definition" {
			continue
		}
		if p.fieldText(member, "name") == "render" && containsJSX(member) {
			return true
		}
	}
	return false
}

func (p *parser) emitClassHeritage(heritage *tree_sitter.Node, classID string) {
	for i := uint(0); i < heritage.NamedChildCount(); i++ {
		clause := heritage.NamedChild(i)
		if clause == nil {
			continue
		}
		switch clause.GrammarName() {
		case "extends_clause":
			for j := uint(0); j < clause.NamedChildCount(); j++ {
				target := clause.NamedChild(j)
				if target == nil {
					continue
				}
				p.emitInheritanceEdge(model.RelExtends, classID, p.text(target))
			}
		case "implements_clause":
			for j := uint(0); j < clause.NamedChildCount(); j++ {
				target := clause.NamedChild(j)
				if target == nil {
					continue
				}
				p.emitInheritanceEdge(model.RelImplements, classID, p.text(target))
			}
		}
	}
}

func (p *parser) emitInheritanceEdge(relType model.RelType, sourceID, targetName string) {
	targetID := model.PlaceholderID(model.KindClass, model.ContainerQualifiedName(p.filePath, targetName))
	edge := &model.Relationship{
		EntityID: model.RelationshipEntityID(relType, sourceID, targetID),
		Type:     relType, SourceID: sourceID, TargetID: targetID,
	}
	edge.SetProp("isPlaceholder", true)
	edge.SetProp("targetName", targetName)
	p.addEdge(edge)
}

func (p *parser) emitMethod(n *tree_sitter.Node, classID string) {
	name := p.fieldText(n, "name")
	if name == "" {
		return
	}
	isStatic := hasChildOfType(n, "static")
	isAsync := hasChildOfType(n, "async")

	qn := model.MethodQualifiedName(p.filePath, classID, name)
	nodeID := model.EntityID(model.KindMethod, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindMethod, Name: name, ParentID: classID}
	loc(node, n)
	node.SetProp("visibility", methodVisibility(n))
	node.SetProp("isStatic", isStatic)
	node.SetProp("isAsync", isAsync)
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		node.SetProp("returnType", p.text(rt))
	}
	node.SetProp("cyclomaticComplexity", cyclomaticComplexity(n))
	p.addNode(node)
	p.contains(classID, nodeID)
	p.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelHasMethod, classID, nodeID),
		Type:     model.RelHasMethod, SourceID: classID, TargetID: nodeID,
	})
	p.emitParameters(n, nodeID)
	p.collectCallSitesAndErrors(n, nodeID)
}

func methodVisibility(n *tree_sitter.Node) model.Visibility {
	if hasChildOfType(n, "private") {
		return model.VisibilityPrivate
	}
	if hasChildOfType(n, "protected") {
		return model.VisibilityProtected
	}
	return model.VisibilityPublic
}

func (p *parser) emitFieldMember(n *tree_sitter.Node, classID string) {
	name := p.fieldText(n, "property")
	if name == "" {
		name = p.fieldText(n, "name")
	}
	if name == "" {
		return
	}
	qn := model.ContainerQualifiedName(classID, name)
	nodeID := model.EntityID(model.KindField, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindField, Name: name, ParentID: classID}
	loc(node, n)
	if t := n.ChildByFieldName("type"); t != nil {
		node.SetProp("type", p.text(t))
	}
	node.SetProp("visibility", methodVisibility(n))
	p.addNode(node)
	p.contains(classID, nodeID)
	p.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelHasField, classID, nodeID),
		Type:     model.RelHasField, SourceID: classID, TargetID: nodeID,
	})
}

func (p *parser) emitInterface(n *tree_sitter.Node, isExported bool) {
	name := p.fieldText(n, "name")
	if name == "" {
		return
	}
	qn := model.ContainerQualifiedName(p.filePath, name)
	nodeID := model.EntityID(model.KindInterface, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindInterface, Name: name, ParentID: p.fileID}
	loc(node, n)
	node.SetProp("isExported", isExported)
	p.addNode(node)
	p.contains(p.fileID, nodeID)
	p.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelDefinesInterface, p.fileID, nodeID),
		Type:     model.RelDefinesInterface, SourceID: p.fileID, TargetID: nodeID,
	})
	if isExported {
		p.exports = append(p.exports, Export{Name: name, EntityID: nodeID, Kind: model.KindInterface})
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child != nil && child.GrammarName() == "extends_type_clause" {
			for j := uint(0); j < child.NamedChildCount(); j++ {
				target := child.NamedChild(j)
				if target != nil {
					p.emitInheritanceEdge(model.RelExtends, nodeID, p.text(target))
				}
			}
		}
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		member := body.NamedChild(i)
		if member == nil || member.GrammarName() != "method_signature" {
			continue
		}
		p.emitMethodSignature(member, nodeID)
	}
}

func (p *parser) emitMethodSignature(n *tree_sitter.Node, interfaceID string) {
	name := p.fieldText(n, "name")
	if name == "" {
		return
	}
	qn := model.MethodQualifiedName(p.filePath, interfaceID, name)
	nodeID := model.EntityID(model.KindMethod, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindMethod, Name: name, ParentID: interfaceID}
	loc(node, n)
	node.SetProp("isSignature", true)
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		node.SetProp("returnType", p.text(rt))
	}
	p.addNode(node)
	p.contains(interfaceID, nodeID)
	p.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelHasMethod, interfaceID, nodeID),
		Type:     model.RelHasMethod, SourceID: interfaceID, TargetID: nodeID,
	})
	p.emitParameters(n, nodeID)
}
