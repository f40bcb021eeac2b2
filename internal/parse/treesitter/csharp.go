package treesitter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/model"
)

// parseCSharp walks a C# compilation unit: using directives, and
// namespace-qualified classes/interfaces/structs with their methods,
// properties, and fields (§4.3). The namespace stack is threaded
// explicitly through recursion rather than tracked as package state.
func parseCSharp(c *ctx, root *tree_sitter.Node) {
	fileID := c.emitFile()
	walkCSharpMembers(c, root, fileID, "")
}

func walkCSharpMembers(c *ctx, n *tree_sitter.Node, fileID string, namespace string) {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.GrammarName() {
		case "using_directive":
			emitCSharpUsing(c, child, fileID)

		case "namespace_declaration", "file_scoped_namespace_declaration":
			name := c.fieldText(child, "name")
			ns := joinNamespace(namespace, name)
			qn := model.PackageQualifiedName(c.filePath, ns)
			nodeID := model.EntityID(model.KindNamespaceDeclaration, qn)
			node := &model.Node{EntityID: nodeID, Kind: model.KindNamespaceDeclaration, Name: ns, ParentID: fileID}
			loc(node, child)
			c.addNode(node)
			c.contains(fileID, nodeID, 1)
			c.addEdge(&model.Relationship{
				EntityID: model.RelationshipEntityID(model.RelDeclaresNamespace, fileID, nodeID),
				Type:     model.RelDeclaresNamespace, SourceID: fileID, TargetID: nodeID,
			})
			if body := child.ChildByFieldName("body"); body != nil {
				walkCSharpMembers(c, body, fileID, ns)
			} else {
				walkCSharpMembers(c, child, fileID, ns)
			}

		case "class_declaration", "interface_declaration", "struct_declaration":
			emitCSharpType(c, child, fileID, namespace)
		}
	}
}

func joinNamespace(outer, inner string) string {
	if outer == "" {
		return inner
	}
	if inner == "" {
		return outer
	}
	return outer + "." + inner
}

func emitCSharpUsing(c *ctx, n *tree_sitter.Node, fileID string) {
	name := ""
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child != nil {
			name = c.text(child)
			break
		}
	}
	qn := model.ImportQualifiedName("UsingDirective", c.filePath, name, tsStartLine(n))
	nodeID := model.EntityID(model.KindUsingDirective, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindUsingDirective, Name: name, ParentID: fileID}
	loc(node, n)
	node.SetProp("specifier", name)
	c.addNode(node)
	c.contains(fileID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelImports, fileID, nodeID),
		Type:     model.RelImports, SourceID: fileID, TargetID: nodeID,
	})
}

func emitCSharpType(c *ctx, n *tree_sitter.Node, fileID, namespace string) {
	name := c.fieldText(n, "name")
	if name == "" {
		return
	}
	kind := model.KindCSharpClass
	relType := model.RelDefinesClass
	switch n.GrammarName() {
	case "interface_declaration":
		kind = model.KindCSharpInterface
		relType = model.RelDefinesInterface
	case "struct_declaration":
		kind = model.KindCSharpStruct
		relType = model.RelDefinesStruct
	}
	qn := model.PackageQualifiedName(namespace, name)
	nodeID := model.EntityID(kind, qn)
	node := &model.Node{EntityID: nodeID, Kind: kind, Name: name, ParentID: fileID}
	loc(node, n)
	node.SetProp("namespace", namespace)
	c.addNode(node)
	c.contains(fileID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(relType, fileID, nodeID),
		Type:     relType, SourceID: fileID, TargetID: nodeID,
	})

	if bases := n.ChildByFieldName("bases"); bases != nil {
		emitCSharpBases(c, bases, nodeID, namespace)
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
		case "method_declaration":
			emitCSharpMethod(c, member, nodeID)
		case "property_declaration":
			emitCSharpProperty(c, member, nodeID)
		case "field_declaration":
			emitCSharpField(c, member, nodeID)
		}
	}
}

// emitCSharpBases emits EXTENDS/IMPLEMENTS edges. The grammar does not
// distinguish a base class from an implemented interface syntactically;
// C# convention lists the base class first when present, but since that
// is undecidable from the grammar alone every base list entry is treated
// as IMPLEMENTS unless it is the sole entry, in which case it is also
// ambiguous — so all entries are emitted as IMPLEMENTS, consistent with
// "an interface is also a valid value here" being the common case.
func emitCSharpBases(c *ctx, bases *tree_sitter.Node, classID, namespace string) {
	for i := uint(0); i < bases.NamedChildCount(); i++ {
		b := bases.NamedChild(i)
		if b == nil {
			continue
		}
		baseName := c.text(b)
		targetID := model.PlaceholderID(model.KindCSharpClass, model.PackageQualifiedName(namespace, baseName))
		edge := &model.Relationship{
			EntityID: model.RelationshipEntityID(model.RelImplements, classID, targetID),
			Type:     model.RelImplements, SourceID: classID, TargetID: targetID,
		}
		edge.SetProp("isPlaceholder", true)
		edge.SetProp("targetName", baseName)
		c.addEdge(edge)
	}
}

func emitCSharpMethod(c *ctx, n *tree_sitter.Node, classID string) {
	name := c.fieldText(n, "name")
	if name == "" {
		return
	}
	qn := model.ContainerQualifiedName(classID, name)
	nodeID := model.EntityID(model.KindCSharpMethod, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindCSharpMethod, Name: name, ParentID: classID}
	loc(node, n)
	c.addNode(node)
	c.contains(classID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelHasMethod, classID, nodeID),
		Type:     model.RelHasMethod, SourceID: classID, TargetID: nodeID,
	})

	params := n.ChildByFieldName("parameters")
	if params == nil {
		return
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		if p == nil || p.GrammarName() != "parameter" {
			continue
		}
		pname := c.fieldText(p, "name")
		if pname == "" {
			continue
		}
		pqn := model.ParameterQualifiedName(nodeID, pname)
		pid := model.EntityID(model.KindParameter, pqn)
		pnode := &model.Node{EntityID: pid, Kind: model.KindParameter, Name: pname, ParentID: nodeID}
		loc(pnode, p)
		if t := p.ChildByFieldName("type"); t != nil {
			pnode.SetProp("type", c.text(t))
		}
		c.addNode(pnode)
		c.contains(nodeID, pid, 1)
		c.addEdge(&model.Relationship{
			EntityID: model.RelationshipEntityID(model.RelHasParameter, nodeID, pid),
			Type:     model.RelHasParameter, SourceID: nodeID, TargetID: pid,
		})
	}
}

func emitCSharpProperty(c *ctx, n *tree_sitter.Node, classID string) {
	name := c.fieldText(n, "name")
	if name == "" {
		return
	}
	qn := model.ContainerQualifiedName(classID, name)
	nodeID := model.EntityID(model.KindProperty, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindProperty, Name: name, ParentID: classID}
	loc(node, n)
	if t := n.ChildByFieldName("type"); t != nil {
		node.SetProp("type", c.text(t))
	}
	c.addNode(node)
	c.contains(classID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelHasProperty, classID, nodeID),
		Type:     model.RelHasProperty, SourceID: classID, TargetID: nodeID,
	})
}

func emitCSharpField(c *ctx, n *tree_sitter.Node, classID string) {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.GrammarName() != "variable_declaration" {
			continue
		}
		for j := uint(0); j < child.NamedChildCount(); j++ {
			declarator := child.NamedChild(j)
			if declarator == nil || declarator.GrammarName() != "variable_declarator" {
				continue
			}
			nameNode := declarator.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			name := c.text(nameNode)
			qn := model.ContainerQualifiedName(classID, name)
			nodeID := model.EntityID(model.KindField, qn)
			node := &model.Node{EntityID: nodeID, Kind: model.KindField, Name: name, ParentID: classID}
			loc(node, n)
			c.addNode(node)
			c.contains(classID, nodeID, 1)
			c.addEdge(&model.Relationship{
				EntityID: model.RelationshipEntityID(model.RelHasField, classID, nodeID),
				Type:     model.RelHasField, SourceID: classID, TargetID: nodeID,
			})
		}
	}
}
