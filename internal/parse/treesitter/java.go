package treesitter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/model"
)

// parseJava walks a Java compilation unit: package declaration, imports,
// and classes/interfaces with their methods and fields, addressed by
// package-qualified name (§4.3: "Java classes are identified by
// package-qualified name, not file path, since multiple top-level and
// nested classes can share one file").
func parseJava(c *ctx, root *tree_sitter.Node) {
	fileID := c.emitFile()
	pkgName := ""

	for i := uint(0); i < root.NamedChildCount(); i++ {
		n := root.NamedChild(i)
		if n == nil {
			continue
		}
		switch n.GrammarName() {
		case "package_declaration":
			if id := firstIdentifierLike(n); id != nil {
				pkgName = c.text(id)
			}
			qn := model.PackageQualifiedName(c.filePath, pkgName)
			nodeID := model.EntityID(model.KindPackageDeclaration, qn)
			node := &model.Node{EntityID: nodeID, Kind: model.KindPackageDeclaration, Name: pkgName, ParentID: fileID}
			loc(node, n)
			c.addNode(node)
			c.contains(fileID, nodeID, 1)
			c.addEdge(&model.Relationship{
				EntityID: model.RelationshipEntityID(model.RelDeclaresPackage, fileID, nodeID),
				Type:     model.RelDeclaresPackage, SourceID: fileID, TargetID: nodeID,
			})

		case "import_declaration":
			emitJavaImport(c, n, fileID)

		case "class_declaration", "interface_declaration", "enum_declaration":
			emitJavaType(c, n, fileID, pkgName)
		}
	}
}

func firstIdentifierLike(n *tree_sitter.Node) *tree_sitter.Node {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.GrammarName() {
		case "identifier", "scoped_identifier":
			return child
		}
	}
	return nil
}

func emitJavaImport(c *ctx, n *tree_sitter.Node, fileID string) {
	spec := firstIdentifierLike(n)
	if spec == nil {
		return
	}
	specifier := ""
	// text of import_declaration minus the leading "import"/trailing ";"
	full := spec
	specifier = nodeText(c, full)
	qn := model.ImportQualifiedName("ImportDeclaration", c.filePath, specifier, tsStartLine(n))
	nodeID := model.EntityID(model.KindImportDeclaration, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindImportDeclaration, Name: specifier, ParentID: fileID}
	loc(node, n)
	node.SetProp("specifier", specifier)
	c.addNode(node)
	c.contains(fileID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelImports, fileID, nodeID),
		Type:     model.RelImports, SourceID: fileID, TargetID: nodeID,
	})
}

func nodeText(c *ctx, n *tree_sitter.Node) string {
	return c.text(n)
}

func emitJavaType(c *ctx, n *tree_sitter.Node, fileID, pkgName string) {
	name := c.fieldText(n, "name")
	if name == "" {
		return
	}
	kind := model.KindJavaClass
	relType := model.RelDefinesClass
	if n.GrammarName() == "interface_declaration" {
		relType = model.RelDefinesInterface
	}
	qn := model.PackageQualifiedName(pkgName, name)
	nodeID := model.EntityID(kind, qn)
	node := &model.Node{EntityID: nodeID, Kind: kind, Name: name, ParentID: fileID}
	loc(node, n)
	node.SetProp("package", pkgName)
	visibility := javaVisibility(n)
	node.SetProp("visibility", visibility)
	c.addNode(node)
	c.contains(fileID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(relType, fileID, nodeID),
		Type:     relType, SourceID: fileID, TargetID: nodeID,
	})

	if super := n.ChildByFieldName("superclass"); super != nil {
		superName := extractTypeName(c, super)
		targetID := model.PlaceholderID(model.KindJavaClass, model.PackageQualifiedName(pkgName, superName))
		edge := &model.Relationship{
			EntityID: model.RelationshipEntityID(model.RelExtends, nodeID, targetID),
			Type:     model.RelExtends, SourceID: nodeID, TargetID: targetID,
		}
		edge.SetProp("isPlaceholder", true)
		edge.SetProp("targetName", superName)
		c.addEdge(edge)
	}
	if interfaces := n.ChildByFieldName("interfaces"); interfaces != nil {
		emitJavaImplements(c, interfaces, nodeID, pkgName)
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
		case "method_declaration", "constructor_declaration":
			emitJavaMethod(c, member, nodeID, name, member.GrammarName() == "constructor_declaration")
		case "field_declaration":
			emitJavaField(c, member, nodeID)
		}
	}
}

func javaVisibility(n *tree_sitter.Node) model.Visibility {
	mods := n.ChildByFieldName("modifiers")
	if mods == nil {
		return model.VisibilityPackage
	}
	for i := uint(0); i < mods.NamedChildCount(); i++ {
		m := mods.NamedChild(i)
		if m == nil {
			continue
		}
		switch m.GrammarName() {
		case "public":
			return model.VisibilityPublic
		case "private":
			return model.VisibilityPrivate
		case "protected":
			return model.VisibilityProtected
		}
	}
	return model.VisibilityPackage
}

func extractTypeName(c *ctx, n *tree_sitter.Node) string {
	return c.text(n)
}

func emitJavaImplements(c *ctx, interfaces *tree_sitter.Node, classID, pkgName string) {
	for i := uint(0); i < interfaces.NamedChildCount(); i++ {
		iface := interfaces.NamedChild(i)
		if iface == nil {
			continue
		}
		ifaceName := extractTypeName(c, iface)
		targetID := model.PlaceholderID(model.KindJavaClass, model.PackageQualifiedName(pkgName, ifaceName))
		edge := &model.Relationship{
			EntityID: model.RelationshipEntityID(model.RelImplements, classID, targetID),
			Type:     model.RelImplements, SourceID: classID, TargetID: targetID,
		}
		edge.SetProp("isPlaceholder", true)
		edge.SetProp("targetName", ifaceName)
		c.addEdge(edge)
	}
}

func emitJavaMethod(c *ctx, n *tree_sitter.Node, classID, className string, isConstructor bool) {
	name := c.fieldText(n, "name")
	if name == "" {
		name = className // constructor
	}
	qn := model.MethodQualifiedName(c.filePath, className, name)
	nodeID := model.EntityID(model.KindJavaMethod, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindJavaMethod, Name: name, ParentID: classID}
	loc(node, n)
	node.SetProp("visibility", javaVisibility(n))
	node.SetProp("isConstructor", isConstructor)
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
		if p == nil || p.GrammarName() != "formal_parameter" {
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

func emitJavaField(c *ctx, n *tree_sitter.Node, classID string) {
	declarator := n.ChildByFieldName("declarator")
	if declarator == nil {
		return
	}
	nameNode := declarator.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := c.text(nameNode)
	qn := model.ContainerQualifiedName(classID, name)
	nodeID := model.EntityID(model.KindField, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindField, Name: name, ParentID: classID}
	loc(node, n)
	if t := n.ChildByFieldName("type"); t != nil {
		node.SetProp("type", c.text(t))
	}
	node.SetProp("visibility", javaVisibility(n))
	c.addNode(node)
	c.contains(classID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelHasField, classID, nodeID),
		Type:     model.RelHasField, SourceID: classID, TargetID: nodeID,
	})
}
