package treesitter

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/model"
)

// parseGo walks a Go source file: package clause, imports, top-level
// functions, methods (attached to their receiver type), and struct/
// interface declarations (§4.3).
func parseGo(c *ctx, root *tree_sitter.Node) {
	fileID := c.emitFile()

	pkgName := ""
	var containerIDByName = map[string]string{}

	for i := uint(0); i < root.ChildCount(); i++ {
		n := root.Child(i)
		if n == nil {
			continue
		}
		switch n.GrammarName() {
		case "package_clause":
			if id := n.ChildByFieldName("name"); id != nil {
				pkgName = c.text(id)
			} else if id := firstNamedChild(n, "package_identifier"); id != nil {
				pkgName = c.text(id)
			}
			qn := model.PackageQualifiedName(c.filePath, pkgName)
			nodeID := model.EntityID(model.KindPackageClause, qn)
			node := &model.Node{EntityID: nodeID, Kind: model.KindPackageClause, Name: pkgName, ParentID: fileID}
			loc(node, n)
			c.addNode(node)
			c.contains(fileID, nodeID, 1)
			c.addEdge(&model.Relationship{
				EntityID: model.RelationshipEntityID(model.RelDeclaresPackage, fileID, nodeID),
				Type:     model.RelDeclaresPackage, SourceID: fileID, TargetID: nodeID,
			})

		case "import_declaration":
			walkGoImports(c, n, fileID)

		case "function_declaration":
			emitGoFunction(c, n, fileID, pkgName)

		case "method_declaration":
			emitGoMethod(c, n, fileID, pkgName, containerIDByName)

		case "type_declaration":
			emitGoTypeDeclaration(c, n, fileID, pkgName, containerIDByName)
		}
	}
}

func firstNamedChild(n *tree_sitter.Node, grammarName string) *tree_sitter.Node {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child != nil && child.GrammarName() == grammarName {
			return child
		}
	}
	return nil
}

func walkGoImports(c *ctx, n *tree_sitter.Node, fileID string) {
	specs := []*tree_sitter.Node{}
	if n.GrammarName() == "import_declaration" {
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if child == nil {
				continue
			}
			switch child.GrammarName() {
			case "import_spec":
				specs = append(specs, child)
			case "import_spec_list":
				for j := uint(0); j < child.NamedChildCount(); j++ {
					if s := child.NamedChild(j); s != nil && s.GrammarName() == "import_spec" {
						specs = append(specs, s)
					}
				}
			}
		}
	}
	for _, spec := range specs {
		path := spec.ChildByFieldName("path")
		specifier := ""
		if path != nil {
			specifier = trimQuotes(c.text(path))
		}
		qn := model.ImportQualifiedName("ImportSpec", c.filePath, specifier, tsStartLine(spec))
		nodeID := model.EntityID(model.KindImportSpec, qn)
		node := &model.Node{EntityID: nodeID, Kind: model.KindImportSpec, Name: specifier, ParentID: fileID}
		loc(node, spec)
		node.SetProp("specifier", specifier)
		c.addNode(node)
		c.contains(fileID, nodeID, 1)
		c.addEdge(&model.Relationship{
			EntityID: model.RelationshipEntityID(model.RelImports, fileID, nodeID),
			Type:     model.RelImports, SourceID: fileID, TargetID: nodeID,
		})
	}
}

func trimQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}

func tsStartLine(n *tree_sitter.Node) int {
	return int(n.StartPosition().Row) + 1
}

func emitGoFunction(c *ctx, n *tree_sitter.Node, fileID, pkgName string) {
	name := c.fieldText(n, "name")
	if name == "" {
		return
	}
	qn := model.FunctionQualifiedName(c.filePath, name, tsStartLine(n))
	nodeID := model.EntityID(model.KindGoFunction, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindGoFunction, Name: name, ParentID: fileID}
	loc(node, n)
	node.SetProp("package", pkgName)
	c.addNode(node)
	c.contains(fileID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelDefinesFunction, fileID, nodeID),
		Type:     model.RelDefinesFunction, SourceID: fileID, TargetID: nodeID,
	})
	emitGoParameters(c, n, nodeID)
}

func emitGoMethod(c *ctx, n *tree_sitter.Node, fileID, pkgName string, containerIDByName map[string]string) {
	name := c.fieldText(n, "name")
	receiver := n.ChildByFieldName("receiver")
	receiverType := goReceiverTypeName(c, receiver)
	if name == "" || receiverType == "" {
		return
	}
	containerID, ok := containerIDByName[receiverType]
	if !ok {
		// Forward-referenced receiver type: synthesize the struct's id the
		// same way emitGoTypeDeclaration would, so the HAS_METHOD edge still
		// lands on the right entityId regardless of declaration order.
		qn := model.PackageQualifiedName(pkgName, receiverType)
		containerID = model.EntityID(model.KindGoStruct, qn)
	}
	qn := model.MethodQualifiedName(c.filePath, receiverType, name)
	nodeID := model.EntityID(model.KindGoMethod, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindGoMethod, Name: name, ParentID: containerID}
	loc(node, n)
	node.SetProp("package", pkgName)
	node.SetProp("receiver", receiverType)
	c.addNode(node)
	c.contains(containerID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelHasMethod, containerID, nodeID),
		Type:     model.RelHasMethod, SourceID: containerID, TargetID: nodeID,
	})
	emitGoParameters(c, n, nodeID)
}

func goReceiverTypeName(c *ctx, receiver *tree_sitter.Node) string {
	if receiver == nil {
		return ""
	}
	for i := uint(0); i < receiver.NamedChildCount(); i++ {
		p := receiver.NamedChild(i)
		if p == nil || p.GrammarName() != "parameter_declaration" {
			continue
		}
		t := p.ChildByFieldName("type")
		if t == nil {
			continue
		}
		return strings.TrimPrefix(c.text(t), "*")
	}
	return ""
}

func emitGoParameters(c *ctx, fnNode *tree_sitter.Node, fnID string) {
	params := fnNode.ChildByFieldName("parameters")
	if params == nil {
		return
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		if p == nil || p.GrammarName() != "parameter_declaration" {
			continue
		}
		name := c.fieldText(p, "name")
		if name == "" {
			continue
		}
		qn := model.ParameterQualifiedName(fnID, name)
		nodeID := model.EntityID(model.KindParameter, qn)
		node := &model.Node{EntityID: nodeID, Kind: model.KindParameter, Name: name, ParentID: fnID}
		loc(node, p)
		if t := p.ChildByFieldName("type"); t != nil {
			node.SetProp("type", c.text(t))
		}
		c.addNode(node)
		c.contains(fnID, nodeID, 1)
		c.addEdge(&model.Relationship{
			EntityID: model.RelationshipEntityID(model.RelHasParameter, fnID, nodeID),
			Type:     model.RelHasParameter, SourceID: fnID, TargetID: nodeID,
		})
	}
}

func emitGoTypeDeclaration(c *ctx, n *tree_sitter.Node, fileID, pkgName string, containerIDByName map[string]string) {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		spec := n.NamedChild(i)
		if spec == nil || spec.GrammarName() != "type_spec" {
			continue
		}
		name := c.fieldText(spec, "name")
		if name == "" {
			continue
		}
		underlying := spec.ChildByFieldName("type")
		kind := model.KindGoStruct
		if underlying != nil && underlying.GrammarName() == "interface_type" {
			kind = model.KindGoInterface
		}
		qn := model.PackageQualifiedName(pkgName, name)
		nodeID := model.EntityID(kind, qn)
		containerIDByName[name] = nodeID
		node := &model.Node{EntityID: nodeID, Kind: kind, Name: name, ParentID: fileID}
		loc(node, spec)
		node.SetProp("package", pkgName)
		c.addNode(node)
		c.contains(fileID, nodeID, 1)
		relType := model.RelDefinesStruct
		if kind == model.KindGoInterface {
			relType = model.RelDefinesInterface
		}
		c.addEdge(&model.Relationship{
			EntityID: model.RelationshipEntityID(relType, fileID, nodeID),
			Type:     relType, SourceID: fileID, TargetID: nodeID,
		})

		if underlying != nil && underlying.GrammarName() == "struct_type" {
			emitGoFields(c, underlying, nodeID)
		}
	}
}

func emitGoFields(c *ctx, structType *tree_sitter.Node, structID string) {
	body := structType.ChildByFieldName("body")
	if body == nil {
		for i := uint(0); i < structType.NamedChildCount(); i++ {
			if child := structType.NamedChild(i); child != nil && child.GrammarName() == "field_declaration_list" {
				body = child
			}
		}
	}
	if body == nil {
		return
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		decl := body.NamedChild(i)
		if decl == nil || decl.GrammarName() != "field_declaration" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := c.text(nameNode)
		qn := model.ContainerQualifiedName(structID, name)
		nodeID := model.EntityID(model.KindField, qn)
		node := &model.Node{EntityID: nodeID, Kind: model.KindField, Name: name, ParentID: structID}
		loc(node, decl)
		if t := decl.ChildByFieldName("type"); t != nil {
			node.SetProp("type", c.text(t))
		}
		c.addNode(node)
		c.contains(structID, nodeID, 1)
		c.addEdge(&model.Relationship{
			EntityID: model.RelationshipEntityID(model.RelHasField, structID, nodeID),
			Type:     model.RelHasField, SourceID: structID, TargetID: nodeID,
		})
	}
}
