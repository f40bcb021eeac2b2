package treesitter

import (
	"log/slog"
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/model"
)

// parseCOrCpp walks a C or C++ translation unit: #include directives,
// free functions, and (C++ only) classes/structs with their methods and
// fields. The C and C++ grammars share most node shapes; isCpp only
// gates class/method extraction and the KindCppClass/KindCFunction
// split (§4.3).
//
// The grammar exposes class_specifier/struct_specifier as distinct node
// types in the well-formed case, so emitCppClass tells them apart with
// GrammarName(). It occasionally misclassifies a class/struct
// declaration as a function_definition instead; that quirk is not
// patched in the grammar but recovered from textually, by checking
// whether the node's own source text begins with "class " or
// "struct " (§4.3, §9).
func parseCOrCpp(c *ctx, root *tree_sitter.Node, isCpp bool) {
	fileID := c.emitFile()

	var walk func(n *tree_sitter.Node, containerID string)
	walk = func(n *tree_sitter.Node, containerID string) {
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if child == nil {
				continue
			}
			switch child.GrammarName() {
			case "preproc_include":
				emitCInclude(c, child, fileID)

			case "function_definition":
				if isCpp {
					if kw, ok := misparsedClassKeyword(c, child); ok {
						slog.Warn("treesitter.cpp.grammar_quirk_recovered",
							"file", c.filePath, "line", tsStartLine(child), "keyword", kw)
						emitMisparsedCppClass(c, child, kw, fileID, containerID)
						continue
					}
				}
				if containerID == "" {
					emitCFunction(c, child, fileID)
				} else {
					emitCppMethod(c, child, containerID)
				}

			case "class_specifier", "struct_specifier":
				if isCpp {
					emitCppClass(c, child, fileID, walk)
				}

			case "declaration", "field_declaration":
				if isCpp {
					emitCppFieldFromDeclaration(c, child, containerID)
				}

			case "preproc_def", "preproc_function_def":
				emitCMacro(c, child, fileID)

			case "linkage_specification", "namespace_definition":
				walk(child, containerID)
			}
		}
	}
	walk(root, "")
}

// misparsedClassKeyword implements the §9 textual-prefix workaround: a
// function_definition node whose own source text begins with "class "
// or "struct " is actually a misclassified class/struct declaration.
func misparsedClassKeyword(c *ctx, n *tree_sitter.Node) (string, bool) {
	text := c.text(n)
	switch {
	case strings.HasPrefix(text, "class "):
		return "class", true
	case strings.HasPrefix(text, "struct "):
		return "struct", true
	default:
		return "", false
	}
}

// emitMisparsedCppClass recovers a CppClass node from a
// function_definition node the grammar misclassified. The node's own
// field accessors (declarator, body) describe a function shape, not a
// class one, so the name is read back out of the literal text instead;
// member extraction is skipped rather than risked against the wrong
// field layout.
func emitMisparsedCppClass(c *ctx, n *tree_sitter.Node, keyword, fileID, containerID string) {
	name := classNameAfterKeyword(c.text(n), keyword)
	if name == "" {
		slog.Warn("treesitter.cpp.grammar_quirk_unresolved", "file", c.filePath, "line", tsStartLine(n))
		return
	}
	parentID := fileID
	if containerID != "" {
		parentID = containerID
	}
	qn := model.ContainerQualifiedName(c.filePath, name)
	nodeID := model.EntityID(model.KindCppClass, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindCppClass, Name: name, ParentID: parentID}
	loc(node, n)
	node.SetProp("isStruct", keyword == "struct")
	node.SetProp("isGrammarQuirkRecovery", true)
	c.addNode(node)
	c.contains(parentID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelDefinesClass, parentID, nodeID),
		Type:     model.RelDefinesClass, SourceID: parentID, TargetID: nodeID,
	})
}

func classNameAfterKeyword(text, keyword string) string {
	rest := strings.TrimSpace(strings.TrimPrefix(text, keyword+" "))
	end := strings.IndexAny(rest, " \t\r\n{:;")
	if end < 0 {
		end = len(rest)
	}
	return rest[:end]
}

func emitCInclude(c *ctx, n *tree_sitter.Node, fileID string) {
	pathNode := n.ChildByFieldName("path")
	specifier := ""
	isSystemInclude := false
	if pathNode != nil {
		raw := c.text(pathNode)
		if len(raw) > 0 {
			isSystemInclude = raw[0] == '<'
		}
		specifier = strings.Trim(raw, "\"<>")
	}
	qn := model.ImportQualifiedName("IncludeDirective", c.filePath, specifier, tsStartLine(n))
	nodeID := model.EntityID(model.KindIncludeDirective, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindIncludeDirective, Name: specifier, ParentID: fileID}
	loc(node, n)
	node.SetProp("specifier", specifier)
	node.SetProp("isSystemInclude", isSystemInclude)
	c.addNode(node)
	c.contains(fileID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelIncludes, fileID, nodeID),
		Type:     model.RelIncludes, SourceID: fileID, TargetID: nodeID,
	})
}

func emitCMacro(c *ctx, n *tree_sitter.Node, fileID string) {
	name := c.fieldText(n, "name")
	if name == "" {
		return
	}
	qn := model.ContainerQualifiedName(c.filePath, name+":"+strconv.Itoa(tsStartLine(n)))
	nodeID := model.EntityID(model.KindMacroDefinition, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindMacroDefinition, Name: name, ParentID: fileID}
	loc(node, n)
	c.addNode(node)
	c.contains(fileID, nodeID, 1)
}

func emitCFunction(c *ctx, n *tree_sitter.Node, fileID string) {
	declarator := n.ChildByFieldName("declarator")
	name := functionNameFromDeclarator(c, declarator)
	if name == "" {
		return
	}
	qn := model.FunctionQualifiedName(c.filePath, name, tsStartLine(n))
	nodeID := model.EntityID(model.KindCFunction, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindCFunction, Name: name, ParentID: fileID}
	loc(node, n)
	c.addNode(node)
	c.contains(fileID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelDefinesFunction, fileID, nodeID),
		Type:     model.RelDefinesFunction, SourceID: fileID, TargetID: nodeID,
	})
}

// functionNameFromDeclarator unwraps pointer_declarator layers (for
// functions returning pointers) down to the function_declarator and
// reads its "declarator" field, which holds the identifier.
func functionNameFromDeclarator(c *ctx, n *tree_sitter.Node) string {
	for n != nil {
		switch n.GrammarName() {
		case "function_declarator":
			id := n.ChildByFieldName("declarator")
			if id == nil {
				return ""
			}
			return c.text(id)
		case "pointer_declarator":
			n = n.ChildByFieldName("declarator")
		default:
			return ""
		}
	}
	return ""
}

func emitCppClass(c *ctx, n *tree_sitter.Node, fileID string, walk func(*tree_sitter.Node, string)) {
	name := c.fieldText(n, "name")
	if name == "" {
		return
	}
	qn := model.ContainerQualifiedName(c.filePath, name)
	nodeID := model.EntityID(model.KindCppClass, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindCppClass, Name: name, ParentID: fileID}
	loc(node, n)
	isStruct := n.GrammarName() == "struct_specifier"
	node.SetProp("isStruct", isStruct)
	c.addNode(node)
	c.contains(fileID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelDefinesClass, fileID, nodeID),
		Type:     model.RelDefinesClass, SourceID: fileID, TargetID: nodeID,
	})

	if bases := n.ChildByFieldName("base_class_clause"); bases != nil {
		for i := uint(0); i < bases.NamedChildCount(); i++ {
			b := bases.NamedChild(i)
			if b == nil {
				continue
			}
			baseName := c.text(b)
			targetID := model.PlaceholderID(model.KindCppClass, model.ContainerQualifiedName(c.filePath, baseName))
			edge := &model.Relationship{
				EntityID: model.RelationshipEntityID(model.RelExtends, nodeID, targetID),
				Type:     model.RelExtends, SourceID: nodeID, TargetID: targetID,
			}
			edge.SetProp("isPlaceholder", true)
			edge.SetProp("targetName", baseName)
			c.addEdge(edge)
		}
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	walk(body, nodeID)
}

func emitCppMethod(c *ctx, n *tree_sitter.Node, classID string) {
	declarator := n.ChildByFieldName("declarator")
	name := functionNameFromDeclarator(c, declarator)
	if name == "" {
		return
	}
	qn := model.ContainerQualifiedName(classID, name)
	nodeID := model.EntityID(model.KindCppMethod, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindCppMethod, Name: name, ParentID: classID}
	loc(node, n)
	c.addNode(node)
	c.contains(classID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelHasMethod, classID, nodeID),
		Type:     model.RelHasMethod, SourceID: classID, TargetID: nodeID,
	})
}

func emitCppFieldFromDeclaration(c *ctx, n *tree_sitter.Node, classID string) {
	if classID == "" {
		return
	}
	declarator := n.ChildByFieldName("declarator")
	if declarator == nil || declarator.GrammarName() != "field_identifier" && declarator.GrammarName() != "identifier" {
		return
	}
	name := c.text(declarator)
	qn := model.ContainerQualifiedName(classID, name)
	nodeID := model.EntityID(model.KindField, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindField, Name: name, ParentID: classID}
	loc(node, n)
	if t := n.ChildByFieldName("type"); t != nil {
		node.SetProp("type", c.text(t))
	}
	c.addNode(node)
	c.contains(classID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelHasField, classID, nodeID),
		Type:     model.RelHasField, SourceID: classID, TargetID: nodeID,
	})
}
