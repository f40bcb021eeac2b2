package treesitter

import (
	"strconv"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/model"
)

// parseSQL walks a SQL script: CREATE TABLE and CREATE VIEW statements
// become SQLTable/SQLView nodes with HAS_COLUMN edges; other top-level
// statements become the matching SQLSelectStatement/SQLInsertStatement/
// SQLUpdateStatement/SQLDeleteStatement node, storing the statement's own
// text so Pass 2 can mine REFERENCES_TABLE/REFERENCES_VIEW edges out of
// it without re-parsing (§4.3, §4.5).
func parseSQL(c *ctx, root *tree_sitter.Node) {
	fileID := c.emitFile()

	for i := uint(0); i < root.NamedChildCount(); i++ {
		stmt := root.NamedChild(i)
		if stmt == nil {
			continue
		}
		// The grammar wraps each top-level statement in a "statement" node;
		// dispatch on the wrapped statement's own kind.
		kindNode := stmt
		if stmt.GrammarName() == "statement" && stmt.NamedChildCount() > 0 {
			if inner := stmt.NamedChild(0); inner != nil {
				kindNode = inner
			}
		}
		switch kindNode.GrammarName() {
		case "create_table":
			emitSQLTable(c, kindNode, fileID)
		case "create_view":
			emitSQLView(c, kindNode, fileID)
		case "select_statement", "select":
			emitSQLStatement(c, stmt, fileID, model.KindSQLSelectStatement)
		case "insert_statement", "insert":
			emitSQLStatement(c, stmt, fileID, model.KindSQLInsertStatement)
		case "update_statement", "update":
			emitSQLStatement(c, stmt, fileID, model.KindSQLUpdateStatement)
		case "delete_statement", "delete":
			emitSQLStatement(c, stmt, fileID, model.KindSQLDeleteStatement)
		}
	}
}

func emitSQLTable(c *ctx, n *tree_sitter.Node, fileID string) {
	name := sqlObjectName(c, n)
	if name == "" {
		return
	}
	qn := model.ContainerQualifiedName(c.filePath, name)
	nodeID := model.EntityID(model.KindSQLTable, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindSQLTable, Name: name, ParentID: fileID}
	loc(node, n)
	c.addNode(node)
	c.contains(fileID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelDefinesTable, fileID, nodeID),
		Type:     model.RelDefinesTable, SourceID: fileID, TargetID: nodeID,
	})

	emitSQLColumns(c, n, nodeID)
}

func emitSQLColumns(c *ctx, n *tree_sitter.Node, tableID string) {
	tsparserWalk(n, func(inner *tree_sitter.Node) bool {
		if inner.GrammarName() != "column_definition" {
			return true
		}
		nameNode := inner.ChildByFieldName("name")
		if nameNode == nil {
			return false
		}
		colName := c.text(nameNode)
		qn := model.ContainerQualifiedName(tableID, colName)
		colID := model.EntityID(model.KindSQLColumn, qn)
		colNode := &model.Node{EntityID: colID, Kind: model.KindSQLColumn, Name: colName, ParentID: tableID}
		loc(colNode, inner)
		if t := inner.ChildByFieldName("type"); t != nil {
			colNode.SetProp("type", c.text(t))
		}
		c.addNode(colNode)
		c.contains(tableID, colID, 1)
		c.addEdge(&model.Relationship{
			EntityID: model.RelationshipEntityID(model.RelHasColumn, tableID, colID),
			Type:     model.RelHasColumn, SourceID: tableID, TargetID: colID,
		})
		return false
	})
}

// tsparserWalk is a local depth-first pre-order walk over named children
// only; fn returning false skips that node's subtree.
func tsparserWalk(n *tree_sitter.Node, fn func(*tree_sitter.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if child := n.NamedChild(i); child != nil {
			tsparserWalk(child, fn)
		}
	}
}

func emitSQLView(c *ctx, n *tree_sitter.Node, fileID string) {
	name := sqlObjectName(c, n)
	if name == "" {
		return
	}
	qn := model.ContainerQualifiedName(c.filePath, name)
	nodeID := model.EntityID(model.KindSQLView, qn)
	node := &model.Node{EntityID: nodeID, Kind: model.KindSQLView, Name: name, ParentID: fileID}
	loc(node, n)
	node.SetProp("queryText", c.text(n))
	c.addNode(node)
	c.contains(fileID, nodeID, 1)
	c.addEdge(&model.Relationship{
		EntityID: model.RelationshipEntityID(model.RelDefinesView, fileID, nodeID),
		Type:     model.RelDefinesView, SourceID: fileID, TargetID: nodeID,
	})
}

func sqlObjectName(c *ctx, n *tree_sitter.Node) string {
	if id := n.ChildByFieldName("name"); id != nil {
		return c.text(id)
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child != nil && (child.GrammarName() == "identifier" || child.GrammarName() == "object_reference") {
			return c.text(child)
		}
	}
	return ""
}

func emitSQLStatement(c *ctx, n *tree_sitter.Node, fileID string, kind model.Kind) {
	qn := model.ContainerQualifiedName(c.filePath, string(kind)+":"+strconv.Itoa(tsStartLine(n)))
	nodeID := model.EntityID(kind, qn)
	node := &model.Node{EntityID: nodeID, Kind: kind, Name: string(kind), ParentID: fileID}
	loc(node, n)
	node.SetProp("statementText", c.text(n))
	c.addNode(node)
	c.contains(fileID, nodeID, 1)
}
