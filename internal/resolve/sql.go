package resolve

import (
	"strings"

	"github.com/codegraph/codegraph/internal/merge"
	"github.com/codegraph/codegraph/internal/model"
)

// resolveSQLReferences implements the SQL half of §4.5.4: cheap,
// name-based resolution of table/view references out of a DML
// statement's stored text, matched against known SQLTable/SQLView names
// in the same schema (the same file, since this engine does not track
// cross-file SQL schemas). No placeholder edges are produced here —
// per §4.5.4, resolution is attempted only, and failures are simply
// skipped rather than faked.
func resolveSQLReferences(idx *merge.Index) int {
	count := 0
	tablesByFile := make(map[string]map[string]string) // filePath -> lowercase name -> entityId
	viewsByFile := make(map[string]map[string]string)

	for _, n := range idx.Nodes {
		switch n.Kind {
		case model.KindSQLTable:
			addSchemaEntry(tablesByFile, n)
		case model.KindSQLView:
			addSchemaEntry(viewsByFile, n)
		}
	}

	for _, n := range idx.Nodes {
		switch n.Kind {
		case model.KindSQLSelectStatement, model.KindSQLInsertStatement, model.KindSQLUpdateStatement, model.KindSQLDeleteStatement:
		default:
			continue
		}
		text, _ := n.Properties["statementText"].(string)
		if text == "" {
			continue
		}
		lower := strings.ToLower(text)

		for name, entityID := range tablesByFile[n.FilePath] {
			if strings.Contains(lower, name) {
				idx.AddRelationships(&model.Relationship{
					EntityID: model.RelationshipEntityID(model.RelReferencesTable, n.EntityID, entityID),
					Type:     model.RelReferencesTable, SourceID: n.EntityID, TargetID: entityID,
				})
				count++
			}
		}
		for name, entityID := range viewsByFile[n.FilePath] {
			if strings.Contains(lower, name) {
				idx.AddRelationships(&model.Relationship{
					EntityID: model.RelationshipEntityID(model.RelReferencesView, n.EntityID, entityID),
					Type:     model.RelReferencesView, SourceID: n.EntityID, TargetID: entityID,
				})
				count++
			}
		}
	}
	return count
}

func addSchemaEntry(byFile map[string]map[string]string, n *model.Node) {
	m, ok := byFile[n.FilePath]
	if !ok {
		m = make(map[string]string)
		byFile[n.FilePath] = m
	}
	m[strings.ToLower(n.Name)] = n.EntityID
}
