package store

import (
	"context"

	"github.com/codegraph/codegraph/internal/model"
	"github.com/codegraph/codegraph/internal/xerrors"
)

// WriteRelationships upserts edges into the graph, partitioned by type
// and batched by B (§4.7 step 3). MERGE on both endpoints (by entityId)
// means a placeholder target materializes as a stub node with no
// properties beyond entityId, keeping the graph referentially closed.
func (w *Writer) WriteRelationships(ctx context.Context, rels []*model.Relationship) error {
	byType := make(map[model.RelType][]*model.Relationship)
	for _, r := range rels {
		byType[r.Type] = append(byType[r.Type], r)
	}

	for relType, group := range byType {
		for _, batch := range batchesOf(group, w.batchSize) {
			if err := w.writeRelationshipBatch(ctx, relType, batch); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Writer) writeRelationshipBatch(ctx context.Context, relType model.RelType, batch []*model.Relationship) error {
	rows := make([]map[string]any, len(batch))
	for i, r := range batch {
		rows[i] = relationshipRow(r)
	}

	cypher := `UNWIND $rows AS row
MERGE (s {entityId: row.sourceId})
MERGE (t {entityId: row.targetId})
MERGE (s)-[r:` + string(relType) + ` {entityId: row.entityId}]->(t)
SET r += row.properties`

	err := w.driver.ExecuteWrite(ctx, w.database, func(tx Transaction) error {
		return tx.Run(ctx, cypher, map[string]any{"rows": rows})
	})
	if err != nil {
		logFirstOffenders("store.write_relationships.failed", batch, func(r *model.Relationship) string { return r.EntityID })
		return xerrors.Store("write relationship batch failed", err)
	}
	return nil
}

func relationshipRow(r *model.Relationship) map[string]any {
	props := make(map[string]any, len(r.Properties)+1)
	for k, v := range r.Properties {
		props[k] = v
	}
	props["weight"] = r.Weight
	return map[string]any{
		"entityId": r.EntityID,
		"sourceId": r.SourceID,
		"targetId": r.TargetID,
		"properties": props,
	}
}
