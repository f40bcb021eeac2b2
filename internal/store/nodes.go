package store

import (
	"context"
	"log/slog"
	"strings"

	"github.com/codegraph/codegraph/internal/model"
	"github.com/codegraph/codegraph/internal/xerrors"
)

// WriteNodes upserts nodes into the graph, batched by B (§4.7 step 1-2).
// Nodes are grouped by kind first since a Cypher label cannot be
// parameterized: each kind gets its own UNWIND/MERGE statement per batch,
// so that the generated label is a literal in the query text while every
// other value stays a bound parameter.
func (w *Writer) WriteNodes(ctx context.Context, nodes []*model.Node) error {
	byKind := make(map[model.Kind][]*model.Node)
	for _, n := range nodes {
		byKind[n.Kind] = append(byKind[n.Kind], n)
	}

	for kind, group := range byKind {
		for _, batch := range batchesOf(group, w.batchSize) {
			if err := w.writeNodeBatch(ctx, kind, batch); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Writer) writeNodeBatch(ctx context.Context, kind model.Kind, batch []*model.Node) error {
	rows := make([]map[string]any, len(batch))
	for i, n := range batch {
		rows[i] = nodeRow(n)
	}

	// Clearing every kind label before setting the current one keeps a
	// node's label set to exactly the one kind it was last written with
	// (§4.7 step 2: "remove any previously-set labels from the closed
	// vocabulary").
	cypher := `UNWIND $rows AS row
MERGE (n {entityId: row.entityId})
REMOVE n:` + strings.Join(allKindLabels, ":") + `
SET n:` + string(kind) + `
SET n += row`

	err := w.driver.ExecuteWrite(ctx, w.database, func(tx Transaction) error {
		return tx.Run(ctx, cypher, map[string]any{"rows": rows})
	})
	if err != nil {
		logFirstOffenders("store.write_nodes.failed", batch, func(n *model.Node) string { return n.EntityID })
		return xerrors.Store("write node batch failed", err)
	}
	return nil
}

func nodeRow(n *model.Node) map[string]any {
	row := make(map[string]any, len(n.Properties)+10)
	for k, v := range n.Properties {
		row[k] = v
	}
	row["entityId"] = n.EntityID
	row["instanceId"] = n.InstanceID
	row["name"] = n.Name
	row["filePath"] = n.FilePath
	row["language"] = n.Language
	row["startLine"] = n.StartLine
	row["endLine"] = n.EndLine
	row["startCol"] = n.StartCol
	row["endCol"] = n.EndCol
	row["parentId"] = n.ParentID
	return row
}

// logFirstOffenders logs up to 5 records from a failed batch (§4.7's
// failure semantics: "log the first five offending records and re-raise").
func logFirstOffenders[T any](event string, batch []T, id func(T) string) {
	n := len(batch)
	if n > 5 {
		n = 5
	}
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = id(batch[i])
	}
	slog.Error(event, "count", len(batch), "sample", ids)
}
