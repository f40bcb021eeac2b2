// Package store implements the storage writer (§4.7): batching, label
// bookkeeping, and MERGE-based upserts into a Neo4j property graph. The
// writer's batching/grouping logic is tested against an in-process fake
// (see Driver); only NewNeo4jDriver talks to a live Bolt session.
package store

import (
	"context"

	"github.com/codegraph/codegraph/internal/model"
)

// Transaction is the minimal write surface a Writer needs from one Neo4j
// transaction. It is satisfied both by a real neo4j.ManagedTransaction
// (through neo4jTx) and by the in-memory fake used in tests.
type Transaction interface {
	Run(ctx context.Context, cypher string, params map[string]any) error
}

// Driver abstracts the Neo4j driver connection so the Writer's batching
// and Cypher-generation logic can be tested without a live database.
// Grounded on the teacher's Querier interface (internal/store/store.go),
// which abstracts *sql.DB/*sql.Tx the same way for SQLite.
type Driver interface {
	ExecuteWrite(ctx context.Context, database string, work func(tx Transaction) error) error
	Close(ctx context.Context) error
}

// Writer applies Pass-2's final node/edge set to a graph store (§4.7).
type Writer struct {
	driver    Driver
	database  string
	batchSize int
}

// NewWriter builds a Writer. batchSize <= 0 falls back to the §6.4
// default of 100, matching config.Load's own STORAGE_BATCH_SIZE fallback.
func NewWriter(driver Driver, database string, batchSize int) *Writer {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Writer{driver: driver, database: database, batchSize: batchSize}
}

func batchesOf[T any](items []T, size int) [][]T {
	var batches [][]T
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}
	return batches
}

// allKindLabels is the closed label vocabulary as Cypher label literals,
// computed once since model.AllKinds never changes at runtime.
var allKindLabels = func() []string {
	kinds := model.AllKinds()
	labels := make([]string, len(kinds))
	for i, k := range kinds {
		labels[i] = string(k)
	}
	return labels
}()
