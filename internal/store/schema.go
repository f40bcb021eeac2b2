package store

import (
	"context"
	"fmt"

	"github.com/codegraph/codegraph/internal/model"
	"github.com/codegraph/codegraph/internal/xerrors"
)

// ProvisionSchema creates the unique constraint on entityId and the
// filePath/name indexes for every label in the closed kind vocabulary
// (§6.5). It is idempotent (IF NOT EXISTS) and is only invoked when
// updateSchema is requested (§6.1).
func (w *Writer) ProvisionSchema(ctx context.Context) error {
	err := w.driver.ExecuteWrite(ctx, w.database, func(tx Transaction) error {
		for _, kind := range model.AllKinds() {
			label := string(kind)
			stmts := []string{
				fmt.Sprintf("CREATE CONSTRAINT IF NOT EXISTS FOR (n:%s) REQUIRE n.entityId IS UNIQUE", label),
				fmt.Sprintf("CREATE INDEX IF NOT EXISTS FOR (n:%s) ON (n.filePath)", label),
				fmt.Sprintf("CREATE INDEX IF NOT EXISTS FOR (n:%s) ON (n.name)", label),
			}
			for _, stmt := range stmts {
				if err := tx.Run(ctx, stmt, nil); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return xerrors.Store("schema provisioning failed", err)
	}
	return nil
}

// ResetDatabase deletes every node and relationship in the target
// database (§6.1's resetDb option), run before any write batch.
func (w *Writer) ResetDatabase(ctx context.Context) error {
	err := w.driver.ExecuteWrite(ctx, w.database, func(tx Transaction) error {
		return tx.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
	})
	if err != nil {
		return xerrors.Store("reset database failed", err)
	}
	return nil
}
