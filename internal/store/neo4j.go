package store

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/codegraph/codegraph/internal/xerrors"
)

// Neo4jDriver adapts the real neo4j-go-driver to the Driver interface.
// Grounded on the teacher's Store.Open/OpenPath split (connect, wrap,
// return a handle the rest of the package treats opaquely) applied to a
// Bolt session instead of a *sql.DB.
type Neo4jDriver struct {
	driver neo4j.DriverWithContext
}

// NewNeo4jDriver opens a connection to url using basic auth and verifies
// connectivity immediately, before any file is read: invalid connection
// parameters return a ConfigError, and a failed connectivity check (an
// unreachable target) returns a StoreError.
func NewNeo4jDriver(ctx context.Context, url, user, password string) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(url, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, xerrors.Config("invalid neo4j connection parameters", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, xerrors.Store("neo4j connectivity check failed", err)
	}
	return &Neo4jDriver{driver: driver}, nil
}

// ExecuteWrite runs work inside a single managed write transaction against
// database, matching the teacher's WithTransaction idiom (one callback,
// commit on success, rollback on any error).
func (d *Neo4jDriver) ExecuteWrite(ctx context.Context, database string, work func(tx Transaction) error) error {
	session := d.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, work(neo4jTx{tx: tx})
	})
	return err
}

// Close releases the underlying driver's connection pool.
func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.driver.Close(ctx)
}

type neo4jTx struct {
	tx neo4j.ManagedTransaction
}

func (t neo4jTx) Run(ctx context.Context, cypher string, params map[string]any) error {
	_, err := t.tx.Run(ctx, cypher, params)
	return err
}
