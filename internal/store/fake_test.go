package store

import (
	"context"
	"errors"
)

// fakeDriver is the in-process fake SPEC_FULL.md §1.4 calls for: it
// records every Cypher statement and its bound params instead of talking
// to a live Bolt session, so Writer's batching/grouping logic can be
// tested without Neo4j.
type fakeDriver struct {
	statements []fakeStatement
	failOn     func(cypher string, params map[string]any) error
	closed     bool
}

type fakeStatement struct {
	cypher string
	params map[string]any
}

func (d *fakeDriver) ExecuteWrite(ctx context.Context, database string, work func(tx Transaction) error) error {
	return work(&fakeTx{driver: d})
}

func (d *fakeDriver) Close(ctx context.Context) error {
	d.closed = true
	return nil
}

type fakeTx struct {
	driver *fakeDriver
}

func (t *fakeTx) Run(ctx context.Context, cypher string, params map[string]any) error {
	if t.driver.failOn != nil {
		if err := t.driver.failOn(cypher, params); err != nil {
			return err
		}
	}
	t.driver.statements = append(t.driver.statements, fakeStatement{cypher: cypher, params: params})
	return nil
}

var errFakeWriteFailed = errors.New("fake write failed")
