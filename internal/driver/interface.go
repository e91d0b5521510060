package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Statement is one parameterized Cypher query of a write batch.
type Statement struct {
	Query  string
	Params map[string]any
}

type GraphDriver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error)
	// ExecuteWrite runs all statements in one write transaction; either all apply or none do.
	ExecuteWrite(ctx context.Context, stmts []Statement) error
	BuildIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
