package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sirupsen/logrus"

	"github.com/agenthands/textgraph/internal/config"
)

type Neo4jDriver struct {
	Driver   neo4j.DriverWithContext
	Database string
	Logger   *logrus.Logger
}

func NewNeo4jDriver(ctx context.Context, cfg config.Neo4jConfig, logger *logrus.Logger) (*Neo4jDriver, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j at %s: %w", cfg.URI, err)
	}

	logger.WithField("uri", cfg.URI).Info("connected to neo4j")
	return &Neo4jDriver{Driver: driver, Database: cfg.Database, Logger: logger}, nil
}

func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *Neo4jDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(d.Database))
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

func (d *Neo4jDriver) ExecuteWrite(ctx context.Context, stmts []Statement) error {
	session := d.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: d.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for i, st := range stmts {
			res, err := tx.Run(ctx, st.Query, st.Params)
			if err != nil {
				return nil, fmt.Errorf("statement %d: %w", i, err)
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, fmt.Errorf("statement %d: %w", i, err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("write transaction failed: %w", err)
	}
	return nil
}

func (d *Neo4jDriver) BuildIndices(ctx context.Context) error {
	for _, q := range schemaQueries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			// Older servers reject IF NOT EXISTS or composite constraints; carry on without them.
			d.Logger.WithError(err).WithField("query", q).Warn("failed to create schema object")
		}
	}
	return nil
}
