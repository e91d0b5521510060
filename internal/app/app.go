// Package app wires configuration into a ready builder for the binaries.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/agenthands/textgraph/internal/buildlog"
	"github.com/agenthands/textgraph/internal/config"
	"github.com/agenthands/textgraph/internal/core"
	"github.com/agenthands/textgraph/internal/core/extraction"
	"github.com/agenthands/textgraph/internal/driver"
	"github.com/agenthands/textgraph/internal/nlp"
)

type App struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Builder *core.Builder
	// Builds is nil unless a MySQL DSN is configured.
	Builds *buildlog.Store

	closers []func()
}

// New builds the pipeline. Without persist no database is contacted and only Extract may be
// used on the builder.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger, persist bool) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	engine, err := nlp.NewEngine(cfg.NLP)
	if err != nil {
		return nil, fmt.Errorf("failed to create nlp engine: %w", err)
	}
	if c, ok := engine.(io.Closer); ok {
		a.closers = append(a.closers, func() { _ = c.Close() })
	}

	var sink core.GraphSink
	if persist {
		d, err := driver.NewNeo4jDriver(ctx, cfg.Neo4j, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = d.Close(context.Background()) })
		sink = driver.NewGraphStore(d, logger)
	}

	b := core.NewBuilder(engine, sink, logger)
	b.Extractor = extraction.NewExtractor(b.Validator, cfg.Extraction.ForceDetect, logger)
	if cfg.Concurrency.BulkBuild > 0 {
		b.BulkLimit = cfg.Concurrency.BulkBuild
	}
	a.Builder = b

	if persist {
		if err := b.BuildIndices(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to build indices: %w", err)
		}
		if cfg.MySQL.DSN != "" {
			store, err := buildlog.Open(cfg.MySQL, logger)
			if err != nil {
				a.Close()
				return nil, err
			}
			a.closers = append(a.closers, func() { _ = store.Close() })
			a.Builds = store
			b.Recorder = store
		}
	}

	return a, nil
}

// Close releases everything New opened, newest first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
