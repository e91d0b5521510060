// Package cli implements the kgctl command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthands/textgraph/internal/core"
	"github.com/agenthands/textgraph/internal/core/model"
	"github.com/agenthands/textgraph/internal/pdftext"
)

// Pipeline is the part of core.Builder the commands use.
type Pipeline interface {
	Extract(ctx context.Context, text, documentID string) (*core.Result, error)
	Build(ctx context.Context, req core.BuildRequest) (*model.GraphBuildResponse, error)
	Stats(ctx context.Context, sessionID string) (*model.GraphStats, error)
	ClearSession(ctx context.Context, sessionID string) error
}

// Opener builds a pipeline. persist is false for commands that never touch the graph store, so
// they work without a database. The returned func releases whatever was opened.
type Opener func(ctx context.Context, persist bool) (Pipeline, func(), error)

var openPipeline Opener

// SetOpener installs the pipeline factory used by every command.
func SetOpener(o Opener) {
	openPipeline = o
}

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "kgctl",
	Short: "Build knowledge graphs from text",
	Long: `kgctl extracts entities, relationships and events from plain text or PDF files
and writes them to a Neo4j knowledge graph partitioned by session.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output results as JSON")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func open(ctx context.Context, persist bool) (Pipeline, func(), error) {
	if openPipeline == nil {
		return nil, nil, errors.New("pipeline not configured")
	}
	return openPipeline(ctx, persist)
}

// readDocument returns the text of a file, extracting it first when the file is a PDF.
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return pdftext.Extract(data)
	}
	return string(data), nil
}
