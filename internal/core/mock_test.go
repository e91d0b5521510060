package core

import (
	"context"
	"sync"

	"github.com/agenthands/textgraph/internal/core/model"
)

type savedGraph struct {
	SessionID string
	Batch     model.GraphBatch
}

type MockSink struct {
	mu      sync.Mutex
	Saved   []savedGraph
	Cleared []string
	SaveErr error

	MockStats *model.GraphStats
	MockVis   *model.Visualization
	Indexed   bool
}

func (m *MockSink) SaveGraph(ctx context.Context, sessionID string, batch model.GraphBatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, savedGraph{SessionID: sessionID, Batch: batch})
	return nil
}

func (m *MockSink) ClearSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cleared = append(m.Cleared, sessionID)
	return nil
}

func (m *MockSink) Stats(ctx context.Context, sessionID string) (*model.GraphStats, error) {
	return m.MockStats, nil
}

func (m *MockSink) Visualization(ctx context.Context, sessionID string) (*model.Visualization, error) {
	return m.MockVis, nil
}

func (m *MockSink) BuildIndices(ctx context.Context) error {
	m.Indexed = true
	return nil
}

func (m *MockSink) saves() []savedGraph {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]savedGraph(nil), m.Saved...)
}

type MockRecorder struct {
	mu        sync.Mutex
	Summaries []model.BuildSummary
	Err       error
}

func (m *MockRecorder) RecordBuild(ctx context.Context, summary model.BuildSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Summaries = append(m.Summaries, summary)
	return m.Err
}
