package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type MockDriver struct {
	QueryExecuted []string
	QueryParams   []map[string]any
	Written       [][]Statement
	// MockResults answers ExecuteQuery by query text; unknown queries get an empty result.
	MockResults map[string]neo4j.EagerResult
	Err         error
	WriteErr    error
	Indexed     bool
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	m.QueryExecuted = append(m.QueryExecuted, query)
	m.QueryParams = append(m.QueryParams, params)
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	return m.MockResults[query], nil
}

func (m *MockDriver) ExecuteWrite(ctx context.Context, stmts []Statement) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Written = append(m.Written, stmts)
	return nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	m.Indexed = true
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func records(keys []string, rows ...[]any) neo4j.EagerResult {
	res := neo4j.EagerResult{Keys: keys}
	for _, row := range rows {
		res.Records = append(res.Records, &neo4j.Record{Keys: keys, Values: row})
	}
	return res
}
