package driver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sirupsen/logrus"

	"github.com/agenthands/textgraph/internal/core/model"
	"github.com/agenthands/textgraph/internal/core/rules"
)

// ErrUnknownRelationship is returned for a relationship type outside the grammar.
var ErrUnknownRelationship = errors.New("unknown relationship type")

const defaultNodeColor = "#6b7280"

var nodeColors = map[string]string{
	model.LabelPerson:    "#3b82f6",
	model.LabelOrg:       "#10b981",
	model.LabelGPE:       "#f59e0b",
	model.LabelDate:      "#ef4444",
	model.LabelProduct:   "#8b5cf6",
	model.LabelEvent:     "#ec4899",
	model.LabelMoney:     "#14b8a6",
	model.LabelPercent:   "#f97316",
	model.LabelCardinal:  "#6366f1",
	model.LabelOrdinal:   "#84cc16",
	model.LabelFacility:  "#06b6d4",
	model.LabelWorkOfArt: "#a855f7",
}

// NodeColor returns the display colour for an NLP label.
func NodeColor(label string) string {
	if c, ok := nodeColors[label]; ok {
		return c
	}
	return defaultNodeColor
}

// GraphStore persists builds into Neo4j, partitioned by session id.
type GraphStore struct {
	Driver GraphDriver
	Logger *logrus.Logger
}

func NewGraphStore(driver GraphDriver, logger *logrus.Logger) *GraphStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &GraphStore{Driver: driver, Logger: logger}
}

func (s *GraphStore) BuildIndices(ctx context.Context) error {
	return s.Driver.BuildIndices(ctx)
}

// SaveGraph writes entities, then relationships, then events in a single transaction.
func (s *GraphStore) SaveGraph(ctx context.Context, sessionID string, batch model.GraphBatch) error {
	stmts, err := graphStatements(sessionID, batch)
	if err != nil {
		return err
	}
	if len(stmts) == 0 {
		return nil
	}
	if err := s.Driver.ExecuteWrite(ctx, stmts); err != nil {
		return fmt.Errorf("failed to save graph: %w", err)
	}
	s.Logger.WithFields(logrus.Fields{
		"session_id":    sessionID,
		"entities":      len(batch.Entities),
		"relationships": len(batch.Relationships),
		"events":        len(batch.Events),
	}).Debug("graph saved")
	return nil
}

func graphStatements(sessionID string, batch model.GraphBatch) ([]Statement, error) {
	stmts := make([]Statement, 0, len(batch.Entities)+len(batch.Relationships)+len(batch.Events))

	for _, e := range batch.Entities {
		typ, ok := rules.NormalizeLabel(e.Type)
		if !ok {
			return nil, fmt.Errorf("entity %q has unmapped type %s", e.Text, e.Type)
		}
		stmts = append(stmts, Statement{Query: MergeEntityQuery, Params: map[string]any{
			"name":        e.Text,
			"type":        string(typ),
			"label":       e.Type,
			"context":     e.Context,
			"document_id": e.DocumentID,
			"session_id":  sessionID,
		}})
	}

	for _, r := range batch.Relationships {
		query, ok := MergeRelationshipQuery(r.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRelationship, r.Type)
		}
		var date, amount string
		if r.Metadata != nil {
			date, amount = r.Metadata.Date, r.Metadata.Amount
		}
		stmts = append(stmts, Statement{Query: query, Params: map[string]any{
			"source":          r.Source,
			"target":          r.Target,
			"reason":          r.Reason,
			"confidence":      r.Confidence,
			"verb":            r.Verb,
			"source_sentence": r.SourceSentence,
			"document_id":     r.DocumentID,
			"date":            date,
			"amount":          amount,
			"session_id":      sessionID,
		}})
	}

	for _, ev := range batch.Events {
		participants := make([]any, len(ev.Participants))
		for i, p := range ev.Participants {
			participants[i] = p
		}
		stmts = append(stmts, Statement{Query: MergeEventQuery, Params: map[string]any{
			"event_type":      string(ev.EventType),
			"participant_key": ev.ParticipantKey(),
			"name":            ev.Name,
			"participants":    participants,
			"date":            ev.Date,
			"location":        ev.Location,
			"amount":          ev.Amount,
			"context":         ev.Context,
			"confidence":      ev.Confidence,
			"document_id":     ev.DocumentID,
			"session_id":      sessionID,
		}})
	}
	return stmts, nil
}

func (s *GraphStore) ClearSession(ctx context.Context, sessionID string) error {
	if _, err := s.Driver.ExecuteQuery(ctx, ClearSessionQuery, sessionParams(sessionID)); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", sessionID, err)
	}
	s.Logger.WithField("session_id", sessionID).Info("session cleared")
	return nil
}

func (s *GraphStore) Stats(ctx context.Context, sessionID string) (*model.GraphStats, error) {
	params := sessionParams(sessionID)
	stats := &model.GraphStats{EntityTypes: make(map[string]int)}

	res, err := s.Driver.ExecuteQuery(ctx, CountEntitiesQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to count entities: %w", err)
	}
	if len(res.Records) > 0 {
		stats.TotalEntities = intValue(res.Records[0], "total")
	}

	res, err = s.Driver.ExecuteQuery(ctx, CountRelationshipsQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to count relationships: %w", err)
	}
	if len(res.Records) > 0 {
		stats.TotalRelationships = intValue(res.Records[0], "total")
		if avg, ok := floatValue(res.Records[0], "avg_confidence"); ok {
			avg = math.Round(avg*100) / 100
			stats.AvgConfidence = &avg
		}
	}

	res, err = s.Driver.ExecuteQuery(ctx, CountEventsQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	if len(res.Records) > 0 {
		stats.TotalEvents = intValue(res.Records[0], "total")
	}

	res, err = s.Driver.ExecuteQuery(ctx, EntityTypesQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to count entity types: %w", err)
	}
	for _, rec := range res.Records {
		if typ := stringValue(rec, "type"); typ != "" {
			stats.EntityTypes[typ] = intValue(rec, "count")
		}
	}

	res, err = s.Driver.ExecuteQuery(ctx, MostConnectedQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to find most connected entity: %w", err)
	}
	if len(res.Records) > 0 {
		if name := stringValue(res.Records[0], "name"); name != "" {
			stats.MostConnectedEntity = &name
		}
	}

	return stats, nil
}

func (s *GraphStore) Visualization(ctx context.Context, sessionID string) (*model.Visualization, error) {
	params := sessionParams(sessionID)
	vis := &model.Visualization{Nodes: []model.VisNode{}, Edges: []model.VisEdge{}}

	res, err := s.Driver.ExecuteQuery(ctx, VisNodesQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}
	for _, rec := range res.Records {
		label, group := stringValue(rec, "label"), stringValue(rec, "group")
		vis.Nodes = append(vis.Nodes, model.VisNode{
			ID:    stringValue(rec, "id"),
			Label: label,
			Group: group,
			Color: NodeColor(group),
			Title: fmt.Sprintf("%s (%s)", label, group),
		})
	}

	res, err = s.Driver.ExecuteQuery(ctx, VisEdgesQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load edges: %w", err)
	}
	for _, rec := range res.Records {
		confidence, ok := floatValue(rec, "confidence")
		if !ok || confidence == 0 {
			confidence = 1.0
		}
		vis.Edges = append(vis.Edges, model.VisEdge{
			From:    stringValue(rec, "from"),
			To:      stringValue(rec, "to"),
			Label:   stringValue(rec, "label"),
			Title:   stringValue(rec, "title"),
			Width:   math.Max(1, 3*confidence),
			Opacity: confidence,
		})
	}

	return vis, nil
}

func sessionParams(sessionID string) map[string]any {
	return map[string]any{"session_id": sessionID}
}

func intValue(rec *neo4j.Record, key string) int {
	v, _ := rec.Get(key)
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func floatValue(rec *neo4j.Record, key string) (float64, bool) {
	v, _ := rec.Get(key)
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func stringValue(rec *neo4j.Record, key string) string {
	v, _ := rec.Get(key)
	s, _ := v.(string)
	return s
}
