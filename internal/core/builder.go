package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/textgraph/internal/core/common"
	"github.com/agenthands/textgraph/internal/core/event"
	"github.com/agenthands/textgraph/internal/core/extraction"
	"github.com/agenthands/textgraph/internal/core/model"
	"github.com/agenthands/textgraph/internal/core/relation"
	"github.com/agenthands/textgraph/internal/core/validate"
	"github.com/agenthands/textgraph/internal/nlp"
)

// GraphSink persists one build atomically and answers per-session queries.
type GraphSink interface {
	SaveGraph(ctx context.Context, sessionID string, batch model.GraphBatch) error
	ClearSession(ctx context.Context, sessionID string) error
	Stats(ctx context.Context, sessionID string) (*model.GraphStats, error)
	Visualization(ctx context.Context, sessionID string) (*model.Visualization, error)
}

// IndexBuilder is implemented by sinks that can bootstrap their schema.
type IndexBuilder interface {
	BuildIndices(ctx context.Context) error
}

// BuildRecorder keeps a history of builds. Recording failures never fail a build.
type BuildRecorder interface {
	RecordBuild(ctx context.Context, summary model.BuildSummary) error
}

type BuildRequest struct {
	Text       string `json:"text"`
	SessionID  string `json:"session_id,omitempty"`
	DocumentID string `json:"document_id,omitempty"`
}

// Result is the pipeline output for one text before persistence.
type Result struct {
	Entities      []model.Entity         `json:"entities"`
	Relationships []model.Relationship   `json:"relationships"`
	Events        []model.Event          `json:"events"`
	Metadata      model.Metadata         `json:"metadata"`
	Report        model.ValidationReport `json:"report"`
}

// BatchResult is the outcome of one request of BuildBatch.
type BatchResult struct {
	Response *model.GraphBuildResponse `json:"response,omitempty"`
	Err      error                     `json:"-"`
}

// DefaultBulkLimit bounds BuildBatch when BulkLimit is unset.
const DefaultBulkLimit = 4

type Builder struct {
	Engine    nlp.Engine
	Sink      GraphSink
	Recorder  BuildRecorder
	Extractor *extraction.Extractor
	Validator *validate.Validator
	Relations *relation.Engine
	Events    *event.Extractor
	BulkLimit int
	Logger    *logrus.Logger
}

func NewBuilder(engine nlp.Engine, sink GraphSink, logger *logrus.Logger) *Builder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	validator := validate.NewValidator(logger)
	return &Builder{
		Engine:    engine,
		Sink:      sink,
		Extractor: extraction.NewExtractor(validator, nil, logger),
		Validator: validator,
		Relations: relation.NewEngine(logger),
		Events:    event.NewExtractor(logger),
		BulkLimit: DefaultBulkLimit,
		Logger:    logger,
	}
}

func (b *Builder) BuildIndices(ctx context.Context) error {
	ib, ok := b.Sink.(IndexBuilder)
	if !ok {
		return nil
	}
	return ib.BuildIndices(ctx)
}

// Extract runs the pipeline on text without persisting anything.
func (b *Builder) Extract(ctx context.Context, text, documentID string) (*Result, error) {
	if common.IsBlank(text) {
		return nil, ErrEmptyText
	}

	cleaned := common.CleanText(text)
	if limit := b.Engine.MaxLength(); len(cleaned) > limit {
		return nil, &StageError{
			Stage: StageNLP,
			Err:   fmt.Errorf("%w: %d bytes exceeds %d", nlp.ErrDocumentTooLong, len(cleaned), limit),
		}
	}

	doc, err := b.Engine.Parse(ctx, cleaned)
	if err != nil {
		return nil, &StageError{Stage: StageNLP, Err: err}
	}

	ext := b.Extractor.Extract(doc, documentID)

	candidates := b.Relations.Infer(ext.Sentences, ext.Metadata, documentID)
	rels, relReport := b.Validator.FilterRelationships(candidates, ext.Entities)

	events := b.Events.Extract(ext.Sentences, ext.Metadata, documentID)

	report := ext.Report
	report.Merge(relReport)

	return &Result{
		Entities:      structural(ext.Entities),
		Relationships: rels,
		Events:        events,
		Metadata:      ext.Metadata,
		Report:        report,
	}, nil
}

// Build runs the pipeline and hands the result to the sink as one batch.
func (b *Builder) Build(ctx context.Context, req BuildRequest) (*model.GraphBuildResponse, error) {
	start := time.Now()
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	log := b.Logger.WithFields(logrus.Fields{"session_id": sessionID, "document_id": req.DocumentID})

	res, err := b.Extract(ctx, req.Text, req.DocumentID)
	if err != nil {
		if !errors.Is(err, ErrEmptyText) {
			b.record(ctx, summarize(sessionID, req, nil, start, err))
		}
		log.WithError(err).Warn("build failed")
		return nil, err
	}

	batch := model.GraphBatch{
		Entities:      res.Entities,
		Relationships: res.Relationships,
		Events:        res.Events,
	}
	if err := b.Sink.SaveGraph(ctx, sessionID, batch); err != nil {
		err = &StageError{Stage: StagePersist, Err: err}
		b.record(ctx, summarize(sessionID, req, res, start, err))
		log.WithError(err).Error("build failed")
		return nil, err
	}

	b.record(ctx, summarize(sessionID, req, res, start, nil))
	log.WithFields(logrus.Fields{
		"entities":      len(res.Entities),
		"relationships": len(res.Relationships),
		"events":        len(res.Events),
		"rejected":      res.Report.Count(""),
		"duration":      time.Since(start).String(),
	}).Info("graph built")

	report := res.Report
	return &model.GraphBuildResponse{
		SessionID:     sessionID,
		Entities:      res.Entities,
		Relationships: res.Relationships,
		Events:        res.Events,
		Message: fmt.Sprintf("Graph built with %d entities, %d relationships and %d events.",
			len(res.Entities), len(res.Relationships), len(res.Events)),
		Report: &report,
	}, nil
}

// BuildBatch builds every request concurrently, at most BulkLimit at a time. One failing request
// does not stop the others; results are in request order.
func (b *Builder) BuildBatch(ctx context.Context, reqs []BuildRequest) ([]BatchResult, error) {
	results := make([]BatchResult, len(reqs))

	limit := b.BulkLimit
	if limit <= 0 {
		limit = DefaultBulkLimit
	}
	var g errgroup.Group
	g.SetLimit(limit)

	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			resp, err := b.Build(ctx, req)
			results[i] = BatchResult{Response: resp, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, ctx.Err()
}

func (b *Builder) ClearSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrEmptySession
	}
	return b.Sink.ClearSession(ctx, sessionID)
}

func (b *Builder) Stats(ctx context.Context, sessionID string) (*model.GraphStats, error) {
	if sessionID == "" {
		return nil, ErrEmptySession
	}
	return b.Sink.Stats(ctx, sessionID)
}

func (b *Builder) Visualization(ctx context.Context, sessionID string) (*model.Visualization, error) {
	if sessionID == "" {
		return nil, ErrEmptySession
	}
	return b.Sink.Visualization(ctx, sessionID)
}

func (b *Builder) record(ctx context.Context, summary model.BuildSummary) {
	if b.Recorder == nil {
		return
	}
	if err := b.Recorder.RecordBuild(ctx, summary); err != nil {
		b.Logger.WithError(err).WithField("build_id", summary.BuildID).Warn("failed to record build")
	}
}

func summarize(sessionID string, req BuildRequest, res *Result, start time.Time, err error) model.BuildSummary {
	s := model.BuildSummary{
		BuildID:        uuid.New().String(),
		SessionID:      sessionID,
		DocumentID:     req.DocumentID,
		TextLength:     len(req.Text),
		DurationMillis: time.Since(start).Milliseconds(),
		Err:            err,
	}
	if res != nil {
		s.Entities = len(res.Entities)
		s.Relationships = len(res.Relationships)
		s.Events = len(res.Events)
		s.RejectedEntities = res.Report.Count(validate.KindEntity)
		s.RejectedRelationships = res.Report.Count(validate.KindRelationship)
	}
	return s
}

func structural(entities []model.Entity) []model.Entity {
	out := make([]model.Entity, 0, len(entities))
	for _, e := range entities {
		if e.IsStructural() {
			out = append(out, e)
		}
	}
	return out
}
