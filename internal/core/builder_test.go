package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/textgraph/internal/core/model"
	"github.com/agenthands/textgraph/internal/core/validate"
	"github.com/agenthands/textgraph/internal/nlp"
	"github.com/agenthands/textgraph/internal/nlp/nlptest"
)

func newTestBuilder(engine nlp.Engine) (*Builder, *MockSink, *MockRecorder) {
	logger, _ := test.NewNullLogger()
	sink := &MockSink{}
	recorder := &MockRecorder{}
	b := NewBuilder(engine, sink, logger)
	b.Recorder = recorder
	return b, sink, recorder
}

func TestBuild_AcquisitionEvent(t *testing.T) {
	text := "Apple acquired Beats for $3 billion in 2014."
	engine := &nlptest.Engine{Document: nlptest.Doc(text,
		nlptest.M("Apple", "ORG"),
		nlptest.M("Beats", "ORG"),
		nlptest.M("$3 billion", "MONEY"),
		nlptest.M("2014", "DATE"),
	)}
	b, sink, recorder := newTestBuilder(engine)

	resp, err := b.Build(context.Background(), BuildRequest{Text: text, SessionID: "s-1", DocumentID: "d-1"})
	require.NoError(t, err)

	assert.Equal(t, "s-1", resp.SessionID)
	require.Len(t, resp.Entities, 2)
	assert.Equal(t, "ORG", resp.Entities[0].Type)
	assert.Equal(t, "ORG", resp.Entities[1].Type)

	require.Len(t, resp.Events, 1)
	ev := resp.Events[0]
	assert.Equal(t, model.EventAcquisition, ev.EventType)
	assert.InDelta(t, 0.7, ev.Confidence, 1e-9)
	assert.Equal(t, []string{"Apple", "Beats"}, ev.Participants)
	assert.Equal(t, "Apple acquires Beats", ev.Name)
	assert.Equal(t, "$3 billion", ev.Amount)
	assert.Equal(t, "2014", ev.Date)
	assert.Equal(t, "d-1", ev.DocumentID)

	saves := sink.saves()
	require.Len(t, saves, 1, "sink is called exactly once")
	assert.Equal(t, "s-1", saves[0].SessionID)
	assert.Equal(t, resp.Events, saves[0].Batch.Events)

	require.Len(t, recorder.Summaries, 1)
	assert.Equal(t, 2, recorder.Summaries[0].Entities)
	assert.Equal(t, 1, recorder.Summaries[0].Events)
	assert.NoError(t, recorder.Summaries[0].Err)
}

func TestBuild_FoundedByRoleDetection(t *testing.T) {
	text := "Steve Jobs founded Apple."
	engine := &nlptest.Engine{Document: nlptest.Doc(text,
		nlptest.M("Steve Jobs", "PERSON"),
		nlptest.M("Apple", "ORG"),
	)}
	b, _, _ := newTestBuilder(engine)

	resp, err := b.Build(context.Background(), BuildRequest{Text: text})
	require.NoError(t, err)

	require.Len(t, resp.Relationships, 1)
	rel := resp.Relationships[0]
	assert.Equal(t, "Steve Jobs", rel.Source)
	assert.Equal(t, "Apple", rel.Target)
	assert.Equal(t, model.RelFounded, rel.Type)
	assert.Equal(t, 0.95, rel.Confidence)
	assert.Equal(t, text, rel.SourceSentence)
	assert.NotEmpty(t, resp.SessionID, "a session id is generated")
}

func TestBuild_RejectsPersonFoundedPerson(t *testing.T) {
	text := "Steve Jobs founded Bill Gates."
	sent := nlp.Sentence{
		Text: text, Start: 0, End: len(text),
		Mentions: []nlp.Mention{
			{Text: "Steve Jobs", Label: "PERSON", Start: 0, End: 10},
			{Text: "Bill Gates", Label: "PERSON", Start: 19, End: 29},
		},
		Tokens: []nlp.Token{
			{Index: 0, Text: "Steve", Lemma: "Steve", POS: "PROPN", Dep: "compound", Head: 1, Start: 0},
			{Index: 1, Text: "Jobs", Lemma: "Jobs", POS: "PROPN", Dep: "nsubj", Head: 2, Start: 6},
			{Index: 2, Text: "founded", Lemma: "found", POS: "VERB", Dep: "ROOT", Head: 2, Start: 11},
			{Index: 3, Text: "Bill", Lemma: "Bill", POS: "PROPN", Dep: "compound", Head: 4, Start: 19},
			{Index: 4, Text: "Gates", Lemma: "Gates", POS: "PROPN", Dep: "dobj", Head: 2, Start: 24},
			{Index: 5, Text: ".", Lemma: ".", POS: "PUNCT", Dep: "punct", Head: 2, Start: 29},
		},
	}
	sent.LinkChildren()
	engine := &nlptest.Engine{Document: &nlp.Document{Text: text, Sentences: []nlp.Sentence{sent}}}
	b, sink, _ := newTestBuilder(engine)

	resp, err := b.Build(context.Background(), BuildRequest{Text: text})
	require.NoError(t, err)

	assert.Empty(t, resp.Relationships)
	assert.Empty(t, sink.saves()[0].Batch.Relationships)
	require.Equal(t, 1, resp.Report.Count(validate.KindRelationship))
	rej := resp.Report.Rejections[0]
	assert.Equal(t, validate.ReasonInvalidTriple, rej.Reason)
	assert.Equal(t, "(PERSON)-[FOUNDED]->(PERSON)", rej.Detail)
}

func TestBuild_EmptyTextSkipsEverything(t *testing.T) {
	engine := &nlptest.Engine{}
	b, sink, recorder := newTestBuilder(engine)

	for _, text := range []string{"", "  \n\t "} {
		resp, err := b.Build(context.Background(), BuildRequest{Text: text})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrEmptyText)
	}
	assert.Empty(t, engine.Calls())
	assert.Empty(t, sink.saves())
	assert.Empty(t, recorder.Summaries)
}

func TestBuild_CoOccurrenceCollapses(t *testing.T) {
	text := "Tesla makes cars and Elon Musk talks a lot. Elon Musk was seen near Tesla."
	engine := &nlptest.Engine{Document: nlptest.Doc(text,
		nlptest.M("Tesla", "ORG"),
		nlptest.M("Elon Musk", "PERSON"),
		nlptest.M("Elon Musk", "PERSON"),
		nlptest.M("Tesla", "ORG"),
	)}
	b, _, _ := newTestBuilder(engine)

	resp, err := b.Build(context.Background(), BuildRequest{Text: text})
	require.NoError(t, err)

	require.Len(t, resp.Relationships, 1)
	assert.Equal(t, model.RelEmployedBy, resp.Relationships[0].Type)
	assert.Equal(t, 0.5, resp.Relationships[0].Confidence)
}

func TestBuild_CleansTextBeforeParsing(t *testing.T) {
	engine := &nlptest.Engine{}
	b, _, _ := newTestBuilder(engine)

	_, err := b.Build(context.Background(), BuildRequest{Text: "  Apple\n\nships   phones.\t"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple ships phones."}, engine.Calls())
}

func TestBuild_DocumentTooLong(t *testing.T) {
	engine := &nlptest.Engine{Max: 10}
	b, sink, recorder := newTestBuilder(engine)

	_, err := b.Build(context.Background(), BuildRequest{Text: strings.Repeat("word ", 10)})

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageNLP, stageErr.Stage)
	assert.ErrorIs(t, err, nlp.ErrDocumentTooLong)
	assert.Empty(t, engine.Calls(), "no silent truncation and no parse")
	assert.Empty(t, sink.saves())
	require.Len(t, recorder.Summaries, 1)
	assert.Error(t, recorder.Summaries[0].Err)
}

func TestBuild_StageErrors(t *testing.T) {
	boom := errors.New("engine down")
	b, sink, _ := newTestBuilder(&nlptest.Engine{Err: boom})

	_, err := b.Build(context.Background(), BuildRequest{Text: "Apple."})
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageNLP, stageErr.Stage)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, sink.saves())

	dbDown := errors.New("neo4j unavailable")
	b, sink, recorder := newTestBuilder(&nlptest.Engine{})
	sink.SaveErr = dbDown

	_, err = b.Build(context.Background(), BuildRequest{Text: "Apple."})
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StagePersist, stageErr.Stage)
	assert.ErrorIs(t, err, dbDown)
	assert.Contains(t, err.Error(), "persist stage failed")
	require.Len(t, recorder.Summaries, 1)
	assert.ErrorIs(t, recorder.Summaries[0].Err, dbDown)
}

func TestBuild_RecorderFailureIsNotFatal(t *testing.T) {
	logger, hook := test.NewNullLogger()
	b := NewBuilder(&nlptest.Engine{}, &MockSink{}, logger)
	b.Recorder = &MockRecorder{Err: errors.New("mysql gone")}

	_, err := b.Build(context.Background(), BuildRequest{Text: "Apple."})
	require.NoError(t, err)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "failed to record build" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestBuild_OnlyStructuralEntitiesReachTheSink(t *testing.T) {
	text := "Google raised $5 billion, 20% more, in 2020 in Zurich."
	engine := &nlptest.Engine{Document: nlptest.Doc(text,
		nlptest.M("Google", "ORG"),
		nlptest.M("$5 billion", "MONEY"),
		nlptest.M("20%", "PERCENT"),
		nlptest.M("2020", "DATE"),
		nlptest.M("Zurich", "GPE"),
	)}
	b, sink, _ := newTestBuilder(engine)

	resp, err := b.Build(context.Background(), BuildRequest{Text: text})
	require.NoError(t, err)

	for _, e := range sink.saves()[0].Batch.Entities {
		assert.Equal(t, model.CategoryStructural, e.Category)
		assert.False(t, model.IsMetadataLabel(e.Type))
	}
	require.Len(t, resp.Events, 1)
	assert.Equal(t, model.EventFundingRound, resp.Events[0].EventType)
	assert.Equal(t, "Zurich", resp.Events[0].Location)
	require.Len(t, resp.Relationships, 1)
	assert.Equal(t, &model.RelationshipMetadata{Date: "2020", Amount: "$5 billion"}, resp.Relationships[0].Metadata)
}

func TestExtract_DoesNotPersist(t *testing.T) {
	text := "Steve Jobs founded Apple."
	engine := &nlptest.Engine{Document: nlptest.Doc(text, nlptest.M("Steve Jobs", "PERSON"), nlptest.M("Apple", "ORG"))}
	b, sink, recorder := newTestBuilder(engine)

	res, err := b.Extract(context.Background(), text, "")
	require.NoError(t, err)
	assert.Len(t, res.Relationships, 1)
	assert.Empty(t, sink.saves())
	assert.Empty(t, recorder.Summaries)
}

func TestBuildBatch(t *testing.T) {
	b, sink, _ := newTestBuilder(&nlptest.Engine{})
	b.BulkLimit = 2

	reqs := []BuildRequest{
		{Text: "Apple grew.", SessionID: "a"},
		{Text: "   "},
		{Text: "Tesla grew.", SessionID: "c"},
		{Text: "Sony grew."},
	}
	results, err := b.BuildBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "a", results[0].Response.SessionID)
	assert.ErrorIs(t, results[1].Err, ErrEmptyText)
	assert.Nil(t, results[1].Response)
	assert.Equal(t, "c", results[2].Response.SessionID)
	assert.NotEmpty(t, results[3].Response.SessionID)
	assert.Len(t, sink.saves(), 3)
}

func TestBuildBatch_CancelledContext(t *testing.T) {
	engine := &nlptest.Engine{}
	b, _, _ := newTestBuilder(engine)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := b.BuildBatch(ctx, []BuildRequest{{Text: "Apple grew."}})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	assert.Empty(t, engine.Calls())
}

func TestSessionDelegation(t *testing.T) {
	b, sink, _ := newTestBuilder(&nlptest.Engine{})
	total := 3
	sink.MockStats = &model.GraphStats{TotalEntities: total}
	sink.MockVis = &model.Visualization{Nodes: []model.VisNode{{ID: "Apple"}}}
	ctx := context.Background()

	require.NoError(t, b.ClearSession(ctx, "s"))
	assert.Equal(t, []string{"s"}, sink.Cleared)

	stats, err := b.Stats(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalEntities)

	vis, err := b.Visualization(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, vis.Nodes, 1)

	assert.ErrorIs(t, b.ClearSession(ctx, ""), ErrEmptySession)
	_, err = b.Stats(ctx, "")
	assert.ErrorIs(t, err, ErrEmptySession)
	_, err = b.Visualization(ctx, "")
	assert.ErrorIs(t, err, ErrEmptySession)

	require.NoError(t, b.BuildIndices(ctx))
	assert.True(t, sink.Indexed)
}
