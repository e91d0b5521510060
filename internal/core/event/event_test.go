package event

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/textgraph/internal/core/model"
	"github.com/agenthands/textgraph/internal/nlp"
	"github.com/agenthands/textgraph/internal/nlp/nlptest"
)

func TestDetectEventType(t *testing.T) {
	tests := []struct {
		sentence string
		want     model.EventType
		conf     float64
	}{
		{"Apple acquired Beats.", model.EventAcquisition, 0.7},
		{"The acquisition of Beats closed.", model.EventAcquisition, 0.8},
		{"Google launched Android.", model.EventProductLaunch, 0.7},
		{"Tim Cook became CEO of Apple.", model.EventLeadershipChange, 0.8},
		{"She gave a keynote.", model.EventConference, 0.7},
		{"Stripe closed a Series A.", model.EventFundingRound, 0.8},
		{"Apple bought and launched things.", model.EventAcquisition, 0.7},
		{"Nothing happened.", model.EventOther, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			got, conf := DetectEventType(tt.sentence)
			assert.Equal(t, tt.want, got)
			assert.InDelta(t, tt.conf, conf, 1e-9)
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		typ          model.EventType
		participants []string
		want         string
	}{
		{model.EventAcquisition, []string{"Apple", "Beats"}, "Apple acquires Beats"},
		{model.EventAcquisition, []string{"Apple"}, "Apple acquisition"},
		{model.EventProductLaunch, []string{"Google", "Pixel Watch"}, "Google launches Pixel Watch"},
		{model.EventProductLaunch, []string{"Pixel Watch"}, "Pixel Watch launch"},
		{model.EventProductLaunch, []string{"Google", "Android"}, "Google product launch"},
		{model.EventLeadershipChange, []string{"Tim Cook", "Apple"}, "Tim Cook joins Apple"},
		{model.EventLeadershipChange, []string{"Tim Cook"}, "Tim Cook leadership change"},
		{model.EventConference, []string{"WWDC", "Apple"}, "WWDC"},
		{model.EventFundingRound, []string{"Stripe"}, "Stripe funding round"},
		{model.EventOther, []string{"A", "B", "C"}, "A - B"},
		{model.EventConference, nil, "Conference event"},
		{model.EventOther, nil, "Event"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.typ, tt.participants))
		})
	}
}

func newTestExtractor() *Extractor {
	logger, _ := test.NewNullLogger()
	return NewExtractor(logger)
}

func TestExtract_Acquisition(t *testing.T) {
	doc := nlptest.Doc("Apple acquired Beats for $3 billion in 2014.",
		nlptest.M("Apple", "ORG"),
		nlptest.M("Beats", "ORG"),
		nlptest.M("$3 billion", "MONEY"),
		nlptest.M("2014", "DATE"),
	)
	meta := model.Metadata{
		Dates: []model.Span{{Text: "2014", Sentence: 0}},
		Money: []model.Span{{Text: "$3 billion", Sentence: 0}},
	}

	got := newTestExtractor().Extract(doc.Sentences, meta, "doc-1")
	require.Len(t, got, 1)

	ev := got[0]
	assert.Equal(t, model.EventAcquisition, ev.EventType)
	assert.Equal(t, "Apple acquires Beats", ev.Name)
	assert.Equal(t, []string{"Apple", "Beats"}, ev.Participants)
	assert.Equal(t, "$3 billion", ev.Amount)
	assert.Equal(t, "2014", ev.Date)
	assert.InDelta(t, 0.7, ev.Confidence, 1e-9)
	assert.Equal(t, "Apple acquired Beats for $3 billion in 2014.", ev.Context)
	assert.Equal(t, "doc-1", ev.DocumentID)
}

func TestExtract_LocationAndUniqueParticipants(t *testing.T) {
	doc := nlptest.Doc("Apple unveiled the Vision Pro in San Francisco, and Apple cheered.",
		nlptest.M("Apple", "ORG"),
		nlptest.M("Vision Pro", "PRODUCT"),
		nlptest.M("San Francisco", "GPE"),
		nlptest.M("Apple", "ORG"),
	)
	got := newTestExtractor().Extract(doc.Sentences, model.Metadata{}, "")

	require.Len(t, got, 1)
	assert.Equal(t, model.EventProductLaunch, got[0].EventType)
	assert.Equal(t, []string{"Apple", "Vision Pro"}, got[0].Participants)
	assert.Equal(t, "Apple launches Vision Pro", got[0].Name)
	assert.Equal(t, "San Francisco", got[0].Location)
}

func TestExtract_Skips(t *testing.T) {
	sentences := []nlp.Sentence{
		// no trigger
		nlptest.Doc("Apple met Beats.", nlptest.M("Apple", "ORG"), nlptest.M("Beats", "ORG")).Sentences[0],
		// trigger but required ORG missing
		nlptest.Doc("Steve Jobs acquired a house.", nlptest.M("Steve Jobs", "PERSON")).Sentences[0],
		// conference without an EVENT mention
		nlptest.Doc("Apple held a conference.", nlptest.M("Apple", "ORG")).Sentences[0],
		// funding trigger without an ORG
		nlptest.Doc("Investment rose in Paris.", nlptest.M("Paris", "GPE")).Sentences[0],
	}
	assert.Empty(t, newTestExtractor().Extract(sentences, model.Metadata{}, ""))
}

func TestExtract_Dedupes(t *testing.T) {
	doc := nlptest.Doc("Apple acquired Beats. Beats was bought by Apple. Apple acquired Shazam.",
		nlptest.M("Apple", "ORG"), nlptest.M("Beats", "ORG"),
		nlptest.M("Beats", "ORG"), nlptest.M("Apple", "ORG"),
		nlptest.M("Apple", "ORG"), nlptest.M("Shazam", "ORG"),
	)
	got := newTestExtractor().Extract(doc.Sentences, model.Metadata{}, "")

	require.Len(t, got, 2)
	assert.Equal(t, "Apple acquires Beats", got[0].Name)
	assert.Equal(t, "Apple acquires Shazam", got[1].Name)
	for _, ev := range got {
		assert.GreaterOrEqual(t, ev.Confidence, 0.0)
		assert.LessOrEqual(t, ev.Confidence, 1.0)
	}
}
