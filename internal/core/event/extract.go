package event

import (
	"github.com/sirupsen/logrus"

	"github.com/agenthands/textgraph/internal/core/dedupe"
	"github.com/agenthands/textgraph/internal/core/model"
	"github.com/agenthands/textgraph/internal/nlp"
)

var participantLabels = map[string]struct{}{
	model.LabelPerson:  {},
	model.LabelOrg:     {},
	model.LabelProduct: {},
	model.LabelEvent:   {},
}

type Extractor struct {
	Logger *logrus.Logger
}

func NewExtractor(logger *logrus.Logger) *Extractor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Extractor{Logger: logger}
}

// Extract finds at most one event per sentence and deduplicates them by type and participants.
func (x *Extractor) Extract(sentences []nlp.Sentence, meta model.Metadata, documentID string) []model.Event {
	var events []model.Event
	for i, s := range sentences {
		ev, ok := fromSentence(s)
		if !ok {
			continue
		}
		ev.Date = meta.FirstDate(i)
		ev.Amount = meta.FirstMoney(i)
		ev.DocumentID = documentID
		events = append(events, ev)
	}

	out := dedupe.Events(events)
	x.Logger.WithFields(logrus.Fields{
		"document_id": documentID,
		"events":      len(out),
	}).Debug("extracted events")
	return out
}

func fromSentence(s nlp.Sentence) (model.Event, bool) {
	eventType, confidence := DetectEventType(s.Text)
	if eventType == model.EventOther && confidence < 0.5 {
		return model.Event{}, false
	}

	present := make(map[string]bool)
	for _, m := range s.Mentions {
		present[m.Label] = true
	}
	if eventType != model.EventOther && !anyPresent(present, requiredLabels(eventType)) {
		return model.Event{}, false
	}

	var participants []string
	seen := make(map[string]bool)
	location := ""
	for _, m := range s.Mentions {
		if m.Label == model.LabelGPE && location == "" {
			location = m.Text
		}
		if _, ok := participantLabels[m.Label]; !ok || seen[m.Text] {
			continue
		}
		seen[m.Text] = true
		participants = append(participants, m.Text)
	}
	if len(participants) == 0 {
		return model.Event{}, false
	}

	return model.Event{
		EventType:    eventType,
		Name:         Name(eventType, participants),
		Participants: participants,
		Location:     location,
		Context:      s.Text,
		Confidence:   confidence,
	}, true
}

func anyPresent(present map[string]bool, labels []string) bool {
	for _, l := range labels {
		if present[l] {
			return true
		}
	}
	return false
}
