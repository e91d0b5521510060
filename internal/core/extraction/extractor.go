package extraction

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/agenthands/textgraph/internal/core/common"
	"github.com/agenthands/textgraph/internal/core/dedupe"
	"github.com/agenthands/textgraph/internal/core/model"
	"github.com/agenthands/textgraph/internal/core/validate"
	"github.com/agenthands/textgraph/internal/nlp"
)

// MaxContextLength caps Entity.Context in runes.
const MaxContextLength = 200

// DefaultForceDetect lists products the NLP engine often misses entirely. Finding one anywhere in
// the text adds it as an entity; this trades precision for recall on purpose.
var DefaultForceDetect = []string{"echo", "alexa", "siri", "cortana"}

// Extraction is the entity stage output for one document.
type Extraction struct {
	// Entities are structural, corrected, normalized, deduplicated and validated.
	Entities []model.Entity
	Metadata model.Metadata
	// Sentences mirror the document's sentences with corrected labels and normalized mention
	// texts, plus force-detected products. Relation and event inference read these.
	Sentences []nlp.Sentence
	Report    model.ValidationReport
}

type Extractor struct {
	Validator   *validate.Validator
	ForceDetect []string
	Logger      *logrus.Logger
}

// NewExtractor returns an extractor. A nil forceDetect selects DefaultForceDetect; an empty
// non-nil slice disables force detection.
func NewExtractor(validator *validate.Validator, forceDetect []string, logger *logrus.Logger) *Extractor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if validator == nil {
		validator = validate.NewValidator(logger)
	}
	if forceDetect == nil {
		forceDetect = DefaultForceDetect
	}
	return &Extractor{Validator: validator, ForceDetect: forceDetect, Logger: logger}
}

// Extract builds entities and metadata from a parsed document.
func (e *Extractor) Extract(doc *nlp.Document, documentID string) *Extraction {
	out := &Extraction{Sentences: make([]nlp.Sentence, len(doc.Sentences))}
	var entities []model.Entity

	for i, sent := range doc.Sentences {
		corrected := sent
		corrected.Mentions = make([]nlp.Mention, 0, len(sent.Mentions))

		for _, m := range sent.Mentions {
			if model.IsMetadataLabel(m.Label) {
				addMetadata(&out.Metadata, m, i)
				corrected.Mentions = append(corrected.Mentions, m)
				continue
			}
			if !model.IsStructuralLabel(m.Label) {
				continue
			}

			label := CorrectType(m.Text, m.Label)
			name := NormalizeName(m.Text, label)
			if name == "" {
				continue
			}
			corrected.Mentions = append(corrected.Mentions, nlp.Mention{Text: name, Label: label, Start: m.Start, End: m.End})
			entities = append(entities, model.Entity{
				Text:           name,
				Type:           label,
				Category:       model.CategoryStructural,
				StartChar:      m.Start,
				EndChar:        m.End,
				Context:        common.Truncate(sent.Text, MaxContextLength),
				SourceSentence: sent.Text,
				DocumentID:     documentID,
			})
		}
		out.Sentences[i] = corrected
	}

	entities = dedupe.Entities(entities)
	entities = e.forceDetect(doc.Text, documentID, entities, out.Sentences)

	kept, report := e.Validator.FilterEntities(entities)
	out.Entities = kept
	out.Report = report

	e.Logger.WithFields(logrus.Fields{
		"document_id": documentID,
		"entities":    len(kept),
		"rejected":    report.Count(validate.KindEntity),
		"sentences":   len(doc.Sentences),
	}).Debug("extracted entities")
	return out
}

func (e *Extractor) forceDetect(text, documentID string, entities []model.Entity, sentences []nlp.Sentence) []model.Entity {
	for _, raw := range e.ForceDetect {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		start := common.IndexFold(text, name)
		if start < 0 || hasEntityText(entities, name) {
			continue
		}
		end := start + len(name)
		display := capitalize(name)

		sentence := ""
		for i := range sentences {
			s := &sentences[i]
			if s.Start <= start && end <= s.End {
				sentence = s.Text
				s.Mentions = insertMention(s.Mentions, nlp.Mention{Text: display, Label: model.LabelProduct, Start: start, End: end})
				break
			}
		}

		entities = append(entities, model.Entity{
			Text:           display,
			Type:           model.LabelProduct,
			Category:       model.CategoryStructural,
			StartChar:      start,
			EndChar:        end,
			Context:        "Force-detected product: " + name,
			SourceSentence: sentence,
			DocumentID:     documentID,
		})
		e.Logger.WithField("product", display).Info("force-detected missing product")
	}
	return entities
}

func hasEntityText(entities []model.Entity, lower string) bool {
	for _, ent := range entities {
		if strings.ToLower(ent.Text) == lower {
			return true
		}
	}
	return false
}

func insertMention(mentions []nlp.Mention, m nlp.Mention) []nlp.Mention {
	i := sort.Search(len(mentions), func(i int) bool { return mentions[i].Start > m.Start })
	mentions = append(mentions, nlp.Mention{})
	copy(mentions[i+1:], mentions[i:])
	mentions[i] = m
	return mentions
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
