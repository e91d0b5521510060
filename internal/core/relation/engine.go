// Package relation infers typed relationships between the mentions of each sentence. Three
// independent strategies propose candidates which are pooled and deduplicated; validation
// against the grammar happens afterwards.
package relation

import (
	"github.com/sirupsen/logrus"

	"github.com/agenthands/textgraph/internal/core/dedupe"
	"github.com/agenthands/textgraph/internal/core/model"
	"github.com/agenthands/textgraph/internal/nlp"
)

// Strategy proposes relationships found in one sentence.
type Strategy func(s nlp.Sentence) []model.Relationship

// DefaultStrategies run in this order; on duplicates the earlier strategy wins.
var DefaultStrategies = []Strategy{Roles, PairHeuristics, SVO}

type Engine struct {
	Strategies []Strategy
	Logger     *logrus.Logger
}

func NewEngine(logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{Strategies: DefaultStrategies, Logger: logger}
}

// Infer runs every strategy over every sentence, strategy-major, and deduplicates the pool.
// Each relationship is stamped with its sentence, the document id and the sentence's first
// date and amount.
func (e *Engine) Infer(sentences []nlp.Sentence, meta model.Metadata, documentID string) []model.Relationship {
	var pool []model.Relationship
	for _, strategy := range e.Strategies {
		for i, s := range sentences {
			for _, rel := range strategy(s) {
				rel.SourceSentence = s.Text
				rel.DocumentID = documentID
				date, amount := meta.FirstDate(i), meta.FirstMoney(i)
				if date != "" || amount != "" {
					rel.Metadata = &model.RelationshipMetadata{Date: date, Amount: amount}
				}
				pool = append(pool, rel)
			}
		}
	}

	out := dedupe.Relationships(pool)
	e.Logger.WithFields(logrus.Fields{
		"document_id": documentID,
		"candidates":  len(pool),
		"unique":      len(out),
	}).Debug("inferred relationships")
	return out
}
