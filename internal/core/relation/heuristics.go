package relation

import (
	"fmt"

	"github.com/agenthands/textgraph/internal/core/common"
	"github.com/agenthands/textgraph/internal/core/model"
	"github.com/agenthands/textgraph/internal/nlp"
)

type pairRule struct {
	phrases    []string
	rel        model.RelationshipType
	confidence float64
}

type pairTable struct {
	rules              []pairRule
	fallback           model.RelationshipType
	fallbackConfidence float64
}

var locationRules = pairTable{
	rules: []pairRule{
		{[]string{"headquartered in"}, model.RelHeadquarteredIn, 0.95},
		{[]string{"headquarters in"}, model.RelHeadquarteredIn, 0.9},
		{[]string{"based in"}, model.RelHeadquarteredIn, 0.8},
		{[]string{"located in"}, model.RelLocatedIn, 0.85},
		{[]string{"offices in", "office in"}, model.RelLocatedIn, 0.75},
	},
	fallback:           model.RelLocatedIn,
	fallbackConfidence: 0.65,
}

var productRules = pairTable{
	rules: []pairRule{
		{[]string{"released", "launched", "unveiled", "introduced"}, model.RelReleased, 0.9},
		{[]string{"manufactures", "produces", "produced", "makes"}, model.RelProduces, 0.85},
		{[]string{"develops", "developed", "developing", "builds"}, model.RelDevelops, 0.8},
	},
	fallback:           model.RelProduces,
	fallbackConfidence: 0.65,
}

// match returns the first rule with a phrase in text, or the fallback.
func (t pairTable) match(text string) (model.RelationshipType, float64, string) {
	for _, r := range t.rules {
		for _, p := range r.phrases {
			if common.ContainsFold(text, p) {
				return r.rel, r.confidence, p
			}
		}
	}
	return t.fallback, t.fallbackConfidence, ""
}

// PairHeuristics links ORG mentions to the GPE and PRODUCT mentions of the same sentence,
// choosing the relationship from the strongest phrase present.
func PairHeuristics(s nlp.Sentence) []model.Relationship {
	orgs := mentionsWith(s, model.LabelOrg)
	if len(orgs) == 0 {
		return nil
	}

	var out []model.Relationship
	out = append(out, pairs(s, orgs, mentionsWith(s, model.LabelGPE), locationRules)...)
	out = append(out, pairs(s, orgs, mentionsWith(s, model.LabelProduct), productRules)...)
	return out
}

func pairs(s nlp.Sentence, orgs, targets []nlp.Mention, table pairTable) []model.Relationship {
	if len(targets) == 0 {
		return nil
	}
	rel, confidence, phrase := table.match(s.Text)

	var out []model.Relationship
	for _, o := range orgs {
		for _, t := range targets {
			if o.Text == t.Text {
				continue
			}
			reason := fmt.Sprintf("ORG (%s) and %s (%s) in the same sentence.", o.Text, t.Label, t.Text)
			if phrase != "" {
				reason = fmt.Sprintf("Phrase %q links ORG (%s) and %s (%s).", phrase, o.Text, t.Label, t.Text)
			}
			out = append(out, model.Relationship{
				Source:     o.Text,
				Target:     t.Text,
				Type:       rel,
				Reason:     reason,
				Confidence: confidence,
			})
		}
	}
	return out
}
