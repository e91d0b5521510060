package relation

import (
	"fmt"
	"strings"

	"github.com/agenthands/textgraph/internal/core/common"
	"github.com/agenthands/textgraph/internal/core/model"
	"github.com/agenthands/textgraph/internal/nlp"
)

// MinConfidence is the floor below which SVO candidates are dropped.
const MinConfidence = 0.6

// verbRelationships maps verb lemmas to relationship types. Verbs absent here produce nothing.
var verbRelationships = map[string]model.RelationshipType{
	"found":     model.RelFounded,
	"co-found":  model.RelFounded,
	"cofound":   model.RelFounded,
	"establish": model.RelFounded,
	"start":     model.RelFounded,

	"lead": model.RelCEOOf,
	"head": model.RelCEOOf,

	"join": model.RelEmployedBy,
	"work": model.RelEmployedBy,

	"own":     model.RelOperates,
	"operate": model.RelOperates,
	"run":     model.RelOperates,

	"produce":     model.RelProduces,
	"manufacture": model.RelProduces,
	"make":        model.RelProduces,
	"build":       model.RelProduces,
	"sell":        model.RelProduces,
	"ship":        model.RelProduces,

	"release":   model.RelReleased,
	"launch":    model.RelReleased,
	"unveil":    model.RelReleased,
	"introduce": model.RelReleased,
	"announce":  model.RelReleased,
	"debut":     model.RelReleased,

	"develop":  model.RelDevelops,
	"design":   model.RelDevelops,
	"create":   model.RelDevelops,
	"engineer": model.RelDevelops,
	"invent":   model.RelDevelops,

	"acquire":  model.RelAcquired,
	"buy":      model.RelAcquired,
	"purchase": model.RelAcquired,
	"absorb":   model.RelAcquired,

	"merge":       model.RelCollaboratesWith,
	"partner":     model.RelCollaboratesWith,
	"collaborate": model.RelCollaboratesWith,
	"cooperate":   model.RelCollaboratesWith,
	"ally":        model.RelCollaboratesWith,
	"team":        model.RelCollaboratesWith,

	"compete":   model.RelCompetesWith,
	"rival":     model.RelCompetesWith,
	"challenge": model.RelCompetesWith,

	"headquarter": model.RelHeadquarteredIn,
	"base":        model.RelHeadquarteredIn,

	"locate":  model.RelLocatedIn,
	"situate": model.RelLocatedIn,
}

var strongVerbs = map[string]struct{}{
	"acquire": {}, "found": {}, "own": {}, "produce": {}, "headquarter": {},
}

var strongIndicators = []string{
	"acquired", "founded", "co-founded", "ceo of", "chief executive",
	"headquartered in", "subsidiary of", "owned by", "manufactures",
	"produces", "launched", "partnered with", "competes with",
}

// svoConfidence scores a triple from the verb, the sentence wording and the gap in bytes
// between the two mentions.
func svoConfidence(lemma, sentence string, gap int) float64 {
	score := 0.5
	if _, ok := strongVerbs[lemma]; ok {
		score += 0.3
	}
	for _, ind := range strongIndicators {
		if common.ContainsFold(sentence, ind) {
			score += 0.3
			break
		}
	}
	switch {
	case gap <= 30:
		score += 0.2
	case gap > 100:
		score -= 0.1
	}
	return common.Clamp(score, 0, 1)
}

type argument struct {
	token    int
	viaAgent bool
}

// SVO reads subject-verb-object triples off the dependency parse of the sentence root verbs.
// Sentences without tokens yield nothing.
func SVO(s nlp.Sentence) []model.Relationship {
	var out []model.Relationship
	for _, root := range s.Roots() {
		verb := s.Tokens[root]
		if verb.POS != "VERB" {
			continue
		}
		lemma := strings.ToLower(verb.Lemma)
		rel, ok := verbRelationships[lemma]
		if !ok {
			continue
		}

		var subjects, objects []argument
		for _, c := range s.Tokens[root].Children {
			switch s.Tokens[c].Dep {
			case "nsubj", "nsubjpass":
				subjects = append(subjects, argument{token: c})
			case "dobj":
				objects = append(objects, argument{token: c})
			case "prep", "agent":
				for _, gc := range s.Tokens[c].Children {
					if s.Tokens[gc].Dep == "pobj" {
						objects = append(objects, argument{token: gc, viaAgent: s.Tokens[c].Dep == "agent"})
					}
				}
			}
		}

		for _, subj := range subjects {
			sm, ok := resolve(s, subj.token)
			if !ok {
				continue
			}
			for _, obj := range objects {
				om, ok := resolve(s, obj.token)
				if !ok || sm.Text == om.Text {
					continue
				}
				source, target := sm, om
				if s.Tokens[subj.token].Dep == "nsubjpass" && obj.viaAgent {
					source, target = om, sm
				}

				confidence := svoConfidence(lemma, s.Text, gap(s, sm, om))
				if confidence < MinConfidence {
					continue
				}
				out = append(out, model.Relationship{
					Source:     source.Text,
					Target:     target.Text,
					Type:       rel,
					Reason:     fmt.Sprintf("SVO pattern: %s %s %s.", sm.Text, verb.Text, om.Text),
					Confidence: confidence,
					Verb:       lemma,
				})
			}
		}
	}
	return out
}

// resolve finds the structural mention a token stands for: the mention containing the token,
// else the first mention inside the token's subtree.
func resolve(s nlp.Sentence, token int) (nlp.Mention, bool) {
	var mentions []nlp.Mention
	for _, m := range s.Mentions {
		if model.IsStructuralLabel(m.Label) {
			mentions = append(mentions, m)
		}
	}

	start := s.Tokens[token].Start
	for _, m := range mentions {
		if m.Start <= start && start < m.End {
			return m, true
		}
	}

	sub := s.Subtree(token)
	if len(sub) == 0 {
		return nlp.Mention{}, false
	}
	lo, hi := sub[0].Start, sub[len(sub)-1].End()
	for _, m := range mentions {
		if lo <= m.Start && m.End <= hi {
			return m, true
		}
	}
	return nlp.Mention{}, false
}

// gap is the number of characters between two mentions of s, 0 when they overlap.
func gap(s nlp.Sentence, a, b nlp.Mention) int {
	if a.Start > b.Start {
		a, b = b, a
	}
	if d := runeOffset(s, b.Start) - runeOffset(s, a.End); d > 0 {
		return d
	}
	return 0
}
