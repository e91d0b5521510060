package relation

import (
	"fmt"
	"unicode/utf8"

	"github.com/agenthands/textgraph/internal/core/common"
	"github.com/agenthands/textgraph/internal/core/model"
	"github.com/agenthands/textgraph/internal/nlp"
)

const (
	// RoleWindow is how close, in characters, an indicator must be to both mentions.
	RoleWindow = 80

	RoleConfidence         = 0.95
	CoOccurrenceConfidence = 0.5
)

type indicator struct {
	phrase string
	rel    model.RelationshipType
}

// Longer phrases precede the shorter phrases they contain.
var roleIndicators = []indicator{
	{"former ceo of", model.RelFormerCEOOf},
	{"co-founded", model.RelFounded},
	{"co-founder of", model.RelFounded},
	{"founder of", model.RelFounded},
	{"founded", model.RelFounded},
	{"chief executive of", model.RelCEOOf},
	{"ceo of", model.RelCEOOf},
	{"works at", model.RelEmployedBy},
	{"works for", model.RelEmployedBy},
	{"employed by", model.RelEmployedBy},
	{"joined", model.RelEmployedBy},
	{"acquired by", model.RelAcquired},
	{"headquartered in", model.RelHeadquarteredIn},
}

type indicatorHit struct {
	indicator
	start, end int
}

// findIndicators returns the first occurrence of each indicator in text, skipping occurrences
// that fall inside an earlier hit.
func findIndicators(text string) []indicatorHit {
	var hits []indicatorHit
	for _, ind := range roleIndicators {
		i := common.IndexFold(text, ind.phrase)
		if i < 0 {
			continue
		}
		covered := false
		for _, h := range hits {
			if i >= h.start && i < h.end {
				covered = true
				break
			}
		}
		if !covered {
			hits = append(hits, indicatorHit{ind, i, i + len(ind.phrase)})
		}
	}
	return hits
}

// Roles links every PERSON to every ORG of the sentence. An indicator phrase within RoleWindow
// of both mentions names the relationship; otherwise they are assumed EMPLOYED_BY at low
// confidence.
func Roles(s nlp.Sentence) []model.Relationship {
	persons := mentionsWith(s, model.LabelPerson)
	orgs := mentionsWith(s, model.LabelOrg)
	if len(persons) == 0 || len(orgs) == 0 {
		return nil
	}

	hits := findIndicators(s.Text)
	var out []model.Relationship
	for _, p := range persons {
		pPos := runeOffset(s, p.Start)
		for _, o := range orgs {
			oPos := runeOffset(s, o.Start)
			fired := false
			for _, h := range hits {
				hPos := runeOffset(s, s.Start+h.start)
				if common.Abs(hPos-pPos) > RoleWindow || common.Abs(hPos-oPos) > RoleWindow {
					continue
				}
				fired = true
				out = append(out, model.Relationship{
					Source:     p.Text,
					Target:     o.Text,
					Type:       h.rel,
					Reason:     fmt.Sprintf("Role indicator %q near PERSON (%s) and ORG (%s).", h.phrase, p.Text, o.Text),
					Confidence: RoleConfidence,
				})
			}
			if !fired {
				out = append(out, model.Relationship{
					Source:     p.Text,
					Target:     o.Text,
					Type:       model.RelEmployedBy,
					Reason:     fmt.Sprintf("PERSON (%s) and ORG (%s) co-occur in the same sentence without a role indicator.", p.Text, o.Text),
					Confidence: CoOccurrenceConfidence,
				})
			}
		}
	}
	return out
}

// runeOffset turns a document byte offset inside s into a character count from the sentence start.
func runeOffset(s nlp.Sentence, pos int) int {
	pos = max(0, min(pos-s.Start, len(s.Text)))
	return utf8.RuneCountInString(s.Text[:pos])
}

func mentionsWith(s nlp.Sentence, label string) []nlp.Mention {
	var out []nlp.Mention
	for _, m := range s.Mentions {
		if m.Label == label {
			out = append(out, m)
		}
	}
	return out
}
