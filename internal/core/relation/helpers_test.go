package relation

import (
	"strings"

	"github.com/agenthands/textgraph/internal/nlp"
)

type tok struct {
	text, lemma, pos, dep string
	head                  int
}

// parsed builds a single-sentence parse at offset 0. Tokens are located left to right and
// mentions by their first occurrence.
func parsed(text string, toks []tok, mentions ...nlp.Mention) nlp.Sentence {
	s := nlp.Sentence{Text: text, Start: 0, End: len(text)}
	from := 0
	for i, t := range toks {
		at := from + strings.Index(text[from:], t.text)
		s.Tokens = append(s.Tokens, nlp.Token{
			Index: i, Text: t.text, Lemma: t.lemma, POS: t.pos, Dep: t.dep, Head: t.head, Start: at,
		})
		from = at + len(t.text)
	}
	s.LinkChildren()
	for _, m := range mentions {
		m.Start = strings.Index(text, m.Text)
		m.End = m.Start + len(m.Text)
		s.Mentions = append(s.Mentions, m)
	}
	return s
}

// plain is a sentence with mentions but no parse.
func plain(text string, mentions ...nlp.Mention) nlp.Sentence {
	return parsed(text, nil, mentions...)
}

func mention(text, label string) nlp.Mention {
	return nlp.Mention{Text: text, Label: label}
}
