// Package nlp defines the contract between the extraction pipeline and the NLP engine that
// segments sentences, recognises entities and parses dependencies, plus the engines we ship.
//
// All offsets are byte offsets into the text passed to Engine.Parse.
package nlp

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// DefaultMaxLength is the largest document an engine accepts unless configured otherwise.
const DefaultMaxLength = 2_000_000

// ErrDocumentTooLong is returned when a document exceeds the engine's length limit.
var ErrDocumentTooLong = errors.New("document exceeds nlp engine length limit")

// Engine turns cleaned text into a parsed Document. Implementations must be safe for concurrent
// use if builds run in parallel.
type Engine interface {
	Parse(ctx context.Context, text string) (*Document, error)
	MaxLength() int
}

// Mention is a labelled entity span.
type Mention struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Token is one node of a sentence's dependency tree. Head and Children index into the
// sentence's Tokens; the root's Head is its own index.
type Token struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Lemma    string `json:"lemma"`
	POS      string `json:"pos"`
	Dep      string `json:"dep"`
	Head     int    `json:"head"`
	Start    int    `json:"start"`
	Children []int  `json:"children,omitempty"`
}

// End is the byte offset just past the token.
func (t Token) End() int {
	return t.Start + len(t.Text)
}

// Sentence is a span of the document with its mentions and parse.
type Sentence struct {
	Text     string    `json:"text"`
	Start    int       `json:"start"`
	End      int       `json:"end"`
	Mentions []Mention `json:"mentions"`
	Tokens   []Token   `json:"tokens,omitempty"`
}

// Document is the engine's output for one text.
type Document struct {
	Text      string     `json:"text"`
	Sentences []Sentence `json:"sentences"`
}

// Mentions returns every mention of the document in sentence order.
func (d *Document) Mentions() []Mention {
	var out []Mention
	for _, s := range d.Sentences {
		out = append(out, s.Mentions...)
	}
	return out
}

// SentenceAt returns the index of the sentence containing offset, or -1.
func (d *Document) SentenceAt(offset int) int {
	i := sort.Search(len(d.Sentences), func(i int) bool {
		return d.Sentences[i].End > offset
	})
	if i < len(d.Sentences) && d.Sentences[i].Start <= offset {
		return i
	}
	return -1
}

// Roots returns the indices of tokens whose dependency is ROOT.
func (s *Sentence) Roots() []int {
	var out []int
	for i, t := range s.Tokens {
		if t.Dep == "ROOT" {
			out = append(out, i)
		}
	}
	return out
}

// Children returns the child tokens of token i.
func (s *Sentence) Children(i int) []Token {
	if i < 0 || i >= len(s.Tokens) {
		return nil
	}
	out := make([]Token, 0, len(s.Tokens[i].Children))
	for _, c := range s.Tokens[i].Children {
		if c >= 0 && c < len(s.Tokens) {
			out = append(out, s.Tokens[c])
		}
	}
	return out
}

// Subtree returns token i and all of its descendants, ordered by position.
func (s *Sentence) Subtree(i int) []Token {
	if i < 0 || i >= len(s.Tokens) {
		return nil
	}
	seen := map[int]bool{}
	stack := []int{i}
	var idx []int
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		idx = append(idx, n)
		for _, c := range s.Tokens[n].Children {
			if c >= 0 && c < len(s.Tokens) {
				stack = append(stack, c)
			}
		}
	}
	sort.Ints(idx)
	out := make([]Token, len(idx))
	for k, n := range idx {
		out[k] = s.Tokens[n]
	}
	return out
}

// SubtreeText returns the document text covered by token i's subtree.
func (s *Sentence) SubtreeText(i int) string {
	sub := s.Subtree(i)
	if len(sub) == 0 {
		return ""
	}
	start := sub[0].Start - s.Start
	end := sub[len(sub)-1].End() - s.Start
	if start < 0 || end > len(s.Text) || start >= end {
		parts := make([]string, len(sub))
		for k, t := range sub {
			parts[k] = t.Text
		}
		return strings.Join(parts, " ")
	}
	return s.Text[start:end]
}

// LinkChildren fills Children from Head links.
func (s *Sentence) LinkChildren() {
	for i := range s.Tokens {
		s.Tokens[i].Children = nil
	}
	for i, t := range s.Tokens {
		if t.Head != i && t.Head >= 0 && t.Head < len(s.Tokens) {
			s.Tokens[t.Head].Children = append(s.Tokens[t.Head].Children, i)
		}
	}
}
