// Package nlptest builds parsed documents and a scripted engine for tests.
package nlptest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/agenthands/textgraph/internal/nlp"
)

// M is a mention to be located in the text by Doc.
func M(text, label string) nlp.Mention {
	return nlp.Mention{Text: text, Label: label}
}

// Doc splits text into sentences and places each mention at its next occurrence after the
// previous mention. Mentions must be listed in text order. It panics on a mention it cannot find.
func Doc(text string, mentions ...nlp.Mention) *nlp.Document {
	doc := &nlp.Document{Text: text, Sentences: nlp.SplitSentences(text)}
	from := 0
	for _, m := range mentions {
		i := strings.Index(text[from:], m.Text)
		if i < 0 {
			panic(fmt.Sprintf("nlptest: mention %q not found after offset %d", m.Text, from))
		}
		m.Start = from + i
		m.End = m.Start + len(m.Text)
		from = m.Start + 1

		s := doc.SentenceAt(m.Start)
		if s < 0 {
			panic(fmt.Sprintf("nlptest: mention %q outside any sentence", m.Text))
		}
		doc.Sentences[s].Mentions = append(doc.Sentences[s].Mentions, m)
	}
	return doc
}

// Engine returns a fixed document or error and counts calls.
type Engine struct {
	Document *nlp.Document
	Err      error
	Max      int

	mu    sync.Mutex
	calls []string
}

func (e *Engine) Parse(ctx context.Context, text string) (*nlp.Document, error) {
	e.mu.Lock()
	e.calls = append(e.calls, text)
	e.mu.Unlock()

	if e.Err != nil {
		return nil, e.Err
	}
	if e.Document != nil {
		return e.Document, nil
	}
	return &nlp.Document{Text: text, Sentences: nlp.SplitSentences(text)}, nil
}

func (e *Engine) MaxLength() int {
	if e.Max > 0 {
		return e.Max
	}
	return nlp.DefaultMaxLength
}

// Calls returns the texts passed to Parse.
func (e *Engine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// Func adapts a function to nlp.Engine.
type Func func(ctx context.Context, text string) (*nlp.Document, error)

func (f Func) Parse(ctx context.Context, text string) (*nlp.Document, error) {
	return f(ctx, text)
}

func (f Func) MaxLength() int {
	return nlp.DefaultMaxLength
}
