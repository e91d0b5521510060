package model

// Entity is a named span extracted from a document.
type Entity struct {
	Text           string   `json:"text"`
	Type           string   `json:"type"` // corrected NLP label, e.g. ORG
	Category       Category `json:"category"`
	StartChar      int      `json:"start_char"`
	EndChar        int      `json:"end_char"`
	Context        string   `json:"context"`
	SourceSentence string   `json:"source_sentence"`
	DocumentID     string   `json:"document_id,omitempty"`
}

// IsStructural reports whether the entity becomes a graph node.
func (e Entity) IsStructural() bool {
	return e.Category == CategoryStructural
}

// Span is a metadata span together with the sentence it came from.
type Span struct {
	Text     string `json:"text"`
	Sentence int    `json:"sentence"`
}

// Metadata holds temporal and numeric spans found in a document. They are attached to
// relationships and events as properties and never persisted as nodes.
type Metadata struct {
	Dates       []Span `json:"dates"`
	Money       []Span `json:"money"`
	Percentages []Span `json:"percentages"`
	Quantities  []Span `json:"quantities"`
}

func firstIn(spans []Span, sentence int) string {
	for _, s := range spans {
		if s.Sentence == sentence {
			return s.Text
		}
	}
	return ""
}

// FirstDate returns the first DATE span of the sentence, or "".
func (m Metadata) FirstDate(sentence int) string {
	return firstIn(m.Dates, sentence)
}

// FirstMoney returns the first MONEY span of the sentence, or "".
func (m Metadata) FirstMoney(sentence int) string {
	return firstIn(m.Money, sentence)
}
