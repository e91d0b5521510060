package nlp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// DefaultHugotModel is the NER model used when none is configured.
const DefaultHugotModel = "KnightsAnalytics/distilbert-NER"

// recognizer returns labelled spans of text with byte offsets.
type recognizer func(text string) ([]Mention, error)

// tokenCounter reports how many model tokens text encodes to, special tokens included.
type tokenCounter func(text string) (int, error)

// HugotEngine runs a token-classification model in-process. It has no dependency parser, so its
// documents carry mentions but no tokens; numeric mentions come from TagNumeric.
type HugotEngine struct {
	mu        sync.Mutex
	recognize recognizer
	count     tokenCounter
	maxTokens int
	session   *hugot.Session
	maxLength int
}

// chunk is a run of whole sentences that fits in one model input.
type chunk struct {
	start, end int
}

// PrepareHugotModel downloads modelName into modelDir unless it is already there and returns
// the local model path.
func PrepareHugotModel(modelName, modelDir string) (string, error) {
	modelPath := filepath.Join(modelDir, strings.ReplaceAll(modelName, "/", "_"))
	if _, err := os.Stat(modelPath); err == nil {
		return modelPath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to stat model path: %w", err)
	}

	if err := os.MkdirAll(modelDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}
	downloaded, err := hugot.DownloadModel(modelName, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("failed to download model: %w", err)
	}
	return downloaded, nil
}

// NewHugotEngine loads the NER pipeline from modelPath.
func NewHugotEngine(modelPath string, maxLength int) (*HugotEngine, error) {
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "textgraph-ner",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}),
		},
	}
	ner, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create NER pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create NER pipeline: %w", err)
	}

	recognize := func(text string) ([]Mention, error) {
		result, err := ner.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to run NER: %w", err)
		}
		if len(result.Entities) == 0 {
			return nil, nil
		}
		var out []Mention
		for _, ent := range result.Entities[0] {
			label, ok := hugotLabel(ent.Entity)
			if !ok {
				continue
			}
			m, ok := locate(text, strings.TrimSpace(ent.Word), int(ent.Start), int(ent.End))
			if !ok {
				continue
			}
			m.Label = label
			out = append(out, m)
		}
		return out, nil
	}

	tk := ner.Model.Tokenizer
	if tk == nil || tk.GoTokenizer == nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("NER pipeline has no go tokenizer (cleanup error: %v)", destroyErr)
		}
		return nil, fmt.Errorf("NER pipeline has no go tokenizer")
	}
	count := func(text string) (int, error) {
		enc, err := tk.GoTokenizer.Tokenizer.EncodeSingle(text, true)
		if err != nil {
			return 0, fmt.Errorf("failed to tokenize: %w", err)
		}
		return len(enc.Ids), nil
	}

	e := newHugotEngine(recognize, count, tk.MaxAllowedTokens, maxLength)
	e.session = session
	return e, nil
}

func newHugotEngine(recognize recognizer, count tokenCounter, maxTokens, maxLength int) *HugotEngine {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &HugotEngine{recognize: recognize, count: count, maxTokens: maxTokens, maxLength: maxLength}
}

func (e *HugotEngine) MaxLength() int {
	return e.maxLength
}

// Close releases the hugot session.
func (e *HugotEngine) Close() error {
	if e.session == nil {
		return nil
	}
	return e.session.Destroy()
}

func (e *HugotEngine) Parse(ctx context.Context, text string) (*Document, error) {
	if len(text) > e.maxLength {
		return nil, fmt.Errorf("%w: %d > %d", ErrDocumentTooLong, len(text), e.maxLength)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sentences := SplitSentences(text)
	chunks, err := e.pack(sentences)
	if err != nil {
		return nil, err
	}

	var named []Mention
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.mu.Lock()
		found, err := e.recognize(text[c.start:c.end])
		e.mu.Unlock()
		if err != nil {
			return nil, err
		}
		for _, m := range found {
			m.Start += c.start
			m.End += c.start
			named = append(named, m)
		}
	}

	mentions := mergeMentions(named, TagNumeric(text))
	doc := &Document{Text: text, Sentences: sentences}
	for _, m := range mentions {
		if i := doc.SentenceAt(m.Start); i >= 0 && m.End <= doc.Sentences[i].End {
			doc.Sentences[i].Mentions = append(doc.Sentences[i].Mentions, m)
		}
	}
	return doc, nil
}

// pack groups consecutive sentences into chunks whose summed token counts stay within the
// model's input size. The tokenizer truncates longer inputs, so a sentence that alone exceeds
// the limit is an error.
func (e *HugotEngine) pack(sentences []Sentence) ([]chunk, error) {
	if e.maxTokens <= 0 {
		if len(sentences) == 0 {
			return nil, nil
		}
		return []chunk{{start: sentences[0].Start, end: sentences[len(sentences)-1].End}}, nil
	}

	var out []chunk
	var cur chunk
	used := 0
	for _, s := range sentences {
		n, err := e.count(s.Text)
		if err != nil {
			return nil, err
		}
		if n > e.maxTokens {
			return nil, fmt.Errorf("%w: sentence at byte %d is %d tokens, model accepts %d",
				ErrDocumentTooLong, s.Start, n, e.maxTokens)
		}
		n = max(n, 1)
		if used > 0 && used+n > e.maxTokens {
			out = append(out, cur)
			used = 0
		}
		if used == 0 {
			cur = chunk{start: s.Start}
		}
		cur.end = s.End
		used += n
	}
	if used > 0 {
		out = append(out, cur)
	}
	return out, nil
}

// mergeMentions keeps every named mention and adds numeric ones that do not overlap them.
func mergeMentions(named, numeric []Mention) []Mention {
	out := append([]Mention(nil), named...)
	for _, n := range numeric {
		clash := false
		for _, m := range named {
			if n.Start < m.End && m.Start < n.End {
				clash = true
				break
			}
		}
		if !clash {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// hugotLabel maps CoNLL tags to the label set used downstream. MISC has no counterpart.
func hugotLabel(tag string) (string, bool) {
	tag = strings.TrimPrefix(strings.TrimPrefix(tag, "B-"), "I-")
	switch tag {
	case "PER", "PERSON":
		return "PERSON", true
	case "ORG":
		return "ORG", true
	case "LOC", "GPE":
		return "GPE", true
	default:
		return "", false
	}
}

// locate trusts the model's offsets when they cover word and otherwise searches for it.
func locate(text, word string, start, end int) (Mention, bool) {
	if word == "" {
		return Mention{}, false
	}
	if start >= 0 && end <= len(text) && start < end {
		span := strings.TrimSpace(text[start:end])
		if span == word {
			s := start + strings.Index(text[start:end], word)
			return Mention{Text: word, Start: s, End: s + len(word)}, true
		}
	}
	from := 0
	if start > 0 && start <= len(text) {
		from = start
	}
	if i := strings.Index(text[from:], word); i >= 0 {
		return Mention{Text: word, Start: from + i, End: from + i + len(word)}, true
	}
	if i := strings.Index(text, word); i >= 0 {
		return Mention{Text: word, Start: i, End: i + len(word)}, true
	}
	return Mention{}, false
}
