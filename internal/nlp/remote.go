package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteEngine calls an NLP sidecar (spaCy en_core_web_sm behind a small HTTP service) that
// returns sentences, entities and the dependency parse for a text.
type RemoteEngine struct {
	endpoint  string
	client    *http.Client
	maxLength int
}

func NewRemoteEngine(endpoint string, timeout time.Duration, maxLength int) *RemoteEngine {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &RemoteEngine{
		endpoint:  strings.TrimRight(endpoint, "/"),
		client:    &http.Client{Timeout: timeout},
		maxLength: maxLength,
	}
}

func (e *RemoteEngine) MaxLength() int {
	return e.maxLength
}

// Wire format of the sidecar. Offsets are character offsets into the submitted text; token
// indices are document-wide, as spaCy reports them.
type parseRequest struct {
	Text string `json:"text"`
}

type wireEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type wireToken struct {
	I     int    `json:"i"`
	Text  string `json:"text"`
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`
	Dep   string `json:"dep"`
	Head  int    `json:"head"`
	Idx   int    `json:"idx"`
}

type wireSentence struct {
	Start  int          `json:"start"`
	End    int          `json:"end"`
	Ents   []wireEntity `json:"ents"`
	Tokens []wireToken  `json:"tokens"`
}

type parseResponse struct {
	Sentences []wireSentence `json:"sentences"`
}

func (e *RemoteEngine) Parse(ctx context.Context, text string) (*Document, error) {
	if len(text) > e.maxLength {
		return nil, fmt.Errorf("%w: %d > %d", ErrDocumentTooLong, len(text), e.maxLength)
	}

	body, err := json.Marshal(parseRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode parse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/parse", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create parse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call nlp engine: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("nlp engine returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode nlp response: %w", err)
	}

	return convertRemote(text, parsed)
}

func convertRemote(text string, parsed parseResponse) (*Document, error) {
	offsets := charToByteOffsets(text)
	at := func(char int) (int, error) {
		if char < 0 || char >= len(offsets) {
			return 0, fmt.Errorf("nlp engine offset %d out of range", char)
		}
		return offsets[char], nil
	}
	span := func(from, to int) (int, int, error) {
		if to < from {
			return 0, 0, fmt.Errorf("nlp engine span [%d, %d) ends before it starts", from, to)
		}
		s, err := at(from)
		if err != nil {
			return 0, 0, err
		}
		e, err := at(to)
		if err != nil {
			return 0, 0, err
		}
		return s, e, nil
	}

	doc := &Document{Text: text, Sentences: make([]Sentence, 0, len(parsed.Sentences))}
	for _, ws := range parsed.Sentences {
		start, end, err := span(ws.Start, ws.End)
		if err != nil {
			return nil, err
		}
		sent := Sentence{Text: text[start:end], Start: start, End: end}

		for _, we := range ws.Ents {
			s, en, err := span(we.Start, we.End)
			if err != nil {
				return nil, err
			}
			sent.Mentions = append(sent.Mentions, Mention{Text: text[s:en], Label: we.Label, Start: s, End: en})
		}

		if len(ws.Tokens) > 0 {
			base := ws.Tokens[0].I
			sent.Tokens = make([]Token, len(ws.Tokens))
			for k, wt := range ws.Tokens {
				s, err := at(wt.Idx)
				if err != nil {
					return nil, err
				}
				sent.Tokens[k] = Token{
					Index: k,
					Text:  wt.Text,
					Lemma: wt.Lemma,
					POS:   wt.POS,
					Dep:   wt.Dep,
					Head:  wt.Head - base,
					Start: s,
				}
			}
			sent.LinkChildren()
		}

		doc.Sentences = append(doc.Sentences, sent)
	}
	return doc, nil
}

// charToByteOffsets maps character offset i to its byte offset; the final entry is len(text).
func charToByteOffsets(text string) []int {
	out := make([]int, 0, len(text)+1)
	for i := range text {
		out = append(out, i)
	}
	return append(out, len(text))
}
