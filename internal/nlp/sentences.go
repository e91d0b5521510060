package nlp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "sr": {}, "jr": {}, "st": {},
	"inc": {}, "corp": {}, "ltd": {}, "co": {}, "vs": {}, "etc": {}, "no": {}, "gen": {},
	"jan": {}, "feb": {}, "mar": {}, "apr": {}, "aug": {}, "sep": {}, "sept": {}, "oct": {}, "nov": {}, "dec": {},
}

// SplitSentences segments text on terminal punctuation followed by whitespace and an upper-case
// letter, digit or quote. Known abbreviations and dotted initialisms (U.S.) do not end a sentence.
// Engines without their own segmenter use it.
func SplitSentences(text string) []Sentence {
	var out []Sentence
	start := 0

	emit := func(end int) {
		raw := text[start:end]
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			lead := strings.Index(raw, trimmed)
			out = append(out, Sentence{
				Text:  trimmed,
				Start: start + lead,
				End:   start + lead + len(trimmed),
			})
		}
		start = end
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		j := i + 1
		for j < len(text) && (text[j] == '"' || text[j] == '\'' || text[j] == ')') {
			j++
		}
		if j >= len(text) || text[j] != ' ' {
			continue
		}
		next, _ := utf8.DecodeRuneInString(text[j+1:])
		if !(unicode.IsUpper(next) || unicode.IsDigit(next) || next == '"' || next == '\'') {
			continue
		}
		if c == '.' && isAbbreviation(text[start:i]) {
			continue
		}
		emit(j)
	}
	emit(len(text))
	return out
}

func isAbbreviation(before string) bool {
	k := strings.LastIndexAny(before, " (\"")
	word := before[k+1:]
	if word == "" {
		return false
	}
	if strings.Contains(word, ".") {
		return true
	}
	if utf8.RuneCountInString(word) == 1 {
		r, _ := utf8.DecodeRuneInString(word)
		return unicode.IsUpper(r)
	}
	_, ok := abbreviations[strings.ToLower(word)]
	return ok
}
