package nlp

import (
	"regexp"
	"sort"
)

type numericPattern struct {
	label string
	regex *regexp.Regexp
}

const monthNames = `(?:January|February|March|April|May|June|July|August|September|October|November|December)`

// Ordered by priority; later patterns never overlap spans taken by earlier ones.
var numericPatterns = []numericPattern{
	{label: "MONEY", regex: regexp.MustCompile(`(?i)[$€£]\s?\d[\d,]*(?:\.\d+)?(?:\s?(?:thousand|million|billion|trillion|[mbk]n?)\b)?`)},
	{label: "MONEY", regex: regexp.MustCompile(`(?i)\b\d[\d,]*(?:\.\d+)?(?:\s(?:thousand|million|billion|trillion))?\s(?:dollars|euros|pounds|usd|eur)\b`)},
	{label: "PERCENT", regex: regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s?(?:%|percent\b)`)},
	{label: "DATE", regex: regexp.MustCompile(`\b` + monthNames + `\b(?:\s+\d{1,2}(?:st|nd|rd|th)?)?(?:,?\s+\d{4})?`)},
	{label: "DATE", regex: regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)},
	{label: "DATE", regex: regexp.MustCompile(`(?i)\b(?:last|next|this)\s(?:year|month|week|quarter)\b`)},
	{label: "DATE", regex: regexp.MustCompile(`\bQ[1-4]\s\d{4}\b`)},
	{label: "DATE", regex: regexp.MustCompile(`\b(?:1[89]|20)\d{2}\b`)},
	{label: "ORDINAL", regex: regexp.MustCompile(`(?i)\b(?:first|second|third|fourth|fifth|\d+(?:st|nd|rd|th))\b`)},
	{label: "CARDINAL", regex: regexp.MustCompile(`\b\d[\d,]*(?:\.\d+)?\b`)},
}

// TagNumeric finds DATE, MONEY, PERCENT, ORDINAL and CARDINAL spans with fixed patterns. It
// backs engines whose NER model does not emit these labels.
func TagNumeric(text string) []Mention {
	taken := make([]bool, len(text))
	var out []Mention

	for _, p := range numericPatterns {
		for _, loc := range p.regex.FindAllStringIndex(text, -1) {
			if overlaps(taken, loc[0], loc[1]) {
				continue
			}
			for k := loc[0]; k < loc[1]; k++ {
				taken[k] = true
			}
			out = append(out, Mention{
				Text:  text[loc[0]:loc[1]],
				Label: p.label,
				Start: loc[0],
				End:   loc[1],
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func overlaps(taken []bool, start, end int) bool {
	for k := start; k < end; k++ {
		if taken[k] {
			return true
		}
	}
	return false
}
