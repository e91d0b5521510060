package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrectType(t *testing.T) {
	tests := []struct {
		text, label, want string
	}{
		{"Alibaba", "GPE", "ORG"},
		{" amazon ", "GPE", "ORG"},
		{"Kindle", "GPE", "PRODUCT"},
		{"iPhone", "ORG", "PRODUCT"},
		{"Apple Watch", "ORG", "PRODUCT"},
		{"Apple", "ORG", "ORG"},
		{"Apple", "PERSON", "PERSON"},
		{"Paris", "GPE", "GPE"},
	}
	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, CorrectType(tt.text, tt.label))
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		text, typ, want string
	}{
		{"Apple Inc.", "ORG", "Apple"},
		{"Acme, Inc.", "ORG", "Acme"},
		{"Acme, LLC", "COMPANY", "Acme"},
		{"Microsoft Corporation", "ORG", "Microsoft"},
		{"Widgets Co. Ltd.", "ORG", "Widgets"},
		{"Tesla Inc. ", "ORGANIZATION", "Tesla"},
		{"U.S.", "GPE", "United States"},
		{"USA", "LOCATION", "United States"},
		{"U.K.", "GPE", "United Kingdom"},
		{"U.S.", "ORG", "U.S."},
		{"the U.S.", "GPE", "the U.S."},
		{"Steve Jobs Inc", "PERSON", "Steve Jobs Inc"},
		{"Inc.", "ORG", "Inc."},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.text, tt.typ))
		})
	}
}
