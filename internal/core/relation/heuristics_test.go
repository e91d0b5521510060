package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/textgraph/internal/core/model"
)

func TestPairHeuristics_Locations(t *testing.T) {
	tests := []struct {
		text string
		rel  model.RelationshipType
		conf float64
	}{
		{"Apple is headquartered in Cupertino.", model.RelHeadquarteredIn, 0.95},
		{"Apple has its headquarters in Cupertino.", model.RelHeadquarteredIn, 0.9},
		{"Apple is based in Cupertino.", model.RelHeadquarteredIn, 0.8},
		{"Apple is located in Cupertino.", model.RelLocatedIn, 0.85},
		{"Apple opened offices in Cupertino.", model.RelLocatedIn, 0.75},
		{"Apple loves Cupertino.", model.RelLocatedIn, 0.65},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := PairHeuristics(plain(tt.text, mention("Apple", "ORG"), mention("Cupertino", "GPE")))
			require.Len(t, got, 1)
			assert.Equal(t, "Apple", got[0].Source)
			assert.Equal(t, "Cupertino", got[0].Target)
			assert.Equal(t, tt.rel, got[0].Type)
			assert.Equal(t, tt.conf, got[0].Confidence)
		})
	}
}

func TestPairHeuristics_Products(t *testing.T) {
	tests := []struct {
		text string
		rel  model.RelationshipType
		conf float64
	}{
		{"Sony launched the PlayStation.", model.RelReleased, 0.9},
		{"Sony manufactures the PlayStation.", model.RelProduces, 0.85},
		{"Sony developed the PlayStation.", model.RelDevelops, 0.8},
		{"Sony and the PlayStation.", model.RelProduces, 0.65},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := PairHeuristics(plain(tt.text, mention("Sony", "ORG"), mention("PlayStation", "PRODUCT")))
			require.Len(t, got, 1)
			assert.Equal(t, tt.rel, got[0].Type)
			assert.Equal(t, tt.conf, got[0].Confidence)
		})
	}
}

func TestPairHeuristics_Mixed(t *testing.T) {
	s := plain("Apple, located in Cupertino, released the iPhone.",
		mention("Apple", "ORG"), mention("Cupertino", "GPE"), mention("iPhone", "PRODUCT"))
	got := PairHeuristics(s)

	require.Len(t, got, 2)
	assert.Equal(t, model.RelLocatedIn, got[0].Type)
	assert.Equal(t, model.RelReleased, got[1].Type)
	assert.Contains(t, got[1].Reason, `"released"`)

	assert.Nil(t, PairHeuristics(plain("Cupertino has the iPhone.", mention("Cupertino", "GPE"), mention("iPhone", "PRODUCT"))))
}
