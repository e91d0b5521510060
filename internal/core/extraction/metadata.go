package extraction

import (
	"github.com/agenthands/textgraph/internal/core/model"
	"github.com/agenthands/textgraph/internal/nlp"
)

// addMetadata files a temporal or numeric mention under its kind. Cardinals and ordinals are
// both quantities.
func addMetadata(meta *model.Metadata, m nlp.Mention, sentence int) {
	span := model.Span{Text: m.Text, Sentence: sentence}
	switch m.Label {
	case model.LabelDate:
		meta.Dates = append(meta.Dates, span)
	case model.LabelMoney:
		meta.Money = append(meta.Money, span)
	case model.LabelPercent:
		meta.Percentages = append(meta.Percentages, span)
	case model.LabelCardinal, model.LabelOrdinal:
		meta.Quantities = append(meta.Quantities, span)
	}
}
