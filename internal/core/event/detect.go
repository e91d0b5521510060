// Package event finds acquisitions, launches, leadership changes, conferences and funding rounds
// in single sentences by trigger phrase and the kinds of entities mentioned alongside.
package event

import (
	"math"
	"strings"

	"github.com/agenthands/textgraph/internal/core/common"
	"github.com/agenthands/textgraph/internal/core/model"
)

// OtherConfidence is what DetectEventType reports when no trigger matches.
const OtherConfidence = 0.3

type pattern struct {
	eventType model.EventType
	triggers  []string
	// at least one of these labels must be mentioned in the sentence
	required []string
}

var patterns = []pattern{
	{
		eventType: model.EventAcquisition,
		triggers:  []string{"acquired", "bought", "purchased", "acquisition of", "acquires", "buying"},
		required:  []string{model.LabelOrg},
	},
	{
		eventType: model.EventProductLaunch,
		triggers:  []string{"launched", "released", "introduced", "unveiled", "announced"},
		required:  []string{model.LabelProduct, model.LabelOrg},
	},
	{
		eventType: model.EventLeadershipChange,
		triggers:  []string{"appointed", "named", "became ceo", "stepped down", "resigned", "hired as"},
		required:  []string{model.LabelPerson, model.LabelOrg},
	},
	{
		eventType: model.EventConference,
		triggers:  []string{"conference", "summit", "keynote", "presentation at", "speaking at"},
		required:  []string{model.LabelEvent},
	},
	{
		eventType: model.EventFundingRound,
		triggers:  []string{"raised", "funding round", "investment", "series a", "series b", "venture capital"},
		required:  []string{model.LabelOrg},
	},
}

// DetectEventType returns the first matching event type in table order. Longer triggers score
// higher.
func DetectEventType(sentence string) (model.EventType, float64) {
	for _, p := range patterns {
		for _, trigger := range p.triggers {
			if common.ContainsFold(sentence, trigger) {
				words := len(strings.Fields(trigger))
				return p.eventType, math.Min(0.9, 0.6+0.1*float64(words))
			}
		}
	}
	return model.EventOther, OtherConfidence
}

func requiredLabels(t model.EventType) []string {
	for _, p := range patterns {
		if p.eventType == t {
			return p.required
		}
	}
	return nil
}
