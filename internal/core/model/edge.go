package model

import (
	"sort"
	"strings"
)

// RelationshipMetadata carries temporal and monetary context of an edge.
type RelationshipMetadata struct {
	Date   string `json:"date,omitempty"`
	Amount string `json:"amount,omitempty"`
}

// Relationship is a directed, labeled edge between two entity names.
type Relationship struct {
	Source         string                `json:"source"`
	Target         string                `json:"target"`
	Type           RelationshipType      `json:"type"`
	Reason         string                `json:"reason"`
	Confidence     float64               `json:"confidence"`
	Verb           string                `json:"verb,omitempty"`
	SourceSentence string                `json:"source_sentence"`
	DocumentID     string                `json:"document_id,omitempty"`
	Metadata       *RelationshipMetadata `json:"metadata,omitempty"`
}

// Event is a discrete occurrence involving one or more entities.
type Event struct {
	EventType    EventType `json:"event_type"`
	Name         string    `json:"name"`
	Participants []string  `json:"participants"`
	Date         string    `json:"date,omitempty"`
	Location     string    `json:"location,omitempty"`
	Amount       string    `json:"amount,omitempty"`
	Context      string    `json:"context"`
	DocumentID   string    `json:"document_id,omitempty"`
	Confidence   float64   `json:"confidence"`
}

// ParticipantKey is the event's participants sorted and joined. Together with EventType it
// identifies the event.
func (e Event) ParticipantKey() string {
	sorted := append([]string(nil), e.Participants...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}
