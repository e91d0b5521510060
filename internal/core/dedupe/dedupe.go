// Package dedupe collapses duplicate entities, relationships and events by canonical key. The
// first occurrence wins and order is preserved, so applying it twice changes nothing.
package dedupe

import (
	"strings"

	"github.com/agenthands/textgraph/internal/core/model"
)

// By keeps the first item for each key, in input order.
func By[T any, K comparable](items []T, key func(T) K) []T {
	if items == nil {
		return nil
	}
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

type entityKey struct {
	text, typ string
}

// entityKeyOf is (lower(text), type).
func entityKeyOf(e model.Entity) entityKey {
	return entityKey{strings.ToLower(e.Text), e.Type}
}

func Entities(entities []model.Entity) []model.Entity {
	return By(entities, entityKeyOf)
}

type relationshipKey struct {
	source, target string
	typ            model.RelationshipType
}

// relationshipKeyOf is (lower(source), lower(target), type).
func relationshipKeyOf(r model.Relationship) relationshipKey {
	return relationshipKey{strings.ToLower(r.Source), strings.ToLower(r.Target), r.Type}
}

func Relationships(rels []model.Relationship) []model.Relationship {
	return By(rels, relationshipKeyOf)
}

type eventKey struct {
	typ          model.EventType
	participants string
}

// eventKeyOf is (event_type, sorted participants).
func eventKeyOf(e model.Event) eventKey {
	return eventKey{e.EventType, e.ParticipantKey()}
}

func Events(events []model.Event) []model.Event {
	return By(events, eventKeyOf)
}
