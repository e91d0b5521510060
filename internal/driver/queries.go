package driver

import (
	"fmt"

	"github.com/agenthands/textgraph/internal/core/model"
	"github.com/agenthands/textgraph/internal/core/rules"
)

var schemaQueries = []string{
	"CREATE CONSTRAINT entity_identity IF NOT EXISTS FOR (e:Entity) REQUIRE (e.name, e.type, e.session_id) IS UNIQUE",
	"CREATE INDEX entity_session IF NOT EXISTS FOR (e:Entity) ON (e.session_id)",
	"CREATE INDEX event_session IF NOT EXISTS FOR (e:Event) ON (e.session_id)",
	"CREATE CONSTRAINT event_identity IF NOT EXISTS FOR (e:Event) REQUIRE (e.event_type, e.participant_key, e.session_id) IS UNIQUE",
}

const (
	MergeEntityQuery = `
		MERGE (e:Entity {name: $name, type: $type, session_id: $session_id})
		ON CREATE SET e.created_at = timestamp()
		SET e.label = $label,
			e.context = $context,
			e.document_id = $document_id,
			e.updated_at = timestamp()
	`

	MergeEventQuery = `
		MERGE (ev:Event {event_type: $event_type, participant_key: $participant_key, session_id: $session_id})
		ON CREATE SET ev.created_at = timestamp()
		SET ev.name = $name,
			ev.date = $date,
			ev.location = $location,
			ev.amount = $amount,
			ev.context = $context,
			ev.confidence = $confidence,
			ev.document_id = $document_id,
			ev.updated_at = timestamp()
		WITH ev
		UNWIND $participants AS participant
		MATCH (e:Entity {name: participant, session_id: $session_id})
		MERGE (e)-[p:PARTICIPATED_IN]->(ev)
		SET p.session_id = $session_id
	`

	ClearSessionQuery = `
		MATCH (n {session_id: $session_id})
		DETACH DELETE n
	`

	CountEntitiesQuery = `
		MATCH (n:Entity {session_id: $session_id})
		RETURN count(n) AS total
	`

	CountRelationshipsQuery = `
		MATCH (:Entity {session_id: $session_id})-[r]->(:Entity {session_id: $session_id})
		RETURN count(r) AS total, avg(r.confidence) AS avg_confidence
	`

	CountEventsQuery = `
		MATCH (ev:Event {session_id: $session_id})
		RETURN count(ev) AS total
	`

	EntityTypesQuery = `
		MATCH (n:Entity {session_id: $session_id})
		RETURN n.label AS type, count(n) AS count
	`

	MostConnectedQuery = `
		MATCH (n:Entity {session_id: $session_id})-[r]-(:Entity {session_id: $session_id})
		RETURN n.name AS name, count(r) AS degree
		ORDER BY degree DESC, name ASC
		LIMIT 1
	`

	VisNodesQuery = `
		MATCH (n:Entity {session_id: $session_id})
		RETURN elementId(n) AS id, n.name AS label, n.label AS group
		ORDER BY label
	`

	VisEdgesQuery = `
		MATCH (a:Entity {session_id: $session_id})-[r]->(b:Entity {session_id: $session_id})
		RETURN elementId(a) AS from, elementId(b) AS to, type(r) AS label,
			r.confidence AS confidence, r.reason AS title
	`
)

const mergeRelationshipTemplate = `
		MATCH (a:Entity {name: $source, session_id: $session_id})
		MATCH (b:Entity {name: $target, session_id: $session_id})
		MERGE (a)-[r:%s]->(b)
		ON CREATE SET r.created_at = timestamp()
		SET r.reason = $reason,
			r.confidence = $confidence,
			r.verb = $verb,
			r.source_sentence = $source_sentence,
			r.document_id = $document_id,
			r.date = $date,
			r.amount = $amount,
			r.session_id = $session_id,
			r.updated_at = timestamp()
	`

// relationshipQueries holds one MERGE per allowed relationship type. Labels are never built
// from request data.
var relationshipQueries = func() map[model.RelationshipType]string {
	out := make(map[model.RelationshipType]string)
	for _, t := range rules.AllowedRelationshipTypes() {
		out[t] = fmt.Sprintf(mergeRelationshipTemplate, t)
	}
	return out
}()

// MergeRelationshipQuery returns the prebuilt query for t.
func MergeRelationshipQuery(t model.RelationshipType) (string, bool) {
	q, ok := relationshipQueries[t]
	return q, ok
}
