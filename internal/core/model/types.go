package model

// Category separates graph nodes from spans that only enrich edges and events.
type Category string

const (
	CategoryStructural Category = "STRUCTURAL"
	CategoryMetadata   Category = "METADATA"
)

// NLP labels produced by the engine.
const (
	LabelPerson    = "PERSON"
	LabelOrg       = "ORG"
	LabelGPE       = "GPE"
	LabelProduct   = "PRODUCT"
	LabelEvent     = "EVENT"
	LabelFacility  = "FAC"
	LabelWorkOfArt = "WORK_OF_ART"
	LabelDate      = "DATE"
	LabelMoney     = "MONEY"
	LabelPercent   = "PERCENT"
	LabelCardinal  = "CARDINAL"
	LabelOrdinal   = "ORDINAL"
)

var structuralLabels = map[string]struct{}{
	LabelPerson:    {},
	LabelOrg:       {},
	LabelGPE:       {},
	LabelProduct:   {},
	LabelEvent:     {},
	LabelFacility:  {},
	LabelWorkOfArt: {},
}

var metadataLabels = map[string]struct{}{
	LabelDate:     {},
	LabelMoney:    {},
	LabelPercent:  {},
	LabelCardinal: {},
	LabelOrdinal:  {},
}

// IsStructuralLabel reports whether label becomes a graph node.
func IsStructuralLabel(label string) bool {
	_, ok := structuralLabels[label]
	return ok
}

// IsMetadataLabel reports whether label is a temporal or numeric span.
func IsMetadataLabel(label string) bool {
	_, ok := metadataLabels[label]
	return ok
}

// EntityType is a normalized semantic type.
type EntityType string

const (
	EntityPerson       EntityType = "PERSON"
	EntityCompany      EntityType = "COMPANY"
	EntityProduct      EntityType = "PRODUCT"
	EntityOrganization EntityType = "ORGANIZATION"
	EntityLocation     EntityType = "LOCATION"
)

// RelationshipType is the closed set of edge labels the graph accepts.
type RelationshipType string

const (
	RelFounded          RelationshipType = "FOUNDED"
	RelCEOOf            RelationshipType = "CEO_OF"
	RelFormerCEOOf      RelationshipType = "FORMER_CEO_OF"
	RelEmployedBy       RelationshipType = "EMPLOYED_BY"
	RelProduces         RelationshipType = "PRODUCES"
	RelReleased         RelationshipType = "RELEASED"
	RelDevelops         RelationshipType = "DEVELOPS"
	RelOperates         RelationshipType = "OPERATES"
	RelLocatedIn        RelationshipType = "LOCATED_IN"
	RelHeadquarteredIn  RelationshipType = "HEADQUARTERED_IN"
	RelCollaboratesWith RelationshipType = "COLLABORATES_WITH"
	RelCompetesWith     RelationshipType = "COMPETES_WITH"
	RelAcquired         RelationshipType = "ACQUIRED"
)

// EventType classifies a detected event.
type EventType string

const (
	EventAcquisition      EventType = "ACQUISITION"
	EventProductLaunch    EventType = "PRODUCT_LAUNCH"
	EventLeadershipChange EventType = "LEADERSHIP_CHANGE"
	EventConference       EventType = "CONFERENCE"
	EventFundingRound     EventType = "FUNDING_ROUND"
	EventOther            EventType = "OTHER"
)
