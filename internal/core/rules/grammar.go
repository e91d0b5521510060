// Package rules holds the semantic grammar: which entity types and relationship types exist and
// which (source, relationship, target) triples are allowed between them.
package rules

import (
	"github.com/agenthands/textgraph/internal/core/model"
)

// TypePair is an allowed (source, target) combination for a relationship.
type TypePair struct {
	Source model.EntityType
	Target model.EntityType
}

var allowedEntityTypes = []model.EntityType{
	model.EntityPerson,
	model.EntityCompany,
	model.EntityProduct,
	model.EntityOrganization,
	model.EntityLocation,
}

var allowedRelationshipTypes = []model.RelationshipType{
	model.RelFounded,
	model.RelCEOOf,
	model.RelFormerCEOOf,
	model.RelEmployedBy,
	model.RelProduces,
	model.RelReleased,
	model.RelDevelops,
	model.RelOperates,
	model.RelLocatedIn,
	model.RelHeadquarteredIn,
	model.RelCollaboratesWith,
	model.RelCompetesWith,
	model.RelAcquired,
}

var semanticRules = map[model.RelationshipType][]TypePair{
	model.RelFounded:     {{model.EntityPerson, model.EntityCompany}},
	model.RelCEOOf:       {{model.EntityPerson, model.EntityCompany}},
	model.RelFormerCEOOf: {{model.EntityPerson, model.EntityCompany}},
	model.RelEmployedBy: {
		{model.EntityPerson, model.EntityCompany},
		{model.EntityPerson, model.EntityOrganization},
	},
	model.RelProduces: {{model.EntityCompany, model.EntityProduct}},
	model.RelReleased: {{model.EntityCompany, model.EntityProduct}},
	model.RelDevelops: {{model.EntityCompany, model.EntityProduct}},
	model.RelOperates: {{model.EntityCompany, model.EntityOrganization}},
	model.RelLocatedIn: {
		{model.EntityCompany, model.EntityLocation},
		{model.EntityOrganization, model.EntityLocation},
	},
	model.RelHeadquarteredIn:  {{model.EntityCompany, model.EntityLocation}},
	model.RelCompetesWith:     {{model.EntityCompany, model.EntityCompany}},
	model.RelCollaboratesWith: {{model.EntityCompany, model.EntityCompany}},
	model.RelAcquired:         {{model.EntityCompany, model.EntityCompany}},
}

// labelToType maps raw NLP labels to semantic types. Labels absent here are not graph nodes.
var labelToType = map[string]model.EntityType{
	model.LabelPerson:  model.EntityPerson,
	model.LabelOrg:     model.EntityCompany,
	model.LabelGPE:     model.EntityLocation,
	model.LabelProduct: model.EntityProduct,
}

var (
	entityTypeSet       = make(map[model.EntityType]struct{}, len(allowedEntityTypes))
	relationshipTypeSet = make(map[model.RelationshipType]struct{}, len(allowedRelationshipTypes))
)

func init() {
	for _, t := range allowedEntityTypes {
		entityTypeSet[t] = struct{}{}
	}
	for _, t := range allowedRelationshipTypes {
		relationshipTypeSet[t] = struct{}{}
	}
}

// NormalizeLabel maps an NLP label to its semantic type.
func NormalizeLabel(label string) (model.EntityType, bool) {
	t, ok := labelToType[label]
	return t, ok
}

// IsAllowedEntityType reports whether t is in the entity whitelist.
func IsAllowedEntityType(t model.EntityType) bool {
	_, ok := entityTypeSet[t]
	return ok
}

// ParseRelationshipType returns the whitelisted relationship type named s.
func ParseRelationshipType(s string) (model.RelationshipType, bool) {
	t := model.RelationshipType(s)
	_, ok := relationshipTypeSet[t]
	return t, ok
}

// AllowedEntityTypes returns the entity whitelist in declaration order.
func AllowedEntityTypes() []model.EntityType {
	return append([]model.EntityType(nil), allowedEntityTypes...)
}

// AllowedRelationshipTypes returns the relationship whitelist in declaration order.
func AllowedRelationshipTypes() []model.RelationshipType {
	return append([]model.RelationshipType(nil), allowedRelationshipTypes...)
}

// AllowedPairs returns the (source, target) pairs listed for rel.
func AllowedPairs(rel model.RelationshipType) []TypePair {
	return append([]TypePair(nil), semanticRules[rel]...)
}

// ValidateTriple reports whether (source, rel, target) is in the grammar. Unknown values of any
// component yield false.
func ValidateTriple(source, rel, target string) bool {
	relType, ok := ParseRelationshipType(rel)
	if !ok {
		return false
	}
	src, dst := model.EntityType(source), model.EntityType(target)
	if !IsAllowedEntityType(src) || !IsAllowedEntityType(dst) {
		return false
	}
	for _, pair := range semanticRules[relType] {
		if pair.Source == src && pair.Target == dst {
			return true
		}
	}
	return false
}
