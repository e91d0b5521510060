package validate

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/agenthands/textgraph/internal/core/model"
	"github.com/agenthands/textgraph/internal/core/rules"
)

// Rejection reasons.
const (
	ReasonUnmappedLabel       = "unmapped_label"
	ReasonUnresolved          = "unresolved"
	ReasonUnmappedType        = "unmapped_type"
	ReasonUnknownRelationship = "unknown_relationship"
	ReasonInvalidTriple       = "invalid_triple"
)

const (
	KindEntity       = "entity"
	KindRelationship = "relationship"
)

// Validator filters candidates against the semantic grammar. It is the only gate between the
// extraction strategies and persistence.
type Validator struct {
	Logger *logrus.Logger
}

func NewValidator(logger *logrus.Logger) *Validator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Validator{Logger: logger}
}

// FilterEntities keeps entities whose label maps to a semantic type.
func (v *Validator) FilterEntities(entities []model.Entity) ([]model.Entity, model.ValidationReport) {
	var report model.ValidationReport
	kept := make([]model.Entity, 0, len(entities))

	for _, e := range entities {
		if _, ok := rules.NormalizeLabel(e.Type); ok {
			kept = append(kept, e)
			continue
		}
		report.Add(model.Rejection{
			Kind:    KindEntity,
			Subject: e.Text,
			Reason:  ReasonUnmappedLabel,
			Detail:  e.Type,
		})
		v.Logger.WithFields(logrus.Fields{"entity": e.Text, "label": e.Type}).Debug("rejected entity")
	}

	if n := report.Count(""); n > 0 {
		v.Logger.WithFields(logrus.Fields{"rejected": n, "kept": len(kept)}).Info("filtered entities")
	}
	return kept, report
}

// FilterRelationships keeps relationships whose endpoints resolve to entities and whose typed
// triple is allowed by the grammar.
func (v *Validator) FilterRelationships(rels []model.Relationship, entities []model.Entity) ([]model.Relationship, model.ValidationReport) {
	var report model.ValidationReport
	kept := make([]model.Relationship, 0, len(rels))

	byName := make(map[string]model.Entity, len(entities))
	for _, e := range entities {
		if _, seen := byName[e.Text]; !seen {
			byName[e.Text] = e
		}
	}

	for _, rel := range rels {
		reason, detail := v.check(rel, byName)
		if reason == "" {
			kept = append(kept, rel)
			continue
		}
		report.Add(model.Rejection{
			Kind:    KindRelationship,
			Subject: fmt.Sprintf("%s -[%s]-> %s", rel.Source, rel.Type, rel.Target),
			Reason:  reason,
			Detail:  detail,
		})
		v.Logger.WithFields(logrus.Fields{
			"source": rel.Source,
			"type":   rel.Type,
			"target": rel.Target,
			"reason": reason,
		}).Debug("rejected relationship")
	}

	if n := report.Count(""); n > 0 {
		v.Logger.WithFields(logrus.Fields{"rejected": n, "kept": len(kept)}).Info("filtered relationships")
	}
	return kept, report
}

func (v *Validator) check(rel model.Relationship, byName map[string]model.Entity) (string, string) {
	source, okSource := byName[rel.Source]
	target, okTarget := byName[rel.Target]
	if !okSource || !okTarget {
		return ReasonUnresolved, "source or target entity not found"
	}

	sourceType, okSource := rules.NormalizeLabel(source.Type)
	targetType, okTarget := rules.NormalizeLabel(target.Type)
	if !okSource || !okTarget {
		return ReasonUnmappedType, fmt.Sprintf("%s or %s", source.Type, target.Type)
	}

	if _, ok := rules.ParseRelationshipType(string(rel.Type)); !ok {
		return ReasonUnknownRelationship, string(rel.Type)
	}

	if !rules.ValidateTriple(string(sourceType), string(rel.Type), string(targetType)) {
		return ReasonInvalidTriple, fmt.Sprintf("(%s)-[%s]->(%s)", sourceType, rel.Type, targetType)
	}
	return "", ""
}
