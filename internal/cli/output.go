package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/agenthands/textgraph/internal/core/model"
)

var (
	heading = color.New(color.Bold).SprintFunc()
	entity  = color.New(color.FgCyan).SprintFunc()
	relType = color.New(color.FgGreen).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
)

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeGraph(w io.Writer, entities []model.Entity, rels []model.Relationship, events []model.Event, report model.ValidationReport) {
	fmt.Fprintf(w, "%s (%d)\n", heading("Entities"), len(entities))
	for _, e := range entities {
		fmt.Fprintf(w, "  %s [%s]\n", entity(e.Text), e.Type)
	}

	fmt.Fprintf(w, "%s (%d)\n", heading("Relationships"), len(rels))
	for _, r := range rels {
		fmt.Fprintf(w, "  %s -%s-> %s (%.2f)\n", entity(r.Source), relType(r.Type), entity(r.Target), r.Confidence)
	}

	fmt.Fprintf(w, "%s (%d)\n", heading("Events"), len(events))
	for _, ev := range events {
		fmt.Fprintf(w, "  %s: %s (%.2f)\n", relType(ev.EventType), ev.Name, ev.Confidence)
	}

	if n := report.Count(""); n > 0 {
		reasons := report.ByReason()
		keys := make([]string, 0, len(reasons))
		for k := range reasons {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(w, "%s (%d)\n", warn("Rejected"), n)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %d\n", k, reasons[k])
		}
	}
}

func writeStats(w io.Writer, sessionID string, s *model.GraphStats) {
	fmt.Fprintf(w, "%s %s\n", heading("Session"), sessionID)
	fmt.Fprintf(w, "  entities:      %d\n", s.TotalEntities)
	fmt.Fprintf(w, "  relationships: %d\n", s.TotalRelationships)
	fmt.Fprintf(w, "  events:        %d\n", s.TotalEvents)
	if s.AvgConfidence != nil {
		fmt.Fprintf(w, "  avg confidence: %.2f\n", *s.AvgConfidence)
	}
	if s.MostConnectedEntity != nil {
		fmt.Fprintf(w, "  most connected: %s\n", entity(*s.MostConnectedEntity))
	}

	types := make([]string, 0, len(s.EntityTypes))
	for t := range s.EntityTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "  %-14s %d\n", t+":", s.EntityTypes[t])
	}
}
