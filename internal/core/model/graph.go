package model

// GraphBatch is everything one build hands to the persistence sink.
type GraphBatch struct {
	Entities      []Entity
	Relationships []Relationship
	Events        []Event
}

// Rejection records why a candidate was filtered out.
type Rejection struct {
	Kind    string `json:"kind"` // "entity" or "relationship"
	Subject string `json:"subject"`
	Reason  string `json:"reason"`
	Detail  string `json:"detail,omitempty"`
}

// ValidationReport collects rejections made while filtering one build.
type ValidationReport struct {
	Rejections []Rejection `json:"rejections"`
}

// Add appends r to the report.
func (r *ValidationReport) Add(rej Rejection) {
	r.Rejections = append(r.Rejections, rej)
}

// Merge appends every rejection of other.
func (r *ValidationReport) Merge(other ValidationReport) {
	r.Rejections = append(r.Rejections, other.Rejections...)
}

// Count returns the number of rejections of the given kind; an empty kind counts all.
func (r ValidationReport) Count(kind string) int {
	if kind == "" {
		return len(r.Rejections)
	}
	n := 0
	for _, rej := range r.Rejections {
		if rej.Kind == kind {
			n++
		}
	}
	return n
}

// ByReason histograms rejections by reason.
func (r ValidationReport) ByReason() map[string]int {
	out := make(map[string]int)
	for _, rej := range r.Rejections {
		out[rej.Reason]++
	}
	return out
}

// GraphBuildResponse is the result of one build.
type GraphBuildResponse struct {
	SessionID     string            `json:"session_id"`
	Entities      []Entity          `json:"entities"`
	Relationships []Relationship    `json:"relationships"`
	Events        []Event           `json:"events"`
	Message       string            `json:"message"`
	Report        *ValidationReport `json:"report,omitempty"`
}

// GraphStats are aggregate counts for one session.
type GraphStats struct {
	TotalEntities       int            `json:"total_entities"`
	TotalRelationships  int            `json:"total_relationships"`
	TotalEvents         int            `json:"total_events"`
	MostConnectedEntity *string        `json:"most_connected_entity"`
	EntityTypes         map[string]int `json:"entity_types"`
	AvgConfidence       *float64       `json:"avg_confidence"`
}

// VisNode and VisEdge are shaped for vis-network.
type VisNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group string `json:"group"`
	Color string `json:"color"`
	Title string `json:"title"`
}

type VisEdge struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Label   string  `json:"label"`
	Title   string  `json:"title"`
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
}

// Visualization is the node/edge view of one session.
type Visualization struct {
	Nodes []VisNode `json:"nodes"`
	Edges []VisEdge `json:"edges"`
}

// BuildSummary describes one finished or failed build for the build log.
type BuildSummary struct {
	BuildID               string
	SessionID             string
	DocumentID            string
	TextLength            int
	Entities              int
	Relationships         int
	Events                int
	RejectedEntities      int
	RejectedRelationships int
	DurationMillis        int64
	Err                   error
}
