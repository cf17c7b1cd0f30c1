package models

// EdgeType labels relationships in the identity graph.
type EdgeType string

const (
	// EdgeSupports links a Credential to each Claim it asserts.
	EdgeSupports EdgeType = "SUPPORTS"
	// EdgeContradicts links two Claims with the same attribute but
	// differing values under the same subject.
	EdgeContradicts EdgeType = "CONTRADICTS"
	// EdgeBelongsTo links a Credential or Fragment to its owning User.
	EdgeBelongsTo EdgeType = "BELONGS_TO"

	// Reserved for the fragment-linking work.
	EdgeDerivedFrom       EdgeType = "DERIVED_FROM"
	EdgeLikelySame        EdgeType = "LIKELY_SAME"
	EdgeConfirmedSame     EdgeType = "CONFIRMED_SAME"
	EdgeTemporalSuccessor EdgeType = "TEMPORAL_SUCCESSOR"
)

// Edge is the generic read-side view of any graph relationship.
type Edge struct {
	EdgeID     string   `json:"edge_id"`
	EdgeType   EdgeType `json:"edge_type"`
	SourceID   string   `json:"source_id"`
	TargetID   string   `json:"target_id"`
	Confidence float64  `json:"confidence"`
}
