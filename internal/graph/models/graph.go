package models

// ExistingClaim is the projection the conflict detector compares against:
// claims with a given attribute reachable from a subject via
// SUPPORTS <- Credential -> BELONGS_TO.
type ExistingClaim struct {
	NodeID    string
	Attribute string
	Value     string
}

// ConflictRecord is the read-API shape for one CONTRADICTS edge.
type ConflictRecord struct {
	ConflictID  string `json:"conflict_id"`
	Attribute   string `json:"attribute"`
	ClaimAID    string `json:"claim_a_id"`
	ClaimAValue string `json:"claim_a_value"`
	ClaimBID    string `json:"claim_b_id"`
	ClaimBValue string `json:"claim_b_value"`
}

// UserGraph is the whole-graph view for one subject.
type UserGraph struct {
	Nodes     []Node `json:"nodes"`
	Edges     []Edge `json:"edges"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}
