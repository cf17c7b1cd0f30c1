package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NodeType labels nodes in the identity graph.
type NodeType string

const (
	NodeTypeUser       NodeType = "User"
	NodeTypeFragment   NodeType = "Fragment"
	NodeTypeCredential NodeType = "Credential"
	NodeTypeClaim      NodeType = "Claim"
	NodeTypeContext    NodeType = "Context"
)

// ClaimNode is an atomic identity claim (e.g. name=John Doe). It is never
// mutated after creation; superseded claims are linked via CONTRADICTS edges.
type ClaimNode struct {
	NodeID     string
	Attribute  string
	Value      string
	Confidence float64
	CreatedAt  time.Time
}

// NewClaimNode builds a claim with a fresh id and full confidence. The value
// is stored stringified; nil becomes the empty string.
func NewClaimNode(attribute string, value any) ClaimNode {
	return ClaimNode{
		NodeID:     uuid.NewString(),
		Attribute:  attribute,
		Value:      Stringify(value),
		Confidence: 1.0,
		CreatedAt:  time.Now().UTC(),
	}
}

// Stringify renders a claim value the way it is persisted. Absent values map
// to the empty string so value comparison never trips on nil.
func Stringify(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

// CredentialNode represents one decomposed credential document.
type CredentialNode struct {
	NodeID         string
	Issuer         string
	IssuerName     string // optional display name; empty when the issuer was a bare id
	CredentialType string
	IssuanceDate   *time.Time
	EventID        string // originating ingestion event, for traceability
	CreatedAt      time.Time
}

// NewCredentialNode builds a credential node with a fresh id.
func NewCredentialNode(issuer, issuerName, credentialType string, issuanceDate *time.Time, eventID string) CredentialNode {
	return CredentialNode{
		NodeID:         uuid.NewString(),
		Issuer:         issuer,
		IssuerName:     issuerName,
		CredentialType: credentialType,
		IssuanceDate:   issuanceDate,
		EventID:        eventID,
		CreatedAt:      time.Now().UTC(),
	}
}

// FragmentNode is an identity signal from a specific source that has not been
// linked to a confirmed subject yet. Reserved for the fragment-linking work;
// the store supports it so linking does not need a schema change.
type FragmentNode struct {
	NodeID    string
	Source    string
	SourceID  string
	CreatedAt time.Time
}

// NewFragmentNode builds a fragment node with a fresh id.
func NewFragmentNode(source, sourceID string) FragmentNode {
	return FragmentNode{
		NodeID:    uuid.NewString(),
		Source:    source,
		SourceID:  sourceID,
		CreatedAt: time.Now().UTC(),
	}
}

// Node is the generic read-side view of any graph node.
type Node struct {
	NodeID     string         `json:"node_id"`
	NodeType   NodeType       `json:"node_type"`
	Properties map[string]any `json:"properties"`
}
