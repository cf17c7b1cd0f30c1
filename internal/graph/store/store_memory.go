package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uigs/graph-engine/internal/graph/models"
	"github.com/uigs/graph-engine/pkg/platform/sentinel"
)

// MemoryStore is an in-memory graph used by unit tests and local runs
// without a Neo4j instance. It mirrors the Neo4j store's observable
// behaviour, including idempotent user upsert and the subject-scoped
// existing-claims query.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]time.Time
	claims      map[string]models.ClaimNode
	credentials map[string]models.CredentialNode
	fragments   map[string]models.FragmentNode
	edges       []memEdge

	// credentialOwner maps credential node id -> user id (BELONGS_TO).
	credentialOwner map[string]string
	// claimSupport maps claim node id -> supporting credential node id.
	claimSupport map[string]string
}

type memEdge struct {
	edgeID     string
	edgeType   models.EdgeType
	sourceID   string
	targetID   string
	confidence float64
}

// NewMemory returns an empty in-memory graph store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		users:           make(map[string]time.Time),
		claims:          make(map[string]models.ClaimNode),
		credentials:     make(map[string]models.CredentialNode),
		fragments:       make(map[string]models.FragmentNode),
		credentialOwner: make(map[string]string),
		claimSupport:    make(map[string]string),
	}
}

func (s *MemoryStore) UpsertUser(_ context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[userID]; !exists {
		s.users[userID] = time.Now().UTC()
	}
	return userID, nil
}

func (s *MemoryStore) CreateCredentialNode(_ context.Context, credential models.CredentialNode, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[userID]; !exists {
		return "", fmt.Errorf("create credential node: user %s: %w", userID, sentinel.ErrNotFound)
	}
	s.credentials[credential.NodeID] = credential
	s.credentialOwner[credential.NodeID] = userID
	s.edges = append(s.edges, memEdge{
		edgeID:     uuid.NewString(),
		edgeType:   models.EdgeBelongsTo,
		sourceID:   credential.NodeID,
		targetID:   userID,
		confidence: 1.0,
	})
	return credential.NodeID, nil
}

func (s *MemoryStore) CreateClaimNode(_ context.Context, claim models.ClaimNode) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[claim.NodeID] = claim
	return claim.NodeID, nil
}

func (s *MemoryStore) CreateFragmentNode(_ context.Context, fragment models.FragmentNode, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[userID]; !exists {
		return "", fmt.Errorf("create fragment node: user %s: %w", userID, sentinel.ErrNotFound)
	}
	s.fragments[fragment.NodeID] = fragment
	s.edges = append(s.edges, memEdge{
		edgeID:     uuid.NewString(),
		edgeType:   models.EdgeBelongsTo,
		sourceID:   fragment.NodeID,
		targetID:   userID,
		confidence: 1.0,
	})
	return fragment.NodeID, nil
}

func (s *MemoryStore) CreateSupportsEdge(_ context.Context, credentialID, claimID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.credentials[credentialID]; !exists {
		return "", fmt.Errorf("create supports edge: credential %s: %w", credentialID, sentinel.ErrNotFound)
	}
	if _, exists := s.claims[claimID]; !exists {
		return "", fmt.Errorf("create supports edge: claim %s: %w", claimID, sentinel.ErrNotFound)
	}
	edgeID := uuid.NewString()
	s.edges = append(s.edges, memEdge{
		edgeID:     edgeID,
		edgeType:   models.EdgeSupports,
		sourceID:   credentialID,
		targetID:   claimID,
		confidence: 1.0,
	})
	s.claimSupport[claimID] = credentialID
	return edgeID, nil
}

func (s *MemoryStore) CreateContradictsEdge(_ context.Context, claimAID, claimBID string, confidence float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.claims[claimAID]; !exists {
		return "", fmt.Errorf("create contradicts edge: claim %s: %w", claimAID, sentinel.ErrNotFound)
	}
	if _, exists := s.claims[claimBID]; !exists {
		return "", fmt.Errorf("create contradicts edge: claim %s: %w", claimBID, sentinel.ErrNotFound)
	}
	edgeID := uuid.NewString()
	s.edges = append(s.edges, memEdge{
		edgeID:     edgeID,
		edgeType:   models.EdgeContradicts,
		sourceID:   claimAID,
		targetID:   claimBID,
		confidence: confidence,
	})
	return edgeID, nil
}

func (s *MemoryStore) FindExistingClaims(_ context.Context, userID, attribute string) ([]models.ExistingClaim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ExistingClaim
	for claimID, claim := range s.claims {
		if claim.Attribute != attribute {
			continue
		}
		credentialID, supported := s.claimSupport[claimID]
		if !supported || s.credentialOwner[credentialID] != userID {
			continue
		}
		out = append(out, models.ExistingClaim{
			NodeID:    claim.NodeID,
			Attribute: claim.Attribute,
			Value:     claim.Value,
		})
	}
	return out, nil
}

func (s *MemoryStore) GetUserGraph(_ context.Context, userID string) (models.UserGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var graph models.UserGraph
	createdAt, exists := s.users[userID]
	if !exists {
		return graph, nil
	}

	graph.Nodes = append(graph.Nodes, models.Node{
		NodeID:   userID,
		NodeType: models.NodeTypeUser,
		Properties: map[string]any{
			"node_id":    userID,
			"created_at": createdAt.Format(time.RFC3339Nano),
		},
	})

	owned := make(map[string]bool)
	for credentialID, owner := range s.credentialOwner {
		if owner != userID {
			continue
		}
		owned[credentialID] = true
		graph.Nodes = append(graph.Nodes, credentialToNode(s.credentials[credentialID]))
	}
	for _, fragment := range s.fragments {
		// Fragments share the BELONGS_TO edge list with credentials.
		for _, e := range s.edges {
			if e.edgeType == models.EdgeBelongsTo && e.sourceID == fragment.NodeID && e.targetID == userID {
				owned[fragment.NodeID] = true
				graph.Nodes = append(graph.Nodes, fragmentToNode(fragment))
			}
		}
	}
	for claimID, credentialID := range s.claimSupport {
		if owned[credentialID] {
			owned[claimID] = true
			graph.Nodes = append(graph.Nodes, claimToNode(s.claims[claimID]))
		}
	}

	for _, e := range s.edges {
		if owned[e.sourceID] || owned[e.targetID] || e.targetID == userID {
			graph.Edges = append(graph.Edges, models.Edge{
				EdgeID:     e.edgeID,
				EdgeType:   e.edgeType,
				SourceID:   e.sourceID,
				TargetID:   e.targetID,
				Confidence: e.confidence,
			})
		}
	}

	graph.NodeCount = len(graph.Nodes)
	graph.EdgeCount = len(graph.Edges)
	return graph, nil
}

func (s *MemoryStore) GetNodeByID(_ context.Context, nodeID string) (models.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if claim, ok := s.claims[nodeID]; ok {
		return claimToNode(claim), nil
	}
	if credential, ok := s.credentials[nodeID]; ok {
		return credentialToNode(credential), nil
	}
	if fragment, ok := s.fragments[nodeID]; ok {
		return fragmentToNode(fragment), nil
	}
	if createdAt, ok := s.users[nodeID]; ok {
		return models.Node{
			NodeID:   nodeID,
			NodeType: models.NodeTypeUser,
			Properties: map[string]any{
				"node_id":    nodeID,
				"created_at": createdAt.Format(time.RFC3339Nano),
			},
		}, nil
	}
	return models.Node{}, fmt.Errorf("node %s: %w", nodeID, sentinel.ErrNotFound)
}

func (s *MemoryStore) GetConflicts(_ context.Context, userID string) ([]models.ConflictRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ConflictRecord
	for _, e := range s.edges {
		if e.edgeType != models.EdgeContradicts {
			continue
		}
		credentialID, supported := s.claimSupport[e.sourceID]
		if !supported || s.credentialOwner[credentialID] != userID {
			continue
		}
		claimA := s.claims[e.sourceID]
		claimB := s.claims[e.targetID]
		out = append(out, models.ConflictRecord{
			ConflictID:  e.edgeID,
			Attribute:   claimA.Attribute,
			ClaimAID:    claimA.NodeID,
			ClaimAValue: claimA.Value,
			ClaimBID:    claimB.NodeID,
			ClaimBValue: claimB.Value,
		})
	}
	return out, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// UserCount reports how many User nodes exist; test helper for the upsert
// idempotence property.
func (s *MemoryStore) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// EdgeCountByType reports how many edges of one type exist; test helper.
func (s *MemoryStore) EdgeCountByType(edgeType models.EdgeType) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.edges {
		if e.edgeType == edgeType {
			n++
		}
	}
	return n
}

func claimToNode(claim models.ClaimNode) models.Node {
	return models.Node{
		NodeID:   claim.NodeID,
		NodeType: models.NodeTypeClaim,
		Properties: map[string]any{
			"node_id":    claim.NodeID,
			"attribute":  claim.Attribute,
			"value":      claim.Value,
			"confidence": claim.Confidence,
			"created_at": claim.CreatedAt.Format(time.RFC3339Nano),
		},
	}
}

func credentialToNode(credential models.CredentialNode) models.Node {
	props := map[string]any{
		"node_id":         credential.NodeID,
		"issuer":          credential.Issuer,
		"credential_type": credential.CredentialType,
		"event_id":        credential.EventID,
		"created_at":      credential.CreatedAt.Format(time.RFC3339Nano),
	}
	if credential.IssuerName != "" {
		props["issuer_name"] = credential.IssuerName
	}
	if credential.IssuanceDate != nil {
		props["issuance_date"] = credential.IssuanceDate.Format(time.RFC3339)
	}
	return models.Node{
		NodeID:     credential.NodeID,
		NodeType:   models.NodeTypeCredential,
		Properties: props,
	}
}

func fragmentToNode(fragment models.FragmentNode) models.Node {
	return models.Node{
		NodeID:   fragment.NodeID,
		NodeType: models.NodeTypeFragment,
		Properties: map[string]any{
			"node_id":    fragment.NodeID,
			"source":     fragment.Source,
			"source_id":  fragment.SourceID,
			"created_at": fragment.CreatedAt.Format(time.RFC3339Nano),
		},
	}
}
