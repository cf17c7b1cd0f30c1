// Package decompose turns a parsed credential into graph nodes and edges:
// one Credential node, one Claim node per flattened subject attribute, and
// SUPPORTS edges linking them.
package decompose

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uigs/graph-engine/internal/credential"
	"github.com/uigs/graph-engine/internal/graph/models"
	"github.com/uigs/graph-engine/internal/graph/store"
)

// Result carries what one decomposition created.
type Result struct {
	CredentialNode models.CredentialNode
	ClaimNodes     []models.ClaimNode
	EdgesCreated   int
}

// Service decomposes credentials into the graph store it was constructed
// with. Safe for concurrent use across distinct subjects; callers wanting
// per-subject ordering must serialize themselves.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// New constructs a decomposer writing through the given graph store.
func New(graphStore store.Store, logger *slog.Logger) *Service {
	return &Service{store: graphStore, logger: logger}
}

// Decompose writes the subject, credential, claims and SUPPORTS edges for
// one credential. The steps are individual store calls, not one store-level
// transaction: a write error aborts the remainder and surfaces to the
// caller, already-written nodes stay behind for operational cleanup.
func (s *Service) Decompose(ctx context.Context, cred credential.Credential, userID, eventID string) (Result, error) {
	s.logger.Info("decomposing credential", "user_id", userID, "event_id", eventID)

	if _, err := s.store.UpsertUser(ctx, userID); err != nil {
		return Result{}, fmt.Errorf("decompose: %w", err)
	}

	// A bad issuance date degrades to "no issuance date", it never fails
	// the decomposition.
	var issuanceDate *time.Time
	if cred.IssuanceDate != "" {
		parsed, err := parseIssuanceDate(cred.IssuanceDate)
		if err != nil {
			s.logger.Warn("could not parse issuance date", "issuance_date", cred.IssuanceDate)
		} else {
			issuanceDate = &parsed
		}
	}

	issuerName, _ := cred.IssuerName()
	credentialNode := models.NewCredentialNode(
		cred.IssuerID(),
		issuerName,
		cred.MostSpecificType(),
		issuanceDate,
		eventID,
	)
	if _, err := s.store.CreateCredentialNode(ctx, credentialNode, userID); err != nil {
		return Result{}, fmt.Errorf("decompose: %w", err)
	}
	s.logger.Debug("created credential node", "node_id", credentialNode.NodeID)

	result := Result{CredentialNode: credentialNode}
	for _, pair := range credential.Extract(cred.Subject) {
		// The subject's own identifier names the subject; it is not a
		// claim about the subject.
		if pair.Path == credential.SubjectIDKey {
			continue
		}

		claimNode := models.NewClaimNode(pair.Path, pair.Value)
		if _, err := s.store.CreateClaimNode(ctx, claimNode); err != nil {
			return result, fmt.Errorf("decompose claim %s: %w", pair.Path, err)
		}
		if _, err := s.store.CreateSupportsEdge(ctx, credentialNode.NodeID, claimNode.NodeID); err != nil {
			return result, fmt.Errorf("decompose claim %s: %w", pair.Path, err)
		}

		result.ClaimNodes = append(result.ClaimNodes, claimNode)
		result.EdgesCreated++
		s.logger.Debug("created claim", "attribute", claimNode.Attribute, "value", claimNode.Value)
	}

	s.logger.Info("decomposition complete",
		"user_id", userID,
		"claims", len(result.ClaimNodes),
		"edges", result.EdgesCreated,
	)
	return result, nil
}

// issuanceDateLayouts are tried in order. Credentials in the wild carry
// offset-less timestamps and bare dates as well as full RFC3339.
var issuanceDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseIssuanceDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range issuanceDateLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
