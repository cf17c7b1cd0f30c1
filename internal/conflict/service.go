// Package conflict detects disagreeing claims about the same subject.
//
// A conflict is two claims with the same attribute but different stringified
// values, both supported by credentials belonging to one user. Detection
// writes a CONTRADICTS edge per disagreement; it does not deduplicate across
// runs, so consumers must treat CONTRADICTS edges as a log, not a set.
package conflict

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uigs/graph-engine/internal/graph/models"
	"github.com/uigs/graph-engine/internal/graph/store"
)

// Conflict records one detected disagreement.
type Conflict struct {
	ConflictID string
	Attribute  string
	ClaimA     models.ClaimNode
	ClaimB     models.ClaimNode
	DetectedAt time.Time
}

// Detector finds conflicts between new claims and the existing graph.
type Detector struct {
	store  store.Store
	logger *slog.Logger
}

// NewDetector constructs a detector reading and writing the given store.
func NewDetector(graphStore store.Store, logger *slog.Logger) *Detector {
	return &Detector{store: graphStore, logger: logger}
}

// Detect compares each new claim, in order, against existing claims with the
// same attribute under the same user. The existing-claims query can return
// the new claim itself (it was just written by the same pass), so identity
// matches are skipped by node id.
func (d *Detector) Detect(ctx context.Context, userID string, newClaims []models.ClaimNode) ([]Conflict, error) {
	var conflicts []Conflict

	for _, newClaim := range newClaims {
		existing, err := d.store.FindExistingClaims(ctx, userID, newClaim.Attribute)
		if err != nil {
			return conflicts, fmt.Errorf("detect conflicts: %w", err)
		}

		for _, existingClaim := range existing {
			if existingClaim.NodeID == newClaim.NodeID {
				continue
			}
			if existingClaim.Value == newClaim.Value {
				continue
			}

			edgeID, err := d.store.CreateContradictsEdge(ctx, newClaim.NodeID, existingClaim.NodeID, 1.0)
			if err != nil {
				return conflicts, fmt.Errorf("detect conflicts: %w", err)
			}

			conflicts = append(conflicts, Conflict{
				ConflictID: edgeID,
				Attribute:  newClaim.Attribute,
				ClaimA:     newClaim,
				ClaimB: models.ClaimNode{
					NodeID:    existingClaim.NodeID,
					Attribute: existingClaim.Attribute,
					Value:     existingClaim.Value,
				},
				DetectedAt: time.Now().UTC(),
			})

			d.logger.Warn("conflict detected",
				"attribute", newClaim.Attribute,
				"new_value", newClaim.Value,
				"existing_value", existingClaim.Value,
			)
		}
	}

	if len(conflicts) > 0 {
		d.logger.Info("conflicts detected", "user_id", userID, "count", len(conflicts))
	}
	return conflicts, nil
}

// ListForUser returns every recorded conflict involving the user's claims.
func (d *Detector) ListForUser(ctx context.Context, userID string) ([]models.ConflictRecord, error) {
	return d.store.GetConflicts(ctx, userID)
}

// Resolve records the intent to prefer one claim of a conflict. Preference
// persistence is not implemented yet: the call logs the intent and reports
// success without touching the graph.
func (d *Detector) Resolve(ctx context.Context, conflictID, preferredClaimID string) (bool, error) {
	_ = ctx
	d.logger.Info("resolving conflict", "conflict_id", conflictID, "preferred_claim_id", preferredClaimID)
	return true, nil
}
