// Package store persists the identity graph. The Store interface is the one
// seam between the decomposition core and whichever graph database backs it;
// the decomposer and conflict detector receive it as a constructor argument
// and never touch a process-wide handle.
package store

//go:generate mockgen -source=store.go -destination=mocks/store_mock.go -package=mocks

import (
	"context"

	"github.com/uigs/graph-engine/internal/graph/models"
)

// Store is the minimal graph-store surface the pipeline consumes.
type Store interface {
	// UpsertUser creates the User node for userID if it does not exist.
	// Repeat calls must not duplicate the node or touch its creation
	// timestamp. Returns the user id.
	UpsertUser(ctx context.Context, userID string) (string, error)

	// CreateCredentialNode writes a Credential node linked to its owning
	// User via BELONGS_TO. Returns the new node id.
	CreateCredentialNode(ctx context.Context, credential models.CredentialNode, userID string) (string, error)

	// CreateClaimNode writes a Claim node. Returns the new node id.
	CreateClaimNode(ctx context.Context, claim models.ClaimNode) (string, error)

	// CreateFragmentNode writes a Fragment node linked to its owning User.
	CreateFragmentNode(ctx context.Context, fragment models.FragmentNode, userID string) (string, error)

	// CreateSupportsEdge links a Credential to a Claim it asserts.
	// Returns the new edge id.
	CreateSupportsEdge(ctx context.Context, credentialID, claimID string) (string, error)

	// CreateContradictsEdge links two disagreeing Claims. Returns the new
	// edge id.
	CreateContradictsEdge(ctx context.Context, claimAID, claimBID string, confidence float64) (string, error)

	// FindExistingClaims returns claims with the given attribute that are
	// supported by credentials belonging to userID.
	FindExistingClaims(ctx context.Context, userID, attribute string) ([]models.ExistingClaim, error)

	// GetUserGraph returns every node and edge reachable from the user.
	GetUserGraph(ctx context.Context, userID string) (models.UserGraph, error)

	// GetNodeByID returns a single node, or sentinel.ErrNotFound.
	GetNodeByID(ctx context.Context, nodeID string) (models.Node, error)

	// GetConflicts lists CONTRADICTS edges between claims of the user.
	GetConflicts(ctx context.Context, userID string) ([]models.ConflictRecord, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
