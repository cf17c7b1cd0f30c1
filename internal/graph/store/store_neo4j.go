package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/uigs/graph-engine/internal/graph/models"
	neo4jdb "github.com/uigs/graph-engine/internal/platform/neo4j"
	"github.com/uigs/graph-engine/pkg/platform/sentinel"
)

// Neo4jStore persists the identity graph in Neo4j. Each operation opens its
// own session; there is no store-level transaction spanning multiple calls.
type Neo4jStore struct {
	client *neo4jdb.Client
	logger *slog.Logger
}

// NewNeo4j constructs a Neo4j-backed graph store.
func NewNeo4j(client *neo4jdb.Client, logger *slog.Logger) *Neo4jStore {
	return &Neo4jStore{client: client, logger: logger}
}

// EnsureSchema creates lookup indexes. Best effort: restricted users may not
// be allowed to manage schema, which is logged and tolerated.
func (s *Neo4jStore) EnsureSchema(ctx context.Context) {
	indexes := []string{
		"CREATE INDEX claim_attribute_idx IF NOT EXISTS FOR (n:Claim) ON (n.attribute)",
		"CREATE INDEX claim_node_id_idx IF NOT EXISTS FOR (n:Claim) ON (n.node_id)",
		"CREATE INDEX credential_node_id_idx IF NOT EXISTS FOR (n:Credential) ON (n.node_id)",
		"CREATE INDEX fragment_node_id_idx IF NOT EXISTS FOR (n:Fragment) ON (n.node_id)",
		"CREATE INDEX user_node_id_idx IF NOT EXISTS FOR (n:User) ON (n.node_id)",
	}
	session := s.session(ctx)
	defer session.Close(ctx)
	for _, stmt := range indexes {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			s.logger.Warn("index creation skipped", "error", err)
		}
	}
}

func (s *Neo4jStore) UpsertUser(ctx context.Context, userID string) (string, error) {
	const query = `
		MERGE (u:User {node_id: $user_id})
		ON CREATE SET u.created_at = datetime()
		RETURN u.node_id AS node_id`

	id, err := s.writeString(ctx, query, map[string]any{"user_id": userID}, "node_id")
	if err != nil {
		return "", fmt.Errorf("upsert user: %w", err)
	}
	return id, nil
}

func (s *Neo4jStore) CreateCredentialNode(ctx context.Context, credential models.CredentialNode, userID string) (string, error) {
	const query = `
		MATCH (u:User {node_id: $user_id})
		CREATE (c:Credential {
			node_id: $node_id,
			issuer: $issuer,
			issuer_name: $issuer_name,
			credential_type: $credential_type,
			issuance_date: $issuance_date,
			event_id: $event_id,
			created_at: datetime($created_at)
		})
		CREATE (c)-[:BELONGS_TO]->(u)
		RETURN c.node_id AS node_id`

	var issuanceDate any
	if credential.IssuanceDate != nil {
		issuanceDate = credential.IssuanceDate.Format(time.RFC3339)
	}
	var issuerName any
	if credential.IssuerName != "" {
		issuerName = credential.IssuerName
	}
	id, err := s.writeString(ctx, query, map[string]any{
		"user_id":         userID,
		"node_id":         credential.NodeID,
		"issuer":          credential.Issuer,
		"issuer_name":     issuerName,
		"credential_type": credential.CredentialType,
		"issuance_date":   issuanceDate,
		"event_id":        credential.EventID,
		"created_at":      credential.CreatedAt.Format(time.RFC3339Nano),
	}, "node_id")
	if err != nil {
		return "", fmt.Errorf("create credential node: %w", err)
	}
	return id, nil
}

func (s *Neo4jStore) CreateClaimNode(ctx context.Context, claim models.ClaimNode) (string, error) {
	const query = `
		CREATE (c:Claim {
			node_id: $node_id,
			attribute: $attribute,
			value: $value,
			confidence: $confidence,
			created_at: datetime($created_at)
		})
		RETURN c.node_id AS node_id`

	id, err := s.writeString(ctx, query, map[string]any{
		"node_id":    claim.NodeID,
		"attribute":  claim.Attribute,
		"value":      claim.Value,
		"confidence": claim.Confidence,
		"created_at": claim.CreatedAt.Format(time.RFC3339Nano),
	}, "node_id")
	if err != nil {
		return "", fmt.Errorf("create claim node: %w", err)
	}
	return id, nil
}

func (s *Neo4jStore) CreateFragmentNode(ctx context.Context, fragment models.FragmentNode, userID string) (string, error) {
	const query = `
		MATCH (u:User {node_id: $user_id})
		CREATE (f:Fragment {
			node_id: $node_id,
			source: $source,
			source_id: $source_id,
			created_at: datetime($created_at)
		})
		CREATE (f)-[:BELONGS_TO]->(u)
		RETURN f.node_id AS node_id`

	id, err := s.writeString(ctx, query, map[string]any{
		"user_id":    userID,
		"node_id":    fragment.NodeID,
		"source":     fragment.Source,
		"source_id":  fragment.SourceID,
		"created_at": fragment.CreatedAt.Format(time.RFC3339Nano),
	}, "node_id")
	if err != nil {
		return "", fmt.Errorf("create fragment node: %w", err)
	}
	return id, nil
}

func (s *Neo4jStore) CreateSupportsEdge(ctx context.Context, credentialID, claimID string) (string, error) {
	const query = `
		MATCH (cr:Credential {node_id: $credential_id})
		MATCH (cl:Claim {node_id: $claim_id})
		CREATE (cr)-[r:SUPPORTS {
			edge_id: $edge_id,
			created_at: datetime()
		}]->(cl)
		RETURN r.edge_id AS edge_id`

	id, err := s.writeString(ctx, query, map[string]any{
		"credential_id": credentialID,
		"claim_id":      claimID,
		"edge_id":       uuid.NewString(),
	}, "edge_id")
	if err != nil {
		return "", fmt.Errorf("create supports edge: %w", err)
	}
	return id, nil
}

func (s *Neo4jStore) CreateContradictsEdge(ctx context.Context, claimAID, claimBID string, confidence float64) (string, error) {
	const query = `
		MATCH (a:Claim {node_id: $claim_a_id})
		MATCH (b:Claim {node_id: $claim_b_id})
		CREATE (a)-[r:CONTRADICTS {
			edge_id: $edge_id,
			confidence: $confidence,
			created_at: datetime()
		}]->(b)
		RETURN r.edge_id AS edge_id`

	id, err := s.writeString(ctx, query, map[string]any{
		"claim_a_id": claimAID,
		"claim_b_id": claimBID,
		"confidence": confidence,
		"edge_id":    uuid.NewString(),
	}, "edge_id")
	if err != nil {
		return "", fmt.Errorf("create contradicts edge: %w", err)
	}
	return id, nil
}

func (s *Neo4jStore) FindExistingClaims(ctx context.Context, userID, attribute string) ([]models.ExistingClaim, error) {
	const query = `
		MATCH (u:User {node_id: $user_id})
		MATCH (c:Claim {attribute: $attribute})<-[:SUPPORTS]-(cr:Credential)-[:BELONGS_TO]->(u)
		RETURN c.node_id AS node_id, c.attribute AS attribute, c.value AS value`

	session := s.readSession(ctx)
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{"user_id": userID, "attribute": attribute})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("find existing claims: %w", err)
	}

	var out []models.ExistingClaim
	for _, record := range records.([]*neo4j.Record) {
		row := record.AsMap()
		out = append(out, models.ExistingClaim{
			NodeID:    asString(row["node_id"]),
			Attribute: asString(row["attribute"]),
			Value:     asString(row["value"]),
		})
	}
	return out, nil
}

func (s *Neo4jStore) GetUserGraph(ctx context.Context, userID string) (models.UserGraph, error) {
	const nodesQuery = `
		MATCH (u:User {node_id: $user_id})
		OPTIONAL MATCH (n)-[:BELONGS_TO]->(u)
		OPTIONAL MATCH (n)-[:SUPPORTS]->(c:Claim)
		WITH [u] + collect(DISTINCT n) + collect(DISTINCT c) AS all_nodes
		UNWIND all_nodes AS node
		WITH DISTINCT node
		WHERE node IS NOT NULL
		RETURN node {.*} AS props, labels(node) AS labels`

	const edgesQuery = `
		MATCH (u:User {node_id: $user_id})
		OPTIONAL MATCH (n)-[:BELONGS_TO]->(u)
		OPTIONAL MATCH (n)-[:SUPPORTS]->(c:Claim)
		WITH [u] + collect(DISTINCT n) + collect(DISTINCT c) AS all_nodes
		UNWIND all_nodes AS a
		MATCH (a)-[r]-(b)
		WHERE a IS NOT NULL AND b IN all_nodes
		RETURN DISTINCT
			coalesce(r.edge_id, toString(id(r))) AS edge_id,
			type(r) AS edge_type,
			startNode(r).node_id AS source_id,
			endNode(r).node_id AS target_id,
			coalesce(r.confidence, 1.0) AS confidence`

	session := s.readSession(ctx)
	defer session.Close(ctx)

	var graph models.UserGraph
	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		nodeResult, err := tx.Run(ctx, nodesQuery, map[string]any{"user_id": userID})
		if err != nil {
			return nil, err
		}
		nodeRecords, err := nodeResult.Collect(ctx)
		if err != nil {
			return nil, err
		}
		for _, record := range nodeRecords {
			row := record.AsMap()
			props, _ := row["props"].(map[string]any)
			if props == nil || props["node_id"] == nil {
				continue
			}
			graph.Nodes = append(graph.Nodes, models.Node{
				NodeID:     asString(props["node_id"]),
				NodeType:   models.NodeType(firstLabel(row["labels"])),
				Properties: sanitizeProps(props),
			})
		}

		edgeResult, err := tx.Run(ctx, edgesQuery, map[string]any{"user_id": userID})
		if err != nil {
			return nil, err
		}
		edgeRecords, err := edgeResult.Collect(ctx)
		if err != nil {
			return nil, err
		}
		for _, record := range edgeRecords {
			row := record.AsMap()
			graph.Edges = append(graph.Edges, models.Edge{
				EdgeID:     asString(row["edge_id"]),
				EdgeType:   models.EdgeType(asString(row["edge_type"])),
				SourceID:   asString(row["source_id"]),
				TargetID:   asString(row["target_id"]),
				Confidence: asFloat(row["confidence"]),
			})
		}
		return nil, nil
	})
	if err != nil {
		return models.UserGraph{}, fmt.Errorf("get user graph: %w", err)
	}

	graph.NodeCount = len(graph.Nodes)
	graph.EdgeCount = len(graph.Edges)
	return graph, nil
}

func (s *Neo4jStore) GetNodeByID(ctx context.Context, nodeID string) (models.Node, error) {
	const query = `
		MATCH (n {node_id: $node_id})
		RETURN n {.*} AS props, labels(n) AS labels`

	session := s.readSession(ctx)
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{"node_id": nodeID})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return models.Node{}, fmt.Errorf("get node by id: %w", err)
	}

	rows := records.([]*neo4j.Record)
	if len(rows) == 0 {
		return models.Node{}, fmt.Errorf("node %s: %w", nodeID, sentinel.ErrNotFound)
	}
	row := rows[0].AsMap()
	props, _ := row["props"].(map[string]any)
	return models.Node{
		NodeID:     nodeID,
		NodeType:   models.NodeType(firstLabel(row["labels"])),
		Properties: sanitizeProps(props),
	}, nil
}

func (s *Neo4jStore) GetConflicts(ctx context.Context, userID string) ([]models.ConflictRecord, error) {
	// Directed match: edges are written new claim -> existing claim, and an
	// undirected match would report every same-subject conflict twice.
	const query = `
		MATCH (u:User {node_id: $user_id})
		MATCH (c1:Claim)-[r:CONTRADICTS]->(c2:Claim)
		WHERE (c1)<-[:SUPPORTS]-(:Credential)-[:BELONGS_TO]->(u)
		RETURN DISTINCT
			r.edge_id AS conflict_id,
			c1.attribute AS attribute,
			c1.node_id AS claim_a_id,
			c1.value AS claim_a_value,
			c2.node_id AS claim_b_id,
			c2.value AS claim_b_value`

	session := s.readSession(ctx)
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{"user_id": userID})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("get conflicts: %w", err)
	}

	var out []models.ConflictRecord
	for _, record := range records.([]*neo4j.Record) {
		row := record.AsMap()
		out = append(out, models.ConflictRecord{
			ConflictID:  asString(row["conflict_id"]),
			Attribute:   asString(row["attribute"]),
			ClaimAID:    asString(row["claim_a_id"]),
			ClaimAValue: asString(row["claim_a_value"]),
			ClaimBID:    asString(row["claim_b_id"]),
			ClaimBValue: asString(row["claim_b_value"]),
		})
	}
	return out, nil
}

func (s *Neo4jStore) Ping(ctx context.Context) error {
	if err := s.client.Health(ctx); err != nil {
		return fmt.Errorf("neo4j ping: %w", sentinel.ErrUnavailable)
	}
	return nil
}

func (s *Neo4jStore) session(ctx context.Context) neo4j.SessionWithContext {
	return s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
}

func (s *Neo4jStore) readSession(ctx context.Context) neo4j.SessionWithContext {
	return s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.client.Database,
	})
}

// writeString runs a single write statement expected to return exactly one
// string column.
func (s *Neo4jStore) writeString(ctx context.Context, query string, params map[string]any, column string) (string, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	value, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		v, _ := record.Get(column)
		return v, nil
	})
	if err != nil {
		return "", err
	}
	return asString(value), nil
}

func firstLabel(v any) string {
	labels, ok := v.([]any)
	if !ok || len(labels) == 0 {
		return "Unknown"
	}
	return asString(labels[0])
}

// sanitizeProps converts driver temporal types into RFC3339 strings so the
// read API serializes cleanly.
func sanitizeProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		switch t := v.(type) {
		case time.Time:
			out[k] = t.Format(time.RFC3339Nano)
		default:
			out[k] = v
		}
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	default:
		return 0
	}
}
