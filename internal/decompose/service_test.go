package decompose

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uigs/graph-engine/internal/credential"
	"github.com/uigs/graph-engine/internal/graph/models"
	"github.com/uigs/graph-engine/internal/graph/store"
)

const degreeVC = `{
	"@context": ["https://www.w3.org/2018/credentials/v1"],
	"type": ["VerifiableCredential", "UniversityDegreeCredential"],
	"issuer": {"id": "did:example:university", "name": "Example University"},
	"issuanceDate": "2024-01-15T10:00:00Z",
	"credentialSubject": {
		"id": "did:example:alice",
		"name": "Alice Smith",
		"degree": "Bachelor of Science",
		"graduationYear": "2023",
		"honors": "cum laude"
	}
}`

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemory()
	return New(mem, slog.New(slog.DiscardHandler)), mem
}

func TestDecompose(t *testing.T) {
	ctx := context.Background()

	t.Run("creates credential, claims and supports edges", func(t *testing.T) {
		svc, mem := newTestService(t)
		cred, err := credential.Parse([]byte(degreeVC))
		require.NoError(t, err)

		result, err := svc.Decompose(ctx, cred, "user-1", "evt-1")
		require.NoError(t, err)

		// Subject id is identity, not a claim: 5 keys, 4 claims.
		require.Len(t, result.ClaimNodes, 4)
		assert.Equal(t, result.EdgesCreated, len(result.ClaimNodes))

		assert.Equal(t, "name", result.ClaimNodes[0].Attribute)
		assert.Equal(t, "Alice Smith", result.ClaimNodes[0].Value)
		assert.Equal(t, "degree", result.ClaimNodes[1].Attribute)
		assert.Equal(t, "graduationYear", result.ClaimNodes[2].Attribute)
		assert.Equal(t, "honors", result.ClaimNodes[3].Attribute)

		assert.Equal(t, "did:example:university", result.CredentialNode.Issuer)
		assert.Equal(t, "Example University", result.CredentialNode.IssuerName)
		assert.Equal(t, "UniversityDegreeCredential", result.CredentialNode.CredentialType)
		require.NotNil(t, result.CredentialNode.IssuanceDate)
		assert.Equal(t, "evt-1", result.CredentialNode.EventID)

		assert.Equal(t, 1, mem.UserCount())
		assert.Equal(t, 4, mem.EdgeCountByType(models.EdgeSupports))
		assert.Equal(t, 1, mem.EdgeCountByType(models.EdgeBelongsTo))
	})

	t.Run("nested subject flattens to dot paths", func(t *testing.T) {
		svc, _ := newTestService(t)
		cred, err := credential.Parse([]byte(`{
			"type": ["VerifiableCredential", "UniversityDegreeCredential"],
			"issuer": "did:example:university",
			"credentialSubject": {
				"id": "s1",
				"name": "John Doe",
				"email": "j@x.com",
				"degree": {"type": "BS", "name": "CS"}
			}
		}`))
		require.NoError(t, err)

		result, err := svc.Decompose(ctx, cred, "user-nested", "evt-n")
		require.NoError(t, err)
		require.Len(t, result.ClaimNodes, 4)

		attributes := make([]string, len(result.ClaimNodes))
		for i, claim := range result.ClaimNodes {
			attributes[i] = claim.Attribute
		}
		assert.Equal(t, []string{"name", "email", "degree.type", "degree.name"}, attributes)
		assert.Equal(t, 4, result.EdgesCreated)
	})

	t.Run("repeated decomposition does not duplicate the user", func(t *testing.T) {
		svc, mem := newTestService(t)
		cred, err := credential.Parse([]byte(degreeVC))
		require.NoError(t, err)

		_, err = svc.Decompose(ctx, cred, "user-1", "evt-1")
		require.NoError(t, err)
		_, err = svc.Decompose(ctx, cred, "user-1", "evt-2")
		require.NoError(t, err)

		assert.Equal(t, 1, mem.UserCount())
		assert.Equal(t, 8, mem.EdgeCountByType(models.EdgeSupports), "claims are not deduplicated across events")
	})

	t.Run("offset-less and date-only issuance dates parse", func(t *testing.T) {
		svc, _ := newTestService(t)
		for raw, want := range map[string]string{
			"2024-01-15T10:00:00Z": "2024-01-15T10:00:00Z",
			"2024-01-15T10:00:00":  "2024-01-15T10:00:00Z",
			"2024-01-15":           "2024-01-15T00:00:00Z",
		} {
			cred, err := credential.Parse([]byte(`{
				"type": ["VerifiableCredential"],
				"issuer": "did:example:x",
				"issuanceDate": "` + raw + `",
				"credentialSubject": {"id": "did:example:d", "name": "Dana"}
			}`))
			require.NoError(t, err)

			result, err := svc.Decompose(ctx, cred, "user-dates", "evt-"+raw)
			require.NoError(t, err)
			require.NotNil(t, result.CredentialNode.IssuanceDate, raw)
			assert.Equal(t, want, result.CredentialNode.IssuanceDate.UTC().Format(time.RFC3339), raw)
		}
	})

	t.Run("bad issuance date degrades to nil", func(t *testing.T) {
		svc, _ := newTestService(t)
		cred, err := credential.Parse([]byte(`{
			"type": ["VerifiableCredential"],
			"issuer": "did:example:x",
			"issuanceDate": "January 15th 2024",
			"credentialSubject": {"id": "did:example:bob", "name": "Bob"}
		}`))
		require.NoError(t, err)

		result, err := svc.Decompose(ctx, cred, "user-2", "evt-3")
		require.NoError(t, err)
		assert.Nil(t, result.CredentialNode.IssuanceDate)
		assert.Len(t, result.ClaimNodes, 1)
	})

	t.Run("empty subject yields zero claims", func(t *testing.T) {
		svc, mem := newTestService(t)
		cred, err := credential.Parse([]byte(`{"type":["VerifiableCredential"],"issuer":"did:example:x"}`))
		require.NoError(t, err)

		result, err := svc.Decompose(ctx, cred, "user-3", "evt-4")
		require.NoError(t, err)
		assert.Empty(t, result.ClaimNodes)
		assert.Zero(t, result.EdgesCreated)
		assert.Equal(t, 1, mem.EdgeCountByType(models.EdgeBelongsTo))
	})

	t.Run("non-string scalars are stringified", func(t *testing.T) {
		svc, _ := newTestService(t)
		cred, err := credential.Parse([]byte(`{
			"type": ["VerifiableCredential"],
			"issuer": "did:example:x",
			"credentialSubject": {"id": "did:example:c", "age": 30, "active": true}
		}`))
		require.NoError(t, err)

		result, err := svc.Decompose(ctx, cred, "user-4", "evt-5")
		require.NoError(t, err)
		require.Len(t, result.ClaimNodes, 2)
		assert.Equal(t, "30", result.ClaimNodes[0].Value)
		assert.Equal(t, "true", result.ClaimNodes[1].Value)
	})
}
