package credential

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDegreeVC = `{
	"@context": ["https://www.w3.org/2018/credentials/v1"],
	"type": ["VerifiableCredential", "UniversityDegreeCredential"],
	"id": "urn:uuid:degree-001",
	"issuer": {"id": "did:example:university", "name": "Example University"},
	"issuanceDate": "2024-01-15T10:00:00Z",
	"credentialSubject": {
		"id": "did:example:alice",
		"name": "Alice Smith",
		"degree": "Bachelor of Science",
		"graduationYear": "2023"
	},
	"proof": {"type": "Ed25519Signature2020", "proofValue": "z3abc"}
}`

func TestParse(t *testing.T) {
	t.Run("full credential", func(t *testing.T) {
		cred, err := Parse([]byte(sampleDegreeVC))
		require.NoError(t, err)

		assert.Equal(t, "urn:uuid:degree-001", cred.ID)
		assert.Equal(t, "did:example:university", cred.IssuerID())
		name, ok := cred.IssuerName()
		require.True(t, ok)
		assert.Equal(t, "Example University", name)
		assert.Equal(t, "2024-01-15T10:00:00Z", cred.IssuanceDate)

		require.NotNil(t, cred.Subject)
		assert.Equal(t, []string{"id", "name", "degree", "graduationYear"}, cred.Subject.Keys())

		require.NotNil(t, cred.Proof)
		assert.Equal(t, "Ed25519Signature2020", cred.Proof.Type)
	})

	t.Run("missing subject becomes empty document", func(t *testing.T) {
		cred, err := Parse([]byte(`{"type":["VerifiableCredential"],"issuer":"did:example:x"}`))
		require.NoError(t, err)
		require.NotNil(t, cred.Subject)
		assert.Equal(t, 0, cred.Subject.Len())
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := Parse([]byte(`{not json`))
		assert.Error(t, err)
	})
}

func TestIssuer(t *testing.T) {
	t.Run("bare string variant", func(t *testing.T) {
		var i Issuer
		require.NoError(t, json.Unmarshal([]byte(`"did:example:issuer"`), &i))
		assert.Equal(t, "did:example:issuer", i.ID)
		assert.Empty(t, i.Name)

		out, err := json.Marshal(i)
		require.NoError(t, err)
		assert.Equal(t, `"did:example:issuer"`, string(out))
	})

	t.Run("object variant", func(t *testing.T) {
		var i Issuer
		require.NoError(t, json.Unmarshal([]byte(`{"id":"did:example:issuer","name":"Issuer Inc"}`), &i))
		assert.Equal(t, "did:example:issuer", i.ID)
		assert.Equal(t, "Issuer Inc", i.Name)

		out, err := json.Marshal(i)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"did:example:issuer","name":"Issuer Inc"}`, string(out))
	})

	t.Run("invalid variant", func(t *testing.T) {
		var i Issuer
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &i))
	})
}

func TestMostSpecificType(t *testing.T) {
	t.Run("specific type wins", func(t *testing.T) {
		c := Credential{Types: []string{TypeVerifiableCredential, "UniversityDegreeCredential"}}
		assert.Equal(t, "UniversityDegreeCredential", c.MostSpecificType())
	})

	t.Run("generic only falls back to marker", func(t *testing.T) {
		c := Credential{Types: []string{TypeVerifiableCredential}}
		assert.Equal(t, TypeVerifiableCredential, c.MostSpecificType())
	})

	t.Run("order independent of marker position", func(t *testing.T) {
		c := Credential{Types: []string{"EmploymentCredential", TypeVerifiableCredential}}
		assert.Equal(t, "EmploymentCredential", c.MostSpecificType())
	})
}
