// Package credential models W3C-style verifiable credentials and flattens
// their subject documents into atomic claims.
package credential

import (
	"encoding/json"
	"fmt"
)

// TypeVerifiableCredential is the generic type marker every credential
// carries; more specific types are listed alongside it.
const TypeVerifiableCredential = "VerifiableCredential"

// SubjectIDKey is the subject's own identifier field inside the credential
// subject. It names the subject, it is not a claim about the subject.
const SubjectIDKey = "id"

// Issuer is either a bare identifier string or an object carrying an id and
// an optional display name. The JSON wire form decides which variant applies.
type Issuer struct {
	ID   string
	Name string // empty for the bare-string variant
}

// UnmarshalJSON accepts `"did:x"` and `{"id": "did:x", "name": "..."}`.
func (i *Issuer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		i.ID = s
		i.Name = ""
		return nil
	}
	var obj struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("issuer: %w", err)
	}
	i.ID = obj.ID
	i.Name = obj.Name
	return nil
}

// MarshalJSON mirrors UnmarshalJSON: bare id without a name round-trips to a
// plain string.
func (i Issuer) MarshalJSON() ([]byte, error) {
	if i.Name == "" {
		return json.Marshal(i.ID)
	}
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name,omitempty"`
	}{ID: i.ID, Name: i.Name})
}

// Proof is the cryptographic proof section. The engine carries it untouched;
// verification belongs to the ingestion service upstream.
type Proof struct {
	Type               string `json:"type"`
	Created            string `json:"created,omitempty"`
	VerificationMethod string `json:"verificationMethod,omitempty"`
	ProofPurpose       string `json:"proofPurpose,omitempty"`
	ProofValue         string `json:"proofValue,omitempty"`
}

// Credential is a parsed verifiable credential. Immutable once parsed.
type Credential struct {
	Context        []string  `json:"@context"`
	Types          []string  `json:"type"`
	ID             string    `json:"id,omitempty"`
	Issuer         Issuer    `json:"issuer"`
	IssuanceDate   string    `json:"issuanceDate,omitempty"`
	ExpirationDate string    `json:"expirationDate,omitempty"`
	Subject        *Document `json:"credentialSubject"`
	Proof          *Proof    `json:"proof,omitempty"`
}

// Parse decodes a credential document, preserving subject key order.
func Parse(data []byte) (Credential, error) {
	var c Credential
	if err := json.Unmarshal(data, &c); err != nil {
		return Credential{}, fmt.Errorf("parse credential: %w", err)
	}
	if c.Subject == nil {
		c.Subject = NewDocument()
	}
	return c, nil
}

// IssuerID returns the issuer identifier.
func (c Credential) IssuerID() string {
	return c.Issuer.ID
}

// IssuerName returns the issuer display name when the issuer was an object
// carrying one.
func (c Credential) IssuerName() (string, bool) {
	return c.Issuer.Name, c.Issuer.Name != ""
}

// MostSpecificType returns the first type that is not the generic marker, or
// the marker itself when no specific type exists.
func (c Credential) MostSpecificType() string {
	for _, t := range c.Types {
		if t != TypeVerifiableCredential {
			return t
		}
	}
	return TypeVerifiableCredential
}
