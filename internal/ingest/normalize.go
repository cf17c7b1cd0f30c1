package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/uigs/graph-engine/internal/credential"
	"github.com/uigs/graph-engine/internal/ingest/models"
	"github.com/uigs/graph-engine/pkg/platform/sentinel"
)

// unknownIssuer marks OIDC events whose payload carried no issuer.
const unknownIssuer = "unknown"

// oidcPayload is the subset of OIDC token claims the graph cares about.
type oidcPayload struct {
	Issuer     string `json:"iss"`
	Subject    string `json:"sub"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
	Timestamp  string `json:"timestamp"`

	// IDToken carries a raw JWT when the ingestion service forwarded the
	// token instead of pre-extracted claims.
	IDToken string `json:"id_token"`
}

// NormalizeOIDC remaps an OIDC-shaped event payload into the credential
// shape the decomposer consumes. Pure: same payload in, same credential out.
//
// When the payload carries an id_token, its claims are recovered without
// signature verification; the upstream ingestion service owns verification
// and this engine only ever sees tokens it forwarded.
func NormalizeOIDC(event models.Event) (credential.Credential, error) {
	var payload oidcPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return credential.Credential{}, fmt.Errorf("normalize oidc: %v: %w", err, sentinel.ErrMalformed)
	}

	if payload.IDToken != "" {
		fromToken, err := claimsFromIDToken(payload.IDToken)
		if err != nil {
			return credential.Credential{}, err
		}
		mergeOIDC(&payload, fromToken)
	}

	issuer := payload.Issuer
	if issuer == "" {
		issuer = unknownIssuer
	}

	issuanceDate := payload.Timestamp
	if issuanceDate == "" && !event.Timestamp.IsZero() {
		issuanceDate = event.Timestamp.UTC().Format(time.RFC3339)
	}

	subject := credential.NewDocument()
	setIfPresent := func(key, value string) {
		if value != "" {
			subject.Set(key, value)
		}
	}
	setIfPresent(credential.SubjectIDKey, payload.Subject)
	setIfPresent("email", payload.Email)
	setIfPresent("name", payload.Name)
	setIfPresent("given_name", payload.GivenName)
	setIfPresent("family_name", payload.FamilyName)
	setIfPresent("picture", payload.Picture)

	return credential.Credential{
		Context:      []string{"https://www.w3.org/2018/credentials/v1"},
		Types:        []string{credential.TypeVerifiableCredential, "OIDCCredential"},
		Issuer:       credential.Issuer{ID: issuer},
		IssuanceDate: issuanceDate,
		Subject:      subject,
	}, nil
}

func claimsFromIDToken(raw string) (oidcPayload, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return oidcPayload{}, fmt.Errorf("normalize oidc: parse id_token: %v: %w", err, sentinel.ErrMalformed)
	}
	str := func(key string) string {
		v, _ := claims[key].(string)
		return v
	}
	return oidcPayload{
		Issuer:     str("iss"),
		Subject:    str("sub"),
		Email:      str("email"),
		Name:       str("name"),
		GivenName:  str("given_name"),
		FamilyName: str("family_name"),
		Picture:    str("picture"),
	}, nil
}

// mergeOIDC fills empty fields of dst from src. Explicit payload fields win
// over id_token claims.
func mergeOIDC(dst *oidcPayload, src oidcPayload) {
	if dst.Issuer == "" {
		dst.Issuer = src.Issuer
	}
	if dst.Subject == "" {
		dst.Subject = src.Subject
	}
	if dst.Email == "" {
		dst.Email = src.Email
	}
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.GivenName == "" {
		dst.GivenName = src.GivenName
	}
	if dst.FamilyName == "" {
		dst.FamilyName = src.FamilyName
	}
	if dst.Picture == "" {
		dst.Picture = src.Picture
	}
}
