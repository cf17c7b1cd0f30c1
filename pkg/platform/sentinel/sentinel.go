package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers
// return these (optionally wrapped) so callers can branch without knowing
// which backend produced them.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: node, edge or event does not exist in the store
// - ErrUnavailable: backing service temporarily unreachable
// - ErrMalformed: payload cannot be decoded; retrying will not help
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrMalformed   = errors.New("malformed")
)
