// Package seen tracks processed event ids so a redelivered message is not
// decomposed twice. Best effort: a store failure degrades open, the event is
// processed again and the graph tolerates redundant writes.
package seen

import "context"

// Store remembers processed event ids for a bounded window.
type Store interface {
	// MarkSeen records the event id. Returns true if the id was already
	// recorded.
	MarkSeen(ctx context.Context, eventID string) (bool, error)
}
