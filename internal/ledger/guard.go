package ledger

import (
	"context"
	"sync"

	dErrors "coinscious/pkg/domain-errors"
)

type inFlightKey struct{}

// guard gives every top-level ledger operation two properties: operations
// are serialized (one call fully completes before the next begins), and a
// re-entrant call made from inside an operation (a callback attempting a
// second mutation on the operation's own context) is rejected instead of
// deadlocking on the serialization lock.
type guard struct {
	mu sync.Mutex
}

// enter rejects re-entry, then takes the serialization lock. The returned
// context marks the call as in flight so anything invoked downstream that
// tries to start another operation is detected.
func (g *guard) enter(ctx context.Context) (context.Context, func(), error) {
	if ctx.Value(inFlightKey{}) != nil {
		return nil, nil, dErrors.New(dErrors.CodeConflict, "reentrant ledger call rejected")
	}
	g.mu.Lock()
	return context.WithValue(ctx, inFlightKey{}, struct{}{}), g.mu.Unlock, nil
}
