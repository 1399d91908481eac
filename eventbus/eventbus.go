// Package eventbus defines an abstract stream of reactivearray.Snapshot
// values that any number of consumers can subscribe to, with delivery
// guarantees independent of the transport actually carrying them.
//
// The contract itself is transport-agnostic; memorybus and redisbus are
// two concrete carriers a publisher can pick between depending on whether
// subscribers live in the same process or not.
package eventbus

import (
	"context"

	"github.com/edirooss/zmux-server/reactivearray"
)

// Bus is something that can be subscribed to for a stream of Snapshots.
// Snapshots arrive in publish order, and the channel closes once ctx is
// done or the bus itself is closed — there is no error delivered on
// close, only channel termination. What a new subscriber receives before
// the next publish depends on the implementation: reactivearray.Array
// sends an initial snapshot (HasPrevious = false, Changeset = AllInserts
// over the current contents), memorybus replays the most recently
// published snapshot unchanged (nothing if there is none yet), and
// redisbus sends nothing.
type Bus[T any] interface {
	Subscribe(ctx context.Context) <-chan reactivearray.Snapshot[T]
}

// Publisher is the write side a transport needs: something that can push
// a Snapshot to every live subscriber. reactivearray.Array does not
// implement this directly (its Modify already does the staging and
// publishing in one step); Publisher is for transports that sit
// downstream of an Array and rebroadcast its snapshots over a different
// medium (see redisbus).
type Publisher[T any] interface {
	Publish(snap reactivearray.Snapshot[T])
	Close() error
}
