// Package reproduce implements the canonical changeset application: the
// reference procedure that turns previous into current by applying a
// changeset.Changeset, and in doing so codifies what a changeset "means".
// It is exercised both by diffengine's and reactivearray's own tests and
// by any consumer that wants to verify a changeset before trusting it.
package reproduce

import "github.com/edirooss/zmux-server/changeset"

// Apply applies cs to previous and returns the result, which must equal
// current under the caller's equality. current supplies the values for
// mutated, inserted, and moved-to offsets, exactly as a
// diffengine.Diff(previous, current) / reactivearray snapshot pairing
// would.
//
// The steps run in this order:
//  1. copy mutations (position-invariant, so safe to apply index-wise first)
//  2. remove cs.Removals ∪ move sources, in reverse range order
//  3. insert cs.Inserts ∪ move destinations, in forward range order
func Apply[T any](previous, current []T, cs changeset.Changeset) []T {
	values := append([]T(nil), previous...)

	for _, r := range cs.Mutations.Ranges() {
		copy(values[r.Lower:r.Upper], current[r.Lower:r.Upper])
	}

	removals := cs.Removals
	for _, m := range cs.Moves {
		removals.Insert(m.Source)
	}
	for _, r := range removals.ReversedRanges() {
		values = append(values[:r.Lower], values[r.Upper:]...)
	}

	inserts := cs.Inserts
	for _, m := range cs.Moves {
		inserts.Insert(m.Destination)
	}
	for _, r := range inserts.Ranges() {
		out := make([]T, 0, len(values)+r.Len())
		out = append(out, values[:r.Lower]...)
		out = append(out, current[r.Lower:r.Upper]...)
		out = append(out, values[r.Lower:]...)
		values = out
	}

	return values
}
