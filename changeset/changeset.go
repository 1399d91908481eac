// Package changeset defines the offset-based edit script shared by
// diffengine and reactivearray: a Changeset describing how one ordered
// sequence becomes another, and the Move type used to record relocated
// elements.
package changeset

import "github.com/edirooss/zmux-server/indexset"

// Move records that an element identified across two sequence versions
// occupies different positions.
//
// Source is expressed in the previous frame (before any edit applies).
// Destination is expressed in the current frame (after all edits apply).
// IsMutated records that the element also changed value.
type Move struct {
	Source      int
	Destination int
	IsMutated   bool
}

// Changeset describes how previous becomes current: a set of inserted
// offsets (current frame), removed offsets (previous frame), mutated
// offsets (position-invariant, previous == current at that offset), and an
// ordered list of moves.
//
// Invariants: Inserts ∩ Mutations = ∅; Removals ∩ Mutations = ∅; no
// Move.Source appears in Removals; no Move.Destination appears in Inserts.
// A Changeset that satisfies these is "well-formed".
type Changeset struct {
	Inserts   indexset.IndexSet
	Removals  indexset.IndexSet
	Mutations indexset.IndexSet
	Moves     []Move
}

// Empty returns a Changeset with no edits.
func Empty() Changeset {
	return Changeset{}
}

// AllInserts returns the Changeset an array publishes as its initial
// snapshot: every offset in [0, n) is an insert, nothing else changed.
func AllInserts(n int) Changeset {
	return Changeset{Inserts: indexset.NewRange(0, n)}
}

// IsEmpty reports whether the changeset has no inserts, removals,
// mutations, or moves.
func (c Changeset) IsEmpty() bool {
	return c.Inserts.IsEmpty() && c.Removals.IsEmpty() && c.Mutations.IsEmpty() && len(c.Moves) == 0
}

// Equal reports whether c and other describe the same edit script: set
// equality on Inserts/Removals/Mutations, and element-wise (order
// sensitive) equality on Moves. Moves is an ordered list, but correct
// consumers don't care about that order — callers comparing changesets
// produced by different code paths should use EquivalentTo instead.
func (c Changeset) Equal(other Changeset) bool {
	if !c.Inserts.Equal(other.Inserts) ||
		!c.Removals.Equal(other.Removals) ||
		!c.Mutations.Equal(other.Mutations) {
		return false
	}
	if len(c.Moves) != len(other.Moves) {
		return false
	}
	for i := range c.Moves {
		if c.Moves[i] != other.Moves[i] {
			return false
		}
	}
	return true
}

// EquivalentTo reports whether c and other describe the same edit script
// up to move-list order, since multiple well-formed changesets can encode
// the same transformation with their moves in different order.
func (c Changeset) EquivalentTo(other Changeset) bool {
	if !c.Inserts.Equal(other.Inserts) ||
		!c.Removals.Equal(other.Removals) ||
		!c.Mutations.Equal(other.Mutations) {
		return false
	}
	if len(c.Moves) != len(other.Moves) {
		return false
	}
	seen := make([]bool, len(other.Moves))
	for _, m := range c.Moves {
		matched := false
		for i, om := range other.Moves {
			if !seen[i] && m == om {
				seen[i] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
