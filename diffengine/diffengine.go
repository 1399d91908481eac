// Package diffengine computes a minimal changeset.Changeset between two
// ordered sequences using Paul Heckel's symbol-table diff algorithm,
// extended with move detection.
//
// The algorithm is five passes over a shared symbol table keyed by a
// caller-supplied identity function — see Diff for the pass-by-pass
// description. Complexity is O(n+m) expected time and space.
package diffengine

import "github.com/edirooss/zmux-server/changeset"

// entry is one symbol-table slot: bookkeeping for a single identity as it's
// seen across previous and current.
type entry struct {
	occurrencesOld int
	occurrencesNew int
	locationInOld  int // valid only once occurrencesOld > 0; set to the last-seen offset
}

// ref is a slot in the parallel reference arrays built during passes 1-2:
// either "table" (still unresolved, pointing at a symbol-table entry) or
// "remote" (anchored to a specific offset in the other sequence, set by
// pass 3).
type ref struct {
	anchored bool
	offset   int // meaningful only if anchored
	entry    *entry
}

// Diff compares previous and current using == for both identity and
// equality. See DiffFunc for the general case.
func Diff[T comparable](previous, current []T) changeset.Changeset {
	return DiffFunc(previous, current, func(v T) T { return v }, func(a, b T) bool { return a == b })
}

// DiffFunc computes a well-formed Changeset describing how previous becomes
// current, using identify to recognize "the same element" across the two
// sequences and equal to decide whether an identified element's value
// changed. equal may be strictly finer than identify (e.g. identity by a
// stable id, equality by full contents).
//
// Applying the result to previous via reproduce.Apply reproduces current
// under equal.
func DiffFunc[T any, K comparable](previous, current []T, identify func(T) K, equal func(a, b T) bool) changeset.Changeset {
	table := make(map[K]*entry, len(current))

	newRefs := make([]ref, len(current))
	oldRefs := make([]ref, len(previous))

	// Pass 1: scan current, counting occurrences and building newRefs.
	for i, v := range current {
		k := identify(v)
		e, ok := table[k]
		if !ok {
			e = &entry{}
			table[k] = e
		}
		e.occurrencesNew++
		newRefs[i] = ref{entry: e}
	}

	// Pass 2: scan previous, counting occurrences and building oldRefs.
	for j, v := range previous {
		k := identify(v)
		e, ok := table[k]
		if !ok {
			e = &entry{}
			table[k] = e
		}
		e.occurrencesOld++
		e.locationInOld = j
		oldRefs[j] = ref{entry: e}
	}

	// Pass 3: anchor unique matches (appears exactly once on each side).
	for i := range newRefs {
		e := newRefs[i].entry
		if e.occurrencesNew == 1 && e.occurrencesOld == 1 {
			j := e.locationInOld
			newRefs[i] = ref{anchored: true, offset: j}
			oldRefs[j] = ref{anchored: true, offset: i}
		}
	}

	var cs changeset.Changeset

	// Pass 4: classify everything still unanchored, plus mutations and
	// candidate moves among anchored pairs.
	type candidateMove struct {
		source, destination int
		mutated             bool
	}
	var candidates []candidateMove

	for j, r := range oldRefs {
		if !r.anchored {
			cs.Removals.Insert(j)
		}
	}
	for i, r := range newRefs {
		if !r.anchored {
			cs.Inserts.Insert(i)
			continue
		}
		j := r.offset
		if j == i {
			if !equal(previous[j], current[i]) {
				cs.Mutations.Insert(i)
			}
		} else {
			candidates = append(candidates, candidateMove{source: j, destination: i, mutated: !equal(previous[j], current[i])})
		}
	}

	// Pass 5: move elision. A candidate move is redundant if the offset
	// change is fully explained by the removals/inserts already recorded.
	for _, c := range candidates {
		rep := c.source - cs.Removals.CountIn(0, c.source) + cs.Inserts.CountIn(0, c.destination)
		if rep == c.destination {
			continue // elided: the surrounding edits already account for this shift
		}
		cs.Moves = append(cs.Moves, changeset.Move{
			Source:      c.source,
			Destination: c.destination,
			IsMutated:   c.mutated,
		})
	}

	return cs
}
