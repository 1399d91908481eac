package reactivearray

import "github.com/edirooss/zmux-server/changeset"

// slot is one position in a StagingView's working buffer. origOffset is the
// offset this element held in the array before Modify began, or -1 if the
// element was inserted during the current batch. touched records that
// Replace overwrote this slot's value while keeping its origOffset (i.e.
// the slot survived as an in-place edit rather than being dropped and
// replaced by a fresh insert).
type slot[T any] struct {
	value      T
	origOffset int
	touched    bool
}

// StagingView is the exclusively-owned, mutable view a Modify callback
// edits. Every edit primitive except Reset (Insert, Append, Remove, Set,
// ...) is expressed in terms of Replace, the one fundamental operation the
// others compose from; Reset drops the whole buffer directly.
//
// Internally StagingView tracks, for every live slot, which original
// offset (if any) it descends from. At commit time this lets Array derive
// the net changeset in one pass instead of threading incremental
// insert/removal/mutation accumulators through every call — see
// DESIGN.md for the rationale: an incremental accumulator only tracks
// inserts correctly across multiple calls touching overlapping regions;
// mutations/removals need the same original-offset bookkeeping this type
// already performs, so deriving them from it directly is both simpler and
// unambiguous.
type StagingView[T any] struct {
	buf []slot[T]
}

func newStagingView[T any](previous []T) *StagingView[T] {
	buf := make([]slot[T], len(previous))
	for i, v := range previous {
		buf[i] = slot[T]{value: v, origOffset: i}
	}
	return &StagingView[T]{buf: buf}
}

// Len returns the number of elements currently staged.
func (v *StagingView[T]) Len() int { return len(v.buf) }

// Get returns the value currently staged at offset i.
func (v *StagingView[T]) Get(i int) T {
	v.checkBounds(i, false)
	return v.buf[i].value
}

func (v *StagingView[T]) checkBounds(i int, allowLen bool) {
	upper := len(v.buf)
	if allowLen {
		upper++
	}
	if i < 0 || i >= upper {
		panic("reactivearray: index out of range")
	}
}

func (v *StagingView[T]) checkRange(lower, upper int) {
	if lower < 0 || upper < lower || upper > len(v.buf) {
		panic("reactivearray: range out of bounds")
	}
}

// Replace substitutes buf[range] with items, in one atomic edit. It is the
// primitive every other method is expressed in terms of.
//
// The overlap between range and items (the first min(len(items),
// range.Len()) positions) keeps the original slot's identity with a new
// value (a prospective mutation); excess old slots (when items is
// shorter) are dropped; excess new slots (when items is longer) are
// fresh inserts.
func (v *StagingView[T]) Replace(lower, upper int, items []T) {
	v.checkRange(lower, upper)

	overlap := min(len(items), upper-lower)
	newSlots := make([]slot[T], len(items))
	for k, it := range items {
		if k < overlap {
			old := v.buf[lower+k]
			newSlots[k] = slot[T]{value: it, origOffset: old.origOffset, touched: true}
		} else {
			newSlots[k] = slot[T]{value: it, origOffset: -1}
		}
	}

	next := make([]slot[T], 0, len(v.buf)-(upper-lower)+len(items))
	next = append(next, v.buf[:lower]...)
	next = append(next, newSlots...)
	next = append(next, v.buf[upper:]...)
	v.buf = next
}

// Insert places item at offset i, shifting everything at or after i
// outward by one.
func (v *StagingView[T]) Insert(i int, item T) {
	v.checkBounds(i, true)
	v.Replace(i, i, []T{item})
}

// InsertRange places items starting at offset i.
func (v *StagingView[T]) InsertRange(i int, items []T) {
	v.checkBounds(i, true)
	v.Replace(i, i, items)
}

// Append places item at the end of the view.
func (v *StagingView[T]) Append(item T) {
	v.Replace(len(v.buf), len(v.buf), []T{item})
}

// AppendRange places items at the end of the view.
func (v *StagingView[T]) AppendRange(items []T) {
	v.Replace(len(v.buf), len(v.buf), items)
}

// Remove removes the element at offset i.
func (v *StagingView[T]) Remove(i int) {
	v.checkBounds(i, false)
	v.Replace(i, i+1, nil)
}

// RemoveRange removes every element in [lower, upper).
func (v *StagingView[T]) RemoveRange(lower, upper int) {
	v.checkRange(lower, upper)
	v.Replace(lower, upper, nil)
}

// RemoveFirst removes the first n elements.
func (v *StagingView[T]) RemoveFirst(n int) {
	v.RemoveRange(0, n)
}

// RemoveLast removes the last n elements.
func (v *StagingView[T]) RemoveLast(n int) {
	v.RemoveRange(len(v.buf)-n, len(v.buf))
}

// RemoveAll empties the view.
func (v *StagingView[T]) RemoveAll() {
	v.Replace(0, len(v.buf), nil)
}

// Reset replaces the view wholesale with an empty buffer, discarding any
// identity linkage to the previous contents. It differs from RemoveAll
// only in spirit (RemoveAll is "the caller emptied it via edits"; Reset is
// "the caller is discarding and starting over") — both commit as
// removals covering the entire previous buffer.
func (v *StagingView[T]) Reset() {
	v.buf = nil
}

// Set overwrites the value at offset i in place.
func (v *StagingView[T]) Set(i int, item T) {
	v.checkBounds(i, false)
	v.Replace(i, i+1, []T{item})
}

// commit derives the net changeset for this batch and returns it together
// with the final buffer: inserts are current-frame offsets of slots with
// no surviving original identity; mutations are previous-frame==
// current-frame offsets whose value was touched; removals are every
// original offset that didn't survive at all. An original
// element that survived but at a different offset
// is — since this component does not emit Moves — recorded as a removal
// at its old offset plus an insert at its new one only if its value was
// also touched; an untouched survivor that merely shifted needs no entry
// at all, since reproduce.Apply's implicit slice arithmetic already
// accounts for elements that aren't named in inserts/removals/mutations.
func (v *StagingView[T]) commit(previousLen int) (changeset.Changeset, []T) {
	var cs changeset.Changeset
	seen := make([]bool, previousLen)
	final := make([]T, len(v.buf))

	for i, s := range v.buf {
		final[i] = s.value
		if s.origOffset < 0 {
			cs.Inserts.Insert(i)
			continue
		}
		seen[s.origOffset] = true
		if !s.touched {
			continue // unchanged survivor: no entry needed regardless of offset shift
		}
		if s.origOffset == i {
			cs.Mutations.Insert(i)
		} else {
			cs.Removals.Insert(s.origOffset)
			cs.Inserts.Insert(i)
		}
	}

	for p, ok := range seen {
		if !ok {
			cs.Removals.Insert(p)
		}
	}

	return cs, final
}
