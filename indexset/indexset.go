// Package indexset provides a sorted set of non-negative integer offsets,
// stored as a minimal list of disjoint half-open ranges.
//
// IndexSet backs the offset bookkeeping used by changeset and reactivearray:
// insertions, removals, and mutations are all expressed as sets of offsets,
// and the set algebra here (union, intersection, subtraction) is what lets
// the staging view in reactivearray reconcile net edits cheaply.
package indexset

import (
	"encoding/json"
	"sort"
)

// Range is a half-open interval [Lower, Upper) of offsets.
type Range struct {
	Lower, Upper int
}

// Len returns the number of offsets covered by r.
func (r Range) Len() int { return r.Upper - r.Lower }

// IndexSet is a sorted set of non-negative ints, represented as its
// ascending, disjoint range view. The zero value is an empty set.
type IndexSet struct {
	ranges []Range // invariant: sorted, disjoint, non-adjacent (no auto-merge gaps), non-empty entries
	cum    []int   // cum[i] = total members in ranges[:i]; len(cum) == len(ranges)+1, kept in lockstep with ranges
}

// rebuildCum recomputes cum from ranges. Called every time ranges is
// replaced, so CountIn can binary search prefix sums instead of walking
// every range between lower and upper.
func (s *IndexSet) rebuildCum() {
	s.cum = make([]int, len(s.ranges)+1)
	for i, r := range s.ranges {
		s.cum[i+1] = s.cum[i] + r.Len()
	}
}

// fromRanges builds an IndexSet from an already-normalized ranges slice,
// with cum computed to match.
func fromRanges(ranges []Range) IndexSet {
	s := IndexSet{ranges: ranges}
	s.rebuildCum()
	return s
}

// New builds an IndexSet containing the given offsets.
func New(offsets ...int) IndexSet {
	var s IndexSet
	for _, o := range offsets {
		s.Insert(o)
	}
	return s
}

// NewRange builds an IndexSet containing every offset in [lower, upper).
func NewRange(lower, upper int) IndexSet {
	var s IndexSet
	s.InsertRange(lower, upper)
	return s
}

// Count returns the total number of offsets in the set.
func (s IndexSet) Count() int {
	n := 0
	for _, r := range s.ranges {
		n += r.Len()
	}
	return n
}

// IsEmpty reports whether the set has no offsets.
func (s IndexSet) IsEmpty() bool { return len(s.ranges) == 0 }

// Ranges returns the ascending, disjoint ranges covering the set. The
// returned slice must not be mutated by the caller.
func (s IndexSet) Ranges() []Range { return s.ranges }

// ReversedRanges returns the same ranges as Ranges, in descending order.
// Used by the reproducer to remove ranges back-to-front so that earlier
// offsets are unaffected by later removals.
func (s IndexSet) ReversedRanges() []Range {
	out := make([]Range, len(s.ranges))
	for i, r := range s.ranges {
		out[len(s.ranges)-1-i] = r
	}
	return out
}

// Contains reports whether o is a member of the set.
func (s IndexSet) Contains(o int) bool {
	i := s.search(o)
	return i < len(s.ranges) && s.ranges[i].Lower <= o && o < s.ranges[i].Upper
}

// search returns the index of the first range whose Upper is > o, i.e. the
// only range that could contain o.
func (s IndexSet) search(o int) int {
	return sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].Upper > o })
}

// CountIn returns the number of set members within [lower, upper).
// O(log n) in the number of ranges: two binary searches locate the first
// and last range touching [lower, upper), and cum's prefix sums cover
// every fully-contained range in between in O(1), so the cost does not
// grow with how many ranges [lower, upper) happens to span.
func (s IndexSet) CountIn(lower, upper int) int {
	if lower >= upper {
		return 0
	}
	i := s.search(lower) // first range with Upper > lower
	if i >= len(s.ranges) || s.ranges[i].Lower >= upper {
		return 0
	}
	j := sort.Search(len(s.ranges), func(k int) bool { return s.ranges[k].Lower >= upper })

	total := s.cum[j] - s.cum[i]
	if over := lower - s.ranges[i].Lower; over > 0 {
		total -= over
	}
	if over := s.ranges[j-1].Upper - upper; over > 0 {
		total -= over
	}
	return total
}

// Insert adds a single offset to the set.
func (s *IndexSet) Insert(o int) {
	s.InsertRange(o, o+1)
}

// InsertRange adds every offset in [lower, upper) to the set.
func (s *IndexSet) InsertRange(lower, upper int) {
	if lower < 0 {
		panic("indexset: negative offset")
	}
	if lower >= upper {
		return
	}
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].Upper >= lower })
	j := i
	for j < len(s.ranges) && s.ranges[j].Lower <= upper {
		lower = min(lower, s.ranges[j].Lower)
		upper = max(upper, s.ranges[j].Upper)
		j++
	}
	merged := append([]Range{}, s.ranges[:i]...)
	merged = append(merged, Range{lower, upper})
	merged = append(merged, s.ranges[j:]...)
	s.ranges = merged
	s.rebuildCum()
}

// Remove removes a single offset, if present.
func (s *IndexSet) Remove(o int) {
	s.RemoveRange(o, o+1)
}

// RemoveRange removes every offset in [lower, upper) from the set.
func (s *IndexSet) RemoveRange(lower, upper int) {
	if lower >= upper || len(s.ranges) == 0 {
		return
	}
	var out []Range
	for _, r := range s.ranges {
		if r.Upper <= lower || r.Lower >= upper {
			out = append(out, r)
			continue
		}
		if r.Lower < lower {
			out = append(out, Range{r.Lower, lower})
		}
		if r.Upper > upper {
			out = append(out, Range{upper, r.Upper})
		}
	}
	s.ranges = out
	s.rebuildCum()
}

// Union returns a new set containing every offset in s or other.
func (s IndexSet) Union(other IndexSet) IndexSet {
	out := fromRanges(append([]Range{}, s.ranges...))
	for _, r := range other.ranges {
		out.InsertRange(r.Lower, r.Upper)
	}
	return out
}

// Intersect returns a new set containing every offset in both s and other.
func (s IndexSet) Intersect(other IndexSet) IndexSet {
	var out IndexSet
	i, j := 0, 0
	for i < len(s.ranges) && j < len(other.ranges) {
		a, b := s.ranges[i], other.ranges[j]
		lo, hi := max(a.Lower, b.Lower), min(a.Upper, b.Upper)
		if lo < hi {
			out.InsertRange(lo, hi)
		}
		if a.Upper < b.Upper {
			i++
		} else {
			j++
		}
	}
	return out
}

// Subtract returns a new set containing every offset in s that is not in other.
func (s IndexSet) Subtract(other IndexSet) IndexSet {
	out := fromRanges(append([]Range{}, s.ranges...))
	for _, r := range other.ranges {
		out.RemoveRange(r.Lower, r.Upper)
	}
	return out
}

// Equal reports whether s and other contain exactly the same offsets.
func (s IndexSet) Equal(other IndexSet) bool {
	if len(s.ranges) != len(other.ranges) {
		return false
	}
	for i := range s.ranges {
		if s.ranges[i] != other.ranges[i] {
			return false
		}
	}
	return true
}

// ShiftedByInserts returns a copy of s with every offset shifted outward by
// the committed inserts that land at or before it in the final frame, so it
// still addresses the same logical element once those inserts exist.
// inserts is expressed in the final frame, same as the result.
//
// Shifting is a fixed point: inserting earlier than o pushes o further out,
// which can in turn fall past more insert positions, so each offset is
// resolved by iterating until it stops moving.
func (s IndexSet) ShiftedByInserts(inserts IndexSet) IndexSet {
	var out IndexSet
	for _, r := range s.ranges {
		for o := r.Lower; o < r.Upper; o++ {
			shifted := o
			for {
				c := inserts.CountIn(0, shifted+1)
				if o+c == shifted {
					break
				}
				shifted = o + c
			}
			out.Insert(shifted)
		}
	}
	return out
}

// IgnoringInserts translates offsets expressed in the post-insert (final)
// frame back to the pre-insert frame, by subtracting the number of
// committed inserts at or before each offset. Offsets that are themselves
// committed inserts have no pre-insert counterpart and are dropped.
func (s IndexSet) IgnoringInserts(inserts IndexSet) IndexSet {
	var out IndexSet
	for _, r := range s.ranges {
		for o := r.Lower; o < r.Upper; o++ {
			if inserts.Contains(o) {
				continue
			}
			out.Insert(o - inserts.CountIn(0, o))
		}
	}
	return out
}

// MarshalJSON encodes the set as its ranges, since ranges is unexported
// and would otherwise marshal to nothing — needed for changeset.Changeset
// to survive redisbus's JSON-encoded Pub/Sub round-trip.
func (s IndexSet) MarshalJSON() ([]byte, error) {
	if s.ranges == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.ranges)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *IndexSet) UnmarshalJSON(data []byte) error {
	var ranges []Range
	if err := json.Unmarshal(data, &ranges); err != nil {
		return err
	}
	s.ranges = ranges
	s.rebuildCum()
	return nil
}

// ToSlice returns the set's members in ascending order.
func (s IndexSet) ToSlice() []int {
	out := make([]int, 0, s.Count())
	for _, r := range s.ranges {
		for o := r.Lower; o < r.Upper; o++ {
			out = append(out, o)
		}
	}
	return out
}
