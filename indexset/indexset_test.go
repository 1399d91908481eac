package indexset_test

import (
	"testing"

	"github.com/edirooss/zmux-server/indexset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertMerges(t *testing.T) {
	var s indexset.IndexSet
	s.Insert(1)
	s.Insert(2)
	s.Insert(3)
	s.Insert(7)
	require.Equal(t, []indexset.Range{{1, 4}, {7, 8}}, s.Ranges())
	assert.Equal(t, 4, s.Count())
}

func TestInsertRangeOverlap(t *testing.T) {
	var s indexset.IndexSet
	s.InsertRange(0, 3)
	s.InsertRange(5, 8)
	s.InsertRange(2, 6) // bridges the two existing ranges
	assert.Equal(t, []indexset.Range{{0, 8}}, s.Ranges())
}

func TestRemoveRangeSplits(t *testing.T) {
	s := indexset.NewRange(0, 10)
	s.RemoveRange(3, 6)
	assert.Equal(t, []indexset.Range{{0, 3}, {6, 10}}, s.Ranges())
	assert.Equal(t, 7, s.Count())
}

func TestContainsAndCountIn(t *testing.T) {
	s := indexset.New(1, 2, 4, 5, 9)
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(3))
	assert.Equal(t, 4, s.CountIn(0, 6))
	assert.Equal(t, 1, s.CountIn(6, 10))
}

func TestCountInSpansManyFullRangesPlusPartialEnds(t *testing.T) {
	// Ranges: {0,3} {5,8} {10,13} {15,18} {20,23}. A query spanning the
	// three middle ranges fully, with partial overlap on both ends,
	// exercises the cum-prefix-sum path rather than just the single- or
	// boundary-range cases above.
	var s indexset.IndexSet
	for _, r := range []indexset.Range{{0, 3}, {5, 8}, {10, 13}, {15, 18}, {20, 23}} {
		s.InsertRange(r.Lower, r.Upper)
	}
	assert.Equal(t, 11, s.CountIn(2, 21)) // {2} + {5,6,7} + {10,11,12} + {15,16,17} + {20} = 1+3+3+3+1
	assert.Equal(t, 0, s.CountIn(3, 5))  // entirely inside the gap between ranges
	assert.Equal(t, s.Count(), s.CountIn(0, 23))
}

func TestUnionIntersectSubtract(t *testing.T) {
	a := indexset.New(0, 1, 2, 5)
	b := indexset.New(1, 2, 3, 6)

	assert.Equal(t, indexset.New(0, 1, 2, 3, 5, 6), a.Union(b))
	assert.Equal(t, indexset.New(1, 2), a.Intersect(b))
	assert.Equal(t, indexset.New(0, 5), a.Subtract(b))
}

func TestEqual(t *testing.T) {
	assert.True(t, indexset.New(1, 2, 3).Equal(indexset.NewRange(1, 4)))
	assert.False(t, indexset.New(1, 2, 3).Equal(indexset.New(1, 2)))
}

func TestReversedRanges(t *testing.T) {
	s := indexset.New(1, 2, 5, 8, 9)
	assert.Equal(t, []indexset.Range{{8, 10}, {5, 6}, {1, 3}}, s.ReversedRanges())
}

func TestShiftedByInsertsAndIgnoringInserts(t *testing.T) {
	// original offsets {0, 1} with two inserts committed at {1, 3} in the final frame:
	// offset 0 stays 0 (no inserts before it), offset 1 shifts past the insert at 1 to 2.
	inserts := indexset.New(1, 3)
	removals := indexset.New(0, 1)
	shifted := removals.ShiftedByInserts(inserts)
	assert.Equal(t, indexset.New(0, 2), shifted)

	// round-trip: ignoring those same inserts gets back the original offsets.
	back := shifted.IgnoringInserts(inserts)
	assert.Equal(t, removals, back)
}

func TestToSlice(t *testing.T) {
	s := indexset.New(3, 1, 2)
	assert.Equal(t, []int{1, 2, 3}, s.ToSlice())
}
