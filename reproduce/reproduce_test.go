package reproduce_test

import (
	"testing"

	"github.com/edirooss/zmux-server/changeset"
	"github.com/edirooss/zmux-server/indexset"
	"github.com/edirooss/zmux-server/reproduce"
	"github.com/google/go-cmp/cmp"
)

func TestInsertAtBeginningMiddleEnd(t *testing.T) {
	cases := []struct {
		name     string
		previous []int
		current  []int
		cs       changeset.Changeset
	}{
		{"beginning", []int{1, 2, 3}, []int{0, 1, 2, 3}, changeset.Changeset{Inserts: indexset.New(0)}},
		{"middle", []int{1, 2, 3}, []int{1, 9, 2, 3}, changeset.Changeset{Inserts: indexset.New(1)}},
		{"end", []int{1, 2, 3}, []int{1, 2, 3, 9}, changeset.Changeset{Inserts: indexset.New(3)}},
		{"scattered", []int{1, 2, 3}, []int{9, 1, 8, 2, 3, 7}, changeset.Changeset{Inserts: indexset.New(0, 2, 5)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := reproduce.Apply(c.previous, c.current, c.cs)
			if diff := cmp.Diff(c.current, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRemoveAtBeginningMiddleEnd(t *testing.T) {
	cases := []struct {
		name     string
		previous []int
		current  []int
		cs       changeset.Changeset
	}{
		{"beginning", []int{0, 1, 2, 3}, []int{1, 2, 3}, changeset.Changeset{Removals: indexset.New(0)}},
		{"middle", []int{1, 9, 2, 3}, []int{1, 2, 3}, changeset.Changeset{Removals: indexset.New(1)}},
		{"end", []int{1, 2, 3, 9}, []int{1, 2, 3}, changeset.Changeset{Removals: indexset.New(3)}},
		{"contiguous", []int{1, 2, 3, 4, 5}, []int{1, 5}, changeset.Changeset{Removals: indexset.NewRange(1, 4)}},
		{"scattered", []int{0, 1, 2, 3, 4}, []int{1, 3}, changeset.Changeset{Removals: indexset.New(0, 2, 4)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := reproduce.Apply(c.previous, c.current, c.cs)
			if diff := cmp.Diff(c.current, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMutateAtBeginningMiddleEndContiguous(t *testing.T) {
	cases := []struct {
		name     string
		previous []int
		current  []int
		cs       changeset.Changeset
	}{
		{"beginning", []int{1, 2, 3}, []int{9, 2, 3}, changeset.Changeset{Mutations: indexset.New(0)}},
		{"middle", []int{1, 2, 3}, []int{1, 9, 3}, changeset.Changeset{Mutations: indexset.New(1)}},
		{"end", []int{1, 2, 3}, []int{1, 2, 9}, changeset.Changeset{Mutations: indexset.New(2)}},
		{"contiguous", []int{1, 2, 3, 4}, []int{1, 8, 9, 4}, changeset.Changeset{Mutations: indexset.NewRange(1, 3)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := reproduce.Apply(c.previous, c.current, c.cs)
			if diff := cmp.Diff(c.current, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMoveForwardBackwardOverlappingMutating(t *testing.T) {
	cases := []struct {
		name     string
		previous []int
		current  []int
		cs       changeset.Changeset
	}{
		{
			name:     "forward",
			previous: []int{0, 1, 2, 3, 4},
			current:  []int{1, 2, 3, 0, 4},
			cs:       changeset.Changeset{Moves: []changeset.Move{{Source: 0, Destination: 3}}},
		},
		{
			name:     "backward",
			previous: []int{0, 1, 2, 3, 4},
			current:  []int{3, 0, 1, 2, 4},
			cs:       changeset.Changeset{Moves: []changeset.Move{{Source: 3, Destination: 0}}},
		},
		{
			name:     "overlapping pair",
			previous: []int{0, 1},
			current:  []int{1, 0},
			cs: changeset.Changeset{Moves: []changeset.Move{
				{Source: 0, Destination: 1},
				{Source: 1, Destination: 0},
			}},
		},
		{
			name:     "mutating",
			previous: []int{0, 1, 2, 3, 4},
			current:  []int{1, 2, 3, 9, 4},
			cs:       changeset.Changeset{Moves: []changeset.Move{{Source: 0, Destination: 3, IsMutated: true}}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := reproduce.Apply(c.previous, c.current, c.cs)
			if diff := cmp.Diff(c.current, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMixedChangeset(t *testing.T) {
	// previous: [a b c d e f]  ->  current: [g b' d f h e]
	// removals: {a=0, c=2}; mutation: b->b' at 1; moves: d(3->2), e(4->5); insert: g(0), h(4)
	previous := []string{"a", "b", "c", "d", "e", "f"}
	current := []string{"g", "b'", "d", "f", "h", "e"}
	cs := changeset.Changeset{
		Inserts:   indexset.New(0, 4),
		Removals:  indexset.New(0, 2),
		Mutations: indexset.New(1),
		Moves: []changeset.Move{
			{Source: 3, Destination: 2},
			{Source: 4, Destination: 5},
		},
	}
	got := reproduce.Apply(previous, current, cs)
	if diff := cmp.Diff(current, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
