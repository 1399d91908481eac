package changeset_test

import (
	"testing"

	"github.com/edirooss/zmux-server/changeset"
	"github.com/edirooss/zmux-server/indexset"
	"github.com/stretchr/testify/assert"
)

func TestEmptyIsEmpty(t *testing.T) {
	assert.True(t, changeset.Empty().IsEmpty())
}

func TestAllInserts(t *testing.T) {
	cs := changeset.AllInserts(3)
	assert.Equal(t, indexset.NewRange(0, 3), cs.Inserts)
	assert.True(t, cs.Removals.IsEmpty())
	assert.True(t, cs.Mutations.IsEmpty())
	assert.Empty(t, cs.Moves)
}

func TestEqualIsOrderSensitiveOnMoves(t *testing.T) {
	a := changeset.Changeset{Moves: []changeset.Move{{Source: 0, Destination: 1}, {Source: 2, Destination: 0}}}
	b := changeset.Changeset{Moves: []changeset.Move{{Source: 2, Destination: 0}, {Source: 0, Destination: 1}}}
	assert.False(t, a.Equal(b))
	assert.True(t, a.EquivalentTo(b))
}

func TestEqualOnIndexSets(t *testing.T) {
	a := changeset.Changeset{Inserts: indexset.New(0, 2), Removals: indexset.New(1)}
	b := changeset.Changeset{Inserts: indexset.New(0, 2), Removals: indexset.New(1)}
	c := changeset.Changeset{Inserts: indexset.New(0), Removals: indexset.New(1)}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
