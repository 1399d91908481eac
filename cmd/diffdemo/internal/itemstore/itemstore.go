// Package itemstore is diffdemo's application layer: a small reactive
// list of demo items backed by reactivearray.Array, plus an SSE
// translator that turns each published Snapshot into a sequence of
// insert/remove/mutate/move events a browser-side list view could apply
// directly to its own DOM.
//
// The translator is a concrete demo illustrating what consuming a
// Snapshot stream looks like, not a general-purpose list-view binding —
// a real consumer library would live outside this module entirely.
package itemstore

import (
	"io"
	"math/rand/v2"

	"github.com/edirooss/zmux-server/reactivearray"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Item is the demo's element type.
type Item struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Store wraps a reactivearray.Array[Item] with the mutations diffdemo's
// HTTP handlers need.
type Store struct {
	arr *reactivearray.Array[Item]
}

// New returns an empty Store.
func New() *Store {
	return &Store{arr: reactivearray.New[Item]()}
}

// Array exposes the underlying reactive array, e.g. for Subscribe.
func (s *Store) Array() *reactivearray.Array[Item] {
	return s.arr
}

// Append adds item to the end of the store.
func (s *Store) Append(item Item) {
	s.arr.Modify(func(v *reactivearray.StagingView[Item]) {
		v.Append(item)
	})
}

// RemoveByID removes the item with the given ID, if present, and reports
// whether it found one.
func (s *Store) RemoveByID(id string) bool {
	found := false
	s.arr.Modify(func(v *reactivearray.StagingView[Item]) {
		for i := 0; i < v.Len(); i++ {
			if v.Get(i).ID == id {
				v.Remove(i)
				found = true
				return
			}
		}
	})
	return found
}

// Shuffle randomizes item order. It commits as a wholesale remove-all
// plus insert-all, since StagingView's commit never emits Moves — a
// reordering can't be expressed any more cheaply here.
func (s *Store) Shuffle() {
	s.arr.Modify(func(v *reactivearray.StagingView[Item]) {
		n := v.Len()
		items := make([]Item, n)
		for i := 0; i < n; i++ {
			items[i] = v.Get(i)
		}
		rand.Shuffle(n, func(i, j int) { items[i], items[j] = items[j], items[i] })
		v.RemoveAll()
		v.AppendRange(items)
	})
}

// StreamSSE subscribes to store's array and writes one SSE message per
// edit named in each published Snapshot's changeset, for as long as the
// request's context stays alive. The initial snapshot is sent as a single
// "reload" message carrying the full contents.
func StreamSSE(c *gin.Context, store *Store, log *zap.Logger) {
	ctx := c.Request.Context()
	ch := store.Array().Subscribe(ctx)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(_ io.Writer) bool {
		select {
		case snap, ok := <-ch:
			if !ok {
				return false
			}
			emitSnapshot(c, snap)
			return true
		case <-ctx.Done():
			return false
		}
	})
	log.Debug("stream closed", zap.String("client_ip", c.ClientIP()))
}

func emitSnapshot(c *gin.Context, snap reactivearray.Snapshot[Item]) {
	if !snap.HasPrevious {
		c.SSEvent("reload", snap.Current)
		return
	}

	cs := snap.Changeset
	for _, r := range cs.Removals.ReversedRanges() {
		for i := r.Upper - 1; i >= r.Lower; i-- {
			c.SSEvent("remove", gin.H{"index": i})
		}
	}
	for _, r := range cs.Mutations.Ranges() {
		for i := r.Lower; i < r.Upper; i++ {
			c.SSEvent("mutate", gin.H{"index": i, "item": snap.Current[i]})
		}
	}
	for _, m := range cs.Moves {
		c.SSEvent("move", gin.H{"source": m.Source, "destination": m.Destination, "item": snap.Current[m.Destination]})
	}
	for _, r := range cs.Inserts.Ranges() {
		for i := r.Lower; i < r.Upper; i++ {
			c.SSEvent("insert", gin.H{"index": i, "item": snap.Current[i]})
		}
	}
}
