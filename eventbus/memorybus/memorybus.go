// Package memorybus is an in-process eventbus.Bus: a fan-out of published
// Snapshots to any number of same-process subscribers, with no external
// dependency.
package memorybus

import (
	"context"
	"sync"

	"github.com/edirooss/zmux-server/reactivearray"
)

// Bus is an in-process eventbus.Bus[T]/eventbus.Publisher[T]. The zero
// value is not usable; construct with New.
type Bus[T any] struct {
	mu          sync.Mutex
	subscribers map[*subscriber[T]]struct{}
	last        reactivearray.Snapshot[T]
	hasLast     bool
	closed      bool
}

type subscriber[T any] struct {
	events chan reactivearray.Snapshot[T]
}

// New returns an empty Bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{subscribers: make(map[*subscriber[T]]struct{})}
}

// Subscribe registers sub and immediately delivers the most recently
// published snapshot, if any, as the synchronous initial value. The
// returned channel closes when ctx is done or the bus is closed.
func (b *Bus[T]) Subscribe(ctx context.Context) <-chan reactivearray.Snapshot[T] {
	sub := &subscriber[T]{events: make(chan reactivearray.Snapshot[T], 1)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.events)
		return sub.events
	}
	b.subscribers[sub] = struct{}{}
	last, hasLast := b.last, b.hasLast
	b.mu.Unlock()

	if hasLast {
		sub.events <- last
	}

	go func() {
		<-ctx.Done()
		b.removeSubscriber(sub)
	}()

	return sub.events
}

// Publish fans snap out to every live subscriber and remembers it as the
// value future subscribers receive as their initial snapshot.
func (b *Bus[T]) Publish(snap reactivearray.Snapshot[T]) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.last = snap
	b.hasLast = true
	subs := make([]*subscriber[T], 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		sub.events <- snap
	}
}

// Close terminates every live subscriber channel. A Bus is not usable
// after Close.
func (b *Bus[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for sub := range b.subscribers {
		close(sub.events)
	}
	b.subscribers = nil
	return nil
}

func (b *Bus[T]) removeSubscriber(sub *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[sub]; ok {
		delete(b.subscribers, sub)
		close(sub.events)
	}
}
