// Package events provides typed publish/subscribe topics.
//
// A Topic delivers each published value to every current subscriber,
// synchronously and in subscription order, on the publisher's goroutine.
// Subscribing returns a Subscription whose Unsubscribe detaches the handler;
// a detached handler is never called again, including by a Publish that is
// already iterating.
package events

import (
	"sync"
)

// Topic is a typed event channel.
// The zero value is ready to use.
type Topic[T any] struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[uint64]*handler[T]
	order    []uint64
}

type handler[T any] struct {
	fn     func(T)
	active bool
}

// Subscription is returned by Subscribe.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe detaches the handler. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// NewTopic returns an empty topic.
func NewTopic[T any]() *Topic[T] {
	return &Topic[T]{}
}

// Subscribe registers fn for every value published after this call.
func (t *Topic[T]) Subscribe(fn func(T)) *Subscription {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.handlers == nil {
		t.handlers = make(map[uint64]*handler[T])
	}
	t.nextID++
	id := t.nextID
	t.handlers[id] = &handler[T]{fn: fn, active: true}
	t.order = append(t.order, id)

	return &Subscription{cancel: func() { t.remove(id) }}
}

func (t *Topic[T]) remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h, ok := t.handlers[id]
	if !ok {
		return
	}
	h.active = false
	delete(t.handlers, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Publish delivers v to every subscriber and returns how many received it.
func (t *Topic[T]) Publish(v T) int {
	t.mu.Lock()
	snapshot := make([]*handler[T], 0, len(t.order))
	for _, id := range t.order {
		snapshot = append(snapshot, t.handlers[id])
	}
	t.mu.Unlock()

	delivered := 0
	for _, h := range snapshot {
		// A handler earlier in this loop may have unsubscribed a later one.
		t.mu.Lock()
		active := h.active
		t.mu.Unlock()
		if !active {
			continue
		}
		h.fn(v)
		delivered++
	}
	return delivered
}

// Len returns the number of current subscribers.
func (t *Topic[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handlers)
}
