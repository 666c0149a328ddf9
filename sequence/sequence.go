// Package sequence provides monotonic counters that produce distinguishable
// values across repeated manifestations.
//
// A Sequence owns a private counter starting at 1. Next passes the counter to
// the production function and then increments it:
//
//	titles := sequence.New(func(n int) string { return fmt.Sprintf("Post %d", n) })
//	titles.Next() // "Post 1"
//	titles.Next() // "Post 2"
//
// Counters can be captured and restored so that a dry run over manifesters
// does not consume values a later real manifestation would see.
package sequence

import (
	"fmt"
	"sync"
)

// Counter is the type-erased view of a Sequence used for snapshots.
type Counter interface {
	// Counter returns the value the next call to Next will pass to the
	// production function.
	Counter() int

	// Restore resets the counter to a value previously returned by Counter.
	Restore(counter int)
}

// Sequence produces the n-th value of a production function.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Sequence[T any] struct {
	mu      sync.Mutex
	counter int
	produce func(n int) T
}

// New creates a sequence whose first call to Next produces produce(1).
func New[T any](produce func(n int) T) *Sequence[T] {
	return &Sequence[T]{counter: 1, produce: produce}
}

// Next returns the next item in the sequence.
func (s *Sequence[T]) Next() T {
	s.mu.Lock()
	n := s.counter
	s.counter++
	s.mu.Unlock()

	return s.produce(n)
}

// Take returns the next n items in order. n <= 0 yields an empty slice.
func (s *Sequence[T]) Take(n int) []T {
	items := make([]T, 0, max(n, 0))
	for i := 0; i < n; i++ {
		items = append(items, s.Next())
	}
	return items
}

// Counter implements Counter.
func (s *Sequence[T]) Counter() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// Restore implements Counter.
func (s *Sequence[T]) Restore(counter int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter = counter
}

// Set is a collection of named sequences belonging to one entity.
type Set map[string]Counter

// Snapshot holds counter values by sequence name.
type Snapshot map[string]int

// Snapshot captures the counter of every sequence in the set.
func (s Set) Snapshot() Snapshot {
	snap := make(Snapshot, len(s))
	for name, seq := range s {
		snap[name] = seq.Counter()
	}
	return snap
}

// Restore resets counters from snap. Names missing from either side are skipped.
func (s Set) Restore(snap Snapshot) {
	for name, counter := range snap {
		if seq, ok := s[name]; ok {
			seq.Restore(counter)
		}
	}
}

// Lookup returns the sequence registered under name if it produces values of type T.
func Lookup[T any](s Set, name string) (*Sequence[T], bool) {
	seq, ok := s[name].(*Sequence[T])
	return seq, ok
}

// Must is like Lookup but panics when the sequence is missing or produces a
// different type. Intended for manifesters, where a wrong name is a setup bug.
func Must[T any](s Set, name string) *Sequence[T] {
	seq, ok := Lookup[T](s, name)
	if !ok {
		var zero T
		panic(fmt.Sprintf("sequence: no sequence %q producing %T", name, zero))
	}
	return seq
}
