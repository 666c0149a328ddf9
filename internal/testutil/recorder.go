package testutil

import (
	"context"
	"sync"

	"github.com/maxdeviant/thaumaturgy/value"
)

// Call is one recorded persister invocation.
type Call struct {
	Entity string
	Object value.Object
}

// Recorder records persister invocations in call order.
//
// Persister returns a function assignable to thaumaturgy.Persister[C]:
//
//	rec := testutil.NewRecorder[any]()
//	realm.Define(Author, thaumaturgy.Definition[any]{
//		Manifest: manifestAuthor,
//		Persist:  rec.Persister("Author"),
//	})
//
// Thread-safety: Recorder is safe for concurrent use via internal mutex.
type Recorder[C any] struct {
	mu    sync.Mutex
	calls []Call
	fail  map[string]error
}

// NewRecorder creates an empty recorder.
func NewRecorder[C any]() *Recorder[C] {
	return &Recorder[C]{fail: make(map[string]error)}
}

// Persister returns a persister for entity that records each call and
// returns the object unchanged, or the error set with FailOn.
func (r *Recorder[C]) Persister(entity string) func(ctx context.Context, obj value.Object, c C) (value.Object, error) {
	return func(ctx context.Context, obj value.Object, c C) (value.Object, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, Call{Entity: entity, Object: obj})
		if err := r.fail[entity]; err != nil {
			return nil, err
		}
		return obj, nil
	}
}

// FailOn makes persisters for entity return err. The failing call is still
// recorded.
func (r *Recorder[C]) FailOn(entity string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[entity] = err
}

// Calls returns a copy of the recorded calls.
func (r *Recorder[C]) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Entities returns the entity of each recorded call, in order.
func (r *Recorder[C]) Entities() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.calls))
	for i, call := range r.calls {
		names[i] = call.Entity
	}
	return names
}

// Count returns how many times entity was persisted.
func (r *Recorder[C]) Count(entity string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, call := range r.calls {
		if call.Entity == entity {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls. Failures set with FailOn are kept.
func (r *Recorder[C]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
