package thaumaturgy

import (
	"github.com/maxdeviant/thaumaturgy/sequence"
)

// storage holds the definitions registered with a realm.
type storage[C any] struct {
	entities    []Entity
	names       map[string]struct{}
	manifesters map[string]Manifester
	persisters  map[string]Persister[C]
	sequences   map[string]sequence.Set
}

func newStorage[C any]() *storage[C] {
	s := &storage[C]{}
	s.clear()
	return s
}

// registerEntity records e under its name.
func (s *storage[C]) registerEntity(e Entity) error {
	if _, ok := s.names[e.Name]; ok {
		return newDuplicateEntityError(e.Name)
	}
	s.names[e.Name] = struct{}{}
	s.entities = append(s.entities, e)
	return nil
}

func (s *storage[C]) registerManifester(name string, m Manifester) error {
	if _, ok := s.manifesters[name]; ok {
		return newDuplicateManifesterError(name)
	}
	s.manifesters[name] = m
	return nil
}

func (s *storage[C]) findManifester(name string) (Manifester, error) {
	m, ok := s.manifesters[name]
	if !ok {
		return nil, newManifesterNotFoundError(name)
	}
	return m, nil
}

func (s *storage[C]) registerPersister(name string, p Persister[C]) error {
	if _, ok := s.persisters[name]; ok {
		return newDuplicatePersisterError(name)
	}
	s.persisters[name] = p
	return nil
}

func (s *storage[C]) findPersister(name string) (Persister[C], error) {
	p, ok := s.persisters[name]
	if !ok {
		return nil, newPersisterNotFoundError(name)
	}
	return p, nil
}

func (s *storage[C]) registerSequences(name string, set sequence.Set) {
	s.sequences[name] = set
}

// findSequences returns nil when name has no sequences.
func (s *storage[C]) findSequences(name string) sequence.Set {
	return s.sequences[name]
}

// allEntities returns entities in registration order.
func (s *storage[C]) allEntities() []Entity {
	return append([]Entity(nil), s.entities...)
}

// snapshotSequences captures every sequence counter of every entity.
func (s *storage[C]) snapshotSequences() map[string]sequence.Snapshot {
	snap := make(map[string]sequence.Snapshot, len(s.sequences))
	for name, set := range s.sequences {
		snap[name] = set.Snapshot()
	}
	return snap
}

// restoreSequences resets counters captured by snapshotSequences. Entities
// registered after the snapshot was taken are left alone.
func (s *storage[C]) restoreSequences(snap map[string]sequence.Snapshot) {
	for name, counters := range snap {
		if set, ok := s.sequences[name]; ok {
			set.Restore(counters)
		}
	}
}

// withSnapshottedSequences runs fn and then restores every sequence counter
// to its value before fn ran.
func (s *storage[C]) withSnapshottedSequences(fn func() error) error {
	snap := s.snapshotSequences()
	defer s.restoreSequences(snap)
	return fn()
}

// clear removes all registrations.
func (s *storage[C]) clear() {
	s.entities = nil
	s.names = make(map[string]struct{})
	s.manifesters = make(map[string]Manifester)
	s.persisters = make(map[string]Persister[C])
	s.sequences = make(map[string]sequence.Set)
}
