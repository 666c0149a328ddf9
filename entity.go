package thaumaturgy

import (
	"context"

	"github.com/maxdeviant/thaumaturgy/sequence"
	"github.com/maxdeviant/thaumaturgy/value"
)

// Entity is a handle for one kind of fixture. Identity is by Name.
type Entity struct {
	Name string
}

// NewEntity returns the entity handle for name.
func NewEntity(name string) Entity {
	return Entity{Name: name}
}

// String returns the entity name.
func (e Entity) String() string { return e.Name }

// ManifestOptions is passed to a Manifester on every call.
type ManifestOptions struct {
	// Unique returns a fresh unique string, a UUID unless the realm was
	// configured with WithUniqueGenerator.
	Unique func() string

	// Sequences are the sequences registered for the entity. Nil when the
	// entity has none.
	Sequences sequence.Set
}

// Manifester produces the raw object for an entity. Fields may hold
// value.Ref values anywhere inside Object, Array, Option or Either values.
//
// Manifesters must not have side effects: building the dependency graph
// calls every manifester once and discards the result.
type Manifester func(opts ManifestOptions) value.Object

// Persister stores a manifested object and returns the stored form.
// c is the caller-defined context (a transaction handle, for example),
// passed unchanged to every persister within one Persist or PersistLeaves call.
type Persister[C any] func(ctx context.Context, obj value.Object, c C) (value.Object, error)

// Definition describes how to manifest and optionally persist an entity.
type Definition[C any] struct {
	// Manifest is required.
	Manifest Manifester

	// Persist is optional. Entities without one cannot be persisted.
	Persist Persister[C]

	// Sequences are offered to Manifest through ManifestOptions.
	Sequences sequence.Set
}
