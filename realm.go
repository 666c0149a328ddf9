package thaumaturgy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maxdeviant/thaumaturgy/internal/graph"
	"github.com/maxdeviant/thaumaturgy/value"
)

// Realm is a registry of entity definitions. C is the caller-defined
// context handed to persisters, such as a *sql.Tx.
//
// A Realm is not safe for concurrent use. Tests running in parallel should
// each build their own.
type Realm[C any] struct {
	storage *storage[C]
	cfg     config
}

// New returns an empty realm.
func New[C any](opts ...Option) *Realm[C] {
	return &Realm[C]{
		storage: newStorage[C](),
		cfg:     applyOptions(opts),
	}
}

// Define registers e with its manifester and, when set, its persister and
// sequences. A definition without a manifester fails with MANIFESTER_REQUIRED.
// Defining the same entity twice fails with a DUPLICATE_ENTITY error and
// leaves the first definition in place.
func (r *Realm[C]) Define(e Entity, def Definition[C]) error {
	if def.Manifest == nil {
		return newManifesterRequiredError(e.Name)
	}

	if err := r.storage.registerEntity(e); err != nil {
		return err
	}
	if err := r.storage.registerManifester(e.Name, def.Manifest); err != nil {
		return err
	}
	if def.Persist != nil {
		if err := r.storage.registerPersister(e.Name, def.Persist); err != nil {
			return err
		}
	}
	if def.Sequences != nil {
		r.storage.registerSequences(e.Name, def.Sequences)
	}

	r.cfg.logger.Debug("entity defined",
		"entity", e.Name,
		"persistable", def.Persist != nil,
		"sequences", len(def.Sequences))

	return nil
}

// Manifest builds an object for e with every reference resolved. Fields in
// overrides replace the manifested ones; overridden references are never
// resolved, so the entities they point at are not manifested.
//
// Sequences of e and of every referenced entity advance.
func (r *Realm[C]) Manifest(e Entity, overrides value.Object) (value.Object, error) {
	obj, _, err := r.manifestWithReferences(e, overrides)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// Persist manifests e and persists it together with everything it references.
// Referenced entities are persisted first, deepest dependency first, one at a
// time; e is persisted last and its persister's result is returned.
//
// A failing persister aborts the call. Objects persisted before the failure
// are not rolled back; c is the place for a transaction if that matters.
func (r *Realm[C]) Persist(ctx context.Context, e Entity, overrides value.Object, c C) (value.Object, error) {
	persist, err := r.storage.findPersister(e.Name)
	if err != nil {
		return nil, err
	}

	obj, refs, err := r.manifestWithReferences(e, overrides)
	if err != nil {
		return nil, err
	}

	for i := len(refs) - 1; i >= 0; i-- {
		ref := refs[i]

		refPersist, err := r.storage.findPersister(ref.Entity.Name)
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r.cfg.logger.DebugContext(ctx, "persisting reference",
			"entity", ref.Entity.Name,
			"depth", ref.Depth+1)

		if _, err := refPersist(ctx, ref.Value, c); err != nil {
			return nil, fmt.Errorf("persist %s: %w", ref.Entity.Name, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.cfg.logger.DebugContext(ctx, "persisting entity",
		"entity", e.Name,
		"depth", 0)

	persisted, err := persist(ctx, obj, c)
	if err != nil {
		return nil, fmt.Errorf("persist %s: %w", e.Name, err)
	}
	return persisted, nil
}

// PersistLeaves persists the last dependency layer, the entities nothing else
// references, in registration order. Each leaf brings its own dependencies
// along, so every entity of the realm ends up persisted at least once.
//
// An empty realm fails with a NO_ENTITIES error.
func (r *Realm[C]) PersistLeaves(ctx context.Context, c C) ([]value.Object, error) {
	batches, err := r.Batches()
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, newNoEntitiesError()
	}

	leaves := batches[len(batches)-1]
	persisted := make([]value.Object, 0, len(leaves))
	for _, leaf := range leaves {
		obj, err := r.Persist(ctx, leaf, nil, c)
		if err != nil {
			return nil, err
		}
		persisted = append(persisted, obj)
	}

	return persisted, nil
}

// Batches groups the realm's entities into dependency layers. The first
// batch holds entities that reference nothing; every later batch only
// references entities of earlier batches.
//
// Computing the layers manifests every entity once. Sequence counters are
// restored afterwards, so the call leaves no trace in manifested values.
func (r *Realm[C]) Batches() ([][]Entity, error) {
	entities := r.storage.allEntities()
	names := make([]string, len(entities))
	byName := make(map[string]Entity, len(entities))
	for i, e := range entities {
		names[i] = e.Name
		byName[e.Name] = e
	}

	var g *graph.Graph
	err := r.storage.withSnapshottedSequences(func() error {
		var err error
		g, err = graph.Build(names, r.directReferences)
		return err
	})
	if err != nil {
		return nil, err
	}

	layers, err := g.Batches()
	if err != nil {
		return nil, err
	}

	batches := make([][]Entity, len(layers))
	for i, layer := range layers {
		batches[i] = make([]Entity, len(layer))
		for j, name := range layer {
			batches[i][j] = byName[name]
		}
	}

	r.cfg.logger.Debug("batches computed",
		"entities", len(entities),
		"batches", len(batches))

	return batches, nil
}

// directReferences returns the entity names referenced by name's own fields.
func (r *Realm[C]) directReferences(name string) ([]string, error) {
	_, refs, err := r.manifestWithReferences(NewEntity(name), nil)
	if err != nil {
		return nil, err
	}

	var direct []string
	for _, ref := range refs {
		if ref.Depth == 0 {
			direct = append(direct, ref.Entity.Name)
		}
	}
	return direct, nil
}

// Entities returns the defined entities in registration order.
func (r *Realm[C]) Entities() []Entity {
	return r.storage.allEntities()
}

// Clear removes every definition.
func (r *Realm[C]) Clear() {
	r.storage.clear()
	r.cfg.logger.Debug("realm cleared")
}

// Logger returns the realm's logger.
func (r *Realm[C]) Logger() *slog.Logger {
	return r.cfg.logger
}
