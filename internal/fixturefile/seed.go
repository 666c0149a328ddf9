package fixturefile

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/maxdeviant/thaumaturgy"
	"github.com/maxdeviant/thaumaturgy/sqlstore"
	"github.com/maxdeviant/thaumaturgy/value"
)

// SeedOptions configures Seed.
type SeedOptions struct {
	// Entity persists one entity and its dependencies. Empty persists the
	// leaves of the document.
	Entity string

	// Realm options, such as a logger or a deterministic unique generator.
	RealmOptions []thaumaturgy.Option
}

// Record is one row written during a seed.
type Record struct {
	Entity string       `json:"entity"`
	Table  string       `json:"table"`
	Object value.Object `json:"object"`
}

// SeedResult describes a completed seed.
type SeedResult struct {
	// Records lists rows in insertion order.
	Records []Record

	// Persisted holds the objects returned for the requested entities.
	Persisted []value.Object
}

// Seed applies the document schema to store and persists fixtures inside a
// single transaction. Nothing is committed when any insert fails.
func Seed(ctx context.Context, store *sqlstore.Store, doc *Document, opts SeedOptions) (*SeedResult, error) {
	if opts.Entity != "" {
		if _, ok := doc.Entity(opts.Entity); !ok {
			return nil, fmt.Errorf("unknown entity %q", opts.Entity)
		}
	}

	result := &SeedResult{}

	realm := thaumaturgy.New[*sql.Tx](opts.RealmOptions...)
	err := define(realm, doc, func(e EntitySpec, persist thaumaturgy.Persister[*sql.Tx]) thaumaturgy.Persister[*sql.Tx] {
		return func(ctx context.Context, obj value.Object, tx *sql.Tx) (value.Object, error) {
			stored, err := persist(ctx, obj, tx)
			if err != nil {
				return nil, err
			}
			result.Records = append(result.Records, Record{Entity: e.Name, Table: e.Table, Object: stored})
			return stored, nil
		}
	})
	if err != nil {
		return nil, err
	}

	if doc.Schema != "" {
		if err := store.Apply(ctx, doc.Schema); err != nil {
			return nil, err
		}
	}

	err = store.WithTx(ctx, func(tx *sql.Tx) error {
		if opts.Entity != "" {
			obj, err := realm.Persist(ctx, thaumaturgy.NewEntity(opts.Entity), nil, tx)
			if err != nil {
				return err
			}
			result.Persisted = []value.Object{obj}
			return nil
		}

		leaves, err := realm.PersistLeaves(ctx, tx)
		if err != nil {
			return err
		}
		result.Persisted = leaves
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	return result, nil
}

// canonical returns the snapshot form of a seed result.
func (r *SeedResult) canonical() map[string]any {
	records := make([]any, len(r.Records))
	for i, rec := range r.Records {
		records[i] = map[string]any{
			"entity": rec.Entity,
			"table":  rec.Table,
			"object": rec.Object,
		}
	}

	persisted := make([]any, len(r.Persisted))
	for i, obj := range r.Persisted {
		persisted[i] = obj
	}

	return map[string]any{
		"records":   records,
		"persisted": persisted,
	}
}

// MarshalCanonical renders the result as canonical JSON, suitable for
// snapshots.
func (r *SeedResult) MarshalCanonical() ([]byte, error) {
	return value.MarshalCanonical(r.canonical())
}
