// Package sqlstore persists manifested fixtures into SQLite.
//
// A Store wraps one database file. Fixture schemas are applied with Apply,
// and TablePersister builds a persister that inserts an object as one row:
//
//	realm.Define(Author, thaumaturgy.Definition[*sql.Tx]{
//		Manifest: manifestAuthor,
//		Persist:  sqlstore.TablePersister("author", nil),
//	})
//
// Persisters run inside the transaction passed as the realm's caller context,
// so a failed PersistLeaves can be rolled back as a whole.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s for locks
//   - foreign_keys=ON: Enforce referential integrity
//   - One open connection: SQLite has a single writer
package sqlstore
