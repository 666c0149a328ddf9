// Package thaumaturgy builds test fixtures from entity definitions.
//
// A Realm holds one Definition per Entity. A definition's manifester returns
// a value.Object whose fields may reference other entities through RefTo.
// Manifest resolves those references by manifesting the referenced entities
// in turn; Persist additionally hands every object to its entity's persister,
// dependencies first.
//
//	realm := thaumaturgy.New[*sql.Tx]()
//	author := thaumaturgy.NewEntity("Author")
//	post := thaumaturgy.NewEntity("Post")
//
//	_ = realm.Define(author, thaumaturgy.Definition[*sql.Tx]{
//		Manifest: func(opts thaumaturgy.ManifestOptions) value.Object {
//			return value.Object{"id": value.String(opts.Unique())}
//		},
//		Persist: sqlstore.TablePersister("author", nil),
//	})
//	_ = realm.Define(post, thaumaturgy.Definition[*sql.Tx]{
//		Manifest: func(opts thaumaturgy.ManifestOptions) value.Object {
//			return value.Object{
//				"id":       value.String(opts.Unique()),
//				"authorId": thaumaturgy.RefTo(author).Through(thaumaturgy.Field("id")),
//			}
//		},
//		Persist: sqlstore.TablePersister("post", nil),
//	})
//
//	obj, err := realm.Persist(ctx, post, nil, tx)
//
// Batches groups entities into dependency layers, and PersistLeaves persists
// the last layer, which covers every entity of the realm.
package thaumaturgy
