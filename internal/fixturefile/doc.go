// Package fixturefile loads fixture documents: entity definitions written as
// data instead of Go.
//
// A document lists entities with their fields, sequences and an optional
// table. Documents are YAML (.yaml, .yml), JSON (.json, parsed as YAML) or
// CUE (.cue):
//
//	schema: |
//	  CREATE TABLE author (id TEXT PRIMARY KEY, name TEXT NOT NULL);
//	entities:
//	  - name: Author
//	    table: author
//	    sequences:
//	      name: '"Author " + string(n)'
//	    fields:
//	      id: {unique: true}
//	      name: {sequence: name}
//
// Sequence producers and reference projections are expr-lang expressions.
// A sequence expression sees the counter as n. A projection sees the fields
// of the referenced object; a missing field evaluates to nil.
//
// Define registers a document with a realm whose caller context is a
// *sql.Tx; entities with a table persist through sqlstore.TablePersister.
package fixturefile
