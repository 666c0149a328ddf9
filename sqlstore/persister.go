package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/maxdeviant/thaumaturgy"
	"github.com/maxdeviant/thaumaturgy/value"
)

// ErrNoTx is returned by table persisters called without a transaction.
var ErrNoTx = errors.New("sqlstore: nil transaction")

// TablePersister returns a persister inserting each object as one row of
// table. Fields map to columns of the same name unless columns renames them.
// The object is returned unchanged.
//
// Column values are converted as follows:
//   - String, Int, Float, Bool: stored natively
//   - Null, None: NULL
//   - Some, Left, Right: the wrapped value, converted recursively
//   - Array, Object: JSON text
func TablePersister(table string, columns map[string]string) thaumaturgy.Persister[*sql.Tx] {
	return func(ctx context.Context, obj value.Object, tx *sql.Tx) (value.Object, error) {
		if tx == nil {
			return nil, ErrNoTx
		}

		stmt, args, err := insertStatement(table, columns, obj)
		if err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return nil, fmt.Errorf("insert into %s: %w", table, err)
		}
		return obj, nil
	}
}

// insertStatement builds the INSERT for obj with fields in sorted order.
func insertStatement(table string, columns map[string]string, obj value.Object) (string, []any, error) {
	keys := obj.SortedKeys()
	if len(keys) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", quoteIdent(table)), nil, nil
	}

	cols := make([]string, len(keys))
	marks := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, key := range keys {
		col := key
		if renamed, ok := columns[key]; ok && renamed != "" {
			col = renamed
		}

		arg, err := columnValue(obj[key])
		if err != nil {
			return "", nil, fmt.Errorf("insert into %s: column %s: %w", table, col, err)
		}

		cols[i] = quoteIdent(col)
		marks[i] = "?"
		args[i] = arg
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table),
		strings.Join(cols, ", "),
		strings.Join(marks, ", "))
	return stmt, args, nil
}

// columnValue converts a field value to a database/sql argument.
func columnValue(v value.Value) (any, error) {
	switch val := v.(type) {
	case nil, value.Null:
		return nil, nil
	case value.String:
		return string(val), nil
	case value.Int:
		return int64(val), nil
	case value.Float:
		return float64(val), nil
	case value.Bool:
		return bool(val), nil
	case value.Option:
		inner, ok := val.Get()
		if !ok {
			return nil, nil
		}
		return columnValue(inner)
	case value.Either:
		inner, _ := val.Get()
		return columnValue(inner)
	case value.Array, value.Object:
		data, err := value.Marshal(val)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	case value.Ref:
		return nil, fmt.Errorf("unresolved reference to %q", val.Entity)
	default:
		return nil, fmt.Errorf("unsupported value %T", v)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
